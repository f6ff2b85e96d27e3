package smoke

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xcollections/lib/infra"
	"github.com/benz9527/xcollections/lib/xlog"
	"github.com/benz9527/xcollections/observability"
)

type Config struct {
	Size    int
	Rounds  int
	Workers int
}

func (cfg Config) validate() error {
	if cfg.Size < 0 {
		return infra.NewErrorStack(fmt.Sprintf("[smoke] negative size %d", cfg.Size))
	}
	if cfg.Rounds <= 0 {
		return infra.NewErrorStack(fmt.Sprintf("[smoke] rounds %d, expected at least 1", cfg.Rounds))
	}
	if cfg.Workers <= 0 {
		return infra.NewErrorStack(fmt.Sprintf("[smoke] workers %d, expected at least 1", cfg.Workers))
	}
	return nil
}

// Runner executes every check Rounds times on a bounded goroutine pool.
type Runner struct {
	cfg    Config
	checks []Check
	env    *checkEnv
	pool   *ants.Pool
}

func NewRunner(cfg Config, logger xlog.XLogger, stats *observability.CheckStats) (*Runner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(
		cfg.Workers,
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
	)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return &Runner{
		cfg:    cfg,
		checks: Checks(),
		env: &checkEnv{
			size:   cfg.Size,
			logger: logger,
			stats:  stats,
		},
		pool: pool,
	}, nil
}

// Run blocks until all submitted checks finish. The failures of all
// rounds are combined into the returned error.
func (r *Runner) Run(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		lock sync.Mutex
		errs error
	)
	appendErr := func(err error) {
		lock.Lock()
		errs = multierr.Append(errs, err)
		lock.Unlock()
	}

	start := time.Now()
submit:
	for round := 0; round < r.cfg.Rounds; round++ {
		for _, check := range r.checks {
			if err := ctx.Err(); err != nil {
				appendErr(infra.WrapErrorStack(err))
				break submit
			}
			wg.Add(1)
			err := r.pool.Submit(func() {
				defer wg.Done()
				if err := r.runOne(ctx, round, check); err != nil {
					appendErr(err)
				}
			})
			if err != nil {
				wg.Done()
				appendErr(infra.WrapErrorStack(err))
			}
		}
	}
	wg.Wait()

	failed := len(multierr.Errors(errs))
	fields := []zap.Field{
		zap.Int("rounds", r.cfg.Rounds),
		zap.Int("checks", len(r.checks)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	}
	if errs != nil {
		r.env.logger.ErrorContext(ctx, errs, "smoke checks failed", fields...)
		return errs
	}
	r.env.logger.InfoContext(ctx, "smoke checks passed", fields...)
	return nil
}

// runOne turns a panic of the collections into a failure of the check.
func (r *Runner) runOne(ctx context.Context, round int, check Check) (err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			if recErr, ok := rec.(error); ok {
				err = infra.WrapErrorStackWithMessage(recErr, check.Name+" panicked")
			} else {
				err = checkFailed(check.Name, "panicked: %v", rec)
			}
		}
		elapsed := time.Since(start)
		r.env.stats.RecordCheck(ctx, check.Name, elapsed, err)
		if err != nil {
			r.env.logger.ErrorStackContext(ctx, err, "check failed",
				zap.String("check", check.Name),
				zap.Int("round", round),
			)
			return
		}
		r.env.logger.DebugContext(ctx, "check passed",
			zap.String("check", check.Name),
			zap.Int("round", round),
			zap.Duration("elapsed", elapsed),
		)
	}()
	return check.run(ctx, r.env)
}

func (r *Runner) Release() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Release()
}
