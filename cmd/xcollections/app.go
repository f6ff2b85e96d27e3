package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/benz9527/xcollections/internal/smoke"
	"github.com/benz9527/xcollections/lib/infra"
	"github.com/benz9527/xcollections/lib/xlog"
	"github.com/benz9527/xcollections/observability"
)

const appName = "xcollections"

// runResult keeps the exit code of the checks for the signal driven
// shutdown of the prometheus mode.
type runResult struct {
	code atomic.Int32
}

func appOptions(cfg *appConfig) []fx.Option {
	return []fx.Option{
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newMeterProvider,
			newCheckStats,
			newRunner,
			func() *runResult { return &runResult{} },
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(registerLoggerSync, registerMetricsServer, registerChecks),
	}
}

func newLogger(cfg *appConfig) xlog.XLogger {
	return xlog.NewXLogger(cfg.loggerOptions()...)
}

func registerLoggerSync(lc fx.Lifecycle, logger xlog.XLogger) {
	lc.Append(fx.StopHook(func() {
		// Syncing a terminal stdout returns EINVAL.
		_ = logger.Sync()
	}))
}

func newMeterProvider(lc fx.Lifecycle, cfg *appConfig, logger xlog.XLogger) (metric.MeterProvider, error) {
	shutdown, err := observability.InstallMeterProvider(cfg.metrics, cfg.metricsInterval)
	if err != nil {
		return nil, err
	}
	observability.InitAppStats(appName)
	lc.Append(fx.StopHook(func(ctx context.Context) error {
		logger.Debug("metrics exporter shutdown", zap.String("exporter", cfg.metrics.String()))
		return shutdown(ctx)
	}))
	return otel.GetMeterProvider(), nil
}

func newCheckStats(mp metric.MeterProvider) *observability.CheckStats {
	return observability.NewCheckStats("smoke", mp)
}

func newRunner(lc fx.Lifecycle, cfg *appConfig, logger xlog.XLogger, stats *observability.CheckStats) (*smoke.Runner, error) {
	r, err := smoke.NewRunner(cfg.smoke, logger, stats)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(r.Release))
	return r, nil
}

func registerMetricsServer(lc fx.Lifecycle, cfg *appConfig, logger xlog.XLogger) {
	if cfg.metrics != observability.PrometheusMetricsExporter {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.MetricsHandler())
	srv := &http.Server{
		Addr:              cfg.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return infra.WrapErrorStack(err)
			}
			logger.Info("metrics server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.ErrorStack(infra.WrapErrorStack(err), "metrics server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// registerChecks runs the checks in the background once the app is
// started. Except in the prometheus mode, the app shuts itself down
// with the checks' exit code when they finish.
func registerChecks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *appConfig,
	runner *smoke.Runner,
	logger xlog.XLogger,
	result *runResult,
) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				code := 0
				if err := runner.Run(ctx); err != nil {
					code = 1
				}
				result.code.Store(int32(code))
				if cfg.metrics == observability.PrometheusMetricsExporter {
					logger.Info("checks finished, serving metrics until interrupted")
					return
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Error(err, "shutdown failed")
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return infra.WrapErrorStack(stopCtx.Err())
			}
		},
	})
}
