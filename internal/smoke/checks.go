package smoke

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/benz9527/xcollections/lib/infra"
	"github.com/benz9527/xcollections/lib/list"
	"github.com/benz9527/xcollections/lib/queue"
	"github.com/benz9527/xcollections/lib/stack"
	"github.com/benz9527/xcollections/lib/xlog"
	"github.com/benz9527/xcollections/observability"
)

var ErrCheckFailed = errors.New("[smoke] check failed")

const (
	CheckSplitOff = "split_off"
	CheckLIFO     = "lifo"
	CheckFIFO     = "fifo"
	CheckSplice   = "splice"
	CheckClone    = "clone"
	CheckTeardown = "teardown"
)

const (
	// Splice splits at every index, so it is quadratic in size.
	spliceMaxSize = 1024
	teardownSize  = 100_000
)

// checkEnv is shared read only by the concurrently running checks.
// Every check builds its own lists.
type checkEnv struct {
	size   int
	logger xlog.XLogger
	stats  *observability.CheckStats
}

type Check struct {
	Name string
	run  func(ctx context.Context, env *checkEnv) error
}

func Checks() []Check {
	return []Check{
		{Name: CheckSplitOff, run: checkSplitOff},
		{Name: CheckLIFO, run: checkLIFO},
		{Name: CheckFIFO, run: checkFIFO},
		{Name: CheckSplice, run: checkSplice},
		{Name: CheckClone, run: checkClone},
		{Name: CheckTeardown, run: checkTeardown},
	}
}

func checkFailed(check, format string, args ...any) error {
	return infra.WrapErrorStackWithMessage(ErrCheckFailed, check+": "+fmt.Sprintf(format, args...))
}

func checkSplitOff(_ context.Context, env *checkEnv) error {
	values := lo.Range(env.size)
	l := list.NewSinglyLinkedListFrom(values...)
	at := env.size / 2
	second := l.SplitOff(int64(at))
	if !list.Equal(l, list.NewSinglyLinkedListFrom(values[:at]...)) {
		return checkFailed(CheckSplitOff, "first half %s", l)
	}
	if !list.Equal(second, list.NewSinglyLinkedListFrom(values[at:]...)) {
		return checkFailed(CheckSplitOff, "second half %s", second)
	}
	return nil
}

func checkLIFO(_ context.Context, env *checkEnv) error {
	s := stack.NewLinkedStack[int]()
	for _, v := range lo.Range(env.size) {
		s.Push(v)
	}
	for _, expected := range lo.Reverse(lo.Range(env.size)) {
		if v, ok := s.Pop(); !ok || v != expected {
			return checkFailed(CheckLIFO, "pop (%d, %v), expected %d", v, ok, expected)
		}
	}
	if _, ok := s.Pop(); ok || !s.IsEmpty() {
		return checkFailed(CheckLIFO, "stack not drained, len %d", s.Len())
	}
	return nil
}

func checkFIFO(_ context.Context, env *checkEnv) error {
	q := queue.NewLinkedQueue[int]()
	for _, v := range lo.Range(env.size) {
		q.Push(v)
	}
	for _, expected := range lo.Range(env.size) {
		if v, ok := q.Pop(); !ok || v != expected {
			return checkFailed(CheckFIFO, "pop (%d, %v), expected %d", v, ok, expected)
		}
	}
	if _, ok := q.Pop(); ok || !q.IsEmpty() {
		return checkFailed(CheckFIFO, "queue not drained, len %d", q.Len())
	}
	return nil
}

func checkSplice(ctx context.Context, env *checkEnv) error {
	size := min(env.size, spliceMaxSize)
	expected := list.NewSinglyLinkedListFrom(lo.Range(size)...)
	for at := 0; at <= size; at++ {
		if err := ctx.Err(); err != nil {
			return infra.WrapErrorStack(err)
		}
		l := expected.Clone()
		second := l.SplitOff(int64(at))
		l.Append(second)
		if !second.IsEmpty() || !list.Equal(l, expected) {
			return checkFailed(CheckSplice, "split at %d then append gives %s", at, l)
		}
	}
	return nil
}

func checkClone(_ context.Context, _ *checkEnv) error {
	l := list.NewSinglyLinkedListFrom(1, 2, 3)
	c := l.Clone()
	*c.FrontMut() = 100
	c.PushBack(4)
	if !list.Equal(l, list.NewSinglyLinkedListFrom(1, 2, 3)) {
		return checkFailed(CheckClone, "original changed to %s", l)
	}

	longer := list.NewSinglyLinkedListFrom(lo.Range(10)...)
	longer.CloneFrom(l)
	if !list.Equal(longer, l) {
		return checkFailed(CheckClone, "clone from shorter gives %s", longer)
	}
	l.CloneFrom(c)
	if !list.Equal(l, c) {
		return checkFailed(CheckClone, "clone from longer gives %s", l)
	}
	return nil
}

func checkTeardown(ctx context.Context, env *checkEnv) error {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		env.logger.WarnContext(ctx, "unable to sample rss", zap.Error(err))
		proc = nil
	}
	before := sampleRSS(ctx, proc)

	arena := list.NewNodeArena[int]()
	l := list.NewSinglyLinkedListIn(arena)
	for i := 0; i < teardownSize; i++ {
		l.PushBack(i)
	}
	if l.Len() != teardownSize {
		return checkFailed(CheckTeardown, "len %d, expected %d", l.Len(), teardownSize)
	}
	l.Clear()
	if !l.IsEmpty() {
		return checkFailed(CheckTeardown, "len %d after clear", l.Len())
	}
	if _, ok := l.Front(); ok {
		return checkFailed(CheckTeardown, "front present after clear")
	}
	if arena.Len() != 0 || arena.Cap() != 0 {
		return checkFailed(CheckTeardown, "arena keeps %d nodes in %d slots after clear", arena.Len(), arena.Cap())
	}

	if proc != nil {
		delta := int64(sampleRSS(ctx, proc)) - int64(before)
		env.stats.RecordRSSDelta(ctx, delta)
		env.logger.DebugContext(ctx, "teardown rss delta",
			zap.Int("elements", teardownSize),
			zap.Int64("bytes", delta),
		)
	}
	return nil
}

func sampleRSS(ctx context.Context, proc *process.Process) uint64 {
	if proc == nil {
		return 0
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil || mem == nil {
		return 0
	}
	return mem.RSS
}
