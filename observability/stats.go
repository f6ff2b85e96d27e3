package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	once sync.Once
)

func meterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("xcollections/app/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// InitAppStats starts the Go runtime instruments once per process on
// the global meter provider.
func InitAppStats(name string) {
	once.Do(func() {
		_ = lo.Must[metric.Int64ObservableUpDownCounter](otel.Meter(
			meterName(name),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		).Int64ObservableUpDownCounter(
			"app.core.goroutines",
			metric.WithDescription(`The application goroutines' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.NumGoroutine()))
				return nil
			}),
		))
		_ = lo.Must[metric.Int64ObservableUpDownCounter](otel.Meter(
			meterName(name),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		).Int64ObservableUpDownCounter(
			"app.core.processes",
			metric.WithDescription(`The application processes' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.GOMAXPROCS(0)))
				return nil
			}),
		))
		_ = otelruntime.Start()
	})
}

// CheckStats records the smoke check outcomes.
type CheckStats struct {
	checks   metric.Int64Counter
	duration metric.Float64Histogram
	rss      metric.Int64Histogram
}

// NewCheckStats uses the global meter provider if mp is nil.
func NewCheckStats(name string, mp metric.MeterProvider) *CheckStats {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName(name))
	return &CheckStats{
		checks: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"smoke.checks",
			metric.WithDescription(`The executed smoke checks, by check and result.`),
		)),
		duration: lo.Must[metric.Float64Histogram](meter.Float64Histogram(
			"smoke.check.duration",
			metric.WithDescription(`The smoke check execution time.`),
			metric.WithUnit("s"),
		)),
		rss: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"smoke.teardown.rss.delta",
			metric.WithDescription(`The process RSS change after clearing a large list.`),
			metric.WithUnit("By"),
		)),
	}
}

func (stats *CheckStats) RecordCheck(ctx context.Context, check string, elapsed time.Duration, err error) {
	if stats == nil {
		return
	}
	result := "passed"
	if err != nil {
		result = "failed"
	}
	stats.checks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("result", result),
	))
	stats.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("check", check),
	))
}

func (stats *CheckStats) RecordRSSDelta(ctx context.Context, delta int64) {
	if stats == nil {
		return
	}
	stats.rss.Record(ctx, delta)
}
