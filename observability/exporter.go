package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xcollections/lib/infra"
)

type MetricsExporterType string

const (
	NoneMetricsExporter       MetricsExporterType = "none"
	StdoutMetricsExporter     MetricsExporterType = "stdout"
	PrometheusMetricsExporter MetricsExporterType = "prometheus"
)

func (typ MetricsExporterType) String() string {
	return string(typ)
}

// Set implements pflag.Value.
func (typ *MetricsExporterType) Set(v string) error {
	switch MetricsExporterType(v) {
	case NoneMetricsExporter, StdoutMetricsExporter, PrometheusMetricsExporter:
		*typ = MetricsExporterType(v)
		return nil
	default:
	}
	return infra.NewErrorStack("unknown metrics exporter " + v + ", expect none|stdout|prometheus")
}

func (typ *MetricsExporterType) Type() string {
	return "exporter"
}

type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// InstallMeterProvider replaces the global meter provider according to
// typ. The returned callback flushes and stops the exporter.
func InstallMeterProvider(typ MetricsExporterType, interval time.Duration) (ShutdownFunc, error) {
	switch typ {
	case StdoutMetricsExporter:
		return newConsoleMetricsExporter(interval, interval)
	case PrometheusMetricsExporter:
		return newPrometheusMetricsExporter()
	case NoneMetricsExporter, "":
		return noopShutdown, nil
	default:
	}
	return nil, infra.NewErrorStack("unknown metrics exporter " + typ.String())
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownFunc, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
// The exporter registers into the prometheus default registerer.
func newPrometheusMetricsExporter() (ShutdownFunc, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
