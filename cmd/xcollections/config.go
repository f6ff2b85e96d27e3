package main

import (
	"time"

	flag "github.com/spf13/pflag"

	"github.com/benz9527/xcollections/internal/smoke"
	"github.com/benz9527/xcollections/lib/infra"
	"github.com/benz9527/xcollections/lib/xlog"
	"github.com/benz9527/xcollections/observability"
)

type appConfig struct {
	smoke           smoke.Config
	metrics         observability.MetricsExporterType
	metricsAddr     string
	metricsInterval time.Duration
	logLevel        string
	logEncoder      string
}

func parseFlags(args []string) (*appConfig, error) {
	cfg := &appConfig{
		metrics: observability.NoneMetricsExporter,
	}
	fs := flag.NewFlagSet("xcollections", flag.ContinueOnError)
	fs.IntVar(&cfg.smoke.Size, "size", 1000, "elements pushed by each check")
	fs.IntVar(&cfg.smoke.Rounds, "rounds", 1, "times every check is executed")
	fs.IntVar(&cfg.smoke.Workers, "workers", 4, "goroutine pool capacity")
	fs.Var(&cfg.metrics, "metrics", "metrics exporter, none|stdout|prometheus")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", ":9464", "prometheus /metrics listen address")
	fs.DurationVar(&cfg.metricsInterval, "metrics-interval", 10*time.Second, "stdout exporter interval")
	fs.StringVar(&cfg.logLevel, "log-level", "", "DEBUG|INFO|WARN|ERROR, XLOG_LVL if empty")
	fs.StringVar(&cfg.logEncoder, "log-encoder", "json", "json|plaintext")
	if err := fs.Parse(args); err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	if _, err := cfg.encoder(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *appConfig) encoder() (xlog.LogEncoderType, error) {
	switch cfg.logEncoder {
	case "json", "":
		return xlog.JSON, nil
	case "plaintext":
		return xlog.PlainText, nil
	default:
	}
	return xlog.JSON, infra.NewErrorStack("unknown log encoder " + cfg.logEncoder + ", expect json|plaintext")
}

func (cfg *appConfig) loggerOptions() []xlog.XLoggerOption {
	enc, _ := cfg.encoder()
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerConsoleCore(),
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerWriter(xlog.StdOut),
	}
	if cfg.logLevel != "" {
		opts = append(opts, xlog.WithXLoggerLevel(xlog.LogLevel(cfg.logLevel)))
	}
	return opts
}
