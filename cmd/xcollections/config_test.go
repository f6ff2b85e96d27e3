package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xcollections/lib/xlog"
	"github.com/benz9527/xcollections/observability"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags([]string{})
	require.NoError(t, err)
	require.Equal(t, 1000, cfg.smoke.Size)
	require.Equal(t, 1, cfg.smoke.Rounds)
	require.Equal(t, 4, cfg.smoke.Workers)
	require.Equal(t, observability.NoneMetricsExporter, cfg.metrics)
	require.Equal(t, ":9464", cfg.metricsAddr)
	require.Equal(t, 10*time.Second, cfg.metricsInterval)
	require.Len(t, cfg.loggerOptions(), 3)
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"--size", "10",
		"--rounds=3",
		"--workers", "2",
		"--metrics", "prometheus",
		"--metrics-addr", "127.0.0.1:0",
		"--log-level", "WARN",
		"--log-encoder", "plaintext",
	})
	require.NoError(t, err)
	require.Equal(t, 10, cfg.smoke.Size)
	require.Equal(t, 3, cfg.smoke.Rounds)
	require.Equal(t, 2, cfg.smoke.Workers)
	require.Equal(t, observability.PrometheusMetricsExporter, cfg.metrics)
	enc, err := cfg.encoder()
	require.NoError(t, err)
	require.Equal(t, xlog.PlainText, enc)
	require.Len(t, cfg.loggerOptions(), 4)
}

func TestParseFlags_Invalid(t *testing.T) {
	testcases := []struct {
		name string
		args []string
	}{
		{"unknown exporter", []string{"--metrics", "otlp"}},
		{"unknown encoder", []string{"--log-encoder", "xml"}},
		{"not a number", []string{"--size", "ten"}},
		{"unknown flag", []string{"--verbose"}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseFlags(tc.args)
			require.Error(t, err)
		})
	}
}
