package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/benz9527/xcollections/internal/smoke"
	"github.com/benz9527/xcollections/observability"
)

func testConfig() *appConfig {
	return &appConfig{
		smoke: smoke.Config{
			Size:    32,
			Rounds:  2,
			Workers: 2,
		},
		metrics:    observability.NoneMetricsExporter,
		logLevel:   "ERROR",
		logEncoder: "json",
	}
}

func TestAppOptions_Validate(t *testing.T) {
	require.NoError(t, fx.ValidateApp(appOptions(testConfig())...))
}

func TestApp_RunsChecksAndShutsDown(t *testing.T) {
	var result *runResult
	app := fxtest.New(t, append(appOptions(testConfig()), fx.Populate(&result))...)
	wait := app.Wait()
	app.RequireStart()
	sig := <-wait
	app.RequireStop()
	require.Equal(t, 0, sig.ExitCode)
	require.Equal(t, int32(0), result.code.Load())
}

func TestApp_InvalidRunnerConfig(t *testing.T) {
	cfg := testConfig()
	cfg.smoke.Workers = 0
	require.Equal(t, 2, run(cfg))
}

func TestRun(t *testing.T) {
	require.Equal(t, 0, run(testConfig()))
}
