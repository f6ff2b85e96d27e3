package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xcollections/lib/infra"
)

type testMemOutWriter struct {
	lock sync.Mutex
	data []byte
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *testMemOutWriter) Sync() error { return nil }

func (w *testMemOutWriter) lines(t *testing.T) []map[string]any {
	w.lock.Lock()
	defer w.lock.Unlock()
	res := make([]map[string]any, 0, 8)
	for _, line := range bytes.Split(bytes.TrimSpace(w.data), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(line, &m), string(line))
		res = append(res, m)
	}
	return res
}

func newTestMemLogger(t *testing.T, opts ...XLoggerOption) (XLogger, *testMemOutWriter) {
	w := &testMemOutWriter{data: make([]byte, 0, 4096)}
	writerMap[testMemAsOut] = w
	t.Cleanup(func() {
		delete(writerMap, testMemAsOut)
	})
	opts = append([]XLoggerOption{
		WithXLoggerWriter(testMemAsOut),
		WithXLoggerEncoder(JSON),
	}, opts...)
	return NewXLogger(opts...), w
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
	require.Equal(t, zapcore.DebugLevel, LogLevel("unknown").zapLevel())
}

func TestGetLogLevelOrDefault(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault(""))
	require.Equal(t, zapcore.InfoLevel, getLogLevelOrDefault(" info "))
	require.Equal(t, zapcore.ErrorLevel, getLogLevelOrDefault("ERROR"))
}

func TestXLogger_EnvLevel(t *testing.T) {
	t.Setenv("XLOG_LVL", "warn")
	logger, w := newTestMemLogger(t)
	require.Equal(t, "WARN", logger.Level())
	logger.Info("dropped")
	logger.Warn("kept")
	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["msg"])
}

func TestXLogger_InvalidOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
}

func TestXLogger_Zap_AllAPIs(t *testing.T) {
	logger, w := newTestMemLogger(t,
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerConsoleCore(),
		WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
		WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
		WithXLoggerContextFieldExtract("traceId", "TraceID"),
		WithXLoggerContextFieldExtract("service"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
		WithXLoggerContextFieldExtract("missing"),
		WithXLoggerContextFieldExtract(""),
	)
	ctx := context.TODO()
	ctx = WithContextField(ctx, "traceId", "1234567890")
	ctx = WithContextField(ctx, "service", "xcollections")
	ctx = WithContextField(ctx, "secret", "hidden")

	logger.Debug("debug", zap.Int("n", 1))
	logger.Info("info")
	logger.Warn("warn")
	logger.Error(errors.New("plain"), "error")
	logger.Error(nil, "no error")
	logger.ErrorStack(infra.NewErrorStack("stacked"), "error stack")
	logger.ErrorStack(errors.New("no frames"), "error stack fallback")
	logger.DebugContext(ctx, "debug ctx")
	logger.InfoContext(ctx, "info ctx")
	logger.WarnContext(ctx, "warn ctx")
	logger.ErrorContext(ctx, errors.New("ctx err"), "error ctx")
	logger.ErrorStackContext(ctx, infra.NewErrorStack("ctx stacked"), "error stack ctx")
	logger.Logf(zapcore.InfoLevel, "logf %d", 1)
	logger.ErrorStackf(infra.NewErrorStack("stackf"), "error stackf %s", "x")
	require.NoError(t, logger.Sync())

	lines := w.lines(t)
	require.Len(t, lines, 14)

	require.Equal(t, "DEBUG", lines[0]["lvl"])
	require.Equal(t, float64(1), lines[0]["n"])
	require.Contains(t, lines[0], "callAt")
	require.Equal(t, "plain", lines[3]["error"])
	require.NotContains(t, lines[4], "error")

	require.Equal(t, "stacked", lines[5]["error"])
	require.NotEmpty(t, lines[5]["errorStack"])
	require.Equal(t, "no frames", lines[6]["error"])
	require.NotContains(t, lines[6], "errorStack")

	for _, line := range lines[7:12] {
		require.Equal(t, "1234567890", line["TraceID"])
		require.Equal(t, "xcollections", line["service"])
		require.Equal(t, "nil", line["missing"])
		require.NotContains(t, line, "secret")
		require.NotContains(t, line, "hidden")
	}
	require.Equal(t, "logf 1", lines[12]["msg"])
	require.Equal(t, "error stackf x", lines[13]["msg"])
	require.NotEmpty(t, lines[13]["errorStack"])
}

func TestXLogger_IncreaseLogLevel(t *testing.T) {
	logger, w := newTestMemLogger(t, WithXLoggerLevel(LogLevelDebug))
	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	require.Equal(t, "ERROR", logger.Level())
	logger.Warn("dropped")
	logger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Debug("kept")
	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["msg"])
}

func TestXLogger_Zap_DataRace(t *testing.T) {
	logger, w := newTestMemLogger(t, WithXLoggerLevel(LogLevelInfo))
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			logger.Info("info", zap.Int("i", i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			logger.IncreaseLogLevel(zapcore.InfoLevel)
		}
	}()
	wg.Wait()
	require.Len(t, w.lines(t), 100)
}
