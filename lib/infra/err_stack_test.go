package infra

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	testcases := []struct {
		Frame
		format string
		want   func(res string) bool
	}{
		{
			initPC,
			"%s",
			func(res string) bool { return res == "err_stack_test.go" },
		},
		{
			initPC,
			"%n",
			func(res string) bool { return res == "init" },
		},
		{
			initPC,
			"%v",
			func(res string) bool { return strings.HasPrefix(res, "err_stack_test.go:") },
		},
		{
			initPC,
			"%+s",
			func(res string) bool {
				return strings.HasPrefix(res, "github.com/benz9527/xcollections/lib/infra.init\n\t") &&
					strings.HasSuffix(res, "err_stack_test.go")
			},
		},
		{
			Frame(0),
			"%s",
			func(res string) bool { return res == "unknownFile" },
		},
		{
			Frame(0),
			"%n",
			func(res string) bool { return res == "unknownFunc" },
		},
		{
			Frame(0),
			"%d",
			func(res string) bool { return res == "0" },
		},
	}

	for _, tc := range testcases {
		frameRes := fmt.Sprintf(tc.format, tc.Frame)
		require.Truef(t, tc.want(frameRes), "format %q got %q", tc.format, frameRes)
	}
}

func TestFrameMarshalText(t *testing.T) {
	_bytes, err := Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(_bytes))

	_bytes, err = initPC.MarshalText()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(_bytes), "github.com/benz9527/xcollections/lib/infra.init "))
	require.Contains(t, string(_bytes), "err_stack_test.go:")
}

var errSentinel = errors.New("sentinel")

func TestErrorStack_Wrap(t *testing.T) {
	require.Nil(t, WrapErrorStack(nil))
	require.Nil(t, WrapErrorStackWithMessage(nil, "abc"))

	err := WrapErrorStack(errSentinel)
	require.ErrorIs(t, err, errSentinel)
	require.Equal(t, "sentinel", err.Error())

	var es ErrorStack
	require.ErrorAs(t, err, &es)
	require.NotEmpty(t, es.Frames())
	require.Equal(t, "TestErrorStack_Wrap", fmt.Sprintf("%n", es.Frames()[0]))

	// Already carries frames.
	require.Same(t, err, WrapErrorStack(err))

	err2 := WrapErrorStackWithMessage(err, "outer")
	require.ErrorIs(t, err2, errSentinel)
	require.Equal(t, "outer: sentinel", err2.Error())

	err3 := NewErrorStack("plain")
	require.Equal(t, "plain", err3.Error())
	require.Nil(t, errors.Unwrap(err3))
}

func TestErrorStack_MarshalLogObject(t *testing.T) {
	err := WrapErrorStackWithMessage(errSentinel, "marshal")
	es := err.(ErrorStack)
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, es.MarshalLogObject(enc))
	require.Equal(t, "marshal: sentinel", enc.Fields["error"])
	frames, ok := enc.Fields["errorStack"].([]any)
	require.True(t, ok)
	require.Len(t, frames, len(es.Frames()))
}
