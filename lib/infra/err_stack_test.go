package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
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
		check  func(t *testing.T, res string)
	}{
		{
			initPC,
			"%s",
			func(t *testing.T, res string) {
				require.Equal(t, "err_stack_test.go", res)
			},
		},
		{
			initPC,
			"%+s",
			func(t *testing.T, res string) {
				require.True(t, strings.HasPrefix(res, "github.com/benz9527/vectorish/lib/infra.init\n\t"))
				require.True(t, strings.HasSuffix(res, "lib/infra/err_stack_test.go"))
			},
		},
		{
			initPC,
			"%n",
			func(t *testing.T, res string) {
				require.Equal(t, "init", res)
			},
		},
		{
			initPC,
			"%d",
			func(t *testing.T, res string) {
				require.Equal(t, "20", res)
			},
		},
		{
			initPC,
			"%v",
			func(t *testing.T, res string) {
				require.Equal(t, "err_stack_test.go:20", res)
			},
		},
		{
			Frame(0),
			"%s",
			func(t *testing.T, res string) {
				require.Equal(t, "unknownFile", res)
			},
		},
		{
			Frame(0),
			"%n",
			func(t *testing.T, res string) {
				require.Equal(t, "unknownFunc", res)
			},
		},
		{
			Frame(0),
			"%d",
			func(t *testing.T, res string) {
				require.Equal(t, "0", res)
			},
		},
	}

	for _, tc := range testcases {
		tc.check(t, fmt.Sprintf(tc.format, tc.Frame))
	}
}

func TestFrameMarshal(t *testing.T) {
	text, err := initPC.MarshalText()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(text), "github.com/benz9527/vectorish/lib/infra.init "))
	require.True(t, strings.HasSuffix(string(text), "err_stack_test.go:20"))

	text, err = Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(text))

	_bytes, err := json.Marshal(Frame(0))
	require.NoError(t, err)
	require.Equal(t, `{"frame":"unknownFrame"}`, string(_bytes))

	_bytes, err = json.Marshal(initPC)
	require.NoError(t, err)
	res := map[string]string{}
	require.NoError(t, json.Unmarshal(_bytes, &res))
	require.Equal(t, "github.com/benz9527/vectorish/lib/infra.init", res["func"])
	require.True(t, strings.HasSuffix(res["fileAndLine"], "err_stack_test.go:20"))
}

func TestNewErrorStack(t *testing.T) {
	es := NewErrorStack("bench config is invalid")
	require.EqualError(t, es, "bench config is invalid")
	require.NotEmpty(t, es.Frames())
	require.Equal(t, "TestNewErrorStack", fmt.Sprintf("%n", es.Frames()[0]))
	require.Nil(t, es.Unwrap())

	verbose := fmt.Sprintf("%+v", es)
	require.True(t, strings.HasPrefix(verbose, "bench config is invalid\n"))
	require.Contains(t, verbose, "lib/infra.TestNewErrorStack")
}

func TestWrapErrorStack(t *testing.T) {
	require.Nil(t, WrapErrorStack(nil))
	require.Nil(t, WrapErrorStackWithMessage(nil, "ignored"))

	es := WrapErrorStack(io.EOF)
	require.ErrorIs(t, es, io.EOF)
	require.EqualError(t, es, io.EOF.Error())

	// Wrapping again keeps the frames of the first capture.
	again := WrapErrorStack(es)
	require.Same(t, es.(*errorStack), again.(*errorStack))

	withMsg := WrapErrorStackWithMessage(io.ErrUnexpectedEOF, "read workload")
	require.EqualError(t, withMsg, "read workload: unexpected EOF")
	require.ErrorIs(t, withMsg, io.ErrUnexpectedEOF)
	require.Equal(t, `"read workload: unexpected EOF"`, fmt.Sprintf("%q", withMsg))
}

func TestAppendErrorStack(t *testing.T) {
	errA, errB, errC := errors.New("a"), errors.New("b"), errors.New("c")

	require.NoError(t, AppendErrorStack(nil))
	require.NoError(t, AppendErrorStack(nil, nil, nil))

	err := AppendErrorStack(nil, errA, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, errA)

	err = AppendErrorStack(err, errB)
	err = AppendErrorStack(err, errC)
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	require.ErrorIs(t, err, errC)
	es, ok := err.(ErrorStack)
	require.True(t, ok)
	require.Len(t, es.Unwrap(), 3)

	// A plain error is promoted into a stack.
	err = AppendErrorStack(errA, errB)
	es, ok = err.(ErrorStack)
	require.True(t, ok)
	require.Len(t, es.Unwrap(), 2)
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	require.Len(t, multierr.Errors(err), 1)
}

func TestErrorStackInlinedByZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	es := WrapErrorStackWithMessage(io.EOF, "run case")
	logger.Error("bench failed", zap.Inline(es))

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "run case: EOF", ctx["error"])
	stack, ok := ctx["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, stack)
	assert.Contains(t, fmt.Sprint(stack[0]), "TestErrorStackInlinedByZap")
}
