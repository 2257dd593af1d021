package xlog

import (
	"strings"
	"sync"
	"testing"
	"time"

	antsv2 "github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestAntsXLogger_ParentLogLevelChanged(t *testing.T) {
	var logger *AntsXLogger
	logger.Printf("test %d", 123)

	parentLogger, w := newTestXLogger(t)
	logger = NewAntsXLogger(parentLogger)

	parentLogger.IncreaseLogLevel(zapcore.InfoLevel)
	logger.Printf("test %d", 123)
	parentLogger.IncreaseLogLevel(zapcore.ErrorLevel + 1)
	logger.Printf("test %d", 456)
	parentLogger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Printf("test %d", 789)

	entries := w.entries(t)
	require.Len(t, entries, 2)
	require.Equal(t, "test 123", entries[0]["msg"])
	require.Equal(t, "Ants", entries[0]["component"])
	require.Equal(t, "ERROR", entries[0]["lvl"])
	require.Equal(t, "test 789", entries[1]["msg"])
	_ = parentLogger.Sync()
}

func TestAntsXLogger_AntsPool(t *testing.T) {
	parentLogger, w := newTestXLogger(t)
	logger := NewAntsXLogger(parentLogger)

	p, err := antsv2.NewPool(4, antsv2.WithLogger(logger))
	require.NoError(t, err)
	defer p.Release()

	var wg sync.WaitGroup
	wg.Add(2)
	err = p.Submit(func() {
		defer wg.Done()
		parentLogger.Logf(LogLevelDebug.zapLevel(), "test %d", 123)
	})
	require.NoError(t, err)
	err = p.Submit(func() {
		defer wg.Done()
		panic("xlogger panic in ants pool")
	})
	require.NoError(t, err)
	wg.Wait()

	require.Eventually(t, func() bool {
		return strings.Contains(w.String(), "xlogger panic in ants pool")
	}, time.Second, 10*time.Millisecond)
	require.Contains(t, w.String(), `"component":"Ants"`)
	_ = parentLogger.Sync()
}
