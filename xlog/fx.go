package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

// NewFxXLogger adapts the logger to the fx event logger, see
// fx.WithLogger. The events go to the "Fx" component at debug level,
// failures at error level.
func NewFxXLogger(logger XLogger) fxevent.Logger {
	if logger == nil {
		return fxevent.NopLogger
	}
	l := &fxevent.ZapLogger{Logger: newComponentXLogger(logger, "Fx").zap()}
	l.UseLogLevel(zapcore.DebugLevel)
	l.UseErrorLevel(zapcore.ErrorLevel)
	return l
}
