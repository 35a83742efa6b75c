package log

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// ZapLogger adapts a *zap.Logger to Logger.
//
// Its Level is applied on top of the zap core's own level, so SetLevel can
// only make the output quieter than the wrapped logger allows.
type ZapLogger struct {
	s     *zap.SugaredLogger
	level atomic.Int32
}

func NewZapLogger(l *zap.Logger, level Level) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	z := &ZapLogger{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar().Named("stripe")}
	z.level.Store(int32(level))
	return z
}

func (z *ZapLogger) SetLevel(level Level) {
	if z == nil {
		return
	}
	z.level.Store(int32(level))
}

func (z *ZapLogger) enabled(level Level) bool {
	return z != nil && Level(z.level.Load()) <= level
}

func (z *ZapLogger) Debugf(format string, args ...any) {
	if z.enabled(LevelDebug) {
		z.s.Debugf(format, args...)
	}
}

func (z *ZapLogger) Infof(format string, args ...any) {
	if z.enabled(LevelInfo) {
		z.s.Infof(format, args...)
	}
}

func (z *ZapLogger) Warnf(format string, args ...any) {
	if z.enabled(LevelWarn) {
		z.s.Warnf(format, args...)
	}
}

func (z *ZapLogger) Errorf(format string, args ...any) {
	if z.enabled(LevelError) {
		z.s.Errorf(format, args...)
	}
}
