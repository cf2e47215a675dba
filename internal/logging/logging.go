// Package logging hands out scoped structured loggers. Components
// receive a Logger (or build one with For) instead of reaching for a
// process-wide instance, so tests can pass a no-op and scopes show up
// as the zap logger name.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the capability components depend on. Key/value pairs
// follow zap's sugared convention.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
	Named(scope string) Logger
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l zapLogger) Info(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l zapLogger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
func (l zapLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }
func (l zapLogger) Named(scope string) Logger   { return zapLogger{s: l.s.Named(scope)} }

// New builds the root logger. debug switches to the development
// encoder and enables Debug level.
func New(debug bool) Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewNop()
	}
	return zapLogger{s: base.Sugar()}
}

// Nop discards everything; handy default for optional dependencies.
func Nop() Logger { return zapLogger{s: zap.NewNop().Sugar()} }

// For returns a scoped logger off the process root. main replaces the
// root once at startup; everything else just names a scope.
func For(scope string) Logger { return root.Named(scope) }

// SetRoot installs the root logger For derives from.
func SetRoot(l Logger) { root = l }

var root Logger = Nop()
