package kafka

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger interface for customizable logging
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// ZapLogger implements Logger on top of a zap sugared logger
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger adapts l to Logger, tagging entries with component=kafka
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{
		sugar: l.With(zap.String("component", "kafka")).WithOptions(zap.AddCallerSkip(1)).Sugar(),
	}
}

// NewDefaultLogger creates a JSON zap logger on stderr filtered at level
func NewDefaultLogger(level LogLevel) Logger {
	if level == LogLevelNone {
		return NewNoopLogger()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build()
	if err != nil {
		return NewNoopLogger()
	}
	return NewZapLogger(l)
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug logs a debug message
func (l *ZapLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an info message
func (l *ZapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *ZapLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *ZapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// NoopLogger is a logger that does nothing
type NoopLogger struct{}

// NewNoopLogger creates a no-op logger
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// Debug does nothing
func (l *NoopLogger) Debug(format string, args ...interface{}) {}

// Info does nothing
func (l *NoopLogger) Info(format string, args ...interface{}) {}

// Warn does nothing
func (l *NoopLogger) Warn(format string, args ...interface{}) {}

// Error does nothing
func (l *NoopLogger) Error(format string, args ...interface{}) {}
