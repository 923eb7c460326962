// Package logging wraps zap behind a small sugared-logger-backed
// interface, a context carrier, and a single place to switch between
// console and JSON encoding.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the subset of a sugared zap logger the rest of this
// module calls.
type Logger interface {
	Debug(keyvals ...interface{})
	Info(keyvals ...interface{})
	Warn(keyvals ...interface{})
	Error(keyvals ...interface{})
	Debugw(msg string, keyvals ...interface{})
	Infow(msg string, keyvals ...interface{})
	Warnw(msg string, keyvals ...interface{})
	Errorw(msg string, keyvals ...interface{})
	With(args ...interface{}) Logger
	Named(name string) Logger
}

type log struct {
	*zap.SugaredLogger
}

func (l *log) With(args ...interface{}) Logger { return &log{l.SugaredLogger.With(args...)} }
func (l *log) Named(name string) Logger        { return &log{l.SugaredLogger.Named(name)} }

const (
	DebugLevel = int(zapcore.DebugLevel)
	InfoLevel  = int(zapcore.InfoLevel)
	WarnLevel  = int(zapcore.WarnLevel)
	ErrorLevel = int(zapcore.ErrorLevel)
)

// New returns a Logger writing to os.Stdout at level, either as
// human-readable console lines or as JSON.
func New(level int, jsonFormat bool) Logger {
	encoder := consoleEncoder()
	if jsonFormat {
		encoder = jsonEncoder()
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapcore.Level(level))
	return &log{zap.New(core, zap.WithCaller(true)).Sugar()}
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

type ctxKey string

const loggerKey ctxKey = "formscopeLogger"

// ToContext attaches l to ctx.
func ToContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or a quiet default
// (ErrorLevel, console) if none was attached.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return New(ErrorLevel, false)
}
