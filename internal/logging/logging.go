// Package logging builds the process logger and carries it through contexts.
package logging

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

type options struct {
	level      zapcore.Level
	file       string
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	console    io.Writer
}

type Opt func(*options)

// WithLevel sets the minimum enabled level.
func WithLevel(l zapcore.Level) Opt {
	return func(o *options) {
		o.level = l
	}
}

// WithFile additionally writes logs to a size-rotated file.
func WithFile(path string, maxSizeMB, maxBackups, maxAgeDays int) Opt {
	return func(o *options) {
		o.file = path
		o.maxSizeMB = maxSizeMB
		o.maxBackups = maxBackups
		o.maxAgeDays = maxAgeDays
	}
}

// WithConsole replaces stderr as the console destination.
func WithConsole(w io.Writer) Opt {
	return func(o *options) {
		o.console = w
	}
}

// New builds a console logger, teeing into a rolling file when configured.
func New(opts ...Opt) *zap.SugaredLogger {
	o := &options{
		level:   zapcore.InfoLevel,
		console: os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(o.console), o.level),
	}
	if o.file != "" {
		lj := &lumberjack.Logger{
			Filename:   o.file,
			MaxSize:    o.maxSizeMB,
			MaxBackups: o.maxBackups,
			MaxAge:     o.maxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(lj), o.level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar()
}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger carried by ctx, or the global zap logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}
	return zap.S()
}

// With returns a context whose logger has the extra key/value pairs.
func With(ctx context.Context, kv ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(kv...))
}
