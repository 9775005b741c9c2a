// Package logger provides a zap-based application logger that stamps every
// entry with the service name and, when present, the active trace id.
package logger

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a Logger writes.
type Level int8

// Supported levels.
const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// TraceIDFn extracts a trace id from a context. It may return "".
type TraceIDFn func(ctx context.Context) string

// Logger writes structured entries through zap.
type Logger struct {
	sugar   *zap.SugaredLogger
	traceID TraceIDFn
}

// New builds a JSON logger writing to w.
func New(w io.Writer, level Level, service string, traceID TraceIDFn) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.TimeKey = "time"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(enc),
		zapcore.AddSync(w),
		zapcore.Level(level),
	)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).With(zap.String("service", service))

	return &Logger{sugar: zl.Sugar(), traceID: traceID}
}

// NewNop returns a logger that discards everything. Useful in tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// ParseLevel maps a textual level onto a Level, defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, keyvals ...any) {
	l.write(ctx, zapcore.DebugLevel, msg, keyvals)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, keyvals ...any) {
	l.write(ctx, zapcore.InfoLevel, msg, keyvals)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, keyvals ...any) {
	l.write(ctx, zapcore.WarnLevel, msg, keyvals)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, keyvals ...any) {
	l.write(ctx, zapcore.ErrorLevel, msg, keyvals)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) write(ctx context.Context, lvl zapcore.Level, msg string, keyvals []any) {
	if l == nil || l.sugar == nil {
		return
	}
	if l.traceID != nil && ctx != nil {
		if id := l.traceID(ctx); id != "" {
			keyvals = append(keyvals, "trace_id", id)
		}
	}
	l.sugar.Logw(lvl, msg, keyvals...)
}
