package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// requestIDKey is the key used to store request ID in context
type requestIDKey struct{}

// Options configures the process logger
type Options struct {
	Writer io.Writer
	Level  string // debug, info, warn, error
	Format string // text, json
	Color  bool
}

// Setup builds the process-wide slog logger and installs it as the default.
func Setup(opts Options) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	level := ParseLevel(opts.Level)

	var handler slog.Handler
	switch {
	case strings.EqualFold(opts.Format, "json"):
		handler = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{Level: level})
	case opts.Color:
		handler = tint.NewHandler(opts.Writer, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
		})
	default:
		handler = slog.NewTextHandler(opts.Writer, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID stores a request ID in the context
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from a standard context
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging scoped to one request
type Logger struct {
	requestID string
	base      *slog.Logger
}

// NewLogger creates a logger with request context
func NewLogger(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{requestID: requestID, base: slog.Default()}
}

// With returns a logger carrying extra attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{requestID: l.requestID, base: l.base.With(args...)}
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error, args ...any) {
	l.base.Error("operation failed", l.attrs(operation, append(args, slog.Any("error", err)))...)
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation, message string, args ...any) {
	l.base.Info(message, l.attrs(operation, args)...)
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation, message string, args ...any) {
	l.base.Warn(message, l.attrs(operation, args)...)
}

// LogDebug logs a debug message with context
func (l *Logger) LogDebug(operation, message string, args ...any) {
	l.base.Debug(message, l.attrs(operation, args)...)
}

func (l *Logger) attrs(operation string, args []any) []any {
	return append([]any{slog.String("request_id", l.requestID), slog.String("operation", operation)}, args...)
}
