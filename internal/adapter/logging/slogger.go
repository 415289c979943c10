package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"codemate/internal/domain/ports"
)

// SLogger is an adapter around slog.Logger implementing ports.Logger.
type SLogger struct {
	logger *slog.Logger
}

var _ ports.Logger = (*SLogger)(nil)

// New creates a new SLogger. A nil logger discards everything.
func New(logger *slog.Logger) *SLogger {
	return &SLogger{logger: logger}
}

// NewHandlerLogger builds the process slog.Logger from level and format settings.
func NewHandlerLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Info logs an informational message.
func (l *SLogger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a recoverable problem.
func (l *SLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *SLogger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args...)
}

func (l *SLogger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	if id := RequestID(ctx); id != "" {
		args = append(args, "request_id", id)
	}
	l.logger.Log(ctx, level, msg, args...)
}
