package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// WithLogger returns a context carrying the given logger. Tool middleware
// installs a call-scoped logger here before invoking a handler.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	// Return default logger if not found
	return &Logger{
		Logger:    slog.Default(),
		component: ComponentApp,
	}
}

// ToolLogger provides structured logging for tool-call lifecycles.
type ToolLogger struct {
	logger *Logger
}

// NewToolLogger creates a new tool logger
func NewToolLogger(logger *Logger) *ToolLogger {
	return &ToolLogger{logger: logger}
}

// LogToolStart logs the start of a tool call
func (tl *ToolLogger) LogToolStart(ctx context.Context, tool, callID string) {
	fields := NewFields().
		WithTool(tool).
		WithCallID(callID).
		WithComponent(ComponentMCP)

	tl.logger.InfoContext(ctx, "Tool call started", fields.ToSlice()...)
}

// LogToolEnd logs the completion of a tool call. Failed calls log at Warn
// so a flood of bad arguments never reads as a server fault; store
// failures escalate to Error.
func (tl *ToolLogger) LogToolEnd(ctx context.Context, tool, callID string, durationMs int64, errKind string) {
	level := slog.LevelInfo
	switch errKind {
	case "validation", "not_found":
		level = slog.LevelWarn
	case "store", "internal":
		level = slog.LevelError
	}

	fields := NewFields().
		WithTool(tool).
		WithCallID(callID).
		WithToolResult(durationMs, errKind == "").
		WithComponent(ComponentMCP)
	if errKind != "" {
		fields[FieldErrorKind] = errKind
	}

	tl.logger.Logger.Log(ctx, level, "Tool call completed", fields.ToSlice()...)
}
