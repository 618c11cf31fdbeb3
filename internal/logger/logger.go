package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"market-digest/internal/trace"
)

var (
	globalLogger    *slog.Logger
	logLevel        slog.Level
	detailedLogging bool
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or text
	DetailedLogging bool
}

// Init initializes the global logger from environment variables.
func Init() error {
	return InitWithConfig(LogConfig{
		Level:           getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:          getEnvOrDefault("LOG_FORMAT", "json"),
		DetailedLogging: getEnvOrDefault("LOG_DETAILED", "false") == "true",
	})
}

// InitWithConfig initializes the logger with specific configuration.
func InitWithConfig(config LogConfig) error {
	logLevel = parseLogLevel(config.Level)
	detailedLogging = config.DetailedLogging

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Debug logs a debug message (only when LOG_DETAILED is on)
func Debug(ctx context.Context, msg string, args ...any) {
	if !detailedLogging {
		return
	}
	logWithTrace(ctx, slog.LevelDebug, msg, args...)
}

// Info logs an info message
func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message
func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error message
func Error(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelError, msg, args...)
}

// ErrorWithErr logs an error message with an error object and records it
// on the active span.
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	span := oteltrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	allArgs := append([]any{"error", err}, args...)
	logWithTrace(ctx, slog.LevelError, msg, allArgs...)
}

// Degraded logs a degradation event: a symbol, article, or source was
// skipped or fell back but the run continues. Always logged at WARN so
// every partial result is locally visible.
func Degraded(ctx context.Context, component, reason string, fields ...any) {
	span := oteltrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.AddEvent("degraded", oteltrace.WithAttributes(
			attribute.String("component", component),
			attribute.String("reason", reason),
		))
	}

	allFields := append([]any{
		"type", "DEGRADED",
		"component", component,
		"reason", reason,
	}, fields...)
	logWithTrace(ctx, slog.LevelWarn, "Component degraded", allFields...)
}

// logWithTrace logs a message enriched with the active trace and span IDs.
func logWithTrace(ctx context.Context, level slog.Level, msg string, args ...any) {
	if traceID, spanID, ok := trace.GetTraceFields(ctx); ok {
		args = append([]any{"trace_id", traceID, "span_id", spanID}, args...)
	}
	if globalLogger == nil {
		globalLogger = slog.Default()
	}
	globalLogger.Log(ctx, level, msg, args...)
}

// StageTimer times one pipeline stage inside a span.
type StageTimer struct {
	ctx   context.Context
	span  oteltrace.Span
	start time.Time
	stage string
}

// StartStage opens a span for a pipeline stage and returns a timer whose
// context carries the span.
func StartStage(ctx context.Context, stage string) *StageTimer {
	ctx, span := trace.StartSpan(ctx, stage)
	Debug(ctx, "Stage started", "stage", stage)
	return &StageTimer{ctx: ctx, span: span, start: time.Now(), stage: stage}
}

// Context returns the context carrying the stage span.
func (st *StageTimer) Context() context.Context {
	return st.ctx
}

// End closes the stage span and logs its duration.
func (st *StageTimer) End(fields ...any) {
	duration := time.Since(st.start)
	if st.span != nil {
		st.span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
		st.span.SetStatus(codes.Ok, "completed")
		st.span.End()
	}
	allFields := append([]any{"stage", st.stage, "duration_ms", duration.Milliseconds()}, fields...)
	Info(st.ctx, "Stage completed", allFields...)
}
