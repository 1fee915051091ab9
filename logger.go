package pairsel

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/pairsel/event"
	"github.com/hupe1980/pairsel/model"
)

// Logger wraps slog.Logger with pairsel-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithRunID adds a run_id field.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{Logger: l.Logger.With("run_id", id)}
}

// WithEvent adds the event identifier.
func (l *Logger) WithEvent(id event.ID) *Logger {
	return &Logger{Logger: l.Logger.With("event", id.String())}
}

// WithStep adds a step field.
func (l *Logger) WithStep(step string) *Logger {
	return &Logger{Logger: l.Logger.With("step", step)}
}

// LogSelection traces one pair selection.
func (l *Logger) LogSelection(ctx context.Context, step, kind string, candidates [2]int, pair model.Pair, err error) {
	if err != nil {
		l.ErrorContext(ctx, "selection failed",
			"step", step,
			"kind", kind,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "selection completed",
		"step", step,
		"kind", kind,
		"first_candidates", candidates[0],
		"second_candidates", candidates[1],
		"pair", pair.Ints(),
	)
}

// LogMatch traces one match table.
func (l *Logger) LogMatch(ctx context.Context, step string, primaries, matched int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "match failed",
			"step", step,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "match completed",
		"step", step,
		"primaries", primaries,
		"matched", matched,
	)
}

// LogEvent traces one processed event.
func (l *Logger) LogEvent(ctx context.Context, id event.ID, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "event failed",
			"event", id.String(),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "event processed",
		"event", id.String(),
		"duration", duration,
	)
}

// LogBatch logs a batch of events.
func (l *Logger) LogBatch(ctx context.Context, count int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch failed",
			"events", count,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "batch processed",
		"events", count,
		"duration", duration,
	)
}

// LogRun logs a completed or failed run.
func (l *Logger) LogRun(ctx context.Context, input, output string, events int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"input", input,
			"output", output,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "run completed",
		"input", input,
		"output", output,
		"events", events,
	)
}
