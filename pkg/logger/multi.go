package logger

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler hands each record to several handlers. turnexec uses it to keep
// console progress and the --log-file JSON stream in step.
type teeHandler struct {
	handlers []slog.Handler
}

// Multi returns a logger that writes every record through the handlers of
// all given loggers. A failing handler does not stop the others; their
// errors are joined.
func Multi(loggers ...*slog.Logger) *slog.Logger {
	handlers := make([]slog.Handler, 0, len(loggers))
	for _, l := range loggers {
		handlers = append(handlers, l.Handler())
	}
	return slog.New(&teeHandler{handlers: handlers})
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		// Handlers may retain the record, so each gets its own copy.
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t *teeHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	children := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		children[i] = fn(h)
	}
	return &teeHandler{handlers: children}
}
