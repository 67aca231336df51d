// Package logger provides opinionated slog loggers for turnexec.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type config struct {
	level      slog.Level
	pretty     bool
	json       bool
	timeFormat string
	runID      string
	writer     io.Writer
}

// New creates a *slog.Logger. By default it writes slog text records at Info
// level to os.Stdout; WithPretty switches to the charmbracelet/log handler
// and WithJSON to slog's JSON handler.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:      slog.LevelInfo,
		timeFormat: DefaultTimeFormat,
		writer:     os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	w := c.writer
	if w == nil {
		w = os.Stdout
	}

	var handler slog.Handler
	switch {
	case c.json:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.level})

	case c.pretty:
		handler = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
			TimeFormat:      c.timeFormat,
		})

	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.level})
	}

	l := slog.New(handler)
	if c.runID != "" {
		l = l.With("run_id", c.runID)
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(nopHandler{})
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
