package logger

import (
	"io"
	"log/slog"
)

// DefaultTimeFormat is the timestamp layout of the pretty console handler.
// Runs are short enough that the date only adds noise.
const DefaultTimeFormat = "15:04:05"

// Option configures a Logger created with New.
type Option func(*config)

// WithDebug sets the log level to Debug when true, Info otherwise.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = slog.LevelDebug
		} else {
			c.level = slog.LevelInfo
		}
	}
}

// WithPretty enables the charmbracelet/log handler for progress output on
// an operator's terminal.
func WithPretty(pretty bool) Option {
	return func(c *config) {
		c.pretty = pretty
	}
}

// WithJSON enables slog's JSON handler, used for --json-logs and --log-file.
func WithJSON(json bool) Option {
	return func(c *config) {
		c.json = json
	}
}

// WithWriter overrides the output writer. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.writer = w
	}
}

// WithTimeFormat overrides DefaultTimeFormat for the pretty handler.
func WithTimeFormat(layout string) Option {
	return func(c *config) {
		c.timeFormat = layout
	}
}

// WithRunID stamps every record with run_id so log lines can be matched to
// journal rows and execution events of the same run.
func WithRunID(runID string) Option {
	return func(c *config) {
		c.runID = runID
	}
}
