package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent turnexec configuration stored as
// config.toml in the .turnexec/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Dataset    DatasetConfig    `toml:"dataset"`
	Executor   ExecutorConfig   `toml:"executor"`
	Checkpoint CheckpointConfig `toml:"checkpoint"`
	Progress   ProgressConfig   `toml:"progress"`
	Journal    JournalConfig    `toml:"journal"`
	Events     EventsConfig     `toml:"events"`
}

// DatasetConfig holds the input and output dataset paths.
type DatasetConfig struct {
	Input  string `toml:"input,omitempty"`
	Output string `toml:"output,omitempty"`
}

// ExecutorConfig holds command execution settings.
type ExecutorConfig struct {
	Backend string `toml:"backend,omitempty"`
	Shell   string `toml:"shell,omitempty"`
	Timeout int    `toml:"timeout,omitempty"`
}

// CheckpointConfig holds the checkpoint cadence.
type CheckpointConfig struct {
	Every int `toml:"every,omitempty"`
}

// ProgressConfig holds progress reporting settings.
type ProgressConfig struct {
	PreviewLength int `toml:"preview_length,omitempty"`
}

// JournalConfig holds the SQLite execution journal settings. An empty path
// disables the journal.
type JournalConfig struct {
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// EventsConfig holds execution event stream settings. Empty brokers disable
// event publishing.
type EventsConfig struct {
	KafkaBrokers string `toml:"kafka_brokers,omitempty"`
	KafkaTopic   string `toml:"kafka_topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"dataset.input": {
		get: func(c *Config) string { return c.Dataset.Input },
		set: func(c *Config, v string) error { c.Dataset.Input = v; return nil },
	},
	"dataset.output": {
		get: func(c *Config) string { return c.Dataset.Output },
		set: func(c *Config, v string) error { c.Dataset.Output = v; return nil },
	},
	"executor.backend": {
		get: func(c *Config) string { return c.Executor.Backend },
		set: func(c *Config, v string) error { c.Executor.Backend = v; return nil },
	},
	"executor.shell": {
		get: func(c *Config) string { return c.Executor.Shell },
		set: func(c *Config, v string) error { c.Executor.Shell = v; return nil },
	},
	"executor.timeout": {
		get: func(c *Config) string { return formatPositiveInt(c.Executor.Timeout) },
		set: func(c *Config, v string) error {
			return setPositiveInt("executor.timeout", v, &c.Executor.Timeout)
		},
	},
	"checkpoint.every": {
		get: func(c *Config) string { return formatPositiveInt(c.Checkpoint.Every) },
		set: func(c *Config, v string) error {
			return setPositiveInt("checkpoint.every", v, &c.Checkpoint.Every)
		},
	},
	"progress.preview_length": {
		get: func(c *Config) string { return formatPositiveInt(c.Progress.PreviewLength) },
		set: func(c *Config, v string) error {
			return setPositiveInt("progress.preview_length", v, &c.Progress.PreviewLength)
		},
	},
	"journal.sqlite_path": {
		get: func(c *Config) string { return c.Journal.SQLitePath },
		set: func(c *Config, v string) error { c.Journal.SQLitePath = v; return nil },
	},
	"events.kafka_brokers": {
		get: func(c *Config) string { return c.Events.KafkaBrokers },
		set: func(c *Config, v string) error { c.Events.KafkaBrokers = v; return nil },
	},
	"events.kafka_topic": {
		get: func(c *Config) string { return c.Events.KafkaTopic },
		set: func(c *Config, v string) error { c.Events.KafkaTopic = v; return nil },
	},
}

func formatPositiveInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func setPositiveInt(key, v string, target *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if n <= 0 {
		return fmt.Errorf("invalid value for %s: must be positive, got %d", key, n)
	}
	*target = n
	return nil
}
