package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/turnexec/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the TURNEXEC_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (TURNEXEC_EXECUTOR_TIMEOUT, TURNEXEC_DATASET_INPUT, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: TURNEXEC_EXECUTOR_TIMEOUT, TURNEXEC_JOURNAL_SQLITE_PATH, etc.
	v.SetEnvPrefix("TURNEXEC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Dataset
	v.SetDefault("dataset.input", d.Dataset.Input)
	v.SetDefault("dataset.output", d.Dataset.Output)

	// Executor
	v.SetDefault("executor.backend", d.Executor.Backend)
	v.SetDefault("executor.shell", d.Executor.Shell)
	v.SetDefault("executor.timeout", d.Executor.Timeout)

	// Checkpoints and progress
	v.SetDefault("checkpoint.every", d.Checkpoint.Every)
	v.SetDefault("progress.preview_length", d.Progress.PreviewLength)

	// Journal
	v.SetDefault("journal.sqlite_path", d.Journal.SQLitePath)

	// Events
	v.SetDefault("events.kafka_brokers", d.Events.KafkaBrokers)
	v.SetDefault("events.kafka_topic", d.Events.KafkaTopic)
}

// FromViper builds a Config from the resolved viper values.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: CurrentV,
		Dataset: DatasetConfig{
			Input:  v.GetString("dataset.input"),
			Output: v.GetString("dataset.output"),
		},
		Executor: ExecutorConfig{
			Backend: v.GetString("executor.backend"),
			Shell:   v.GetString("executor.shell"),
			Timeout: v.GetInt("executor.timeout"),
		},
		Checkpoint: CheckpointConfig{
			Every: v.GetInt("checkpoint.every"),
		},
		Progress: ProgressConfig{
			PreviewLength: v.GetInt("progress.preview_length"),
		},
		Journal: JournalConfig{
			SQLitePath: v.GetString("journal.sqlite_path"),
		},
		Events: EventsConfig{
			KafkaBrokers: v.GetString("events.kafka_brokers"),
			KafkaTopic:   v.GetString("events.kafka_topic"),
		},
	}
}
