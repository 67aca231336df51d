package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline.
type Flag struct {
	// Name is the long flag name (e.g. "timeout").
	Name string

	// Shorthand is the one-letter short flag (e.g. "t"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "executor.timeout").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag,
// and BindRegisteredFlags to avoid typos or drift.
const (
	FlagInput           = "input"
	FlagOutput          = "output"
	FlagTimeout         = "timeout"
	FlagBackend         = "backend"
	FlagShell           = "shell"
	FlagCheckpointEvery = "checkpoint-every"
	FlagPreviewLength   = "preview-length"
	FlagJournal         = "journal"
	FlagKafkaBrokers    = "kafka-brokers"
	FlagKafkaTopic      = "kafka-topic"
)

// RunFlags is the registry of flags accepted by the processing command.
var RunFlags = FlagSet{
	FlagInput: {
		Name:        "input",
		Shorthand:   "i",
		ViperKey:    "dataset.input",
		Description: "Input dataset JSON file",
	},
	FlagOutput: {
		Name:        "output",
		Shorthand:   "o",
		ViperKey:    "dataset.output",
		Description: "Output dataset JSON file",
	},
	FlagTimeout: {
		Name:        "timeout",
		Shorthand:   "t",
		ViperKey:    "executor.timeout",
		Description: "Per-command timeout in seconds",
	},
	FlagBackend: {
		Name:        "backend",
		ViperKey:    "executor.backend",
		Description: "Command backend: exec (shell subprocess) or interp (built-in interpreter)",
	},
	FlagShell: {
		Name:        "shell",
		ViperKey:    "executor.shell",
		Description: "Shell used by the exec backend",
	},
	FlagCheckpointEvery: {
		Name:        "checkpoint-every",
		ViperKey:    "checkpoint.every",
		Description: "Save the output file after every N conversations",
	},
	FlagPreviewLength: {
		Name:        "preview-length",
		ViperKey:    "progress.preview_length",
		Description: "Characters of command output shown in progress logs",
	},
	FlagJournal: {
		Name:        "journal",
		ViperKey:    "journal.sqlite_path",
		Description: "Record every execution in this SQLite database",
	},
	FlagKafkaBrokers: {
		Name:        "kafka-brokers",
		ViperKey:    "events.kafka_brokers",
		Description: "Comma-separated Kafka brokers to publish execution events to",
	},
	FlagKafkaTopic: {
		Name:        "kafka-topic",
		ViperKey:    "events.kafka_topic",
		Description: "Kafka topic for execution events",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *int) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultInt returns the default int value for a viper key from NewDefaultConfig.
func defaultInt(viperKey string) int {
	v := viper.New()
	setViperDefaults(v)
	return v.GetInt(viperKey)
}
