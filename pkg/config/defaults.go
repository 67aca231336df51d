package config

const (
	defaultInput  = "conversations.json"
	defaultOutput = "conversations_with_output.json"

	defaultBackend = "exec"
	defaultShell   = "/bin/sh"
	defaultTimeout = 30

	defaultCheckpointEvery = 10
	defaultPreviewLength   = 200

	defaultKafkaTopic = "turnexec.executions"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Dataset: DatasetConfig{
			Input:  defaultInput,
			Output: defaultOutput,
		},
		Executor: ExecutorConfig{
			Backend: defaultBackend,
			Shell:   defaultShell,
			Timeout: defaultTimeout,
		},
		Checkpoint: CheckpointConfig{
			Every: defaultCheckpointEvery,
		},
		Progress: ProgressConfig{
			PreviewLength: defaultPreviewLength,
		},
		Events: EventsConfig{
			KafkaTopic: defaultKafkaTopic,
		},
	}
}
