// Package configcmder provides the config command for managing persistent
// turnexec configuration stored in the .turnexec/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent turnexec configuration.

Configuration is stored as config.toml in the .turnexec/ directory and provides
default values for command flags. CLI flags and TURNEXEC_* environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  dataset.input, dataset.output,
  executor.backend, executor.shell, executor.timeout,
  checkpoint.every, progress.preview_length,
  journal.sqlite_path,
  events.kafka_brokers, events.kafka_topic

Use subcommands to get, set, or list configuration values:
  turnexec config set <key> <value>    Set a configuration value
  turnexec config get <key>            Get a configuration value
  turnexec config list                 List all configuration values

Examples:
  turnexec config set executor.timeout 60
  turnexec config set journal.sqlite_path ~/.turnexec/journal.db
  turnexec config get executor.backend
  turnexec config list`

const configShortDesc string = "Manage persistent turnexec configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// configDirFlag reads the persistent --config-dir flag when the root
// command registered it.
func configDirFlag(cmd *cobra.Command) string {
	configDir, _ := cmd.Flags().GetString("config-dir")
	return configDir
}
