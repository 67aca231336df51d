// Package turnexeccmder provides the root turnexec command.
package turnexeccmder

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmder "github.com/papercomputeco/turnexec/cmd/turnexec/config"
	journalcmder "github.com/papercomputeco/turnexec/cmd/turnexec/journal"
	versioncmder "github.com/papercomputeco/turnexec/cmd/version"
	"github.com/papercomputeco/turnexec/pkg/config"
)

const turnexecLongDesc string = `turnexec runs the shell commands stored in a conversation dataset and
writes their output back into it.

Every conversation's turns are read in pairs. When a pair is a "human" turn
followed by a "gpt" turn, the human value is executed as a shell command and
the gpt value is replaced with the command's output. Results are saved to the
output file every few conversations and once more at the end.

WARNING: commands run on this machine with your privileges. Review the
dataset before confirming.

Examples:
  turnexec -i conversations.json -o conversations_with_output.json
  turnexec -i data.json -t 10 -s 100 -e 200
  turnexec --backend interp --journal runs.db --yes`

const turnexecShortDesc string = "Execute dataset commands and record their output"

// runFlagKeys are the registry flags bound to viper on the root command.
var runFlagKeys = []string{
	config.FlagInput,
	config.FlagOutput,
	config.FlagTimeout,
	config.FlagBackend,
	config.FlagShell,
	config.FlagCheckpointEvery,
	config.FlagPreviewLength,
	config.FlagJournal,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

func NewTurnexecCmd() *cobra.Command {
	cmder := &turnexecCommander{}
	var v *viper.Viper

	cmd := &cobra.Command{
		Use:          "turnexec",
		Short:        turnexecShortDesc,
		Long:         turnexecLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			v, err = config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, config.RunFlags, runFlagKeys)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.endSet = cmd.Flags().Changed("end")
			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context(), config.FromViper(v))
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&cmder.debug, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&cmder.configDir, "config-dir", "", "Override the .turnexec/ configuration directory")

	// Flag targets are unused after binding: values are read back from viper.
	var (
		input, output, backend, shell, journalPath, brokers, topic string
		timeout, checkpointEvery, previewLength                    int
	)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagInput, &input)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagOutput, &output)
	config.AddIntFlag(cmd, config.RunFlags, config.FlagTimeout, &timeout)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagBackend, &backend)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagShell, &shell)
	config.AddIntFlag(cmd, config.RunFlags, config.FlagCheckpointEvery, &checkpointEvery)
	config.AddIntFlag(cmd, config.RunFlags, config.FlagPreviewLength, &previewLength)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagJournal, &journalPath)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagKafkaBrokers, &brokers)
	config.AddStringFlag(cmd, config.RunFlags, config.FlagKafkaTopic, &topic)

	cmd.Flags().IntVarP(&cmder.start, "start", "s", 0, "First conversation index to process (inclusive)")
	cmd.Flags().IntVarP(&cmder.end, "end", "e", 0, "Conversation index to stop at (exclusive, default: all)")
	cmd.Flags().BoolVar(&cmder.yes, "yes", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", false, "Emit progress as JSON log lines")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also append JSON logs to this file")

	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(journalcmder.NewJournalCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
