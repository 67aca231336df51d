// Package journalcmder provides the journal command for reading back the
// executions recorded by a turnexec run.
package journalcmder

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/turnexec/cmd/turnexec/sqlitepath"
	"github.com/papercomputeco/turnexec/pkg/cliui"
	"github.com/papercomputeco/turnexec/pkg/config"
	"github.com/papercomputeco/turnexec/pkg/journal"
	"github.com/papercomputeco/turnexec/pkg/utils"
)

const journalLongDesc string = `Show the commands recorded in an execution journal.

A journal is written when turnexec runs with --journal (or journal.sqlite_path
set in config). Without --run, the most recent run is shown.

Examples:
  turnexec journal
  turnexec journal --journal ./runs.db
  turnexec journal --run 0b6f1c0e-... --preview 0`

const journalShortDesc string = "Show recorded command executions"

type journalCommander struct {
	sqlitePath string
	runID      string
	preview    int
}

func NewJournalCmd() *cobra.Command {
	cmder := &journalCommander{}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: journalShortDesc,
		Long:  journalLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmder.sqlitePath == "" {
				configDir, _ := cmd.Flags().GetString("config-dir")
				v, err := config.InitViper(configDir)
				if err != nil {
					return err
				}
				cmder.sqlitePath = v.GetString("journal.sqlite_path")
			}
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cmder.sqlitePath, "journal", "", "Path to the journal SQLite database")
	cmd.Flags().StringVar(&cmder.runID, "run", "", "Run ID to show (default: most recent run)")
	cmd.Flags().IntVar(&cmder.preview, "preview", 80, "Characters of output to show per command (0 for full output)")

	return cmd
}

func (c *journalCommander) run(ctx context.Context, w io.Writer) error {
	path, err := sqlitepath.ResolveJournalPath(c.sqlitePath)
	if err != nil {
		return err
	}

	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	runID := c.runID
	if runID == "" {
		runID, err = j.LatestRunID(ctx)
		if err != nil {
			return err
		}
		if runID == "" {
			fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("Journal is empty: "+path))
			return nil
		}
	}

	entries, err := j.List(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n  %s %s %s\n\n",
		cliui.KeyStyle.Render("Run"),
		cliui.NameStyle.Render(runID),
		cliui.DimStyle.Render(fmt.Sprintf("(%d commands)", len(entries))),
	)

	for _, e := range entries {
		output := e.Output
		if c.preview > 0 {
			output = utils.Preview(output, c.preview)
		}

		fmt.Fprintf(w, "  %s %s %s %s\n      %s\n",
			cliui.DimStyle.Render(strconv.Itoa(e.ConversationIndex+1)+"."+strconv.Itoa(e.Round)),
			statusMark(e.Status),
			cliui.ValueStyle.Render(e.Command),
			cliui.DimStyle.Render("("+cliui.FormatDuration(e.Duration)+")"),
			output,
		)
	}
	fmt.Fprintln(w)

	return nil
}

func statusMark(status string) string {
	if status == "completed" {
		return cliui.SuccessMark
	}
	return cliui.WarnStyle.Render(status)
}
