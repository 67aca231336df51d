package augment

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Result contains statistics from an augment run.
type Result struct {
	Start         int
	End           int
	Conversations int
	Commands      int
	Skipped       int
	Timeouts      int
	Errors        int
	Checkpoints   int
	Elapsed       time.Duration
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"Processed %s conversations in range [%d, %d)\n"+
			"Executed %s commands: %s timed out, %s failed to run, %s pairs skipped\n"+
			"Wrote %s checkpoints in %s",
		humanize.Comma(int64(r.Conversations)), r.Start, r.End,
		humanize.Comma(int64(r.Commands)),
		humanize.Comma(int64(r.Timeouts)),
		humanize.Comma(int64(r.Errors)),
		humanize.Comma(int64(r.Skipped)),
		humanize.Comma(int64(r.Checkpoints)),
		r.Elapsed.Round(time.Millisecond),
	)
}
