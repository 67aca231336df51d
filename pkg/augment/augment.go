// Package augment runs the commands found in a conversation dataset and
// writes their output back into the dataset.
//
// Turns are consumed in pairs (0,1), (2,3), ... of each conversation. A pair
// whose roles are human then gpt has the human value executed as a shell
// command and the gpt value replaced with the command's output. Any other
// pair is left untouched. The dataset is saved every few conversations and
// once more when the run ends.
package augment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/papercomputeco/turnexec/pkg/dataset"
	"github.com/papercomputeco/turnexec/pkg/executor"
	"github.com/papercomputeco/turnexec/pkg/utils"
)

// Runner executes a single command.
type Runner interface {
	Execute(ctx context.Context, command string) *executor.Outcome
}

// Saver persists the whole dataset.
type Saver interface {
	Save(ds dataset.Dataset) error
}

// Execution describes one command run on behalf of a turn pair.
type Execution struct {
	RunID             string
	ConversationIndex int
	TurnIndex         int
	Round             int
	Outcome           *executor.Outcome
}

// Sink receives a record of every executed command.
type Sink interface {
	Record(ctx context.Context, execution *Execution) error
}

// Augmenter runs dataset commands and fills in their output.
type Augmenter struct {
	runner  Runner
	saver   Saver
	sinks   []Sink
	logger  *slog.Logger
	options Options
}

// NewAugmenter creates an Augmenter. Sinks are optional.
func NewAugmenter(runner Runner, saver Saver, logger *slog.Logger, opts Options, sinks ...Sink) *Augmenter {
	return &Augmenter{
		runner:  runner,
		saver:   saver,
		sinks:   sinks,
		logger:  logger,
		options: opts.withDefaults(),
	}
}

// Run processes the configured conversation range of ds in place, saving
// checkpoints along the way and the full dataset at the end. Only save
// failures are returned; command failures become marker text in the dataset.
func (a *Augmenter) Run(ctx context.Context, ds dataset.Dataset) (*Result, error) {
	started := time.Now()
	start, end := Bounds(a.options.Start, a.options.End, len(ds))

	result := &Result{Start: start, End: end}

	a.logger.Info("processing range",
		"conversations", len(ds),
		"start", start,
		"end", end,
		"count", end-start,
	)

	for idx := start; idx < end; idx++ {
		a.logger.Info("conversation", "position", idx+1, "end", end)

		if err := a.processConversation(ctx, idx, ds[idx], result); err != nil {
			return nil, err
		}
		result.Conversations++

		if (idx+1)%a.options.CheckpointEvery == 0 {
			a.logger.Info("saving checkpoint", "position", idx+1)
			if err := a.saver.Save(ds); err != nil {
				return nil, fmt.Errorf("saving checkpoint after conversation %d: %w", idx+1, err)
			}
			result.Checkpoints++
		}
	}

	a.logger.Info("saving results")
	if err := a.saver.Save(ds); err != nil {
		return nil, fmt.Errorf("saving results: %w", err)
	}

	result.Elapsed = time.Since(started)
	return result, nil
}

func (a *Augmenter) processConversation(ctx context.Context, idx int, conv *dataset.Conversation, result *Result) error {
	turns := conv.Turns()
	round := 0

	for i := 0; i+1 < len(turns); i += 2 {
		human, gpt := turns[i], turns[i+1]
		if human.From() != dataset.RoleHuman || gpt.From() != dataset.RoleGPT {
			a.logger.Warn("malformed turn pair, skipping", "position", idx+1, "turn", i)
			result.Skipped++
			continue
		}

		round++
		outcome := a.execute(ctx, round, human)

		if err := gpt.SetValue(outcome.Output); err != nil {
			return fmt.Errorf("storing output for conversation %d turn %d: %w", idx+1, i+1, err)
		}

		a.logger.Info("output", "round", round, "preview", utils.Preview(outcome.Output, a.options.PreviewLength))
		a.logger.Debug("command finished",
			"round", round,
			"status", outcome.Status,
			"duration", outcome.Duration,
		)

		result.Commands++
		switch outcome.Status {
		case executor.StatusTimeout:
			result.Timeouts++
		case executor.StatusError:
			result.Errors++
		}

		a.record(ctx, &Execution{
			RunID:             a.options.RunID,
			ConversationIndex: idx,
			TurnIndex:         i,
			Round:             round,
			Outcome:           outcome,
		})
	}

	return nil
}

func (a *Augmenter) execute(ctx context.Context, round int, human *dataset.Turn) *executor.Outcome {
	command, err := human.Value()
	if err != nil {
		a.logger.Info("command", "round", round, "command", "<invalid>")
		return &executor.Outcome{
			Command:   human.RawValue(),
			Status:    executor.StatusError,
			Err:       err,
			Output:    executor.ErrorMarker(err),
			StartedAt: time.Now(),
		}
	}

	a.logger.Info("command", "round", round, "command", command)
	return a.runner.Execute(ctx, command)
}

func (a *Augmenter) record(ctx context.Context, execution *Execution) {
	for _, sink := range a.sinks {
		if err := sink.Record(ctx, execution); err != nil {
			a.logger.Warn("failed to record execution",
				"position", execution.ConversationIndex+1,
				"turn", execution.TurnIndex,
				"error", err,
			)
		}
	}
}
