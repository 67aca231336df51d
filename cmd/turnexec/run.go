package turnexeccmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/papercomputeco/turnexec/pkg/augment"
	"github.com/papercomputeco/turnexec/pkg/cliui"
	"github.com/papercomputeco/turnexec/pkg/config"
	"github.com/papercomputeco/turnexec/pkg/dataset"
	"github.com/papercomputeco/turnexec/pkg/eventstream"
	"github.com/papercomputeco/turnexec/pkg/eventstream/kafka"
	"github.com/papercomputeco/turnexec/pkg/executor"
	"github.com/papercomputeco/turnexec/pkg/journal"
	"github.com/papercomputeco/turnexec/pkg/logger"
	"github.com/papercomputeco/turnexec/pkg/utils"
)

const confirmPrompt = "Confirm execution? (yes/no): "

type turnexecCommander struct {
	start     int
	end       int
	endSet    bool
	yes       bool
	debug     bool
	jsonLogs  bool
	logFile   string
	configDir string

	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

func (c *turnexecCommander) run(ctx context.Context, cfg *config.Config) error {
	if err := c.preflight(cfg); err != nil {
		return err
	}

	c.printBanner(cfg)

	if !c.yes {
		ok, err := c.confirm(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(c.out, "Cancelled")
			return nil
		}
	}

	runID := uuid.NewString()
	closeLog, err := c.setupLogger(runID)
	if err != nil {
		return err
	}
	defer closeLog()

	var ds dataset.Dataset
	if err := cliui.Step(c.out, "Loading "+cfg.Dataset.Input, func() error {
		var loadErr error
		ds, loadErr = dataset.Load(cfg.Dataset.Input)
		return loadErr
	}); err != nil {
		return err
	}

	runner, err := executor.New(executor.Options{
		Backend: cfg.Executor.Backend,
		Shell:   cfg.Executor.Shell,
		Timeout: cfg.Executor.Timeout,
	})
	if err != nil {
		return err
	}

	sinks, closeSinks, err := c.openSinks(cfg, runID)
	if err != nil {
		return err
	}
	defer closeSinks()

	c.logger.Debug("starting run", "run_id", runID, "backend", cfg.Executor.Backend)

	augmenter := augment.NewAugmenter(
		runner,
		dataset.NewFileStore(cfg.Dataset.Output),
		c.logger,
		augment.Options{
			Start:           c.start,
			End:             c.rangeEnd(),
			CheckpointEvery: cfg.Checkpoint.Every,
			PreviewLength:   cfg.Progress.PreviewLength,
			RunID:           runID,
		},
		sinks...,
	)

	result, err := augmenter.Run(ctx, ds)
	if err != nil {
		return err
	}

	c.printSummary(cfg, result)
	return nil
}

// rangeEnd is the exclusive end passed to the augmenter; an unset --end
// covers the whole dataset.
func (c *turnexecCommander) rangeEnd() int {
	if !c.endSet {
		return -1
	}
	return c.end
}

// preflight rejects runs that cannot start, before anything is printed or
// written.
func (c *turnexecCommander) preflight(cfg *config.Config) error {
	if _, err := os.Stat(cfg.Dataset.Input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("input file does not exist: %s", cfg.Dataset.Input)
		}
		return fmt.Errorf("checking input file: %w", err)
	}

	if c.start < 0 {
		return fmt.Errorf("start index must not be negative, got %d", c.start)
	}

	if c.endSet && c.end < 0 {
		return fmt.Errorf("end index must not be negative, got %d", c.end)
	}

	return cfg.Validate()
}

func (c *turnexecCommander) printBanner(cfg *config.Config) {
	end := "end"
	if c.endSet {
		end = strconv.Itoa(c.end)
	}

	rows := []cliui.Row{
		{Key: "Input", Value: cfg.Dataset.Input},
		{Key: "Output", Value: cfg.Dataset.Output},
		{Key: "Timeout", Value: strconv.Itoa(cfg.Executor.Timeout) + "s"},
		{Key: "Range", Value: fmt.Sprintf("[%d, %s)", c.start, end)},
		{Key: "Backend", Value: cfg.Executor.Backend},
	}
	if cfg.Journal.SQLitePath != "" {
		rows = append(rows, cliui.Row{Key: "Journal", Value: cfg.Journal.SQLitePath})
	}
	if cfg.Events.KafkaBrokers != "" {
		rows = append(rows, cliui.Row{Key: "Events", Value: cfg.Events.KafkaTopic + " @ " + cfg.Events.KafkaBrokers})
	}

	cliui.Banner(c.out, "turnexec: dataset command execution", rows)
}

// confirm asks before running anything. An interrupt while waiting counts as
// a refusal; signal handling ends as soon as the prompt is answered.
func (c *turnexecCommander) confirm(ctx context.Context) (bool, error) {
	promptCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.out, "\n%s This will execute the dataset's commands on this machine.\n",
		cliui.WarnStyle.Render("WARNING:"),
	)
	return cliui.Confirm(promptCtx, c.in, c.out, confirmPrompt)
}

// setupLogger builds the console logger and, with --log-file, tees it into a
// JSON file whose lines carry the run ID.
func (c *turnexecCommander) setupLogger(runID string) (func(), error) {
	console := logger.New(
		logger.WithWriter(c.out),
		logger.WithDebug(c.debug),
		logger.WithJSON(c.jsonLogs),
		logger.WithPretty(!c.jsonLogs),
	)

	if c.logFile == "" {
		c.logger = console
		return func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	c.logger = logger.Multi(console, logger.New(
		logger.WithWriter(f),
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithRunID(runID),
	))
	return func() { f.Close() }, nil
}

// openSinks builds the optional execution sinks. The returned close func
// releases everything that was opened.
func (c *turnexecCommander) openSinks(cfg *config.Config, runID string) ([]augment.Sink, func(), error) {
	var (
		sinks   []augment.Sink
		closers []func() error
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				c.logger.Warn("failed to close sink", "error", err)
			}
		}
	}

	if path := cfg.Journal.SQLitePath; path != "" {
		j, err := journal.Open(path)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, j)
		closers = append(closers, j.Close)
		c.logger.Debug("journaling executions", "path", path)
	}

	if brokers := splitBrokers(cfg.Events.KafkaBrokers); len(brokers) > 0 {
		publisher, err := kafka.NewPublisher(kafka.Config{
			Brokers: brokers,
			Topic:   cfg.Events.KafkaTopic,
		})
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, eventstream.NewSink(publisher, eventstream.EventSource{
			RunID:    runID,
			Dataset:  cfg.Dataset.Input,
			Backend:  cfg.Executor.Backend,
			Producer: utils.Producer(),
		}))
		closers = append(closers, publisher.Close)
		c.logger.Debug("publishing execution events", "topic", publisher.Topic(), "brokers", brokers)
	}

	return sinks, closeAll, nil
}

func (c *turnexecCommander) printSummary(cfg *config.Config, result *augment.Result) {
	fmt.Fprintf(c.out, "\n  %s Saved to %s", cliui.SuccessMark, cliui.NameStyle.Render(cfg.Dataset.Output))
	if info, err := os.Stat(cfg.Dataset.Output); err == nil {
		fmt.Fprintf(c.out, " %s", cliui.DimStyle.Render("("+humanize.Bytes(uint64(info.Size()))+")"))
	}
	fmt.Fprintf(c.out, "\n\n%s\n", result.Summary())
}

func splitBrokers(s string) []string {
	var brokers []string
	for b := range strings.SplitSeq(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
