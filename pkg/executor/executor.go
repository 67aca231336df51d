// Package executor runs dataset commands through a shell and folds their
// output into the single text result written back into a dataset.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Status classifies how a command execution ended.
type Status string

const (
	// StatusCompleted means the command ran to completion. Its exit status
	// is irrelevant.
	StatusCompleted Status = "completed"

	// StatusTimeout means the command was killed after exceeding its timeout.
	StatusTimeout Status = "timeout"

	// StatusError means the command could not be run at all.
	StatusError Status = "error"
)

// MaxTimeout is the largest per-command timeout, in seconds, that fits a
// time.Duration.
const MaxTimeout = math.MaxInt64 / int64(time.Second)

var (
	// ErrUnknownBackend is returned by New for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown executor backend")

	// ErrInvalidOutput is reported when a command writes bytes that are not
	// UTF-8 text.
	ErrInvalidOutput = errors.New("command output is not valid UTF-8")
)

// Backend runs a single command and returns its raw output streams.
// A non-zero exit status is not an error. Implementations must stop the
// command when ctx is done.
type Backend interface {
	Run(ctx context.Context, command string) (stdout, stderr string, err error)
	Name() string
}

// Outcome is the result of executing one command.
type Outcome struct {
	Command   string
	Output    string
	Status    Status
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// Options configures an Executor.
type Options struct {
	// Backend selects how commands run: BackendExec or BackendInterp.
	Backend string

	// Shell is the shell binary used by BackendExec.
	Shell string

	// Timeout is the per-command timeout in whole seconds.
	Timeout int
}

// Executor runs commands with a fixed per-command timeout.
type Executor struct {
	backend Backend
	timeout int
}

// New creates an Executor for the given options.
func New(opts Options) (*Executor, error) {
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be a positive number of seconds, got %d", opts.Timeout)
	}
	if int64(opts.Timeout) > MaxTimeout {
		return nil, fmt.Errorf("timeout must not exceed %d seconds, got %d", MaxTimeout, opts.Timeout)
	}

	var backend Backend
	switch opts.Backend {
	case "", BackendExec:
		backend = NewShellBackend(opts.Shell)
	case BackendInterp:
		backend = NewInterpBackend()
	default:
		return nil, fmt.Errorf("%w: %q (available: %s, %s)", ErrUnknownBackend, opts.Backend, BackendExec, BackendInterp)
	}

	return NewWithBackend(backend, opts.Timeout), nil
}

// NewWithBackend creates an Executor around an explicit backend.
func NewWithBackend(backend Backend, timeout int) *Executor {
	return &Executor{
		backend: backend,
		timeout: timeout,
	}
}

// Backend returns the name of the backend commands run through.
func (e *Executor) Backend() string {
	return e.backend.Name()
}

// Timeout returns the per-command timeout in seconds.
func (e *Executor) Timeout() int {
	return e.timeout
}

// Execute runs command and always produces an Outcome. Timeouts and launch
// failures are reported through marker text in Output rather than as errors.
func (e *Executor) Execute(ctx context.Context, command string) *Outcome {
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(e.timeout)*time.Second)
	defer cancel()

	started := time.Now()
	stdout, stderr, err := e.backend.Run(runCtx, command)
	if err == nil && (!utf8.ValidString(stdout) || !utf8.ValidString(stderr)) {
		err = ErrInvalidOutput
	}
	outcome := &Outcome{
		Command:   command,
		StartedAt: started,
		Duration:  time.Since(started),
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		outcome.Status = StatusTimeout
		outcome.Output = TimeoutMarker(e.timeout)
	case err != nil:
		outcome.Status = StatusError
		outcome.Err = err
		outcome.Output = ErrorMarker(err)
	default:
		outcome.Status = StatusCompleted
		outcome.Output = Combine(stdout, stderr)
	}

	return outcome
}

// Combine joins captured stdout and stderr into the stored result: stderr
// follows stdout on a new line when both are present, line endings are
// normalised to "\n", and the whole text is trimmed of surrounding
// whitespace.
func Combine(stdout, stderr string) string {
	output := stdout
	if stderr != "" {
		if output != "" {
			output += "\n" + stderr
		} else {
			output = stderr
		}
	}
	return strings.TrimSpace(newlines.Replace(output))
}

// newlines folds "\r\n" and lone "\r" into "\n". Replacer tries the
// longer pattern first at each position.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// TimeoutMarker is the text stored for a command that exceeded its timeout.
func TimeoutMarker(timeout int) string {
	return fmt.Sprintf("[命令执行超时: %d秒]", timeout)
}

// ErrorMarker is the text stored for a command that could not be run.
func ErrorMarker(err error) string {
	return fmt.Sprintf("[命令执行错误: %s]", err)
}
