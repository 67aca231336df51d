package executor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// BackendInterp runs commands through the mvdan.cc/sh interpreter. Builtins
// run in-process; external programs are spawned by the interpreter.
const BackendInterp = "interp"

// InterpBackend interprets each command in a fresh runner so no shell state
// leaks from one dataset command into the next.
type InterpBackend struct{}

// NewInterpBackend creates an InterpBackend.
func NewInterpBackend() *InterpBackend {
	return &InterpBackend{}
}

// Name implements Backend.
func (b *InterpBackend) Name() string {
	return BackendInterp
}

// Run implements Backend.
func (b *InterpBackend) Run(ctx context.Context, command string) (string, string, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", "", fmt.Errorf("failed to parse command: %w", err)
	}

	outBuf := &lockedBuffer{}
	errBuf := &lockedBuffer{}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, outBuf, errBuf),
	)
	if err != nil {
		return "", "", fmt.Errorf("failed to create shell runner: %w", err)
	}

	err = runner.Run(ctx, prog)
	if err != nil {
		if _, ok := interp.IsExitStatus(err); ok {
			return outBuf.String(), errBuf.String(), nil
		}
		if ctx.Err() != nil {
			return outBuf.String(), errBuf.String(), ctx.Err()
		}
		return outBuf.String(), errBuf.String(), err
	}

	return outBuf.String(), errBuf.String(), nil
}

// lockedBuffer is written to by the interpreter and by the copy goroutines
// of spawned processes.
type lockedBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
