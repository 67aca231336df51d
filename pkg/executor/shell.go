package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

const (
	// BackendExec runs commands as `<shell> -c <command>` subprocesses.
	BackendExec = "exec"

	// DefaultShell is the shell used by BackendExec when none is configured.
	DefaultShell = "/bin/sh"

	// waitDelay bounds how long Wait blocks on output pipes after the shell
	// exits or is killed, in case a detached grandchild still holds them.
	waitDelay = 2 * time.Second
)

// ShellBackend runs each command in a fresh shell subprocess that inherits
// this process's environment.
type ShellBackend struct {
	shell string
}

// NewShellBackend creates a ShellBackend. An empty shell means DefaultShell.
func NewShellBackend(shell string) *ShellBackend {
	if shell == "" {
		shell = DefaultShell
	}
	return &ShellBackend{shell: shell}
}

// Name implements Backend.
func (b *ShellBackend) Name() string {
	return BackendExec
}

// Shell returns the shell binary commands run through.
func (b *ShellBackend) Shell() string {
	return b.shell
}

// Run implements Backend.
func (b *ShellBackend) Run(ctx context.Context, command string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, b.shell, "-c", command)
	cmd.Env = os.Environ()
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Commands that run and fail still produce ordinary output.
			return stdout.String(), stderr.String(), nil
		}
		if errors.Is(err, exec.ErrWaitDelay) {
			return stdout.String(), stderr.String(), nil
		}
		return stdout.String(), stderr.String(), err
	}

	return stdout.String(), stderr.String(), nil
}
