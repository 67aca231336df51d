package testutils

import (
	"context"
	"time"

	"github.com/papercomputeco/turnexec/pkg/executor"
)

// MockRunner is a test command runner that returns canned outputs and
// records every command it was asked to run.
type MockRunner struct {
	// Outputs maps a command to the output returned for it. Commands not
	// in the map echo themselves back.
	Outputs map[string]string

	// TimeoutOn causes Execute to report a timeout for the matching command.
	TimeoutOn string

	// Commands accumulates every executed command in order.
	Commands []string
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Outputs:  make(map[string]string),
		Commands: make([]string, 0),
	}
}

func (m *MockRunner) Execute(_ context.Context, command string) *executor.Outcome {
	m.Commands = append(m.Commands, command)

	outcome := &executor.Outcome{
		Command:   command,
		Status:    executor.StatusCompleted,
		StartedAt: time.Now(),
	}

	if m.TimeoutOn != "" && command == m.TimeoutOn {
		outcome.Status = executor.StatusTimeout
		outcome.Output = executor.TimeoutMarker(1)
		return outcome
	}

	if out, ok := m.Outputs[command]; ok {
		outcome.Output = out
	} else {
		outcome.Output = command
	}
	return outcome
}
