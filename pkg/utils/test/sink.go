package testutils

import (
	"context"
	"errors"

	"github.com/papercomputeco/turnexec/pkg/augment"
)

// ErrRecordFailed is returned by MockSink when Fail is set.
var ErrRecordFailed = errors.New("record failed")

// MockSink is a test execution sink that records every execution.
type MockSink struct {
	Executions []*augment.Execution

	// Fail causes Record to return an error.
	Fail bool
}

// NewMockSink creates a new mock sink.
func NewMockSink() *MockSink {
	return &MockSink{Executions: make([]*augment.Execution, 0)}
}

func (m *MockSink) Record(_ context.Context, execution *augment.Execution) error {
	if m.Fail {
		return ErrRecordFailed
	}
	m.Executions = append(m.Executions, execution)
	return nil
}
