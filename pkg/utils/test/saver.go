package testutils

import (
	"errors"

	"github.com/papercomputeco/turnexec/pkg/dataset"
)

// ErrSaveFailed is returned by MockSaver when FailOnSave is reached.
var ErrSaveFailed = errors.New("save failed")

// MockSaver is a test saver that keeps an encoded snapshot of every save.
type MockSaver struct {
	// Snapshots holds the encoded dataset at each Save call.
	Snapshots [][]byte

	// FailOnSave makes the Nth Save call (1-based) fail. Zero never fails.
	FailOnSave int
}

// NewMockSaver creates a new mock saver.
func NewMockSaver() *MockSaver {
	return &MockSaver{Snapshots: make([][]byte, 0)}
}

func (m *MockSaver) Save(ds dataset.Dataset) error {
	if m.FailOnSave != 0 && len(m.Snapshots)+1 == m.FailOnSave {
		return ErrSaveFailed
	}

	data, err := ds.Encode()
	if err != nil {
		return err
	}
	m.Snapshots = append(m.Snapshots, data)
	return nil
}
