package eventstream

import (
	"context"

	"github.com/papercomputeco/turnexec/pkg/augment"
)

// Sink adapts a Publisher to receive augment execution records.
type Sink struct {
	publisher Publisher
	source    EventSource
}

// NewSink creates a Sink publishing through p. source is stamped on every
// event; its RunID is taken from each execution.
func NewSink(p Publisher, source EventSource) *Sink {
	return &Sink{publisher: p, source: source}
}

// Record implements augment.Sink.
func (s *Sink) Record(ctx context.Context, execution *augment.Execution) error {
	return s.publisher.PublishExecution(ctx, NewCommandExecutedEvent(execution, s.source))
}
