package eventstream

import "context"

// Publisher publishes execution events to an event stream backend.
type Publisher interface {
	PublishExecution(ctx context.Context, event *CommandExecutedEvent) error
	Close() error
}
