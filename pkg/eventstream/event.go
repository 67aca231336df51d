package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/turnexec/pkg/augment"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeCommandExecuted is emitted after a dataset command has run and
	// its output was written into the dataset.
	EventTypeCommandExecuted = "turnexec.command.executed"
)

// CommandExecutedEvent is a transport-neutral event payload for one executed
// dataset command.
type CommandExecutedEvent struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	EventID       string       `json:"event_id"`
	EmittedAt     time.Time    `json:"emitted_at"`
	Source        EventSource  `json:"source"`
	Position      TurnPosition `json:"position"`
	Command       CommandMeta  `json:"command"`
}

// EventSource identifies the run and dataset the command came from.
type EventSource struct {
	RunID    string `json:"run_id"`
	Dataset  string `json:"dataset,omitempty"`
	Backend  string `json:"backend,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// TurnPosition locates the executed turn pair inside the dataset.
type TurnPosition struct {
	ConversationIndex int `json:"conversation_index"`
	TurnIndex         int `json:"turn_index"`
	Round             int `json:"round"`
}

// CommandMeta captures the command, its stored output and how it ended.
type CommandMeta struct {
	Text        string    `json:"text"`
	Output      string    `json:"output"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}

// NewCommandExecutedEvent builds the event for an execution record.
func NewCommandExecutedEvent(execution *augment.Execution, source EventSource) *CommandExecutedEvent {
	outcome := execution.Outcome
	source.RunID = execution.RunID

	return &CommandExecutedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeCommandExecuted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Position: TurnPosition{
			ConversationIndex: execution.ConversationIndex,
			TurnIndex:         execution.TurnIndex,
			Round:             execution.Round,
		},
		Command: CommandMeta{
			Text:        outcome.Command,
			Output:      outcome.Output,
			Status:      string(outcome.Status),
			StartedAt:   outcome.StartedAt.UTC(),
			CompletedAt: outcome.StartedAt.Add(outcome.Duration).UTC(),
			DurationMs:  outcome.Duration.Milliseconds(),
		},
	}
}
