package events

import "context"

// Stream carrying generation progress updates.
const StreamGeneration = "events:generation"

// Event types
const (
	EventRunProgress = "run_progress"
	EventRunFinished = "run_finished"
)

type Event struct {
	Type    string         `json:"type"`
	RunID   string         `json:"run_id,omitempty"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
