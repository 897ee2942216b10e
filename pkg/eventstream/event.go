package eventstream

import (
	"time"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnLogged is emitted after a conversation turn is logged.
	EventTypeTurnLogged = "buddy.turn.logged"
)

// TurnLoggedEvent is a transport-neutral event payload for a logged turn.
type TurnLoggedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Turn          TurnPayload `json:"turn"`
}

// EventSource identifies where the turn originated.
type EventSource struct {
	Scenario string `json:"scenario"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// TurnPayload is the logged exchange.
type TurnPayload struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	UserText    string    `json:"user_text"`
	Reply       string    `json:"reply"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}
