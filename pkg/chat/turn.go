// Package chat holds the client-side state of one chat session: the ordered
// turns, the pending flag and the set of expanded translations.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a turn.
type Sender string

const (
	SenderUser Sender = "user"

	// SenderAssistant is serialized as "ai" to stay wire compatible with
	// existing web clients.
	SenderAssistant Sender = "ai"
)

// Turn is a single message in a conversation.
type Turn struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`

	// Hidden turns are synthetic opening triggers. They are sent upstream
	// but never rendered or logged.
	Hidden bool `json:"hidden,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
}

// NewTurn creates a turn with a time-ordered ID.
func NewTurn(sender Sender, text string, hidden bool) Turn {
	return Turn{
		ID:        newID(),
		Text:      text,
		Sender:    sender,
		Hidden:    hidden,
		CreatedAt: time.Now(),
	}
}

// UnmarshalJSON accepts the id as a JSON string or number. Web clients
// number their turns with millisecond timestamps.
func (t *Turn) UnmarshalJSON(data []byte) error {
	type plain Turn
	var wire struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*t = Turn(wire.plain)
	id, err := turnID(wire.ID)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func turnID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("turn id must be a string or number: %s", raw)
	}
	return n.String(), nil
}

// FromUser reports whether the turn was written by the user.
func (t Turn) FromUser() bool {
	return t.Sender == SenderUser
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Request is what a Transport sends upstream for one reply.
type Request struct {
	SessionID  string `json:"sessionId,omitempty"`
	ScenarioID string `json:"scenario"`
	Messages   []Turn `json:"messages"`
}

// Transport produces the assistant's raw reply to the last turn of a request.
type Transport interface {
	Reply(ctx context.Context, req Request) (string, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request) (string, error)

func (f TransportFunc) Reply(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
