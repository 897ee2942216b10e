// Package storage persists conversation transcripts: one Record per
// completed user turn, grouped by session.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNilRecord is returned by Put when given a nil record.
var ErrNilRecord = errors.New("cannot store nil record")

// Record is one logged exchange: a user message and the reply to it.
type Record struct {
	// ID is assigned by the server and unique across sessions.
	ID string `json:"id"`

	// TurnID is the client's id for the user turn. Clients only keep it
	// unique within a session, so records are deduplicated on
	// (SessionID, TurnID).
	TurnID     string    `json:"turn_id"`
	SessionID  string    `json:"session_id"`
	ScenarioID string    `json:"scenario_id"`
	UserText   string    `json:"user_text"`
	Reply      string    `json:"reply"`
	Model      string    `json:"model,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session summarizes the records of one session.
type Session struct {
	ID         string    `json:"id"`
	ScenarioID string    `json:"scenario_id"`
	Turns      int       `json:"turns"`
	StartedAt  time.Time `json:"started_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Driver defines the interface for persisting and retrieving transcripts.
type Driver interface {
	// Put stores a record. Returns true if the record was newly inserted,
	// false if the session already has a record for the same turn.
	Put(ctx context.Context, rec *Record) (bool, error)

	// Get retrieves a record by its ID.
	Get(ctx context.Context, id string) (*Record, error)

	// Sessions returns every session, most recently updated first.
	Sessions(ctx context.Context) ([]Session, error)

	// Turns returns the records of one session, oldest first.
	Turns(ctx context.Context, sessionID string) ([]*Record, error)

	// Close closes the store and releases any resources.
	Close() error
}
