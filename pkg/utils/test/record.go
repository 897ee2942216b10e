package testutils

import (
	"time"

	"github.com/globalbuddy/buddy/pkg/storage"
)

// NewTestRecord creates a simple transcript record for testing
func NewTestRecord(id, sessionID string, at time.Time) *storage.Record {
	return &storage.Record{
		ID:         id,
		TurnID:     "turn-" + id,
		SessionID:  sessionID,
		ScenarioID: "cafe",
		UserText:   "user text " + id,
		Reply:      "reply " + id,
		Model:      "test-model",
		CreatedAt:  at,
	}
}
