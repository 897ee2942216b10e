// Package inmemory provides a map-backed storage driver.
package inmemory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/globalbuddy/buddy/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	// mu is a read write sync mutex for locking the mapping of records
	mu sync.RWMutex

	records map[string]*storage.Record

	// bySession keeps record IDs per session in insertion order
	bySession map[string][]string

	// turns maps a session's turn IDs to record IDs
	turns map[turnKey]string
}

type turnKey struct {
	sessionID string
	turnID    string
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		records:   make(map[string]*storage.Record),
		bySession: make(map[string][]string),
		turns:     make(map[turnKey]string),
	}
}

// Put stores a copy of rec.
func (d *Driver) Put(_ context.Context, rec *storage.Record) (bool, error) {
	if rec == nil {
		return false, storage.ErrNilRecord
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := turnKey{sessionID: rec.SessionID, turnID: rec.TurnID}
	if _, ok := d.turns[key]; ok {
		return false, nil
	}
	if _, ok := d.records[rec.ID]; ok {
		return false, nil
	}

	stored := *rec
	d.records[rec.ID] = &stored
	d.turns[key] = rec.ID
	d.bySession[rec.SessionID] = append(d.bySession[rec.SessionID], rec.ID)
	return true, nil
}

// Get retrieves a record by its ID.
func (d *Driver) Get(_ context.Context, id string) (*storage.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.records[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id}
	}

	out := *rec
	return &out, nil
}

// Sessions returns every session, most recently updated first.
func (d *Driver) Sessions(_ context.Context) ([]storage.Session, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sessions := make([]storage.Session, 0, len(d.bySession))
	for id, ids := range d.bySession {
		s := storage.Session{ID: id, Turns: len(ids)}
		for _, rid := range ids {
			rec := d.records[rid]
			if s.StartedAt.IsZero() || rec.CreatedAt.Before(s.StartedAt) {
				s.StartedAt = rec.CreatedAt
			}
			if !rec.CreatedAt.Before(s.UpdatedAt) {
				s.UpdatedAt = rec.CreatedAt
				s.ScenarioID = rec.ScenarioID
			}
		}
		sessions = append(sessions, s)
	}

	slices.SortFunc(sessions, func(a, b storage.Session) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sessions, nil
}

// Turns returns the records of one session, oldest first.
func (d *Driver) Turns(_ context.Context, sessionID string) ([]*storage.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := d.bySession[sessionID]
	out := make([]*storage.Record, 0, len(ids))
	for _, id := range ids {
		rec := *d.records[id]
		out = append(out, &rec)
	}

	slices.SortStableFunc(out, func(a, b *storage.Record) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

var _ storage.Driver = (*Driver)(nil)
