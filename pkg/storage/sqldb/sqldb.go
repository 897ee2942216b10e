// Package sqldb implements storage.Driver on top of database/sql. The
// sqlite and postgres packages open the connection and embed this driver.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/globalbuddy/buddy/pkg/storage"
)

// Dialect selects placeholder syntax.
type Dialect int

const (
	// SQLite uses "?" placeholders.
	SQLite Dialect = iota

	// Postgres uses "$n" placeholders.
	Postgres
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id          TEXT PRIMARY KEY,
	turn_id     TEXT NOT NULL,
	session_id  TEXT NOT NULL,
	scenario_id TEXT NOT NULL,
	user_text   TEXT NOT NULL,
	reply       TEXT NOT NULL,
	model       TEXT NOT NULL DEFAULT '',
	created_at  BIGINT NOT NULL,
	UNIQUE (session_id, turn_id)
)`

const sessionIndex = `CREATE INDEX IF NOT EXISTS turns_session_id ON turns (session_id, created_at)`

// Driver implements storage.Driver over a *sql.DB. Timestamps are stored
// as Unix nanoseconds so both dialects scan them the same way.
type Driver struct {
	DB      *sql.DB
	Dialect Dialect
}

// New wraps db and creates the schema if needed.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Driver, error) {
	d := &Driver{DB: db, Dialect: dialect}
	if err := d.migrate(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) migrate(ctx context.Context) error {
	for _, stmt := range []string{schema, sessionIndex} {
		if _, err := d.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// rebind rewrites "?" placeholders for the driver's dialect.
func (d *Driver) rebind(query string) string {
	if d.Dialect != Postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Put stores a record. Returns false when the session already holds the turn.
func (d *Driver) Put(ctx context.Context, rec *storage.Record) (bool, error) {
	if rec == nil {
		return false, storage.ErrNilRecord
	}

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	res, err := d.DB.ExecContext(ctx, d.rebind(`
		INSERT INTO turns (id, turn_id, session_id, scenario_id, user_text, reply, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`),
		rec.ID, rec.TurnID, rec.SessionID, rec.ScenarioID, rec.UserText, rec.Reply, rec.Model, created.UnixNano(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Get retrieves a record by its ID.
func (d *Driver) Get(ctx context.Context, id string) (*storage.Record, error) {
	row := d.DB.QueryRowContext(ctx, d.rebind(`
		SELECT id, turn_id, session_id, scenario_id, user_text, reply, model, created_at
		FROM turns WHERE id = ?`), id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// Sessions returns every session, most recently updated first.
func (d *Driver) Sessions(ctx context.Context) ([]storage.Session, error) {
	rows, err := d.DB.QueryContext(ctx, `
		SELECT session_id, MAX(scenario_id), COUNT(*), MIN(created_at), MAX(created_at) AS updated_at
		FROM turns
		GROUP BY session_id
		ORDER BY updated_at DESC, session_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []storage.Session
	for rows.Next() {
		var (
			s               storage.Session
			started, recent int64
		)
		if err := rows.Scan(&s.ID, &s.ScenarioID, &s.Turns, &started, &recent); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.StartedAt = time.Unix(0, started)
		s.UpdatedAt = time.Unix(0, recent)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Turns returns the records of one session, oldest first.
func (d *Driver) Turns(ctx context.Context, sessionID string) ([]*storage.Record, error) {
	rows, err := d.DB.QueryContext(ctx, d.rebind(`
		SELECT id, turn_id, session_id, scenario_id, user_text, reply, model, created_at
		FROM turns WHERE session_id = ?
		ORDER BY created_at, id`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var records []*storage.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	return records, nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.DB.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*storage.Record, error) {
	var (
		rec     storage.Record
		created int64
	)
	if err := row.Scan(&rec.ID, &rec.TurnID, &rec.SessionID, &rec.ScenarioID, &rec.UserText, &rec.Reply, &rec.Model, &created); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(0, created)
	return &rec, nil
}

var _ storage.Driver = (*Driver)(nil)
