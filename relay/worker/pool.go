// Package worker provides an asynchronous worker pool that records finished
// conversation turns: it appends them to the conversation log, persists them
// with the provided storage.Driver and publishes them to the event stream.
//
// The pool decouples this bookkeeping from the relay's HTTP hot path so a
// slow disk, database or broker never delays a reply.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/globalbuddy/buddy/pkg/convlog"
	"github.com/globalbuddy/buddy/pkg/eventstream"
	"github.com/globalbuddy/buddy/pkg/logger"
	"github.com/globalbuddy/buddy/pkg/storage"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is one finished exchange to record.
type Job struct {
	Provider string
	Model    string

	SessionID     string
	ScenarioID    string
	ScenarioLabel string
	ScenarioEmoji string

	// TurnID is the ID of the user turn being answered.
	TurnID   string
	UserText string
	Reply    string

	StartedAt   time.Time
	CompletedAt time.Time
}

// Config is the configuration options for the worker pool. Every sink is
// optional; a nil sink is skipped.
type Config struct {
	// ConvLog receives a human readable copy of every turn.
	ConvLog *convlog.Log

	// Driver is the storage backend for transcript records.
	Driver storage.Driver

	// Publisher emits a turn event per job.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	Logger *slog.Logger
}

// Pool processes turn jobs asynchronously.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger

	closeOnce sync.Once
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			"session_id", job.SessionID,
			"scenario", job.ScenarioID,
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			"session_id", job.SessionID,
			"scenario", job.ScenarioID,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
	})
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}

// processJob records a job in every configured sink. A failing sink does
// not stop the others.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	if p.config.ConvLog != nil {
		p.config.ConvLog.Append(convlog.Entry{
			SessionID: job.SessionID,
			Label:     job.ScenarioLabel,
			Emoji:     job.ScenarioEmoji,
			UserText:  job.UserText,
			Reply:     job.Reply,
			Time:      job.CompletedAt,
		})
	}

	if p.config.Driver != nil {
		p.storeRecord(ctx, job)
	}

	if p.config.Publisher != nil {
		p.publish(ctx, job)
	}
}

func (p *Pool) storeRecord(ctx context.Context, job Job) {
	rec := &storage.Record{
		ID:         uuid.NewString(),
		TurnID:     job.TurnID,
		SessionID:  job.SessionID,
		ScenarioID: job.ScenarioID,
		UserText:   job.UserText,
		Reply:      job.Reply,
		Model:      job.Model,
		CreatedAt:  job.CompletedAt,
	}
	if rec.TurnID == "" {
		rec.TurnID = rec.ID
	}

	isNew, err := p.config.Driver.Put(ctx, rec)
	if err != nil {
		p.logger.Error("transcript storage failed",
			"session_id", job.SessionID,
			"error", err,
		)
		return
	}

	p.logger.Debug("transcript stored",
		"id", rec.ID,
		"session_id", job.SessionID,
		"is_new", isNew,
	)
}

func (p *Pool) publish(ctx context.Context, job Job) {
	event := &eventstream.TurnLoggedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeTurnLogged,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source: eventstream.EventSource{
			Scenario: job.ScenarioID,
			Provider: job.Provider,
			Model:    job.Model,
		},
		Turn: eventstream.TurnPayload{
			ID:          job.TurnID,
			SessionID:   job.SessionID,
			UserText:    job.UserText,
			Reply:       job.Reply,
			StartedAt:   job.StartedAt,
			CompletedAt: job.CompletedAt,
			DurationMs:  job.CompletedAt.Sub(job.StartedAt).Milliseconds(),
		},
	}

	if err := p.config.Publisher.PublishTurn(ctx, event); err != nil {
		p.logger.Warn("turn event publish failed",
			"session_id", job.SessionID,
			"error", err,
		)
	}
}
