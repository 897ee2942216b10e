// Package relay forwards a chat session's turns to a generation provider
// and records every answered user turn in the background.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/globalbuddy/buddy/pkg/chat"
	"github.com/globalbuddy/buddy/pkg/llm"
	"github.com/globalbuddy/buddy/pkg/llm/provider"
	buddylog "github.com/globalbuddy/buddy/pkg/logger"
	"github.com/globalbuddy/buddy/pkg/scenario"
	"github.com/globalbuddy/buddy/relay/worker"
)

// ErrNoMessages is returned by Reply for a request without turns.
var ErrNoMessages = errors.New("request has no messages")

// Relay is the server side chat.Transport. Replies are generated
// synchronously; recording happens on the worker pool.
type Relay struct {
	provider    provider.Provider
	model       string
	temperature *float64
	catalog     atomic.Pointer[scenario.Catalog]
	workerPool  *worker.Pool
	logger      *slog.Logger
}

// New creates a new Relay and starts its worker pool.
func New(config Config, logger *slog.Logger) (*Relay, error) {
	if config.Provider == nil {
		return nil, errors.New("provider is required")
	}

	if logger == nil {
		logger = buddylog.Nop()
	}

	wp, err := worker.NewPool(&worker.Config{
		ConvLog:    config.ConvLog,
		Driver:     config.Driver,
		Publisher:  config.Publisher,
		NumWorkers: config.NumWorkers,
		QueueSize:  config.QueueSize,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create worker pool: %w", err)
	}

	r := &Relay{
		provider:    config.Provider,
		model:       config.Model,
		temperature: config.Temperature,
		workerPool:  wp,
		logger:      logger,
	}

	catalog := config.Catalog
	if catalog == nil {
		catalog = scenario.Default()
	}
	r.catalog.Store(catalog)

	return r, nil
}

// Catalog returns the catalog currently in use.
func (r *Relay) Catalog() *scenario.Catalog {
	return r.catalog.Load()
}

// SetCatalog swaps the catalog. Requests already in flight keep the old one.
func (r *Relay) SetCatalog(c *scenario.Catalog) {
	if c != nil {
		r.catalog.Store(c)
	}
}

// Reply generates the assistant's answer to the last turn of req. Every
// earlier turn is sent as history. Unless the last turn is hidden or the
// request carries no session ID, the exchange is queued for recording.
func (r *Relay) Reply(ctx context.Context, req chat.Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", ErrNoMessages
	}

	catalog := r.Catalog()
	last := req.Messages[len(req.Messages)-1]

	history := make([]llm.Message, 0, len(req.Messages)-1)
	for _, t := range req.Messages[:len(req.Messages)-1] {
		role := llm.RoleAssistant
		if t.FromUser() {
			role = llm.RoleUser
		}
		history = append(history, llm.NewTextMessage(role, t.Text))
	}

	started := time.Now()
	resp, err := r.provider.Generate(ctx, &llm.ChatRequest{
		Model:       r.model,
		System:      catalog.SystemPrompt(req.ScenarioID),
		History:     history,
		Input:       last.Text,
		Temperature: r.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}

	r.logger.Debug("reply generated",
		"provider", r.provider.Name(),
		"model", resp.Model,
		"scenario", req.ScenarioID,
		"history", len(history),
		"duration", time.Since(started),
	)

	if !last.Hidden && req.SessionID != "" {
		r.enqueue(catalog, req, last, resp, started)
	}

	return resp.Text, nil
}

func (r *Relay) enqueue(catalog *scenario.Catalog, req chat.Request, last chat.Turn, resp *llm.ChatResponse, started time.Time) {
	label, emoji := req.ScenarioID, ""
	if sc, ok := catalog.Get(req.ScenarioID); ok {
		label, emoji = sc.Label, sc.Emoji
	}

	r.workerPool.Enqueue(worker.Job{
		Provider:      r.provider.Name(),
		Model:         resp.Model,
		SessionID:     req.SessionID,
		ScenarioID:    req.ScenarioID,
		ScenarioLabel: label,
		ScenarioEmoji: emoji,
		TurnID:        last.ID,
		UserText:      last.Text,
		Reply:         resp.Text,
		StartedAt:     started,
		CompletedAt:   time.Now(),
	})
}

// Close drains the worker pool.
func (r *Relay) Close() {
	r.workerPool.Close()
}

var _ chat.Transport = (*Relay)(nil)
