// Package provider defines the generation providers the relay can talk to.
package provider

import (
	"context"

	"github.com/globalbuddy/buddy/pkg/llm"
)

// Provider turns a ChatRequest into a reply from a language model.
type Provider interface {
	// Name returns the canonical provider name (e.g., "gemini", "ollama").
	Name() string

	// Generate sends the conversation upstream and returns the raw reply.
	Generate(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
}
