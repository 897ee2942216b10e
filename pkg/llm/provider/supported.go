package provider

import (
	"context"
	"fmt"

	"github.com/globalbuddy/buddy/pkg/llm/provider/gemini"
	"github.com/globalbuddy/buddy/pkg/llm/provider/ollama"
)

// Supported provider type constants
const (
	Gemini = "gemini"
	Ollama = "ollama"
)

// Config selects and configures a provider.
type Config struct {
	// Type is one of SupportedProviders().
	Type string

	// Model overrides the provider's default model.
	Model string

	// APIKey authenticates against hosted providers.
	APIKey string

	// Upstream overrides the provider's base URL.
	Upstream string
}

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{Gemini, Ollama}
}

// New creates the provider named by c.Type.
func New(ctx context.Context, c Config) (Provider, error) {
	switch c.Type {
	case Gemini:
		return gemini.New(ctx, gemini.Config{
			APIKey:  c.APIKey,
			Model:   c.Model,
			BaseURL: c.Upstream,
		})
	case Ollama:
		return ollama.New(ollama.Config{
			Model:   c.Model,
			BaseURL: c.Upstream,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", c.Type, SupportedProviders())
	}
}
