// Package gemini implements the Provider interface on top of the Google
// Gen AI SDK (Gemini API backend).
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/globalbuddy/buddy/pkg/llm"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.0-flash"

	// APIKeyEnv is consulted when no API key is configured.
	APIKeyEnv = "GOOGLE_API_KEY"
)

var (
	// ErrMissingAPIKey is returned by New when no API key can be found.
	ErrMissingAPIKey = errors.New("gemini API key is required (set " + APIKeyEnv + ")")

	// ErrNoCandidates is returned when Gemini answers without a candidate.
	ErrNoCandidates = errors.New("gemini returned no candidates")
)

// Config configures the Gemini provider.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API endpoint. Used by tests.
	BaseURL string

	HTTPClient *http.Client
}

// Provider generates replies with Gemini.
type Provider struct {
	client *genai.Client
	model  string
}

// New creates a Gemini provider.
func New(ctx context.Context, c Config) (*Provider, error) {
	apiKey := c.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.HTTPClient,
	}
	if c.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Provider{client: client, model: model}, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

// Model returns the model used when a request names none.
func (p *Provider) Model() string {
	return p.model
}

// Generate sends the history plus the new input in a single GenerateContent
// call. No chat state is kept between calls.
func (p *Provider) Generate(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	msgs := req.Messages()
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		contents = append(contents, genai.NewContentFromText(m.Text, toRole(m.Role)))
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		config.Temperature = &t
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	out := &llm.ChatResponse{
		Model:      model,
		CreatedAt:  time.Now(),
		Text:       resp.Text(),
		StopReason: string(resp.Candidates[0].FinishReason),
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	return out, nil
}

func toRole(role string) genai.Role {
	if role == llm.RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}
