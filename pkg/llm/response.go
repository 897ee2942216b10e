package llm

import "time"

// ChatResponse is a provider-agnostic generation result.
type ChatResponse struct {
	// Model that generated the response, as reported by the provider.
	Model string `json:"model"`

	CreatedAt time.Time `json:"created_at,omitzero"`

	// Text is the raw reply, before any decoding.
	Text string `json:"text"`

	StopReason string `json:"stop_reason,omitempty"`

	Usage *Usage `json:"usage,omitempty"`
}

// Usage contains token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ErrorResponse is the JSON body returned by the HTTP API on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
