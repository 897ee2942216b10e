package llm

// ChatRequest is a provider-agnostic generation request.
type ChatRequest struct {
	// Model name, e.g. "gemini-2.0-flash". Empty uses the provider default.
	Model string `json:"model,omitempty"`

	// System is the system instruction for the whole conversation.
	System string `json:"system,omitempty"`

	// History holds the earlier turns, oldest first.
	History []Message `json:"history"`

	// Input is the text of the newest user turn.
	Input string `json:"input"`

	Temperature *float64 `json:"temperature,omitempty"`
}

// Messages returns History followed by Input as a user message.
func (r *ChatRequest) Messages() []Message {
	out := make([]Message, 0, len(r.History)+1)
	out = append(out, r.History...)
	return append(out, NewTextMessage(RoleUser, r.Input))
}
