package generation

import "context"

// ModelMessage is one chat turn sent to the model.
type ModelMessage struct {
	Role    string
	Content string
}

// ModelRequest carries the system prompt and the ordered chat turns for one
// completion call.
type ModelRequest struct {
	System   string
	Messages []ModelMessage
}

// ModelResponse is the model's reply plus its token usage when the provider
// reports it.
type ModelResponse struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// ModelClient abstracts the upstream chat model.
type ModelClient interface {
	Complete(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}

// SystemPromptSource supplies the system prompt for generation calls.
type SystemPromptSource interface {
	SystemPrompt() string
}

// ArtifactSink persists successful generation results. Implementations are
// best-effort: callers log failures and move on.
type ArtifactSink interface {
	Persist(ctx context.Context, sessionID string, result *Result) error
}
