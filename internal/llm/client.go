package llm

import "context"

// Client produces the next assistant message for a conversation transcript.
// Implementations are synchronous and blocking; a transport failure is
// returned as an error and is fatal to the calling run.
type Client interface {
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
	Provider() string
	Model() string
}

type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
}
