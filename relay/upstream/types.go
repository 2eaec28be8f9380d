package upstream

import (
	"encoding/json"

	"github.com/careerai/relay/pkg/llm"
)

// completionRequest is the body sent to the chat-completions endpoint.
type completionRequest struct {
	Model       string            `json:"model"`
	Messages    []llm.ChatMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
}

// completionResponse is the part of an OpenAI-compatible response the relay reads.
type completionResponse struct {
	Choices []completionChoice `json:"choices"`
}

type completionChoice struct {
	Message *completionMessage `json:"message"`
}

// completionMessage keeps role and content undecoded so an absent field
// (nil) can be told apart from an explicit null.
type completionMessage struct {
	Role    json.RawMessage `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Completion is the first choice of a successful upstream reply.
type Completion struct {
	Role    string
	Content string

	// Raw is the upstream body exactly as received.
	Raw json.RawMessage
}
