package llm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultTemperature is applied when a request carries no temperature.
const DefaultTemperature = 0.7

// ChatRequest is the body accepted by POST /api/chat.
type ChatRequest struct {
	// Conversation messages, oldest first
	Messages []ChatMessage `json:"messages"`

	// Model overrides the relay's default model when non-empty
	Model string `json:"model,omitempty"`

	// Temperature is nil when the caller omitted it or sent null
	Temperature *float64 `json:"temperature,omitempty"`
}

// ParseChatRequest decodes and validates a request body.
// A missing or null "messages" field is rejected; an empty list is not.
func ParseChatRequest(body []byte) (*ChatRequest, error) {
	if len(body) == 0 {
		return nil, errors.New("request body is required")
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Messages == nil {
		return nil, errors.New("messages field is required")
	}

	return &req, nil
}

// EffectiveTemperature returns the request temperature or DefaultTemperature.
func (r *ChatRequest) EffectiveTemperature() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}
