package llm

import "encoding/json"

// ChatResponse is the normalized reply of POST /api/chat.
type ChatResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	// Raw is the upstream payload exactly as it was received.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// ErrorResponse is the body of every failed relay reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
