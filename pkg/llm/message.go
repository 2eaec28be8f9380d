package llm

import (
	"encoding/json"
	"errors"
)

// ChatMessage is a single role/content pair in the upstream chat format.
// Role values are not checked: "system", "user", "assistant" and anything
// else the upstream accepts are forwarded untouched.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a message with the given role and content.
func NewTextMessage(role, content string) ChatMessage {
	return ChatMessage{Role: role, Content: content}
}

// UnmarshalJSON requires both fields to be present. Empty strings are fine.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var aux struct {
		Role    *string `json:"role"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Role == nil {
		return errors.New("message role is required")
	}
	if aux.Content == nil {
		return errors.New("message content is required")
	}

	m.Role = *aux.Role
	m.Content = *aux.Content
	return nil
}
