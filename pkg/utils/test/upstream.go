package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockUpstream is a fake OpenAI-compatible chat-completions endpoint backed
// by httptest. It records every request it receives.
type MockUpstream struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	queued   []queuedReply
	requests []RecordedRequest
}

type queuedReply struct {
	status int
	body   string
}

// RecordedRequest is a single call seen by MockUpstream.
type RecordedRequest struct {
	Header http.Header
	Body   map[string]any
}

// NewMockUpstream starts a MockUpstream that answers with a single
// assistant choice containing content.
func NewMockUpstream(content string) *MockUpstream {
	m := &MockUpstream{}
	m.Reply(http.StatusOK, CompletionBody("assistant", content))
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

// CompletionBody returns a minimal chat-completions response body.
func CompletionBody(role, content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":     "gen-test",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": role, "content": content},
			},
		},
	})
	return string(b)
}

// Reply sets the status and raw body returned for subsequent calls.
func (m *MockUpstream) Reply(status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.body = body
}

// ReplyNext queues a reply for the next call only. Queued replies are used
// in order before falling back to the one set by Reply.
func (m *MockUpstream) ReplyNext(status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, queuedReply{status: status, body: body})
}

// URL returns the endpoint to configure as the upstream URL.
func (m *MockUpstream) URL() string {
	return m.Server.URL + "/api/v1/chat/completions"
}

// Requests returns a copy of every recorded request.
func (m *MockUpstream) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Close shuts down the server.
func (m *MockUpstream) Close() {
	m.Server.Close()
}

func (m *MockUpstream) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{Header: r.Header.Clone(), Body: body})
	status, reply := m.status, m.body
	if len(m.queued) > 0 {
		status, reply = m.queued[0].status, m.queued[0].body
		m.queued = m.queued[1:]
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}
