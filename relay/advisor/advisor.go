// Package advisor builds career-planning prompts, sends them through the
// relay's upstream client and shapes the replies into roadmaps and resumes.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/careerai/relay/pkg/llm"
	"github.com/careerai/relay/relay/upstream"
)

// DefaultConcurrency bounds the upstream calls one generation runs at once.
const DefaultConcurrency = 4

// ErrNoContent is wrapped in an *upstream.MalformedResponseError when the
// upstream reply is empty.
var ErrNoContent = errors.New("no content generated")

// Completer sends one chat request upstream. *upstream.Client implements it.
type Completer interface {
	Complete(ctx context.Context, req *llm.ChatRequest, requestID string) (*upstream.Completion, error)
}

// Advisor generates roadmaps and resumes. It is safe for concurrent use.
type Advisor struct {
	completer   Completer
	logger      *slog.Logger
	concurrency int
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithConcurrency sets how many upstream calls may run in parallel.
func WithConcurrency(n int) Option {
	return func(a *Advisor) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// New creates a new Advisor.
func New(completer Completer, logger *slog.Logger, opts ...Option) *Advisor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &Advisor{
		completer:   completer,
		logger:      logger,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// generate sends a system and user prompt upstream and returns the trimmed
// reply text.
func (a *Advisor) generate(ctx context.Context, system, prompt, requestID string) (string, error) {
	temperature := llm.DefaultTemperature
	req := &llm.ChatRequest{
		Messages: []llm.ChatMessage{
			llm.NewTextMessage("system", system),
			llm.NewTextMessage("user", prompt),
		},
		Temperature: &temperature,
	}

	completion, err := a.completer.Complete(ctx, req, requestID)
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(completion.Content)
	if content == "" {
		return "", &upstream.MalformedResponseError{Err: ErrNoContent}
	}
	return content, nil
}

// stripFences removes markdown code fences models often wrap JSON in.
func stripFences(reply string) string {
	reply = strings.ReplaceAll(reply, "```json", "")
	reply = strings.ReplaceAll(reply, "```", "")
	return strings.TrimSpace(reply)
}

// decodeReply decodes a possibly fenced JSON reply into out.
func decodeReply(reply string, out any) error {
	return json.Unmarshal([]byte(stripFences(reply)), out)
}

// rawReply returns a fenced JSON reply as raw JSON, or the reply as a JSON
// string when it is not valid JSON.
func rawReply(reply string) json.RawMessage {
	stripped := stripFences(reply)
	if json.Valid([]byte(stripped)) {
		return json.RawMessage(stripped)
	}

	b, _ := json.Marshal(reply)
	return json.RawMessage(b)
}

// window returns values[from:to] clamped to the slice bounds. A negative to
// means the end of the slice.
func window(values []string, from, to int) []string {
	if to < 0 || to > len(values) {
		to = len(values)
	}
	if from > to {
		from = to
	}
	out := make([]string, to-from)
	copy(out, values[from:to])
	return out
}
