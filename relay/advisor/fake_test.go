package advisor_test

import (
	"context"
	"strings"
	"sync"

	"github.com/careerai/relay/pkg/llm"
	"github.com/careerai/relay/relay/upstream"
)

// fakeCompleter answers each prompt with the reply of the first rule whose
// marker appears in the user message.
type fakeCompleter struct {
	mu       sync.Mutex
	rules    []fakeRule
	fallback string
	requests []*llm.ChatRequest
}

type fakeRule struct {
	marker string
	reply  string
	err    error
}

func (f *fakeCompleter) on(marker, reply string) *fakeCompleter {
	f.rules = append(f.rules, fakeRule{marker: marker, reply: reply})
	return f
}

func (f *fakeCompleter) fail(marker string, err error) *fakeCompleter {
	f.rules = append(f.rules, fakeRule{marker: marker, err: err})
	return f
}

func (f *fakeCompleter) Complete(_ context.Context, req *llm.ChatRequest, _ string) (*upstream.Completion, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	prompt := req.Messages[len(req.Messages)-1].Content
	for _, r := range f.rules {
		if strings.Contains(prompt, r.marker) {
			if r.err != nil {
				return nil, r.err
			}
			return &upstream.Completion{Role: "assistant", Content: r.reply}, nil
		}
	}
	return &upstream.Completion{Role: "assistant", Content: f.fallback}, nil
}

func (f *fakeCompleter) prompts(marker string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, req := range f.requests {
		prompt := req.Messages[len(req.Messages)-1].Content
		if strings.Contains(prompt, marker) {
			out = append(out, prompt)
		}
	}
	return out
}
