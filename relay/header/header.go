// Package header builds the headers exchanged on both legs of the relay:
//
//	Client <--> Relay <--> OpenRouter
//
// The client never sees the upstream credential and the upstream never sees
// the client's own headers; only the request id crosses both legs.
package header

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader tags a single relay call on both legs.
	RequestIDHeader = "X-Request-ID"

	// RefererHeader and TitleHeader are OpenRouter's app attribution headers.
	RefererHeader = "HTTP-Referer"
	TitleHeader   = "X-Title"

	maxRequestIDLen = 128
)

// Handler sets upstream request headers from the server-held credential.
type Handler struct {
	apiKey  string
	referer string
	title   string
}

// NewHandler creates a new header Handler. An empty apiKey is accepted;
// callers are expected to refuse the call before any header is built.
func NewHandler(apiKey, referer, title string) *Handler {
	return &Handler{
		apiKey:  apiKey,
		referer: referer,
		title:   title,
	}
}

// HasCredential reports whether an API key is configured.
func (h *Handler) HasCredential() bool {
	return h.apiKey != ""
}

// SetUpstreamRequestHeaders sets authorization, content type, attribution
// and request id on the outgoing upstream request.
func (h *Handler) SetUpstreamRequestHeaders(req *http.Request, requestID string) {
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if h.referer != "" {
		req.Header.Set(RefererHeader, h.referer)
	}
	if h.title != "" {
		req.Header.Set(TitleHeader, h.title)
	}
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}
}

// RequestID returns the caller supplied request id, or a fresh UUID when the
// caller sent none or sent one that is unreasonably long. The id is echoed
// back on the client response.
func RequestID(c *fiber.Ctx) string {
	id := strings.TrimSpace(c.Get(RequestIDHeader))
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}

	c.Set(RequestIDHeader, id)
	return id
}
