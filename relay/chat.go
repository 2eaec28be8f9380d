package relay

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/careerai/relay/pkg/llm"
	"github.com/careerai/relay/pkg/utils"
	"github.com/careerai/relay/relay/header"
	"github.com/careerai/relay/relay/upstream"
)

const (
	missingKeyDetail   = "Server missing OPENROUTER_API_KEY"
	malformedPrefix    = "Malformed response: "
	transportPrefix    = "upstream request failed: "
	logBodyPreviewSize = 200
)

// handleChat relays a single chat request upstream.
func (r *Relay) handleChat(c *fiber.Ctx) error {
	requestID := header.RequestID(c)

	req, err := llm.ParseChatRequest(c.Body())
	if err != nil {
		r.logger.Debug("rejected chat request",
			"request_id", requestID,
			"error", err,
		)
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	completion, err := r.upstream.Complete(c.UserContext(), req, requestID)
	if err != nil {
		return r.upstreamError(requestID, err)
	}

	return c.JSON(llm.ChatResponse{
		Role:    completion.Role,
		Content: completion.Content,
		Raw:     completion.Raw,
	})
}

// upstreamError maps an upstream client error to the relay's reply.
func (r *Relay) upstreamError(requestID string, err error) error {
	var statusErr *upstream.StatusError
	var malformedErr *upstream.MalformedResponseError

	switch {
	case errors.Is(err, upstream.ErrMissingAPIKey):
		r.logger.Error("chat request refused: OPENROUTER_API_KEY is not set",
			"request_id", requestID,
		)
		return fiber.NewError(fiber.StatusInternalServerError, missingKeyDetail)

	case errors.As(err, &statusErr):
		r.logger.Warn("upstream returned an error",
			"request_id", requestID,
			"status", statusErr.StatusCode,
			"body", utils.Truncate(statusErr.Body, logBodyPreviewSize),
		)
		return fiber.NewError(statusErr.StatusCode, statusErr.Body)

	case errors.As(err, &malformedErr):
		r.logger.Error("upstream returned a malformed response",
			"request_id", requestID,
			"error", malformedErr.Err,
		)
		return fiber.NewError(fiber.StatusInternalServerError, malformedPrefix+malformedErr.Err.Error())

	default:
		r.logger.Error("upstream request failed",
			"request_id", requestID,
			"error", err,
		)
		return fiber.NewError(fiber.StatusBadGateway, transportPrefix+err.Error())
	}
}
