package relay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/careerai/relay/pkg/ats"
	"github.com/careerai/relay/relay/advisor"
	"github.com/careerai/relay/relay/header"
)

const (
	roadmapPath  = "/api/roadmap/generate"
	resumePath   = "/api/resume/generate"
	atsCheckPath = "/api/resume/ats-check"
)

// ATSCheckRequest is the body accepted by the ATS check endpoint.
type ATSCheckRequest struct {
	ResumeContent  string   `json:"resumeContent"`
	TargetRole     string   `json:"targetRole"`
	TargetKeywords []string `json:"targetKeywords"`
}

// decodeBody decodes a JSON request body. Failures are 422 like /api/chat.
func decodeBody(body []byte, out any) error {
	if len(body) == 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "request body is required")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func required(value, detail string) error {
	if strings.TrimSpace(value) == "" {
		return fiber.NewError(fiber.StatusBadRequest, detail)
	}
	return nil
}

// handleRoadmap generates a learning roadmap for a target role.
func (r *Relay) handleRoadmap(c *fiber.Ctx) error {
	requestID := header.RequestID(c)

	var req advisor.RoadmapRequest
	if err := decodeBody(c.Body(), &req); err != nil {
		return err
	}
	if err := required(req.TargetRole, "Target role is required"); err != nil {
		return err
	}

	roadmap, err := r.advisor.GenerateRoadmap(c.UserContext(), &req, requestID)
	if err != nil {
		return r.upstreamError(requestID, err)
	}

	return c.JSON(roadmap)
}

// handleResume generates resume sections and scores the result.
func (r *Relay) handleResume(c *fiber.Ctx) error {
	requestID := header.RequestID(c)

	var req advisor.ResumeRequest
	if err := decodeBody(c.Body(), &req); err != nil {
		return err
	}
	if err := required(req.UserProfile.TargetRole, "Target role is required"); err != nil {
		return err
	}

	resume, err := r.advisor.GenerateResume(c.UserContext(), &req, requestID)
	if err != nil {
		return r.upstreamError(requestID, err)
	}

	return c.JSON(resume)
}

// handleATSCheck scores resume text locally. It never calls upstream and
// works without an API key.
func (r *Relay) handleATSCheck(c *fiber.Ctx) error {
	requestID := header.RequestID(c)

	var req ATSCheckRequest
	if err := decodeBody(c.Body(), &req); err != nil {
		return err
	}
	if err := required(req.ResumeContent, "Resume content is required"); err != nil {
		return err
	}

	result := ats.Analyze(req.ResumeContent, req.TargetRole, req.TargetKeywords)

	r.logger.Debug("scored resume",
		"request_id", requestID,
		"score", result.OverallScore,
		"recommendations", len(result.Recommendations),
	)

	return c.JSON(result)
}
