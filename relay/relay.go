// Package relay provides an HTTP relay that forwards chat requests to an
// OpenRouter compatible chat-completions API with a server-held key and
// returns a normalized reply.
package relay

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/careerai/relay/pkg/llm"
	"github.com/careerai/relay/relay/advisor"
	"github.com/careerai/relay/relay/header"
	"github.com/careerai/relay/relay/upstream"
)

const (
	healthPath = "/health"
	chatPath   = "/api/chat"
)

// Relay is the chat relay server. The upstream client is built once in New
// and shared read-only by every request.
type Relay struct {
	config   Config
	upstream *upstream.Client
	advisor  *advisor.Advisor
	logger   *slog.Logger
	server   *fiber.App
}

// New creates a new Relay.
func New(config Config, logger *slog.Logger) (*Relay, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	client, err := upstream.New(config.Upstream, logger)
	if err != nil {
		return nil, fmt.Errorf("could not create upstream client: %w", err)
	}

	origins := config.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowCredentials: false,
		ExposeHeaders:    header.RequestIDHeader,
	}))
	app.Use(compress.New())

	r := &Relay{
		config:   config,
		upstream: client,
		advisor:  advisor.New(client, logger),
		logger:   logger,
		server:   app,
	}

	app.Get(healthPath, r.handleHealth)
	app.Post(chatPath, r.handleChat)
	app.Post(roadmapPath, r.handleRoadmap)
	app.Post(resumePath, r.handleResume)
	app.Post(atsCheckPath, r.handleATSCheck)

	return r, nil
}

// HasAPIKey reports whether the upstream credential is configured.
func (r *Relay) HasAPIKey() bool {
	return r.upstream.HasAPIKey()
}

// Run starts the relay server on the configured listening address
func (r *Relay) Run() error {
	r.logger.Info("starting relay server",
		"listen", r.config.ListenAddr,
		"upstream", r.upstream.URL(),
		"model", r.upstream.DefaultModel(),
	)

	return r.server.Listen(r.config.ListenAddr)
}

// RunWithListener starts the relay server using the provided listener.
func (r *Relay) RunWithListener(listener net.Listener) error {
	r.logger.Info("starting relay server",
		"listen", listener.Addr().String(),
		"upstream", r.upstream.URL(),
		"model", r.upstream.DefaultModel(),
	)

	return r.server.Listener(listener)
}

// Close gracefully shuts down the relay
func (r *Relay) Close() error {
	return r.server.Shutdown()
}

// Handler exposes the relay as a net/http handler.
func (r *Relay) Handler() http.Handler {
	return adaptor.FiberApp(r.server)
}

func (r *Relay) handleHealth(c *fiber.Ctx) error {
	return c.JSON(llm.HealthResponse{Status: "ok"})
}

// errorHandler renders every error as {"detail": ...}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(llm.ErrorResponse{Detail: err.Error()})
}
