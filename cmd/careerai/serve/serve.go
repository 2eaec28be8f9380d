// Package servecmder provides the serve command that runs the chat relay.
package servecmder

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/careerai/relay/pkg/config"
	"github.com/careerai/relay/pkg/logger"
	"github.com/careerai/relay/relay"
	"github.com/careerai/relay/relay/upstream"
)

type ServeCommander struct {
	listen      string
	corsOrigins string
	upstream    string
	model       string
	timeout     string
	envFile     string
	logFile     string
	logFormat   string
	logSource   bool
	debug       bool

	cfg    *config.Config
	logger *slog.Logger

	// stdout is the console log sink; nil means os.Stdout.
	stdout io.Writer
}

const serveLongDesc string = `Run the CareerAI chat relay.

The relay exposes:
  GET  /health                 Liveness check
  POST /api/chat               Forward a chat to OpenRouter and return the first choice
  POST /api/roadmap/generate   Generate a learning roadmap for a target role
  POST /api/resume/generate    Generate resume sections and an ATS score
  POST /api/resume/ats-check   Score resume text locally (no upstream call)

The OpenRouter API key is read from OPENROUTER_API_KEY (or
CAREERAI_OPENROUTER_API_KEY). Variables in secrets/.env, or the file named by
--env-file, are loaded first but never override variables already set.

Examples:
  careerai serve
  careerai serve --listen :9000 --model openai/gpt-4o-mini
  careerai serve --env-file ./dev.env --log-file relay.log
  careerai serve --log-format json --log-source`

const serveShortDesc string = "Run the CareerAI chat relay"

// servedFlags are the registry flags bound to viper by serve.
var servedFlags = []string{
	config.FlagListen,
	config.FlagCORSOrigins,
	config.FlagUpstream,
	config.FlagModel,
	config.FlagTimeout,
}

func NewServeCmd() *cobra.Command {
	return newServeCmd(&ServeCommander{})
}

func newServeCmd(cmder *ServeCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagCORSOrigins, &cmder.corsOrigins)
	config.AddStringFlag(cmd, config.Flags, config.FlagUpstream, &cmder.upstream)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	cmd.Flags().StringVar(&cmder.envFile, "env-file", config.DefaultSecretsFile, "Path to a .env file with secrets")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")
	cmd.Flags().StringVar(&cmder.logFormat, "log-format", "pretty", "Console log format: pretty, text or json")
	cmd.Flags().BoolVar(&cmder.logSource, "log-source", false, "Include the source file and line in log records")

	return cmd
}

// loadConfig resolves the relay configuration: secrets file, then viper
// (flag > env > config.toml > defaults).
func (c *ServeCommander) loadConfig(cmd *cobra.Command) error {
	if _, err := config.LoadSecrets(c.envFile); err != nil {
		return err
	}

	configDir, _ := cmd.Flags().GetString("config-dir")
	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, servedFlags)

	c.cfg, err = config.FromViper(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	return nil
}

// relayConfig maps the resolved configuration onto the relay.
func (c *ServeCommander) relayConfig() (relay.Config, error) {
	timeout, err := c.cfg.OpenRouter.TimeoutDuration()
	if err != nil {
		return relay.Config{}, err
	}

	return relay.Config{
		ListenAddr:  c.cfg.Server.Listen,
		CORSOrigins: c.cfg.Server.CORSOrigins,
		Upstream: upstream.Config{
			APIKey:  c.cfg.OpenRouter.APIKey,
			URL:     c.cfg.OpenRouter.URL,
			Model:   c.cfg.OpenRouter.Model,
			Referer: c.cfg.OpenRouter.Referer,
			Title:   c.cfg.OpenRouter.Title,
			Timeout: timeout,
		},
	}, nil
}

// newLogger builds the console logger and, with --log-file, a JSON file
// sink alongside it. The returned func closes the file.
func (c *ServeCommander) newLogger() (*slog.Logger, func(), error) {
	format, err := logger.ParseFormat(c.logFormat)
	if err != nil {
		return nil, nil, err
	}

	console := logger.New(
		logger.WithDebug(c.debug),
		logger.WithFormat(format),
		logger.WithSource(c.logSource),
		logger.WithWriter(c.stdout),
	)
	if c.logFile == "" {
		return console, func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithDebug(c.debug),
		logger.WithFormat(logger.FormatJSON),
		logger.WithSource(c.logSource),
		logger.WithWriter(f),
	)
	return logger.Multi(console, file), func() { _ = f.Close() }, nil
}

func (c *ServeCommander) run() error {
	var closeLog func()
	var err error
	c.logger, closeLog, err = c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	relayConfig, err := c.relayConfig()
	if err != nil {
		return err
	}

	if relayConfig.Upstream.APIKey == "" {
		c.logger.Warn("OPENROUTER_API_KEY is not set; chat, roadmap and resume generation will fail until it is")
	}

	r, err := relay.New(relayConfig, c.logger)
	if err != nil {
		return fmt.Errorf("creating relay: %w", err)
	}
	defer r.Close()

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := r.Run(); err != nil {
			errChan <- fmt.Errorf("relay error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return nil
	}
}
