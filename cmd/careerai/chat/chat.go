// Package chatcmder provides the chat command for interactive chat
// through a running careerai relay.
package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/careerai/relay/pkg/cliui"
	"github.com/careerai/relay/pkg/config"
	"github.com/careerai/relay/pkg/llm"
	"github.com/careerai/relay/pkg/logger"
	"github.com/careerai/relay/relay/header"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("mentor> ")
)

const (
	exitCommand  = "/exit"
	resetCommand = "/reset"

	// The relay bounds its own upstream call; leave headroom for it.
	clientTimeout = 2 * time.Minute
)

type chatCommander struct {
	relayTarget    string
	model          string
	temperature    float64
	temperatureSet bool
	system         string
	raw            bool
	debug          bool

	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	httpClient *http.Client
	logger     *slog.Logger
}

// relayError is a non-200 reply from the relay.
type relayError struct {
	status int
	detail string
}

func (e *relayError) Error() string {
	return fmt.Sprintf("relay returned status %d: %s", e.status, e.detail)
}

const chatLongDesc string = `Start an interactive career mentoring chat through a careerai relay.

Messages are kept in memory for the session and sent in full on every turn.
Replies are rendered as markdown unless --raw is set. If a turn fails, the
message is dropped from history so it can be retried.

Type /reset to start over or /exit (or Ctrl+D) to quit.

Examples:
  careerai chat
  careerai chat --model openai/gpt-4o-mini --temperature 0.3
  careerai chat --system "You are a concise career mentor." --relay-target http://localhost:9000`

const chatShortDesc string = "Interactive chat through the careerai relay"

func NewChatCmd() *cobra.Command {
	return newChatCmd(&chatCommander{})
}

func newChatCmd(cmder *chatCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagRelayTarget})
			cmder.relayTarget = strings.TrimRight(v.GetString("client.relay_target"), "/")
			cmder.temperatureSet = cmd.Flags().Changed("temperature")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagRelayTarget, &cmder.relayTarget)
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model override (default: the relay's model)")
	cmd.Flags().Float64VarP(&cmder.temperature, "temperature", "t", llm.DefaultTemperature, "Sampling temperature")
	cmd.Flags().StringVarP(&cmder.system, "system", "s", "", "System prompt sent at the start of the conversation")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print replies without markdown rendering")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.in == nil {
		c.in = os.Stdin
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.errOut == nil {
		c.errOut = os.Stderr
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: clientTimeout}
	}
	if c.logger == nil {
		c.logger = logger.New(logger.WithDebug(c.debug), logger.WithFormat(logger.FormatPretty), logger.WithWriter(c.errOut))
	}

	model := c.model
	if model == "" {
		model = "relay default"
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("Relay:"), cliui.NameStyle.Render(c.relayTarget))
	fmt.Fprintf(c.out, "  %s %s\n\n", cliui.KeyStyle.Render("Model:"), cliui.NameStyle.Render(model))
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /reset to start over, /exit or Ctrl+D to quit."))

	messages := c.initialMessages()
	scanner := bufio.NewScanner(c.in)

	for {
		fmt.Fprint(c.out, userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case exitCommand:
			fmt.Fprintln(c.out)
			return nil
		case resetCommand:
			messages = c.initialMessages()
			fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Conversation cleared."))
			continue
		}

		messages = append(messages, llm.NewTextMessage("user", input))

		var reply *llm.ChatResponse
		err := cliui.Step(c.out, "Thinking", func() error {
			var sendErr error
			reply, sendErr = c.send(ctx, messages)
			return sendErr
		})
		if err != nil {
			fmt.Fprintf(c.errOut, "  %s %s\n\n", cliui.FailMark, cliui.ErrorStyle.Render(err.Error()))
			// Remove the failed user message so we can retry
			messages = messages[:len(messages)-1]
			continue
		}

		messages = append(messages, llm.NewTextMessage(reply.Role, reply.Content))
		c.printReply(reply.Content)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return nil
}

func (c *chatCommander) initialMessages() []llm.ChatMessage {
	if c.system == "" {
		return []llm.ChatMessage{}
	}
	return []llm.ChatMessage{llm.NewTextMessage("system", c.system)}
}

func (c *chatCommander) printReply(content string) {
	fmt.Fprintln(c.out, assistantPrompt)
	if c.raw {
		fmt.Fprintf(c.out, "%s\n\n", content)
		return
	}

	rendered, err := cliui.RenderMarkdown(content)
	if err != nil {
		c.logger.Debug("markdown rendering failed", "error", err)
	}
	fmt.Fprintln(c.out, rendered)
}

// send posts the full history to the relay and returns its reply.
func (c *chatCommander) send(ctx context.Context, messages []llm.ChatMessage) (*llm.ChatResponse, error) {
	reqBody := llm.ChatRequest{
		Messages: messages,
		Model:    c.model,
	}
	if c.temperatureSet {
		temperature := c.temperature
		reqBody.Temperature = &temperature
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	c.logger.Debug("sending chat request",
		"relay_target", c.relayTarget,
		"model", c.model,
		"message_count", len(messages),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayTarget+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request to relay: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("relay responded",
		"status", resp.StatusCode,
		"request_id", resp.Header.Get(header.RequestIDHeader),
	)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp llm.ErrorResponse
		if jsonErr := json.Unmarshal(respBody, &errResp); jsonErr != nil || errResp.Detail == "" {
			errResp.Detail = string(respBody)
		}
		return nil, &relayError{status: resp.StatusCode, detail: errResp.Detail}
	}

	var reply llm.ChatResponse
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return nil, fmt.Errorf("decoding relay response: %w", err)
	}
	if reply.Role == "" {
		return nil, errors.New("relay response has no role")
	}

	return &reply, nil
}
