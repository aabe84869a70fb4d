package gpt

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hammamikhairi/smartagri/internal/domain"
	"github.com/hammamikhairi/smartagri/internal/logger"
)

// PromptClassify is used when the keyword parser can't determine what the
// user wants. The model picks one of the known commands and returns JSON.
const PromptClassify = `You are a command classifier for Smart Agriculture, a farming assistant used by farmers in India.
Input may be English, Hindi or Telugu, typed or transcribed from speech, and may contain recognition mistakes.

Classify the input into exactly ONE command. Respond with a JSON object and nothing else.

Commands:
- "open"           user wants a dashboard page. Set "payload" to one of: "my_soil", "weather", "crops", "market".
- "back"           user wants to return to the dashboard.
- "read_aloud"     user wants the current page read out.
- "listen"         user wants to speak a command.
- "stop_listening" user wants the assistant to stop listening or talking.
- "language"       user wants another language. Set "payload" to "en", "hi" or "te".
- "logout"         user wants to sign out.
- "help"           user wants to know what they can say.
- "quit"           user wants to close the app.
- "unknown"        anything else.

Response schema:
{ "command": "<command>", "payload": "<optional text>" }

Rules:
- Respond ONLY with the JSON object.
- Questions about soil, fertilizer, moisture or nutrients mean "open" with payload "my_soil".`

// Completer answers one input under a system instruction. Implemented by
// *Client.
type Completer interface {
	Complete(ctx context.Context, system, input string) (string, error)
}

// Compile-time interface checks.
var (
	_ Completer            = (*Client)(nil)
	_ domain.CommandParser = (*Classifier)(nil)
)

type classifyResponse struct {
	Command string `json:"command"`
	Payload string `json:"payload"`
}

// Classifier runs the primary parser first and asks the model only for
// input it could not match. Model failures degrade to the primary result.
type Classifier struct {
	primary domain.CommandParser
	model   Completer
	log     *logger.Logger
}

// NewClassifier wraps primary with a model fallback.
func NewClassifier(primary domain.CommandParser, model Completer, log *logger.Logger) *Classifier {
	return &Classifier{primary: primary, model: model, log: log.With("classify")}
}

// Parse returns the primary parser's command, or the model's when the
// primary one is unknown.
func (c *Classifier) Parse(ctx context.Context, input string) (*domain.Command, error) {
	cmd, err := c.primary.Parse(ctx, input)
	if err != nil || cmd.Type != domain.CommandUnknown || strings.TrimSpace(input) == "" {
		return cmd, err
	}

	raw, err := c.model.Complete(ctx, PromptClassify, input)
	if err != nil {
		c.log.Warn("classification failed: %v", err)
		return cmd, nil
	}

	var resp classifyResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		c.log.Error("failed to parse classify JSON: %v (raw: %s)", err, truncate(raw, 120))
		return cmd, nil
	}

	out := &domain.Command{
		Type:    domain.ParseCommandType(resp.Command),
		Payload: strings.TrimSpace(resp.Payload),
	}
	if out.Type == domain.CommandUnknown {
		out.Payload = cmd.Payload
	}
	c.log.Debug("classified as %s (payload=%q)", out.Type, out.Payload)
	return out, nil
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove opening fence line.
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		// Remove closing fence.
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
