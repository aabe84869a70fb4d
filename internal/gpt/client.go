// Package gpt asks an OpenAI-compatible chat-completions endpoint to
// classify input the keyword parser could not match.
package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hammamikhairi/smartagri/internal/logger"
)

// ErrNoChoices is returned when the endpoint answers without a choice.
var ErrNoChoices = errors.New("gpt: reply has no choices")

// APIError is a non-200 answer from the endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gpt: API %d: %s", e.Status, e.Message)
}

// Classification replies are a one-line JSON object.
const replyTokens = 60

// ── Wire types ───────────────────────────────────────────────────

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type request struct {
	Model          string         `json:"model,omitempty"`
	Messages       []message      `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ── Client ───────────────────────────────────────────────────────

// Option configures the Client.
type Option func(*Client)

// WithModel names the model. Azure deployments carry it in the URL and
// leave it empty.
func WithModel(name string) Option {
	return func(c *Client) { c.model = name }
}

// WithTimeout bounds one classification round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// Client sends one system instruction and one user input per request and
// asks for a JSON object back.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
	log      *logger.Logger
}

// NewClient creates a client for endpoint, the full chat/completions URL
// (e.g. "https://<resource>.openai.azure.com/openai/deployments/<dep>/chat/completions?api-version=2024-02-01").
func NewClient(endpoint, apiKey string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log.With("gpt"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete returns the model's JSON reply to input under the system
// instruction. Sampling is deterministic.
func (c *Client) Complete(ctx context.Context, system, input string) (string, error) {
	body, err := json.Marshal(request{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: input},
		},
		MaxTokens:      replyTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("gpt: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gpt: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gpt: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("gpt: read reply: %w", err)
	}

	var out response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		msg := truncate(string(raw), 200)
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("gpt: decode reply: %w", decodeErr)
	}
	if len(out.Choices) == 0 {
		return "", ErrNoChoices
	}

	reply := out.Choices[0].Message.Content
	c.log.Debug("reply: %s", truncate(reply, 120))
	return reply, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
