// Package generate implements quire.Generator against an OpenAI-compatible
// chat completions endpoint.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"quire/internal/quire"
)

var (
	ErrMissingAPIKey   = errors.New("generator api key not set")
	ErrInvalidResponse = errors.New("invalid generator response")
)

// Options configures a Client. Zero values take the defaults below.
type Options struct {
	BaseURL        string // https://api.openai.com/v1
	EndpointPath   string // /chat/completions, or a full URL
	Model          string
	APIKey         string // takes precedence over APIKeyEnv
	APIKeyEnv      string // OPENAI_API_KEY
	TimeoutSeconds int    // per request, 60
	MaxRetries     int    // retries after the first attempt; negative disables
	Temperature    *float64
}

func (o *Options) defaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://api.openai.com/v1"
	}
	if o.EndpointPath == "" {
		o.EndpointPath = "/chat/completions"
	}
	if o.Model == "" {
		o.Model = "gpt-4o-mini"
	}
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = "OPENAI_API_KEY"
	}
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = 60
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
}

// Client talks to the chat completions API.
type Client struct {
	url        string
	apiKey     string
	model      string
	temp       *float64
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     quire.Logger
	do         func(*http.Request) (*http.Response, error)
}

// New builds a client. The API key is required.
func New(opts Options, logger quire.Logger) (*Client, error) {
	opts.defaults()
	key := opts.APIKey
	if key == "" {
		key = os.Getenv(opts.APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, opts.APIKeyEnv)
	}
	if logger == nil {
		logger = quire.NewNopLogger()
	}

	url := opts.EndpointPath
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = strings.TrimRight(opts.BaseURL, "/") + "/" + strings.TrimLeft(opts.EndpointPath, "/")
	}

	hc := &http.Client{Timeout: time.Duration(opts.TimeoutSeconds) * time.Second}
	return &Client{
		url:        url,
		apiKey:     key,
		model:      opts.Model,
		temp:       opts.Temperature,
		maxRetries: opts.MaxRetries,
		baseDelay:  500 * time.Millisecond,
		maxDelay:   30 * time.Second,
		logger:     logger,
		do:         hc.Do,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// SelectDocument asks the model which document the input belongs to.
func (c *Client) SelectDocument(ctx context.Context, docs []quire.DocumentSummary, input string) (quire.Selection, error) {
	user, err := json.Marshal(struct {
		Projects  []quire.DocumentSummary `json:"projects"`
		UserInput string                  `json:"userInput"`
	}{docs, input})
	if err != nil {
		return quire.Selection{}, fmt.Errorf("encoding selection input: %w", err)
	}

	out, err := c.complete(ctx, selectionPrompt, string(user))
	if err != nil {
		return quire.Selection{}, err
	}
	raw, err := extractJSON(out)
	if err != nil {
		return quire.Selection{}, err
	}
	var sel quire.Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return quire.Selection{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if sel.DocumentID == "" {
		return quire.Selection{}, fmt.Errorf("%w: no projectId", ErrInvalidResponse)
	}
	return sel, nil
}

// ProposeBlocks asks the model for the new blocks to append to doc.
func (c *Client) ProposeBlocks(ctx context.Context, doc quire.Document, input string) ([]quire.Block, error) {
	user, err := json.Marshal(struct {
		Project   quire.Document `json:"project"`
		UserInput string         `json:"userInput"`
	}{doc, input})
	if err != nil {
		return nil, fmt.Errorf("encoding proposal input: %w", err)
	}

	out, err := c.complete(ctx, proposalPrompt, string(user))
	if err != nil {
		return nil, err
	}
	raw, err := extractJSON(out)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(resp.Blocks) == 0 || resp.Blocks[0] != '[' {
		return nil, fmt.Errorf("%w: no blocks array", ErrInvalidResponse)
	}
	blocks, err := quire.DecodeBlocks(resp.Blocks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return blocks, nil
}

// complete sends one system+user exchange and returns the assistant text,
// retrying transient failures.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    c.temp,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		out, retryAfter, err := c.send(ctx, body)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt >= c.maxRetries || !isRetryable(err) {
			return "", err
		}

		wait := jitter(backoff(c.baseDelay, c.maxDelay, attempt, retryAfter))
		c.logger.Warn("generator request failed, retrying", "attempt", attempt+1, "wait", wait, "error", err)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) send(ctx context.Context, body []byte) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", retryAfter(resp), &StatusError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(slurp)),
		}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", 0, fmt.Errorf("%w: decoding response: %v", ErrInvalidResponse, err)
	}
	if len(cr.Choices) == 0 {
		return "", 0, fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}
	return cr.Choices[0].Message.Content, 0, nil
}

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generator upstream %d: %s", e.Status, e.Message)
}

func (e *StatusError) HTTPStatusCode() int { return e.Status }

// extractJSON returns the text from the first '{' to the last '}'. Models
// sometimes wrap the object in prose or code fences.
func extractJSON(s string) ([]byte, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrInvalidResponse)
	}
	return []byte(s[start : end+1]), nil
}

var _ quire.Generator = (*Client)(nil)
