package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"examgen/internal/config"
	"examgen/internal/domain"
	"examgen/internal/logger"

	"go.uber.org/zap"
)

// DelayFunc paces progress snapshots so a human can read intermediate
// output. It is a presentation concern only; tests use NopDelay.
type DelayFunc func(d time.Duration)

// NopDelay skips pacing entirely.
func NopDelay(time.Duration) {}

// Client talks to the OpenRouter chat completions and model listing
// endpoints. A client is safe for sequential reuse; each generation
// call carries its own decoding and accumulation state.
type Client struct {
	httpClient *http.Client
	cfg        config.OpenRouterConfig
	parser     *StructureParser
	delay      DelayFunc
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithDelay replaces the pacing strategy.
func WithDelay(delay DelayFunc) Option {
	return func(c *Client) { c.delay = delay }
}

func NewClient(cfg config.OpenRouterConfig, opts ...Option) *Client {
	c := &Client{
		// Streaming generations routinely run for minutes; rely on
		// context cancellation rather than a client-wide timeout.
		httpClient: &http.Client{},
		cfg:        cfg,
		parser:     NewStructureParser(),
		delay:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether an API token is set. It is checked
// before any network call.
func (c *Client) IsConfigured() bool {
	return c.cfg.APIKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateExamContent runs the full generation pipeline: prompt
// construction, streaming ingestion, one non-streaming fallback if the
// stream produced nothing, artifact sanitization, and structural
// extraction. The returned document carries no ID or timestamp.
func (c *Client) GenerateExamContent(ctx context.Context, req *domain.GenerationRequest, progress domain.ProgressSink) (*domain.ExamDocument, error) {
	if !c.IsConfigured() {
		return nil, domain.NewNotConfiguredError()
	}

	prompt := BuildExamPrompt(req)
	logger.Get().Debug("Built exam generation prompt",
		zap.Int("sections", len(req.Sections)),
		zap.Int("prompt_length", len(prompt)))

	content, reasoning, err := c.streamCompletion(ctx, prompt, progress)
	if err != nil {
		return nil, err
	}

	// Fallback: one non-streaming request with identical parameters when
	// the stream carried no usable data. A second failure is terminal.
	if strings.TrimSpace(content) == "" {
		logger.Get().Warn("No streaming content received, trying fallback request")
		content, reasoning, err = c.completeOnce(ctx, prompt)
		if err != nil {
			logger.Get().Warn("Fallback request also failed", zap.Error(err))
		}
	}

	if strings.TrimSpace(content) == "" {
		return nil, domain.NewNoContentGeneratedError()
	}

	if progress != nil {
		progress.Update(reasoning, content)
		c.delay(c.cfg.PacingDelay)
	}

	cleaned := SanitizeResponse(content)
	logger.Get().Debug("AI response cleaned",
		zap.Int("original_length", len(content)),
		zap.Int("cleaned_length", len(cleaned)))

	if progress != nil {
		progress.Update(reasoning, cleaned)
		c.delay(c.cfg.PacingDelay)
	}

	return c.parser.Parse(cleaned)
}

// streamCompletion issues the streaming request and folds every decoded
// event into an accumulator, returning the final buffers.
func (c *Client) streamCompletion(ctx context.Context, prompt string, progress domain.ProgressSink) (content, reasoning string, err error) {
	resp, err := c.postChat(ctx, prompt, true)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	decoder := NewLineDecoder()
	acc := NewAccumulator(progress)

	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, ev := range decoder.Feed(buf[:n]) {
				acc.Ingest(ev)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", "", domain.NewTransportError("error reading response stream", readErr)
		}
	}
	for _, ev := range decoder.Flush() {
		acc.Ingest(ev)
	}

	return acc.Content(), acc.Reasoning(), nil
}

// completeOnce issues a single non-streaming request and extracts the
// content and reasoning from the terminal message shape.
func (c *Client) completeOnce(ctx context.Context, prompt string) (content, reasoning string, err error) {
	resp, err := c.postChat(ctx, prompt, false)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var body Event
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", domain.NewTransportError("failed to decode fallback response", err)
	}

	if len(body.Choices) == 0 || body.Choices[0].Message == nil {
		return "", "", nil
	}
	msg := body.Choices[0].Message
	if msg.Content != nil {
		content = *msg.Content
	}
	if msg.Reasoning != nil {
		reasoning = *msg.Reasoning
	}
	return content, reasoning, nil
}

// postChat sends a chat completion request and verifies the status
// code. The caller owns the response body.
func (c *Client) postChat(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: 0.7,
		TopP:        0.9,
		Stream:      stream,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to encode chat request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewTransportError("failed to build chat request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", c.cfg.Referer)
	httpReq.Header.Set("X-Title", c.cfg.AppTitle)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewTransportError("request to OpenRouter failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var errBody errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		message := errBody.Error.Message
		if message == "" {
			message = resp.Status
		}
		return nil, domain.NewTransportError(
			fmt.Sprintf("OpenRouter API error (%d): %s", resp.StatusCode, message), nil)
	}
	return resp, nil
}

// TestConnection sends a minimal completion request to verify the
// credential and endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	if !c.IsConfigured() {
		return domain.NewNotConfiguredError()
	}

	payload, err := json.Marshal(chatRequest{
		Model:     c.cfg.Model,
		Messages:  []chatMessage{{Role: "user", Content: "Hello"}},
		MaxTokens: 10,
	})
	if err != nil {
		return domain.NewInternalError("failed to encode test request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return domain.NewTransportError("failed to build test request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.NewTransportError("connection test failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.NewTransportError(fmt.Sprintf("connection test failed with status %d", resp.StatusCode), nil)
	}
	return nil
}

var (
	_ domain.ExamContentGenerator = (*Client)(nil)
	_ domain.ModelCatalog         = (*Client)(nil)
	_ domain.ConnectionTester     = (*Client)(nil)
)
