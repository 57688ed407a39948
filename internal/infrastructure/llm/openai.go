package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"internhub/internal/aiqueue"
	"internhub/internal/config"
)

var ErrMissingAPIKey = errors.New("ai api key is not configured")

// Client is the chat completion upstream the AI queue dispatches to. It never
// retries on its own; retry policy belongs to the queue.
type Client struct {
	client       openai.Client
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int
	configured   bool
	log          *logrus.Entry
}

func NewClient(cfg config.AIConfig, log *logrus.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		client:       openai.NewClient(opts...),
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		configured:   strings.TrimSpace(cfg.APIKey) != "",
		log:          log.WithField("component", "llm"),
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.configured {
		return "", &aiqueue.UpstreamError{Err: ErrMissingAPIKey}
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if c.systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(c.systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &aiqueue.UpstreamError{Err: errors.New("no choices in response")}
	}

	c.log.WithFields(logrus.Fields{
		"model":             c.model,
		"duration_ms":       time.Since(start).Milliseconds(),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("chat completion finished")

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &aiqueue.UpstreamError{Err: errors.New("empty completion")}
	}
	return text, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &aiqueue.UpstreamError{
			StatusCode: apiErr.StatusCode,
			Retry:      retryableStatus(apiErr.StatusCode),
			Err:        fmt.Errorf("openai chat completion: %w", err),
		}
	}

	var netErr net.Error
	retry := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
	return &aiqueue.UpstreamError{Retry: retry, Err: fmt.Errorf("openai chat completion: %w", err)}
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
