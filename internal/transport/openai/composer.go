package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultMaxTokens = 80
	maxPromptNames   = 5
)

const systemPrompt = "You are a friendly shopping assistant for an online store. " +
	"Reply with one short sentence introducing the search results. " +
	"Mention how many products were found and echo the customer's request. " +
	"Do not list prices, invent products or add links."

// Fallback phrases a message when the provider cannot.
type Fallback interface {
	Compose(ctx context.Context, s result.Summary) string
}

// Config holds the assistant provider settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	Provider  string
	Timeout   time.Duration
	MaxTokens int
	Fallback  Fallback
	Logger    *zap.Logger
}

var _ domain.HealthChecker = (*Composer)(nil)

// Composer phrases result messages with an OpenAI-compatible chat model and
// falls back to templates on any provider failure.
type Composer struct {
	client    *openai.Client
	model     string
	provider  string
	timeout   time.Duration
	maxTokens int
	fallback  Fallback
	logger    *zap.Logger
}

// NewComposer creates an OpenAI-compatible message composer.
func NewComposer(cfg *Config) *Composer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	c := &Composer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		provider:  cfg.Provider,
		timeout:   cfg.Timeout,
		maxTokens: cfg.MaxTokens,
		fallback:  cfg.Fallback,
		logger:    cfg.Logger,
	}
	if c.provider == "" {
		c.provider = "openai"
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	if c.fallback == nil {
		c.fallback = result.NewTemplateComposer(nil)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Compose returns the model's reply, or the fallback message when the
// result set is empty or the provider fails.
func (c *Composer) Compose(ctx context.Context, s result.Summary) string {
	if s.Count == 0 {
		return c.fallback.Compose(ctx, s)
	}

	msg, err := c.complete(ctx, s)
	if err != nil {
		c.logger.Warn("assistant fallback to template",
			zap.String("provider", c.provider),
			zap.String("model", c.model),
			zap.Error(err),
		)
		return c.fallback.Compose(ctx, s)
	}
	return msg
}

// HealthCheck verifies API availability via ListModels.
func (c *Composer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *Composer) complete(ctx context.Context, s result.Summary) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(s)},
		},
	})
	if err != nil {
		metrics.AssistantRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.AssistantRequestsTotal.WithLabelValues(c.provider, "empty").Inc()
		return "", fmt.Errorf("empty completion: %w", domain.ErrAssistantUnavailable)
	}
	msg := firstLine(resp.Choices[0].Message.Content)
	if msg == "" {
		metrics.AssistantRequestsTotal.WithLabelValues(c.provider, "empty").Inc()
		return "", fmt.Errorf("blank completion: %w", domain.ErrAssistantUnavailable)
	}

	metrics.AssistantRequestsTotal.WithLabelValues(c.provider, "success").Inc()
	return msg, nil
}

func userPrompt(s result.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer request: %q\n", s.Query)
	fmt.Fprintf(&b, "Products found: %d (%d in stock)\n", s.Count, s.InStock)
	if len(s.Names) > 0 {
		fmt.Fprintf(&b, "Top products: %s\n", strings.Join(s.Names[:min(len(s.Names), maxPromptNames)], "; "))
	}
	if len(s.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(s.Categories, ", "))
	}
	return b.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrAssistantUnavailable.
func parseAPIError(err error) error {
	wrap := domain.ErrAssistantUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("assistant API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("assistant API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("assistant API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("assistant request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
