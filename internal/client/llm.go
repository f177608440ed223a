package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ecomm/datagen/internal/config"
	"ecomm/datagen/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// LLMClient is the text-generation capability the pipeline depends on.
type LLMClient interface {
	// Invoke sends messages to the model. A nil Response or one without
	// content is possible and must be handled by the caller.
	Invoke(ctx context.Context, messages []domain.Message) (*Response, error)
	Name() string
}

// Response is what the model returned. Content is nil when the provider
// answered without any textual content.
type Response struct {
	Content      *string
	Model        string
	FinishReason string
	Usage        Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Text returns the content and whether there was any.
func (r *Response) Text() (string, bool) {
	if r == nil || r.Content == nil {
		return "", false
	}
	return *r.Content, true
}

// provider adapts one vendor's chat API to Invoke.
type provider interface {
	name() string
	path() string
	headers(cfg config.LLMConfig) map[string]string
	request(cfg config.LLMConfig, messages []domain.Message) any
	decode(status int, body []byte) (*Response, error)
}

type llmClient struct {
	rl         ratelimit.Limiter
	config     config.LLMConfig
	httpClient *resty.Client
	provider   provider
}

// NewLLMClient builds a client for cfg.Provider. Provider defaults must
// already be applied (config.Load does this).
func NewLLMClient(cfg config.LLMConfig) (LLMClient, error) {
	p, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	for k, v := range p.headers(cfg) {
		client.SetHeader(k, v)
	}

	if cfg.Proxy != "" {
		client.SetProxy(cfg.Proxy)
		log.Infof("🔗 Using proxy: %s", cfg.Proxy)
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &llmClient{
		rl:         rl,
		config:     cfg,
		httpClient: client,
		provider:   p,
	}, nil
}

func newProvider(cfg config.LLMConfig) (provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderOpenRouter:
		return &openAIProvider{openRouter: cfg.Provider == config.ProviderOpenRouter}, nil
	case config.ProviderAnthropic:
		return &anthropicProvider{}, nil
	case config.ProviderOllama:
		return &ollamaProvider{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrProviderNotConfigured, cfg.Provider)
	}
}

func (c *llmClient) Name() string {
	return c.provider.name()
}

func (c *llmClient) Invoke(ctx context.Context, messages []domain.Message) (*Response, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(c.provider.request(c.config, messages)).
		Post(c.provider.path())
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, &ProviderError{
			Provider: c.provider.name(),
			Message:  "API request failed",
			Cause:    err,
		}
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		log.Warnf("🚫 Rate limited by %s", c.provider.name())
		return nil, ErrRateLimited
	}

	out, err := c.provider.decode(resp.StatusCode(), []byte(resp.String()))
	if err != nil {
		return nil, err
	}

	log.Debugf("Received response from %s (model %s, %d input / %d output tokens)",
		c.provider.name(), out.Model, out.Usage.InputTokens, out.Usage.OutputTokens)
	return out, nil
}

// statusError describes a non-2xx response whose body had no usable error.
func statusError(provider string, status int, body []byte) error {
	return &ProviderError{
		Provider: provider,
		Message:  fmt.Sprintf("API returned status %d: %s", status, truncate(string(body), 300)),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
