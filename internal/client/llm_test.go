package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecomm/datagen/internal/config"
	"ecomm/datagen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, provider string, handler http.HandlerFunc) LLMClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewLLMClient(config.LLMConfig{
		Provider:    provider,
		BaseURL:     server.URL,
		APIKey:      "test-key",
		Model:       "test-model",
		Timeout:     5,
		MaxTokens:   256,
		Temperature: 0.5,
	})
	require.NoError(t, err)
	return c
}

func prompt() []domain.Message {
	return []domain.Message{domain.UserMessage("generate")}
}

func TestOpenAIInvoke(t *testing.T) {
	c := newTestClient(t, config.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if !assert.Len(t, req.Messages, 1) {
			return
		}
		assert.Equal(t, domain.RoleUser, req.Messages[0].Role)
		assert.Equal(t, "generate", req.Messages[0].Content)

		_, _ = io.WriteString(w, `{
			"model": "test-model",
			"choices": [{"message": {"role": "assistant", "content": "[1,2]"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3}
		}`)
	})

	resp, err := c.Invoke(context.Background(), prompt())
	require.NoError(t, err)
	text, ok := resp.Text()
	assert.True(t, ok)
	assert.Equal(t, "[1,2]", text)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, 3, resp.Usage.OutputTokens)
	assert.Equal(t, config.ProviderOpenAI, c.Name())
}

func TestOpenAINullContent(t *testing.T) {
	c := newTestClient(t, config.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices": [{"message": {"role": "assistant", "content": null}}]}`)
	})

	resp, err := c.Invoke(context.Background(), prompt())
	require.NoError(t, err)
	_, ok := resp.Text()
	assert.False(t, ok)
}

func TestOpenAIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{name: "api error", status: http.StatusBadRequest, body: `{"error": {"message": "bad model"}}`},
		{name: "rate limit code", status: http.StatusOK, body: `{"error": {"message": "slow down", "code": "rate_limit_exceeded"}}`, is: ErrRateLimited},
		{name: "429 status", status: http.StatusTooManyRequests, body: `too many`, is: ErrRateLimited},
		{name: "no choices", status: http.StatusOK, body: `{"choices": []}`, is: ErrEmptyResponse},
		{name: "non json error page", status: http.StatusBadGateway, body: `<html>bad gateway</html>`},
		{name: "non json ok body", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, config.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			resp, err := c.Invoke(context.Background(), prompt())
			require.Error(t, err)
			assert.Nil(t, resp)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "got %v", err)
			}
		})
	}
}

func TestOpenRouterHeaders(t *testing.T) {
	c := newTestClient(t, config.ProviderOpenRouter, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "ecomm-datagen", r.Header.Get("X-Title"))
		_, _ = io.WriteString(w, `{"choices": [{"message": {"content": "[]"}}]}`)
	})

	resp, err := c.Invoke(context.Background(), prompt())
	require.NoError(t, err)
	text, _ := resp.Text()
	assert.Equal(t, "[]", text)
	assert.Equal(t, config.ProviderOpenRouter, c.Name())
}

func TestAnthropicInvoke(t *testing.T) {
	c := newTestClient(t, config.ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "be terse", req.System)
		if !assert.Len(t, req.Messages, 1) {
			return
		}

		_, _ = io.WriteString(w, `{
			"model": "test-model",
			"stop_reason": "end_turn",
			"content": [{"type": "text", "text": "[{\"id\":"}, {"type": "text", "text": "\"1\"}]"}],
			"usage": {"input_tokens": 5, "output_tokens": 7}
		}`)
	})

	msgs := []domain.Message{{Role: domain.RoleSystem, Content: "be terse"}, domain.UserMessage("generate")}
	resp, err := c.Invoke(context.Background(), msgs)
	require.NoError(t, err)
	text, ok := resp.Text()
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, text)
	assert.Equal(t, 7, resp.Usage.OutputTokens)
}

func TestAnthropicNoTextBlock(t *testing.T) {
	c := newTestClient(t, config.ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"content": [{"type": "tool_use"}]}`)
	})

	resp, err := c.Invoke(context.Background(), prompt())
	require.NoError(t, err)
	_, ok := resp.Text()
	assert.False(t, ok)
}

func TestAnthropicRateLimit(t *testing.T) {
	c := newTestClient(t, config.ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"error": {"type": "rate_limit_error", "message": "slow"}}`)
	})

	_, err := c.Invoke(context.Background(), prompt())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestOllamaInvoke(t *testing.T) {
	c := newTestClient(t, config.ProviderOllama, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		if !assert.NotNil(t, req.Options) {
			return
		}
		assert.Equal(t, 256, req.Options.NumPredict)

		_, _ = io.WriteString(w, `{"model": "test-model", "message": {"role": "assistant", "content": "[]"}, "done": true, "eval_count": 2}`)
	})

	resp, err := c.Invoke(context.Background(), prompt())
	require.NoError(t, err)
	text, ok := resp.Text()
	assert.True(t, ok)
	assert.Equal(t, "[]", text)
	assert.Equal(t, 2, resp.Usage.OutputTokens)
}

func TestOllamaError(t *testing.T) {
	c := newTestClient(t, config.ProviderOllama, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error": "model not found"}`)
	})

	_, err := c.Invoke(context.Background(), prompt())
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, config.ProviderOllama, perr.Provider)
	assert.Equal(t, "model not found", perr.Message)
}

func TestInvokeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := NewLLMClient(config.LLMConfig{Provider: config.ProviderOllama, BaseURL: url, Timeout: 2})
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), prompt())
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "API request failed", perr.Message)
}

func TestInvokeNoMessages(t *testing.T) {
	c := newTestClient(t, config.ProviderOllama, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.Invoke(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewLLMClientUnknownProvider(t *testing.T) {
	_, err := NewLLMClient(config.LLMConfig{Provider: "bard"})
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestResponseTextNil(t *testing.T) {
	var r *Response
	_, ok := r.Text()
	assert.False(t, ok)
}
