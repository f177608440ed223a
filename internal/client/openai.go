package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ecomm/datagen/internal/config"
	"ecomm/datagen/internal/domain"
)

// openAIProvider speaks the chat completions API. OpenRouter exposes the
// same API and only differs in attribution headers.
type openAIProvider struct {
	openRouter bool
}

type openAIChatRequest struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature float64          `json:"temperature,omitempty"`
}

type openAIChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

func (p *openAIProvider) name() string {
	if p.openRouter {
		return config.ProviderOpenRouter
	}
	return config.ProviderOpenAI
}

func (p *openAIProvider) path() string {
	return "/chat/completions"
}

func (p *openAIProvider) headers(cfg config.LLMConfig) map[string]string {
	h := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
	}
	if p.openRouter {
		h["X-Title"] = "ecomm-datagen"
	}
	return h
}

func (p *openAIProvider) request(cfg config.LLMConfig, messages []domain.Message) any {
	return openAIChatRequest{
		Model:       cfg.Model,
		Messages:    messages,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

func (p *openAIProvider) decode(status int, body []byte) (*Response, error) {
	var chatResp openAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		if status != http.StatusOK {
			return nil, statusError(p.name(), status, body)
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		if chatResp.Error.Code == "rate_limit_exceeded" {
			return nil, ErrRateLimited
		}
		return nil, &ProviderError{Provider: p.name(), Message: chatResp.Error.Message}
	}

	if status != http.StatusOK {
		return nil, statusError(p.name(), status, body)
	}

	if len(chatResp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := chatResp.Choices[0]
	return &Response{
		Content:      choice.Message.Content,
		Model:        chatResp.Model,
		FinishReason: choice.FinishReason,
		Usage: Usage{
			InputTokens:  chatResp.Usage.PromptTokens,
			OutputTokens: chatResp.Usage.CompletionTokens,
		},
	}, nil
}
