package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ecomm/datagen/internal/config"
	"ecomm/datagen/internal/domain"
)

type ollamaProvider struct{}

type ollamaRequest struct {
	Model    string           `json:"model"`
	Messages []domain.Message `json:"messages"`
	Stream   bool             `json:"stream"`
	Options  *ollamaOptions   `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model   string `json:"model"`
	Message *struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error,omitempty"`
}

func (p *ollamaProvider) name() string {
	return config.ProviderOllama
}

func (p *ollamaProvider) path() string {
	return "/api/chat"
}

func (p *ollamaProvider) headers(cfg config.LLMConfig) map[string]string {
	if cfg.APIKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + cfg.APIKey}
}

func (p *ollamaProvider) request(cfg config.LLMConfig, messages []domain.Message) any {
	return ollamaRequest{
		Model:    cfg.Model,
		Messages: messages,
		Stream:   false,
		Options: &ollamaOptions{
			Temperature: cfg.Temperature,
			NumPredict:  cfg.MaxTokens,
		},
	}
}

func (p *ollamaProvider) decode(status int, body []byte) (*Response, error) {
	var chatResp ollamaResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		if status != http.StatusOK {
			return nil, statusError(p.name(), status, body)
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != "" {
		return nil, &ProviderError{Provider: p.name(), Message: chatResp.Error}
	}

	if status != http.StatusOK {
		return nil, statusError(p.name(), status, body)
	}

	out := &Response{
		Model:        chatResp.Model,
		FinishReason: chatResp.DoneReason,
		Usage: Usage{
			InputTokens:  chatResp.PromptEvalCount,
			OutputTokens: chatResp.EvalCount,
		},
	}
	if chatResp.Message != nil {
		out.Content = chatResp.Message.Content
	}
	return out, nil
}
