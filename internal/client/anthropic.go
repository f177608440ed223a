package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ecomm/datagen/internal/config"
	"ecomm/datagen/internal/domain"
)

const anthropicAPIVersion = "2023-06-01"

type anthropicProvider struct{}

type anthropicRequest struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	System      string           `json:"system,omitempty"`
	Messages    []domain.Message `json:"messages"`
	Temperature float64          `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *anthropicProvider) name() string {
	return config.ProviderAnthropic
}

func (p *anthropicProvider) path() string {
	return "/messages"
}

func (p *anthropicProvider) headers(cfg config.LLMConfig) map[string]string {
	return map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": anthropicAPIVersion,
	}
}

// request moves system turns into the top-level system field, which is
// where the messages API expects them.
func (p *anthropicProvider) request(cfg config.LLMConfig, messages []domain.Message) any {
	var system []string
	turns := make([]domain.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}

	return anthropicRequest{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		System:      strings.Join(system, "\n\n"),
		Messages:    turns,
		Temperature: cfg.Temperature,
	}
}

func (p *anthropicProvider) decode(status int, body []byte) (*Response, error) {
	var msgResp anthropicResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		if status != http.StatusOK {
			return nil, statusError(p.name(), status, body)
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if msgResp.Error != nil {
		if msgResp.Error.Type == "rate_limit_error" {
			return nil, ErrRateLimited
		}
		return nil, &ProviderError{Provider: p.name(), Message: msgResp.Error.Message}
	}

	if status != http.StatusOK {
		return nil, statusError(p.name(), status, body)
	}

	if len(msgResp.Content) == 0 {
		return nil, ErrEmptyResponse
	}

	out := &Response{
		Model:        msgResp.Model,
		FinishReason: msgResp.StopReason,
		Usage: Usage{
			InputTokens:  msgResp.Usage.InputTokens,
			OutputTokens: msgResp.Usage.OutputTokens,
		},
	}

	var text strings.Builder
	found := false
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
			found = true
		}
	}
	if found {
		s := text.String()
		out.Content = &s
	}

	return out, nil
}
