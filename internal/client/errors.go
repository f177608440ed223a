package client

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderNotConfigured is returned for an unknown or missing provider.
	ErrProviderNotConfigured = errors.New("LLM provider not configured")

	// ErrRateLimited is returned when the provider rejects the request for quota reasons.
	ErrRateLimited = errors.New("rate limited by provider")

	// ErrEmptyResponse is returned when the provider body has no choices or content blocks at all.
	ErrEmptyResponse = errors.New("empty response from provider")
)

// ProviderError wraps errors from model providers with additional context.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
