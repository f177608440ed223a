// Package invoker wraps a single model call and folds every failure mode
// into a Result so stages never see a panic or a raw transport error.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecomm/datagen/internal/client"
	"ecomm/datagen/internal/domain"
	"ecomm/datagen/internal/response"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvocation marks failures of the call itself.
	ErrInvocation = errors.New("invocation failed")

	// ErrInvalidResponse is returned when the model gave no response object or no text.
	ErrInvalidResponse = errors.New("invalid LLM response object")

	// ErrValidation marks text that is not JSON even after prefix repair.
	ErrValidation = errors.New("response is not valid JSON")
)

// Result carries either validated JSON text or the reason there is none.
// When validation fails Content still holds the raw model output.
type Result struct {
	Content string
	Err     error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Detail is the human readable description used in sentinel records: the
// raw output for validation failures, the error text otherwise.
func (r Result) Detail() string {
	if r.Err == nil || errors.Is(r.Err, ErrValidation) {
		return r.Content
	}
	return r.Err.Error()
}

type Invoker struct {
	client  client.LLMClient
	timeout time.Duration
}

// New returns an Invoker. A positive timeout bounds each call in addition
// to whatever the client enforces.
func New(llm client.LLMClient, timeout time.Duration) *Invoker {
	return &Invoker{
		client:  llm,
		timeout: timeout,
	}
}

// Invoke sends prompt as one user message and validates the reply.
func (i *Invoker) Invoke(ctx context.Context, prompt, label string) (result Result) {
	logger := log.WithField("context", label)
	logger.Infof("Sending prompt (%d chars)", len(prompt))

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("❌ Panic invoking LLM: %v", r)
			result = Result{Err: fmt.Errorf("%w: %v", ErrInvocation, r)}
		}
	}()

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	resp, err := i.client.Invoke(ctx, []domain.Message{domain.UserMessage(prompt)})
	if err != nil {
		logger.Errorf("❌ Error invoking LLM: %v", err)
		return Result{Err: fmt.Errorf("%w: %w", ErrInvocation, err)}
	}

	text, ok := resp.Text()
	if !ok {
		logger.Error("❌ Invalid response object")
		return Result{Err: fmt.Errorf("%w: %w", ErrInvocation, ErrInvalidResponse)}
	}

	valid, cleaned := response.Validate(text, label)
	if !valid {
		return Result{Content: cleaned, Err: ErrValidation}
	}

	return Result{Content: cleaned}
}
