package invoker

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecomm/datagen/internal/client"
	"ecomm/datagen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	resp     *client.Response
	err      error
	panicMsg string
	block    bool
	got      []domain.Message
}

func (f *fakeClient) Invoke(ctx context.Context, messages []domain.Message) (*client.Response, error) {
	f.got = messages
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.resp, f.err
}

func (f *fakeClient) Name() string { return "fake" }

func text(s string) *client.Response {
	return &client.Response{Content: &s}
}

func TestInvokeSuccess(t *testing.T) {
	fc := &fakeClient{resp: text("Here: [1, 2]")}
	result := New(fc, 0).Invoke(context.Background(), "make numbers", "numbers")

	require.True(t, result.OK())
	assert.Equal(t, "[1, 2]", result.Content)
	require.Len(t, fc.got, 1)
	assert.Equal(t, domain.RoleUser, fc.got[0].Role)
	assert.Equal(t, "make numbers", fc.got[0].Content)
}

func TestInvokeFailures(t *testing.T) {
	tests := []struct {
		name       string
		client     *fakeClient
		is         error
		wantDetail string
	}{
		{
			name:       "transport error",
			client:     &fakeClient{err: errors.New("connection refused")},
			is:         ErrInvocation,
			wantDetail: "invocation failed: connection refused",
		},
		{
			name:       "nil response",
			client:     &fakeClient{},
			is:         ErrInvalidResponse,
			wantDetail: "invocation failed: invalid LLM response object",
		},
		{
			name:       "response without content",
			client:     &fakeClient{resp: &client.Response{}},
			is:         ErrInvalidResponse,
			wantDetail: "invocation failed: invalid LLM response object",
		},
		{
			name:       "not json",
			client:     &fakeClient{resp: text("I cannot help with that")},
			is:         ErrValidation,
			wantDetail: "I cannot help with that",
		},
		{
			name:       "panicking client",
			client:     &fakeClient{panicMsg: "boom"},
			is:         ErrInvocation,
			wantDetail: "invocation failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(tt.client, 0).Invoke(context.Background(), "p", "test")
			assert.False(t, result.OK())
			assert.ErrorIs(t, result.Err, tt.is)
			assert.Equal(t, tt.wantDetail, result.Detail())
		})
	}
}

func TestInvokeTimeout(t *testing.T) {
	fc := &fakeClient{block: true}
	result := New(fc, 20*time.Millisecond).Invoke(context.Background(), "p", "slow")

	assert.ErrorIs(t, result.Err, ErrInvocation)
	assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
}
