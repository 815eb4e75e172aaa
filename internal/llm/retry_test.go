package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad shape")}}
	truncated := MockResponse{Err: &ErrMaxTokensExceeded{}}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down, down, ok}, false, 3},
		{"all attempts fail", []MockResponse{down, down, down, ok}, true, 3},
		{"max tokens not retried", []MockResponse{truncated, ok}, true, 1},
		{"invalid response retried once", []MockResponse{invalid, invalid, ok}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockProvider(MockResponse{Err: context.Canceled})
	_, err := WithRetry(mock, fastRetry()).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryHonoursRetryAfter(t *testing.T) {
	r := &RetryProvider{config: fastRetry()}
	wait := r.backoff(0, &ErrRateLimit{RetryAfter: 7 * time.Second})
	assert.Equal(t, 7*time.Second, wait)

	wait = r.backoff(10, errors.New("x"))
	assert.LessOrEqual(t, wait, 12*time.Millisecond)
}

func TestRetryModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), fastRetry())
	assert.Equal(t, "mock", p.ModelID())
}
