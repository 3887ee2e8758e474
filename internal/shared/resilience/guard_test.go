package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"a11y-backend/internal/llm"
)

type countingClient struct {
	calls int
	err   error
}

func (c *countingClient) Generate(context.Context, llm.Request) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "ok", nil
}

func TestNewGuardDisabledReturnsNext(t *testing.T) {
	next := &countingClient{}
	got := NewGuard(next, Config{BreakerEnabled: false})
	assert.Same(t, next, got)
}

func TestGuardOpensAfterFailures(t *testing.T) {
	next := &countingClient{err: &llm.ExternalError{Kind: llm.KindUpstream, Op: "analyze_text", Err: errors.New("500")}}
	guard := NewGuard(next, Config{
		BreakerEnabled:      true,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  time.Minute,
	})
	req := llm.Request{Operation: llm.OpAnalyzeText}

	for i := 0; i < 2; i++ {
		_, err := guard.Generate(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, llm.KindUpstream, llm.KindOf(err))
	}

	_, err := guard.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, llm.KindUnavailable, llm.KindOf(err))
	assert.Equal(t, 2, next.calls, "open breaker must not reach the provider")

	// Other operations have their own breaker.
	_, err = guard.Generate(context.Background(), llm.Request{Operation: llm.OpAnalyzeImage})
	assert.Equal(t, llm.KindUpstream, llm.KindOf(err))
}

func TestGuardIgnoresNotConfigured(t *testing.T) {
	next := &countingClient{err: &llm.ExternalError{Kind: llm.KindNotConfigured, Op: "analyze_text"}}
	guard := NewGuard(next, Config{BreakerEnabled: true, BreakerMinRequests: 1, BreakerFailureRatio: 0.1})
	for i := 0; i < 3; i++ {
		_, err := guard.Generate(context.Background(), llm.Request{Operation: llm.OpAnalyzeText})
		assert.Equal(t, llm.KindNotConfigured, llm.KindOf(err))
	}
	assert.Equal(t, 3, next.calls)
}

func TestGuardPassesSuccess(t *testing.T) {
	guard := NewGuard(&countingClient{}, Config{BreakerEnabled: true})
	out, err := guard.Generate(context.Background(), llm.Request{Operation: llm.OpCompliance})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}
