package resilience

import (
	"context"
	"errors"
	"sync"

	"github.com/sony/gobreaker/v2"

	"a11y-backend/internal/llm"
	"a11y-backend/internal/shared/telemetry"
)

// Guard wraps an llm.Client with one circuit breaker per operation.
// It never retries; an open breaker fails fast with an unavailable error.
type Guard struct {
	next llm.Client
	cfg  Config

	mu       sync.Mutex
	breakers map[llm.Operation]*gobreaker.CircuitBreaker[string]
}

// NewGuard returns next unchanged when the breaker is disabled.
func NewGuard(next llm.Client, cfg Config) llm.Client {
	if !cfg.BreakerEnabled {
		return next
	}
	return &Guard{
		next:     next,
		cfg:      cfg.normalize(),
		breakers: make(map[llm.Operation]*gobreaker.CircuitBreaker[string]),
	}
}

func (g *Guard) Generate(ctx context.Context, req llm.Request) (string, error) {
	breaker := g.circuitBreaker(req.Operation)
	out, err := breaker.Execute(func() (string, error) {
		return g.next.Generate(ctx, req)
	})
	if IsCircuitOpen(err) {
		return "", &llm.ExternalError{Kind: llm.KindUnavailable, Op: string(req.Operation), Err: err}
	}
	return out, err
}

func (g *Guard) circuitBreaker(op llm.Operation) *gobreaker.CircuitBreaker[string] {
	g.mu.Lock()
	defer g.mu.Unlock()

	if breaker, ok := g.breakers[op]; ok {
		return breaker
	}
	settings := gobreaker.Settings{
		Name:        string(op),
		MaxRequests: g.cfg.BreakerHalfOpenMaxCalls,
		Timeout:     g.cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < g.cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= g.cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			telemetry.Warn("model.breaker_state_change", map[string]any{
				"operation": name,
				"from":      from.String(),
				"to":        to.String(),
			})
		},
	}
	breaker := gobreaker.NewCircuitBreaker[string](settings)
	g.breakers[op] = breaker
	return breaker
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// Caller cancellation and missing configuration say nothing about provider health.
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return llm.KindOf(err) != llm.KindNotConfigured
}
