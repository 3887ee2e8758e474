package llm

import (
	"context"
	"errors"
	"time"
)

// Operation names a model call for logs, metrics and error messages.
type Operation string

const (
	OpAnalyzeText       Operation = "analyze_text"
	OpAnalyzeImage      Operation = "analyze_image"
	OpSuggestTextFixes  Operation = "suggest_text_fixes"
	OpSuggestImageFixes Operation = "suggest_image_fixes"
	OpCompliance        Operation = "analyze_compliance"
	OpGenerateImage     Operation = "generate_image"
)

// Image is an inline image attached to a prompt.
type Image struct {
	Data     []byte
	MimeType string
}

// Request is one multimodal prompt submission.
type Request struct {
	Operation Operation
	System    string
	Prompt    string
	Images    []Image
	// JSON asks the provider for a JSON-only response where it supports that.
	JSON bool
}

// Client abstracts hosted multimodal model providers.
// Implementations return *ExternalError for every failure.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient lets the server start without provider credentials.
type PlaceholderClient struct{}

// Generate always fails with a not_configured external error.
func (PlaceholderClient) Generate(ctx context.Context, req Request) (string, error) {
	_ = ctx
	return "", &ExternalError{Kind: KindNotConfigured, Op: string(req.Operation), Err: ErrNotImplemented}
}

// Observer receives one sample per model call.
type Observer interface {
	ObserveModelCall(operation, outcome string, d time.Duration)
}

type observedClient struct {
	next Client
	obs  Observer
}

// WithObserver reports the duration and outcome of every call to obs.
func WithObserver(next Client, obs Observer) Client {
	if obs == nil {
		return next
	}
	return &observedClient{next: next, obs: obs}
}

func (c *observedClient) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := c.next.Generate(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
	}
	c.obs.ObserveModelCall(string(req.Operation), outcome, time.Since(start))
	return out, err
}
