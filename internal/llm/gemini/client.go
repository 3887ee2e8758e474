package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"a11y-backend/internal/llm"
)

// Options configures the Gemini provider.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client implements llm.Client on the Gemini API.
type Client struct {
	api   *genai.Client
	model string
}

// NewClient constructs a Gemini client for the Developer API backend.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	api, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{api: api, model: opts.Model}, nil
}

// API exposes the underlying genai client so image generation can share it.
func (c *Client) API() *genai.Client {
	return c.api
}

// Generate sends the prompt with inline image parts and returns the response text.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	for _, img := range req.Images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.api.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", classify(req.Operation, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", llm.Empty(req.Operation)
	}
	return text, nil
}

func classify(op llm.Operation, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusGatewayTimeout {
		return &llm.ExternalError{Kind: llm.KindTimeout, Op: string(op), Err: err}
	}
	return llm.Classify(op, err)
}

var _ llm.Client = (*Client)(nil)
