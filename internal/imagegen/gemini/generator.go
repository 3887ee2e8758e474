package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"a11y-backend/internal/imagegen"
	"a11y-backend/internal/llm"
)

const defaultMimeType = "image/png"

// Generator calls Imagen through the Gemini API.
type Generator struct {
	api   *genai.Client
	model string
}

// New builds an Imagen generator. It accepts an existing genai client so the
// text and image providers can share one connection.
func New(api *genai.Client, model string) (*Generator, error) {
	if api == nil {
		return nil, fmt.Errorf("genai client is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("IMAGEGEN_MODEL is required for Gemini")
	}
	return &Generator{api: api, model: model}, nil
}

// NewFromKey creates its own genai client.
func NewFromKey(ctx context.Context, apiKey, model, baseURL string) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	api, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return New(api, model)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (imagegen.Image, error) {
	resp, err := g.api.Models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: defaultMimeType,
	})
	if err != nil {
		return imagegen.Image{}, llm.Classify(llm.OpGenerateImage, err)
	}
	for _, generated := range resp.GeneratedImages {
		if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			continue
		}
		mimeType := generated.Image.MIMEType
		if mimeType == "" {
			mimeType = defaultMimeType
		}
		return imagegen.Image{Data: generated.Image.ImageBytes, MimeType: mimeType}, nil
	}
	return imagegen.Image{}, imagegen.MissingImage()
}

var _ imagegen.Generator = (*Generator)(nil)
