package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"a11y-backend/internal/imagegen"
	"a11y-backend/internal/llm"
)

// Generator calls the OpenAI images endpoint and asks for base64 output.
type Generator struct {
	api   *goopenai.Client
	model string
}

// New builds an OpenAI image generator.
func New(apiKey, model, baseURL string) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("IMAGEGEN_MODEL is required for OpenAI")
	}
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Generator{api: goopenai.NewClientWithConfig(cfg), model: model}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (imagegen.Image, error) {
	resp, err := g.api.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           goopenai.CreateImageSize1024x1024,
		ResponseFormat: goopenai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return imagegen.Image{}, llm.Classify(llm.OpGenerateImage, err)
	}
	for _, item := range resp.Data {
		if item.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return imagegen.Image{}, &llm.ExternalError{Kind: llm.KindUpstream, Op: string(llm.OpGenerateImage), Err: fmt.Errorf("decode image: %w", err)}
		}
		return imagegen.Image{Data: data, MimeType: "image/png"}, nil
	}
	return imagegen.Image{}, imagegen.MissingImage()
}

var _ imagegen.Generator = (*Generator)(nil)
