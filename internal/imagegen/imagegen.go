// Package imagegen turns alt text back into an image through a hosted
// image-generation model.
package imagegen

import (
	"context"
	"errors"

	"a11y-backend/internal/llm"
)

// Image is a generated image.
type Image struct {
	Data     []byte
	MimeType string
}

// Generator produces one image for a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Image, error)
}

// ErrNotConfigured is wrapped when no image provider is selected.
var ErrNotConfigured = errors.New("image generation is not configured")

// Disabled is the Generator used when IMAGEGEN_PROVIDER=none.
type Disabled struct{}

func (Disabled) Generate(ctx context.Context, prompt string) (Image, error) {
	return Image{}, &llm.ExternalError{Kind: llm.KindNotConfigured, Op: string(llm.OpGenerateImage), Err: ErrNotConfigured}
}

// MissingImage reports a response that carried no image bytes.
func MissingImage() error {
	return &llm.ExternalError{Kind: llm.KindMissingImage, Op: string(llm.OpGenerateImage), Err: errors.New("response contained no image")}
}
