// Package imagefix simulates an image fix with two fixed filters chosen by
// keyword. It is a stand-in for real image editing: it never looks at what the
// image contains and never masks a region, it filters the whole frame.
package imagefix

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"a11y-backend/internal/shared/telemetry"
)

// Filter names the transform that Apply chose.
type Filter string

const (
	FilterNone   Filter = "none"
	FilterBlur   Filter = "blur"
	FilterInvert Filter = "invert"

	// BlurSigma is the Gaussian sigma used for the whole-frame blur.
	BlurSigma = 15.0
)

// Choose maps an instruction to a filter: "blur" or "redact" blurs, otherwise
// "contrast" or "color" inverts, otherwise nothing changes.
func Choose(instruction string) Filter {
	lower := strings.ToLower(instruction)
	switch {
	case strings.Contains(lower, "blur"), strings.Contains(lower, "redact"):
		return FilterBlur
	case strings.Contains(lower, "contrast"), strings.Contains(lower, "color"):
		return FilterInvert
	default:
		return FilterNone
	}
}

// Apply runs the filter selected by instruction. If filtering fails for any
// reason the original image is returned with FilterNone.
func Apply(img image.Image, instruction string) (out image.Image, applied Filter) {
	filter := Choose(instruction)
	if img == nil || filter == FilterNone {
		return img, FilterNone
	}

	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("imagefix.panic", map[string]any{"filter": string(filter), "panic": fmt.Sprint(r)})
			out, applied = img, FilterNone
		}
	}()

	// imaging filters run on worker goroutines; converting here keeps any
	// panic from a broken image.Image on this goroutine where it can be recovered.
	src := toNRGBA(img)
	switch filter {
	case FilterBlur:
		return imaging.Blur(src, BlurSigma), FilterBlur
	case FilterInvert:
		return imaging.Invert(src), FilterInvert
	}
	return img, FilterNone
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Decode reads a PNG, JPEG, GIF, BMP or TIFF image and applies EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodePNG serializes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
