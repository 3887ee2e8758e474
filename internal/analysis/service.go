package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"a11y-backend/internal/artifacts"
	"a11y-backend/internal/extract"
	"a11y-backend/internal/imagefix"
	"a11y-backend/internal/imagegen"
	"a11y-backend/internal/llm"
	"a11y-backend/internal/pii"
	"a11y-backend/internal/reports"
	"a11y-backend/internal/shared/telemetry"
)

// Recorder receives parse and image-fix outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	IncParseOutcome(report, kind string)
	IncImageFix(filter string)
}

// RequestContext carries per-request caller state into the service. The
// handler builds it; the service never looks sessions up on its own.
type RequestContext struct {
	SessionID string
	// PriorArtifactID pins /apply-fix to a specific upload. Empty means the
	// session's latest upload.
	PriorArtifactID string
}

// Upload is a file received with a request.
type Upload struct {
	FileName string
	MimeType string
	Data     []byte
}

// Service orchestrates prompt building, model calls and response parsing.
type Service struct {
	LLM       llm.Client
	Images    imagegen.Generator
	Artifacts *artifacts.Service
	Metrics   Recorder
	// Timeout bounds each external call. Zero leaves the caller's deadline alone.
	Timeout time.Duration
}

func (s *Service) generate(ctx context.Context, req llm.Request) (string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	req.System = llm.SystemPrompt()
	req.JSON = true
	out, err := s.LLM.Generate(ctx, req)
	if err != nil {
		telemetry.ErrorCtx(ctx, "model.call_failed", map[string]any{
			"operation": string(req.Operation),
			"kind":      string(llm.KindOf(err)),
			"error":     err.Error(),
		})
		return "", llm.Classify(req.Operation, err)
	}
	return out, nil
}

func (s *Service) recordParse(ctx context.Context, report string, kind reports.Kind) {
	if s.Metrics != nil {
		s.Metrics.IncParseOutcome(report, string(kind))
	}
	if kind == reports.KindFallback {
		telemetry.WarnCtx(ctx, "report.fallback_parse", map[string]any{"report": report})
	}
}

// AnalyzeText runs the text accessibility analysis.
func (s *Service) AnalyzeText(ctx context.Context, text string) (reports.ParseOutcome[reports.AnalysisReport], error) {
	if strings.TrimSpace(text) == "" {
		return reports.ParseOutcome[reports.AnalysisReport]{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	raw, err := s.generate(ctx, llm.Request{Operation: llm.OpAnalyzeText, Prompt: llm.TextAnalysisPrompt(text)})
	if err != nil {
		return reports.ParseOutcome[reports.AnalysisReport]{}, err
	}
	out := reports.ParseTextReport(raw, text)
	s.recordParse(ctx, "text", out.Kind)
	return out, nil
}

// SuggestTextFixes asks for fixes to the analyzed text. When the model offers a
// PII redaction, a locally redacted copy is added under redact_pii_applied.
func (s *Service) SuggestTextFixes(ctx context.Context, text string, report reports.AnalysisReport) (reports.FixSuggestions, error) {
	raw, err := s.generate(ctx, llm.Request{Operation: llm.OpSuggestTextFixes, Prompt: llm.TextFixesPrompt(text, toJSON(report))})
	if err != nil {
		return nil, err
	}
	out := reports.ParseFixSuggestions(raw)
	s.recordParse(ctx, "text_fixes", out.Kind)
	fixes := out.Report
	if _, ok := fixes[reports.FixRedactPII]; ok {
		fixes[reports.FixRedactPIIApplied] = pii.Redact(text)
	}
	return fixes, nil
}

// AnalyzeImage runs the image accessibility analysis.
func (s *Service) AnalyzeImage(ctx context.Context, img Upload, existingAltText string) (reports.ParseOutcome[reports.ImageAnalysisReport], error) {
	if len(img.Data) == 0 {
		return reports.ParseOutcome[reports.ImageAnalysisReport]{}, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	raw, err := s.generate(ctx, llm.Request{
		Operation: llm.OpAnalyzeImage,
		Prompt:    llm.ImageAnalysisPrompt(existingAltText),
		Images:    []llm.Image{toModelImage(img)},
	})
	if err != nil {
		return reports.ParseOutcome[reports.ImageAnalysisReport]{}, err
	}
	out := reports.ParseImageReport(raw)
	s.recordParse(ctx, "image", out.Kind)
	return out, nil
}

// SuggestImageFixes asks for an improved alt text for the image.
func (s *Service) SuggestImageFixes(ctx context.Context, img Upload, existingAltText string, report reports.ImageAnalysisReport) (reports.FixSuggestions, error) {
	raw, err := s.generate(ctx, llm.Request{
		Operation: llm.OpSuggestImageFixes,
		Prompt:    llm.ImageFixesPrompt(existingAltText, toJSON(report)),
		Images:    []llm.Image{toModelImage(img)},
	})
	if err != nil {
		return nil, err
	}
	out := reports.ParseFixSuggestions(raw)
	s.recordParse(ctx, "image_fixes", out.Kind)
	return out.Report, nil
}

// AnalyzeCompliance reviews text and alt text together. The image, when
// present, is attached so the model can judge the alt text against it.
func (s *Service) AnalyzeCompliance(ctx context.Context, text, altText string, img *Upload) (reports.ParseOutcome[reports.ComplianceReport], error) {
	req := llm.Request{Operation: llm.OpCompliance, Prompt: llm.CompliancePrompt(text, altText)}
	if img != nil && len(img.Data) > 0 {
		req.Images = []llm.Image{toModelImage(*img)}
	}
	raw, err := s.generate(ctx, req)
	if err != nil {
		return reports.ParseOutcome[reports.ComplianceReport]{}, err
	}
	out := reports.ParseComplianceReport(raw)
	s.recordParse(ctx, "compliance", out.Kind)
	return out, nil
}

// AnalyzeInput is the combined /analyze request.
type AnalyzeInput struct {
	Content         string
	Document        *Upload
	Image           *Upload
	ExistingAltText string
}

// AnalyzeResult holds whichever halves of the analysis had input. Absent halves
// are nil.
type AnalyzeResult struct {
	TextAnalysis  *reports.AnalysisReport
	ImageAnalysis *reports.ImageAnalysisReport
	TextFixes     reports.FixSuggestions
	ImageFixes    reports.FixSuggestions
	ParseKind     reports.Kind
}

// Analyze runs text analysis and fixes for the content (or uploaded document),
// then image analysis and fixes for the image. Either part may be absent, not both.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeResult, error) {
	text, err := s.resolveText(ctx, in.Content, in.Document)
	if err != nil {
		return AnalyzeResult{}, err
	}
	hasImage := in.Image != nil && len(in.Image.Data) > 0
	if text == "" && !hasImage {
		return AnalyzeResult{}, fmt.Errorf("%w: content, document or image is required", ErrInvalidInput)
	}

	var res AnalyzeResult
	res.ParseKind = reports.KindStructured
	if text != "" {
		outcome, err := s.AnalyzeText(ctx, text)
		if err != nil {
			return AnalyzeResult{}, err
		}
		res.TextAnalysis = &outcome.Report
		res.ParseKind = worse(res.ParseKind, outcome.Kind)
		if res.TextFixes, err = s.SuggestTextFixes(ctx, text, outcome.Report); err != nil {
			return AnalyzeResult{}, err
		}
	}
	if hasImage {
		outcome, err := s.AnalyzeImage(ctx, *in.Image, in.ExistingAltText)
		if err != nil {
			return AnalyzeResult{}, err
		}
		res.ImageAnalysis = &outcome.Report
		res.ParseKind = worse(res.ParseKind, outcome.Kind)
		if res.ImageFixes, err = s.SuggestImageFixes(ctx, *in.Image, in.ExistingAltText, outcome.Report); err != nil {
			return AnalyzeResult{}, err
		}
	}
	return res, nil
}

// resolveText prefers pasted content over an uploaded document. Markup is
// reduced to visible text either way.
func (s *Service) resolveText(ctx context.Context, content string, doc *Upload) (string, error) {
	if strings.TrimSpace(content) != "" {
		return extract.HTMLToText(content), nil
	}
	if doc == nil || len(doc.Data) == 0 {
		return "", nil
	}
	text, err := extract.FromBytes(ctx, doc.Data, doc.MimeType, doc.FileName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return text, nil
}

// ContentInput is the /analyze-content request.
type ContentInput struct {
	TextContent string
	AltText     string
	Image       *Upload
}

// ContentResult is the /analyze-content outcome. OriginalPNG and ArtifactID are
// only set when an image was uploaded.
type ContentResult struct {
	TextReport  *reports.ComplianceReport
	ImageReport *reports.ImageAnalysisReport
	OriginalPNG []byte
	ArtifactID  string
	ParseKind   reports.Kind
}

// AnalyzeContent runs the compliance review of text plus alt text and, for an
// uploaded image, stores it as the session's prior artifact and analyzes it.
func (s *Service) AnalyzeContent(ctx context.Context, rc RequestContext, in ContentInput) (ContentResult, error) {
	text := extract.HTMLToText(in.TextContent)
	hasImage := in.Image != nil && len(in.Image.Data) > 0
	if text == "" && !hasImage {
		return ContentResult{}, fmt.Errorf("%w: text_content or image is required", ErrInvalidInput)
	}

	res := ContentResult{ParseKind: reports.KindStructured}
	if hasImage {
		decoded, err := imagefix.Decode(bytes.NewReader(in.Image.Data))
		if err != nil {
			return ContentResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if res.OriginalPNG, err = imagefix.EncodePNG(decoded); err != nil {
			return ContentResult{}, fmt.Errorf("encode image: %w", err)
		}
		saved, err := s.Artifacts.Save(ctx, rc.SessionID, uploadName(in.Image.FileName), bytes.NewReader(in.Image.Data))
		if err != nil {
			return ContentResult{}, fmt.Errorf("save upload: %w", err)
		}
		res.ArtifactID = saved.ID
	}

	if text != "" || in.AltText != "" {
		outcome, err := s.AnalyzeCompliance(ctx, text, in.AltText, in.Image)
		if err != nil {
			return ContentResult{}, err
		}
		res.TextReport = &outcome.Report
		res.ParseKind = worse(res.ParseKind, outcome.Kind)
	}
	if hasImage {
		outcome, err := s.AnalyzeImage(ctx, *in.Image, in.AltText)
		if err != nil {
			return ContentResult{}, err
		}
		res.ImageReport = &outcome.Report
		res.ParseKind = worse(res.ParseKind, outcome.Kind)
	}
	return res, nil
}

// FixResult is the filtered image produced by ApplyFix.
type FixResult struct {
	PNG        []byte
	Filter     imagefix.Filter
	ArtifactID string
}

// ApplyFix runs the keyword image filter over the session's prior upload. This
// simulates a fix; it does not edit image content.
func (s *Service) ApplyFix(ctx context.Context, rc RequestContext, fixPrompt string) (FixResult, error) {
	if strings.TrimSpace(fixPrompt) == "" {
		return FixResult{}, fmt.Errorf("%w: fix_prompt is required", ErrInvalidInput)
	}
	art, err := s.priorArtifact(ctx, rc)
	if err != nil {
		return FixResult{}, err
	}

	rdr, err := s.Artifacts.Open(ctx, art)
	if err != nil {
		return FixResult{}, err
	}
	defer rdr.Close()
	img, err := imagefix.Decode(rdr)
	if err != nil {
		return FixResult{}, fmt.Errorf("decode artifact %s: %w", art.ID, err)
	}

	fixed, filter := imagefix.Apply(img, fixPrompt)
	if s.Metrics != nil {
		s.Metrics.IncImageFix(string(filter))
	}
	data, err := imagefix.EncodePNG(fixed)
	if err != nil {
		return FixResult{}, fmt.Errorf("encode fixed image: %w", err)
	}
	telemetry.InfoCtx(ctx, "imagefix.applied", map[string]any{"artifact_id": art.ID, "filter": string(filter)})
	return FixResult{PNG: data, Filter: filter, ArtifactID: art.ID}, nil
}

func (s *Service) priorArtifact(ctx context.Context, rc RequestContext) (artifacts.Artifact, error) {
	if rc.SessionID == "" {
		return artifacts.Artifact{}, ErrNoPriorUpload
	}
	if rc.PriorArtifactID != "" {
		art, err := s.Artifacts.Get(ctx, rc.SessionID, rc.PriorArtifactID)
		if errors.Is(err, artifacts.ErrNotFound) {
			return artifacts.Artifact{}, ErrNotFound
		}
		return art, err
	}
	art, err := s.Artifacts.Latest(ctx, rc.SessionID)
	if errors.Is(err, artifacts.ErrNotFound) {
		return artifacts.Artifact{}, ErrNoPriorUpload
	}
	return art, err
}

// GenerateImage renders an image from alt text.
func (s *Service) GenerateImage(ctx context.Context, altText string) (imagegen.Image, error) {
	altText = strings.TrimSpace(altText)
	if altText == "" {
		return imagegen.Image{}, fmt.Errorf("%w: alt_text is required", ErrInvalidInput)
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	img, err := s.Images.Generate(ctx, altText)
	if err != nil {
		telemetry.ErrorCtx(ctx, "imagegen.failed", map[string]any{"kind": string(llm.KindOf(err)), "error": err.Error()})
		return imagegen.Image{}, llm.Classify(llm.OpGenerateImage, err)
	}
	if len(img.Data) == 0 {
		return imagegen.Image{}, imagegen.MissingImage()
	}
	if img.MimeType == "" {
		img.MimeType = http.DetectContentType(img.Data)
	}
	return img, nil
}

func toModelImage(u Upload) llm.Image {
	mimeType := u.MimeType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(u.Data)
	}
	return llm.Image{Data: u.Data, MimeType: mimeType}
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func uploadName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "upload.png"
	}
	return name
}

func worse(a, b reports.Kind) reports.Kind {
	if a == reports.KindFallback || b == reports.KindFallback {
		return reports.KindFallback
	}
	return reports.KindStructured
}
