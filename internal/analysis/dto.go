package analysis

import (
	"encoding/base64"

	"a11y-backend/internal/reports"
)

type analyzeResponse struct {
	TextAnalysis  *reports.AnalysisReport      `json:"text_analysis"`
	ImageAnalysis *reports.ImageAnalysisReport `json:"image_analysis"`
	TextFixes     reports.FixSuggestions       `json:"text_fixes"`
	ImageFixes    reports.FixSuggestions       `json:"image_fixes"`
}

type analyzeContentResponse struct {
	TextReport        *reports.ComplianceReport    `json:"text_report"`
	ImageReport       *reports.ImageAnalysisReport `json:"image_report"`
	OriginalImageData string                       `json:"original_image_data,omitempty"`
	ArtifactID        string                       `json:"artifact_id,omitempty"`
}

type applyFixRequest struct {
	FixPrompt  string `json:"fix_prompt"`
	ArtifactID string `json:"artifact_id"`
}

type applyFixResponse struct {
	FixedImageData string `json:"fixed_image_data"`
	Filter         string `json:"filter"`
	ArtifactID     string `json:"artifact_id"`
}

type analyzeTextRequest struct {
	Text string `json:"text"`
}

type textIssue struct {
	Type        string `json:"type"`
	Explanation string `json:"explanation"`
	Suggestion  string `json:"suggestion"`
}

type analyzeTextResponse struct {
	OverallSummary string                 `json:"overall_summary"`
	Issues         []textIssue            `json:"issues"`
	TextAnalysis   reports.AnalysisReport `json:"text_analysis"`
}

type imageIssue struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type analyzeImageResponse struct {
	AltTextSufficiency string                      `json:"alt_text_sufficiency"`
	Reasoning          string                      `json:"reasoning"`
	SuggestedAltText   string                      `json:"suggested_alt_text"`
	Issues             []imageIssue                `json:"issues"`
	ImageAnalysis      reports.ImageAnalysisReport `json:"image_analysis"`
}

type generateImageRequest struct {
	AltText string `json:"alt_text"`
}

type generateImageResponse struct {
	ImageURL string `json:"image_url"`
	MimeType string `json:"mime_type"`
}

// toTextResponse flattens a text report into the single-purpose issue list.
func toTextResponse(r reports.AnalysisReport) analyzeTextResponse {
	issues := []textIssue{}
	if r.ReadabilityScore == reports.ReadabilityFair || r.ReadabilityScore == reports.ReadabilityPoor {
		issues = append(issues, textIssue{Type: "Readability", Explanation: "Readability is " + r.ReadabilityScore, Suggestion: r.ReadabilityFeedback})
	}
	for _, s := range r.HeadingIssues {
		issues = append(issues, textIssue{Type: "Headings", Explanation: s, Suggestion: reports.Placeholder})
	}
	for _, s := range r.LinkIssues {
		issues = append(issues, textIssue{Type: "Links", Explanation: s, Suggestion: reports.Placeholder})
	}
	for _, s := range r.PIIDetected {
		issues = append(issues, textIssue{Type: "PII", Explanation: s + " found in text", Suggestion: "Redact " + s})
	}
	for _, s := range r.ComplianceIssues {
		issues = append(issues, textIssue{Type: "Compliance", Explanation: s, Suggestion: reports.Placeholder})
	}
	return analyzeTextResponse{OverallSummary: r.Explanation, Issues: issues, TextAnalysis: r}
}

func toImageResponse(r reports.ImageAnalysisReport) analyzeImageResponse {
	issues := make([]imageIssue, 0, len(r.ComplianceIssues)+1)
	for _, s := range r.ComplianceIssues {
		issues = append(issues, imageIssue{Type: "Compliance", Description: s})
	}
	if r.PIIRisk {
		issues = append(issues, imageIssue{Type: "PII", Description: "Image may contain personal information"})
	}
	return analyzeImageResponse{
		AltTextSufficiency: r.CurrentAltTextSufficiency,
		Reasoning:          r.Explanation,
		SuggestedAltText:   r.SuggestedAltText,
		Issues:             issues,
		ImageAnalysis:      r,
	}
}

func encodeBase64(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func dataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
