package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/system.txt
	systemPrompt string
	//go:embed prompts/text_analysis.txt
	textAnalysisTemplate string
	//go:embed prompts/image_analysis.txt
	imageAnalysisTemplate string
	//go:embed prompts/text_fixes.txt
	textFixesTemplate string
	//go:embed prompts/image_fixes.txt
	imageFixesTemplate string
	//go:embed prompts/compliance.txt
	complianceTemplate string
)

// SystemPrompt is sent as the system instruction on every analysis call.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// TextAnalysisPrompt asks for an AnalysisReport of plain text.
func TextAnalysisPrompt(text string) string {
	return fill(textAnalysisTemplate, "{{TEXT}}", text)
}

// ImageAnalysisPrompt asks for an ImageAnalysisReport; the image travels as an attachment.
func ImageAnalysisPrompt(existingAltText string) string {
	return fill(imageAnalysisTemplate, "{{ALT_TEXT}}", existingAltText)
}

// TextFixesPrompt asks for fix suggestions given the text and its analysis as JSON.
func TextFixesPrompt(text, analysisJSON string) string {
	return fill(textFixesTemplate, "{{TEXT}}", text, "{{ANALYSIS}}", analysisJSON)
}

// ImageFixesPrompt asks for replacement alt text given the image analysis as JSON.
func ImageFixesPrompt(existingAltText, analysisJSON string) string {
	return fill(imageFixesTemplate, "{{ALT_TEXT}}", existingAltText, "{{ANALYSIS}}", analysisJSON)
}

// CompliancePrompt asks for a ComplianceReport covering text and alt text together.
func CompliancePrompt(text, altText string) string {
	return fill(complianceTemplate, "{{TEXT}}", text, "{{ALT_TEXT}}", orNA(altText))
}

func fill(template string, oldnew ...string) string {
	return strings.TrimSpace(strings.NewReplacer(oldnew...).Replace(template))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
