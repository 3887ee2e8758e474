// Package reports turns free-form model output into stable, typed reports.
// Every parser tries a strict JSON decode first and falls back to label
// scanning; none of them ever returns an error.
package reports

const (
	Placeholder = "N/A"

	ReadabilityGood    = "Good"
	ReadabilityFair    = "Fair"
	ReadabilityPoor    = "Poor"
	ReadabilityUnknown = "Unknown"

	SufficiencyGood             = "Good"
	SufficiencyNeedsImprovement = "Needs Improvement"
	SufficiencyMissing          = "Missing"
)

// AnalysisReport is the text accessibility report.
type AnalysisReport struct {
	ReadabilityScore    string   `json:"readability_score"`
	ReadabilityFeedback string   `json:"readability_feedback"`
	HeadingIssues       []string `json:"heading_issues"`
	LinkIssues          []string `json:"link_issues"`
	PIIDetected         []string `json:"pii_detected"`
	ComplianceIssues    []string `json:"compliance_issues"`
	Explanation         string   `json:"explanation"`
}

// ImageAnalysisReport is the image accessibility report.
type ImageAnalysisReport struct {
	IsDecorative              bool     `json:"is_decorative"`
	CurrentAltTextSufficiency string   `json:"current_alt_text_sufficiency"`
	SuggestedAltText          string   `json:"suggested_alt_text"`
	ComplianceIssues          []string `json:"compliance_issues"`
	PIIRisk                   bool     `json:"pii_risk"`
	Explanation               string   `json:"explanation"`
}

// TextIssue is one finding in a ComplianceReport.
type TextIssue struct {
	Type        string `json:"type"`
	Explanation string `json:"explanation"`
	Suggestion  string `json:"suggestion"`
}

// AltTextAnalysis assesses the alt text submitted with the content.
type AltTextAnalysis struct {
	Sufficiency      string `json:"sufficiency"`
	Reasoning        string `json:"reasoning"`
	SuggestedAltText string `json:"suggested_alt_text"`
}

// ComplianceReport covers text and alt text together. SuggestedFixes are
// natural-language instructions a client can feed back into /apply-fix.
type ComplianceReport struct {
	TextIssues      []TextIssue     `json:"text_issues"`
	AltTextAnalysis AltTextAnalysis `json:"alt_text_analysis"`
	SuggestedFixes  []string        `json:"suggested_fixes"`
	Explanation     string          `json:"explanation,omitempty"`
}

// FixSuggestions maps a fix category ("redact_pii", "suggested_alt_text", ...)
// to its replacement content. Categories are an open set.
type FixSuggestions map[string]string

// Well-known fix categories.
const (
	FixRewriteReadability = "rewrite_readability"
	FixHeadings           = "fix_headings"
	FixLinks              = "fix_links"
	FixRedactPII          = "redact_pii"
	FixRedactPIIApplied   = "redact_pii_applied"
	FixSuggestedAltText   = "suggested_alt_text"
)
