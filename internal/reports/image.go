package reports

import (
	"regexp"
	"strings"
)

var imageRules = []rule[ImageAnalysisReport]{
	newRule("Suggested Alt Text:", func(r *ImageAnalysisReport, span string) { r.SuggestedAltText = firstLine(span) }),
	newRule("Compliance Issues:", func(r *ImageAnalysisReport, span string) { r.ComplianceIssues = splitLines(span) }),
	newRule[ImageAnalysisReport]("Explanation:", nil),
}

var imageKeys = []string{
	"is_decorative", "current_alt_text_sufficiency", "suggested_alt_text",
	"compliance_issues", "pii_risk", "explanation",
}

// ParseImageReport parses an image analysis response. The fallback derives its
// booleans and sufficiency from keyword presence, which is low fidelity but
// deterministic for a given response.
func ParseImageReport(raw string) ParseOutcome[ImageAnalysisReport] {
	if obj, ok := decodeObject(raw, imageKeys...); ok {
		return structured(ImageAnalysisReport{
			IsDecorative: getBool(obj, "is_decorative"),
			CurrentAltTextSufficiency: normalizeEnum(
				getString(obj, "current_alt_text_sufficiency", SufficiencyMissing),
				SufficiencyMissing, SufficiencyGood, SufficiencyNeedsImprovement, SufficiencyMissing),
			SuggestedAltText: getString(obj, "suggested_alt_text", Placeholder),
			ComplianceIssues: getList(obj, "compliance_issues"),
			PIIRisk:          getBool(obj, "pii_risk"),
			Explanation:      getString(obj, "explanation", Placeholder),
		})
	}

	lower := strings.ToLower(raw)
	report := ImageAnalysisReport{
		IsDecorative:              decorativeFromText(raw, lower),
		CurrentAltTextSufficiency: sufficiencyFromText(lower),
		SuggestedAltText:          "",
		ComplianceIssues:          []string{},
		PIIRisk:                   strings.Contains(lower, "pii detected") || strings.Contains(lower, "sensitive information"),
		Explanation:               raw,
	}
	applyRules(raw, imageRules, &report)
	if len(report.ComplianceIssues) == 0 && strings.Contains(lower, "missing alt text") {
		report.ComplianceIssues = []string{"Missing alt text"}
	}
	return fallback(report, raw)
}

var decorativeLabel = regexp.MustCompile(`(?i)decorative\W{0,4}\s*(true|yes|false|no)\b`)

// An explicit "Decorative: <value>" wins. Otherwise only a capitalised True
// counts, so prose like "true to the chart" does not.
func decorativeFromText(raw, lower string) bool {
	if m := decorativeLabel.FindStringSubmatch(raw); m != nil {
		v := strings.ToLower(m[1])
		return v == "true" || v == "yes"
	}
	return strings.Contains(lower, "decorative") && strings.Contains(raw, "True")
}

// Negative phrases are checked first so "insufficient" never reads as sufficient.
func sufficiencyFromText(lower string) string {
	switch {
	case strings.Contains(lower, "needs improvement"), strings.Contains(lower, "insufficient"):
		return SufficiencyNeedsImprovement
	case strings.Contains(lower, "missing"):
		return SufficiencyMissing
	case strings.Contains(lower, "sufficient"), strings.Contains(lower, "good"):
		return SufficiencyGood
	default:
		return SufficiencyNeedsImprovement
	}
}
