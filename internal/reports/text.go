package reports

import (
	"strings"

	"a11y-backend/internal/pii"
)

var textRules = []rule[AnalysisReport]{
	newRule("Readability Score:", func(r *AnalysisReport, span string) {
		r.ReadabilityScore = firstWordEnum(span, ReadabilityUnknown, ReadabilityGood, ReadabilityFair, ReadabilityPoor)
	}),
	newRule("Readability Feedback:", func(r *AnalysisReport, span string) {
		if span != "" {
			r.ReadabilityFeedback = span
		}
	}),
	newRule("Heading Issues:", func(r *AnalysisReport, span string) { r.HeadingIssues = splitLines(span) }),
	newRule("Link Issues:", func(r *AnalysisReport, span string) { r.LinkIssues = splitLines(span) }),
	// PII found by the model is ignored; the label only bounds the previous section.
	newRule[AnalysisReport]("PII Detected:", nil),
	newRule("Compliance Issues:", func(r *AnalysisReport, span string) { r.ComplianceIssues = splitLines(span) }),
	newRule("Explanation:", func(r *AnalysisReport, span string) {
		if span != "" {
			r.Explanation = span
		}
	}),
}

var textKeys = []string{
	"readability_score", "readability_feedback", "heading_issues", "link_issues",
	"pii_detected", "compliance_issues", "explanation",
}

func emptyAnalysisReport() AnalysisReport {
	return AnalysisReport{
		ReadabilityScore:    ReadabilityUnknown,
		ReadabilityFeedback: Placeholder,
		HeadingIssues:       []string{},
		LinkIssues:          []string{},
		PIIDetected:         []string{},
		ComplianceIssues:    []string{},
		Explanation:         Placeholder,
	}
}

// ParseTextReport parses a text analysis response. On the fallback branch
// PIIDetected is always recomputed from originalText by the local detector.
func ParseTextReport(raw, originalText string) ParseOutcome[AnalysisReport] {
	if obj, ok := decodeObject(raw, textKeys...); ok {
		return structured(AnalysisReport{
			ReadabilityScore:    normalizeEnum(getString(obj, "readability_score", ReadabilityUnknown), ReadabilityUnknown, ReadabilityGood, ReadabilityFair, ReadabilityPoor),
			ReadabilityFeedback: getString(obj, "readability_feedback", Placeholder),
			HeadingIssues:       getList(obj, "heading_issues"),
			LinkIssues:          getList(obj, "link_issues"),
			PIIDetected:         getList(obj, "pii_detected"),
			ComplianceIssues:    getList(obj, "compliance_issues"),
			Explanation:         getString(obj, "explanation", Placeholder),
		})
	}

	report := emptyAnalysisReport()
	if applyRules(raw, textRules, &report) == 0 || report.Explanation == Placeholder {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			report.Explanation = trimmed
		}
	}
	report.PIIDetected = pii.Detect(originalText)
	return fallback(report, raw)
}
