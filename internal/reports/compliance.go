package reports

import (
	"regexp"
	"strings"
)

var complianceRules = []rule[ComplianceReport]{
	newRule("Text Issues:", func(r *ComplianceReport, span string) {
		for _, line := range splitLines(span) {
			r.TextIssues = append(r.TextIssues, TextIssue{Type: "General", Explanation: line, Suggestion: Placeholder})
		}
	}),
	newRule("Sufficiency:", func(r *ComplianceReport, span string) {
		r.AltTextAnalysis.Sufficiency = firstWordEnum(span, SufficiencyMissing, SufficiencyGood, SufficiencyNeedsImprovement, SufficiencyMissing)
	}),
	newRule("Reasoning:", func(r *ComplianceReport, span string) {
		if span != "" {
			r.AltTextAnalysis.Reasoning = span
		}
	}),
	newRule("Suggested Alt Text:", func(r *ComplianceReport, span string) {
		r.AltTextAnalysis.SuggestedAltText = firstLine(span)
	}),
	newRule("Suggested Fixes:", func(r *ComplianceReport, span string) {
		for _, line := range splitLines(span) {
			r.SuggestedFixes = appendUnique(r.SuggestedFixes, suggestedFixPrefix.ReplaceAllString(line, ""))
		}
	}),
}

var (
	suggestedFixLine   = regexp.MustCompile(`(?im)^\s*(?:[-*•+]\s*)?Suggested Fix:\s*(.+?)\s*$`)
	suggestedFixPrefix = regexp.MustCompile(`(?i)^Suggested Fix:\s*`)
)

func emptyComplianceReport() ComplianceReport {
	return ComplianceReport{
		TextIssues: []TextIssue{},
		AltTextAnalysis: AltTextAnalysis{
			Sufficiency:      SufficiencyMissing,
			Reasoning:        Placeholder,
			SuggestedAltText: Placeholder,
		},
		SuggestedFixes: []string{},
	}
}

// ParseComplianceReport parses a compliance response. The model may answer
// with an empty object for any key when it finds nothing.
func ParseComplianceReport(raw string) ParseOutcome[ComplianceReport] {
	if obj, ok := decodeObject(raw, "text_issues", "alt_text_analysis", "suggested_fixes"); ok {
		report := emptyComplianceReport()
		if items, ok := obj["text_issues"].([]any); ok {
			for _, item := range items {
				report.TextIssues = append(report.TextIssues, textIssueFrom(item))
			}
		}
		alt := getObject(obj, "alt_text_analysis")
		sufficiency := normalizeEnum(getString(alt, "sufficiency", SufficiencyMissing),
			SufficiencyMissing, SufficiencyGood, SufficiencyNeedsImprovement, SufficiencyMissing)
		report.AltTextAnalysis = AltTextAnalysis{
			Sufficiency:      sufficiency,
			Reasoning:        getString(alt, "reasoning", Placeholder),
			SuggestedAltText: getString(alt, "suggested_alt_text", Placeholder),
		}
		report.SuggestedFixes = getList(obj, "suggested_fixes")
		return structured(report)
	}

	report := emptyComplianceReport()
	applyRules(raw, complianceRules, &report)
	for _, m := range suggestedFixLine.FindAllStringSubmatch(raw, -1) {
		report.SuggestedFixes = appendUnique(report.SuggestedFixes, m[1])
	}
	report.Explanation = strings.TrimSpace(raw)
	return fallback(report, raw)
}

func textIssueFrom(item any) TextIssue {
	obj, ok := item.(map[string]any)
	if !ok {
		return TextIssue{Type: "General", Explanation: stringify(item), Suggestion: Placeholder}
	}
	explanation := getString(obj, "explanation", "")
	if explanation == "" {
		explanation = getString(obj, "description", Placeholder)
	}
	return TextIssue{
		Type:        getString(obj, "type", "General"),
		Explanation: explanation,
		Suggestion:  getString(obj, "suggestion", Placeholder),
	}
}

func appendUnique(list []string, item string) []string {
	if item == "" {
		return list
	}
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
