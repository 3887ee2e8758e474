package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"a11y-backend/internal/pii"
)

func TestParseTextReportStructuredIsIdentity(t *testing.T) {
	raw := `{
		"readability_score": "Fair",
		"readability_feedback": "Shorten long sentences.",
		"heading_issues": ["h1 followed by h3"],
		"link_issues": ["'click here' is vague"],
		"pii_detected": ["Email Address"],
		"compliance_issues": ["1.3.1 Info and Relationships"],
		"explanation": "Mostly fine."
	}`
	out := ParseTextReport(raw, "irrelevant")

	require.Equal(t, KindStructured, out.Kind)
	assert.Empty(t, out.Raw)
	assert.Equal(t, AnalysisReport{
		ReadabilityScore:    "Fair",
		ReadabilityFeedback: "Shorten long sentences.",
		HeadingIssues:       []string{"h1 followed by h3"},
		LinkIssues:          []string{"'click here' is vague"},
		PIIDetected:         []string{"Email Address"},
		ComplianceIssues:    []string{"1.3.1 Info and Relationships"},
		Explanation:         "Mostly fine.",
	}, out.Report)
}

func TestParseTextReportStructuredDefaults(t *testing.T) {
	out := ParseTextReport("```json\n{\"readability_score\": \"excellent\"}\n```", "")

	require.Equal(t, KindStructured, out.Kind)
	assert.Equal(t, ReadabilityUnknown, out.Report.ReadabilityScore)
	assert.Equal(t, Placeholder, out.Report.ReadabilityFeedback)
	assert.Equal(t, []string{}, out.Report.HeadingIssues)
	assert.Equal(t, []string{}, out.Report.LinkIssues)
	assert.Equal(t, []string{}, out.Report.PIIDetected)
	assert.Equal(t, []string{}, out.Report.ComplianceIssues)
	assert.Equal(t, Placeholder, out.Report.Explanation)
}

func TestParseTextReportFallbackReadsPoor(t *testing.T) {
	out := ParseTextReport("The page is dense.\nReadability Score: Poor\n", "")
	require.Equal(t, KindFallback, out.Kind)
	assert.Equal(t, ReadabilityPoor, out.Report.ReadabilityScore)
	assert.Equal(t, "The page is dense.\nReadability Score: Poor\n", out.Raw)
}

func TestParseTextReportFallbackSections(t *testing.T) {
	raw := `**Readability Score:** Fair
Readability Feedback: Sentences run long.
Heading Issues:
- Skips from h1 to h3

* No h2 for the contact section
Link Issues:
1. "click here" lacks context
PII Detected:
- Email Address
- Phone Number
Compliance Issues:
- 2.4.6 Headings and Labels
Explanation: Structure needs work.`

	out := ParseTextReport(raw, "write to me at jane@example.com")

	require.Equal(t, KindFallback, out.Kind)
	r := out.Report
	assert.Equal(t, ReadabilityFair, r.ReadabilityScore)
	assert.Equal(t, "Sentences run long.", r.ReadabilityFeedback)
	assert.Equal(t, []string{"Skips from h1 to h3", "No h2 for the contact section"}, r.HeadingIssues)
	assert.Equal(t, []string{`"click here" lacks context`}, r.LinkIssues)
	assert.Equal(t, []string{"2.4.6 Headings and Labels"}, r.ComplianceIssues)
	assert.Equal(t, "Structure needs work.", r.Explanation)
	// Model-claimed phone number is ignored; only the local detector counts.
	assert.Equal(t, []string{pii.CategoryEmail}, r.PIIDetected)
}

func TestParseTextReportFallbackOutOfOrderLabels(t *testing.T) {
	raw := "Link Issues:\n- vague link\nReadability Score: Good\nHeading Issues:\n- none found"
	r := ParseTextReport(raw, "").Report

	assert.Equal(t, []string{"vague link"}, r.LinkIssues)
	assert.Equal(t, ReadabilityGood, r.ReadabilityScore)
	assert.Equal(t, []string{"none found"}, r.HeadingIssues)
}

func TestParseTextReportFallbackWithoutLabels(t *testing.T) {
	out := ParseTextReport("I could not analyze this content.", "call 555-123-4567")

	require.Equal(t, KindFallback, out.Kind)
	assert.Equal(t, ReadabilityUnknown, out.Report.ReadabilityScore)
	assert.Equal(t, Placeholder, out.Report.ReadabilityFeedback)
	assert.Equal(t, []string{}, out.Report.HeadingIssues)
	assert.Equal(t, "I could not analyze this content.", out.Report.Explanation)
	assert.Equal(t, []string{pii.CategoryPhone}, out.Report.PIIDetected)
}

func TestParseTextReportInlineBracesStayOnFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "empty braces in link issue",
			raw: "Readability Score: Poor\n" +
				"Link Issues:\n- The template placeholder {} is used as link text\n" +
				"Explanation: Several links are broken.",
		},
		{
			name: "inline object in compliance issue",
			raw: "Readability Score: Poor\n" +
				"Compliance Issues:\n- Body text uses {\"color\": \"#777\"} on white, below 4.5:1\n" +
				"Explanation: Contrast is too low.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParseTextReport(tt.raw, "mail me at a@b.com")

			require.Equal(t, KindFallback, out.Kind)
			assert.Equal(t, ReadabilityPoor, out.Report.ReadabilityScore)
			assert.Equal(t, []string{pii.CategoryEmail}, out.Report.PIIDetected)
			assert.NotEqual(t, Placeholder, out.Report.Explanation)
		})
	}
}
