package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageReportStructured(t *testing.T) {
	raw := `{"is_decorative": false, "current_alt_text_sufficiency": "Needs Improvement",
		"suggested_alt_text": "Bar chart of 2024 revenue by quarter", "compliance_issues": ["1.1.1 Non-text Content"],
		"pii_risk": true, "explanation": "Chart lacks a description."}`
	out := ParseImageReport(raw)

	require.Equal(t, KindStructured, out.Kind)
	assert.Equal(t, ImageAnalysisReport{
		IsDecorative:              false,
		CurrentAltTextSufficiency: SufficiencyNeedsImprovement,
		SuggestedAltText:          "Bar chart of 2024 revenue by quarter",
		ComplianceIssues:          []string{"1.1.1 Non-text Content"},
		PIIRisk:                   true,
		Explanation:               "Chart lacks a description.",
	}, out.Report)
}

func TestParseImageReportStructuredDefaults(t *testing.T) {
	out := ParseImageReport(`{"is_decorative": "true", "suggested_alt_text": ""}`)

	require.Equal(t, KindStructured, out.Kind)
	assert.True(t, out.Report.IsDecorative)
	assert.Equal(t, SufficiencyMissing, out.Report.CurrentAltTextSufficiency)
	assert.Equal(t, "", out.Report.SuggestedAltText, "an explicit empty alt text is kept")
	assert.Equal(t, []string{}, out.Report.ComplianceIssues)
	assert.False(t, out.Report.PIIRisk)
	assert.Equal(t, Placeholder, out.Report.Explanation)
}

func TestParseImageReportFallback(t *testing.T) {
	raw := `The image is not decorative. Alt text is missing.
Suggested Alt Text: "Team photo at the 2024 offsite"
The badge shows sensitive information.`
	out := ParseImageReport(raw)

	require.Equal(t, KindFallback, out.Kind)
	r := out.Report
	assert.False(t, r.IsDecorative)
	assert.Equal(t, SufficiencyMissing, r.CurrentAltTextSufficiency)
	assert.Equal(t, "Team photo at the 2024 offsite", r.SuggestedAltText)
	assert.True(t, r.PIIRisk)
	assert.Equal(t, raw, r.Explanation)
}

func TestParseImageReportFallbackDecorativeLabel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "explicit false with true in prose", raw: "Is Decorative: False. The image is not decorative; the alt text is true to the chart.", want: false},
		{name: "bold label yes", raw: "**Decorative:** Yes, it is a divider.", want: true},
		{name: "capitalised true without label", raw: "This is a decorative flourish. True.", want: true},
		{name: "lowercase true without label", raw: "A decorative rule; the caption is true to life.", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParseImageReport(tt.raw)
			require.Equal(t, KindFallback, out.Kind)
			assert.Equal(t, tt.want, out.Report.IsDecorative)
		})
	}
}

func TestParseImageReportFallbackIsDeterministic(t *testing.T) {
	raw := "is_decorative: True. This decorative border has missing alt text, which is fine."
	first := ParseImageReport(raw)
	second := ParseImageReport(raw)

	assert.Equal(t, first, second)
	assert.True(t, first.Report.IsDecorative)
	assert.Equal(t, []string{"Missing alt text"}, first.Report.ComplianceIssues)
}

func TestSufficiencyFromText(t *testing.T) {
	tests := map[string]string{
		"the alt text is insufficient": SufficiencyNeedsImprovement,
		"alt text needs improvement":   SufficiencyNeedsImprovement,
		"alt text is missing":          SufficiencyMissing,
		"the alt text is sufficient":   SufficiencyGood,
		"good description":             SufficiencyGood,
		"no opinion":                   SufficiencyNeedsImprovement,
	}
	for in, want := range tests {
		assert.Equal(t, want, sufficiencyFromText(in), in)
	}
}
