package reports

import (
	"regexp"
	"strings"
)

type quotedRule struct {
	category string
	re       *regexp.Regexp
}

func newQuotedRule(label, category string) quotedRule {
	return quotedRule{
		category: category,
		re:       regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*"([^"]*)"`),
	}
}

var fixRules = []quotedRule{
	newQuotedRule("Suggested Alt Text:", FixSuggestedAltText),
	newQuotedRule("Redacted Content:", FixRedactPII),
	newQuotedRule("Rewritten Text:", FixRewriteReadability),
	newQuotedRule("Fixed Headings:", FixHeadings),
	newQuotedRule("Fixed Links:", FixLinks),
}

var fixKeys = []string{FixRewriteReadability, FixHeadings, FixLinks, FixRedactPII, FixSuggestedAltText}

// ParseFixSuggestions parses a fix response. JSON values are stringified; the
// fallback only accepts double-quoted values after a known label.
func ParseFixSuggestions(raw string) ParseOutcome[FixSuggestions] {
	if obj, ok := decodeObject(raw, fixKeys...); ok {
		fixes := FixSuggestions{}
		for key, v := range obj {
			if v == nil {
				continue
			}
			fixes[key] = stringify(v)
		}
		return structured(fixes)
	}

	fixes := FixSuggestions{}
	for _, r := range fixRules {
		if m := r.re.FindStringSubmatch(raw); m != nil {
			fixes[r.category] = strings.TrimSpace(m[1])
		}
	}
	return fallback(fixes, raw)
}
