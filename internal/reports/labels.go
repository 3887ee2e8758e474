package reports

import (
	"regexp"
	"sort"
	"strings"
)

// rule binds a section label to the field it fills. A rule with a nil apply
// only marks a section boundary.
type rule[T any] struct {
	label string
	re    *regexp.Regexp
	apply func(report *T, span string)
}

func newRule[T any](label string, apply func(report *T, span string)) rule[T] {
	return rule[T]{
		label: label,
		re:    regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label)),
		apply: apply,
	}
}

type hit struct {
	index int
	start int
	end   int
}

// applyRules locates the first occurrence of every label, then hands each rule
// the text between its label and the next located label (or the end of raw).
// It returns how many rules fired.
func applyRules[T any](raw string, rules []rule[T], report *T) int {
	var hits []hit
	for i, r := range rules {
		loc := r.re.FindStringIndex(raw)
		if loc == nil {
			continue
		}
		hits = append(hits, hit{index: i, start: loc[0], end: loc[1]})
	}
	sort.Slice(hits, func(a, b int) bool { return hits[a].start < hits[b].start })

	fired := 0
	for n, h := range hits {
		stop := len(raw)
		for _, next := range hits[n+1:] {
			if next.start >= h.end {
				stop = next.start
				break
			}
		}
		if h.end > stop {
			continue
		}
		if apply := rules[h.index].apply; apply != nil {
			apply(report, cleanSpan(raw[h.end:stop]))
			fired++
		}
	}
	return fired
}

// cleanSpan trims whitespace and Markdown emphasis left around a label value.
func cleanSpan(span string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(span), "*_"))
}

var bulletPrefix = regexp.MustCompile(`^(?:[-*•+]|\d+[.)])\s+`)

// splitLines turns a span into list items: one per line, blanks and bullet
// markers removed.
func splitLines(span string) []string {
	out := []string{}
	for _, line := range strings.Split(span, "\n") {
		item := strings.TrimSpace(line)
		item = bulletPrefix.ReplaceAllString(item, "")
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// firstLine returns the first non-blank line of span without surrounding quotes.
func firstLine(span string) string {
	for _, line := range strings.Split(span, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return strings.Trim(s, `"'`)
		}
	}
	return ""
}

// firstWordEnum matches the leading word of span against allowed values.
func firstWordEnum(span, def string, allowed ...string) string {
	line := firstLine(span)
	for _, a := range allowed {
		if len(line) >= len(a) && strings.EqualFold(line[:len(a)], a) {
			return a
		}
	}
	return normalizeEnum(line, def, allowed...)
}
