// Package pii holds the deterministic PII rules: two fixed patterns, applied
// locally and never delegated to the model.
package pii

import "regexp"

const (
	CategoryEmail = "Email Address"
	CategoryPhone = "Phone Number"

	EmailToken = "[EMAIL_REDACTED]"
	PhoneToken = "[PHONE_REDACTED]"
)

type rule struct {
	category string
	token    string
	re       *regexp.Regexp
}

// Order matters: emails are redacted before phones so digits inside an address
// are never rewritten on their own.
var rules = []rule{
	{
		category: CategoryEmail,
		token:    EmailToken,
		re:       regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
	},
	{
		category: CategoryPhone,
		token:    PhoneToken,
		re:       regexp.MustCompile(`(?:\+?1[\-.\s]?)?(?:\(\d{3}\)|\b\d{3})[\-.\s]?\d{3}[\-.\s]?\d{4}\b`),
	},
}

// Detect lists the PII categories present in text, each at most once, emails first.
func Detect(text string) []string {
	found := []string{}
	for _, r := range rules {
		if r.re.MatchString(text) {
			found = append(found, r.category)
		}
	}
	return found
}

// Redact replaces every email, then every phone number, with a fixed token.
// The tokens contain no characters either pattern can match, so Redact is idempotent.
func Redact(text string) string {
	out := text
	for _, r := range rules {
		out = r.re.ReplaceAllLiteralString(out, r.token)
	}
	return out
}
