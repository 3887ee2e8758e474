package reports

import (
	"encoding/json"
	"strings"
)

// StripCodeFences removes a surrounding Markdown code fence (```json or ```).
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && nl < 20 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSON finds a JSON object in a model response: the whole response,
// a fenced block anywhere in it, or a balanced {...} after a preamble that
// runs to the end of the response.
func ExtractJSON(raw string) (string, bool) {
	return findObject(raw, nil)
}

// findObject is ExtractJSON with an extra way in: when keys is non-empty an
// embedded object is accepted anywhere in the text, but only if it carries at
// least one of keys at the top level. Inline braces in prose never match.
func findObject(raw string, keys []string) (string, bool) {
	s := StripCodeFences(raw)
	if s == "" {
		return "", false
	}
	if isObject(s) {
		return s, true
	}

	if idx := strings.Index(s, "```"); idx >= 0 {
		inner := s[idx+3:]
		if end := strings.Index(inner, "```"); end > 0 {
			if candidate := StripCodeFences("```" + inner[:end] + "```"); isObject(candidate) {
				return candidate, true
			}
		}
	}

	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end := matchBrace(s, start); end > start {
			candidate := s[start : end+1]
			if isObject(candidate) {
				if len(keys) == 0 && strings.TrimSpace(s[end+1:]) == "" {
					return candidate, true
				}
				if len(keys) > 0 && hasAnyKey(candidate, keys) {
					return candidate, true
				}
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func hasAnyKey(candidate string, keys []string) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return false
	}
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func isObject(s string) bool {
	return strings.HasPrefix(s, "{") && json.Valid([]byte(s))
}

// matchBrace returns the index of the brace closing s[start], honoring strings.
func matchBrace(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// decodeObject returns the response as a JSON object, if it is one. keys are
// the report's own field names; an object embedded in prose must use one.
func decodeObject(raw string, keys ...string) (map[string]any, bool) {
	block, ok := findObject(raw, keys)
	if !ok {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(block), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
