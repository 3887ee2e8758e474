package reports

import (
	"encoding/json"
	"fmt"
	"strings"
)

// getString reads key as a string. Missing or null keys yield def; numbers and
// booleans are formatted, nested values are re-encoded as JSON.
func getString(obj map[string]any, key, def string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return def
	}
	return stringify(v)
}

// getList reads key as a list of strings. A lone string becomes a one-item list;
// anything else that is not an array yields an empty list.
func getList(obj map[string]any, key string) []string {
	out := []string{}
	switch v := obj[key].(type) {
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(stringify(item)); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// getBool reads key as a boolean, accepting "true"/"yes" strings.
func getBool(obj map[string]any, key string) bool {
	switch v := obj[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes":
			return true
		}
	}
	return false
}

func getObject(obj map[string]any, key string) map[string]any {
	if v, ok := obj[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64, bool:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// normalizeEnum maps s onto one of allowed, ignoring case and surrounding
// punctuation. Unmatched values yield def.
func normalizeEnum(s string, def string, allowed ...string) string {
	clean := strings.Trim(strings.TrimSpace(s), `"'*.:`)
	for _, a := range allowed {
		if strings.EqualFold(clean, a) {
			return a
		}
	}
	return def
}
