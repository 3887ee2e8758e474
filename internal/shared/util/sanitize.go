package util

import (
	"errors"
	"path/filepath"
	"strings"
)

const maxFileNameLength = 200

// ErrInvalidFileName is returned for empty names or names with traversal segments.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators, rejects traversal patterns and caps length
// while keeping the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.NewReplacer("/", "_", "\\", "_", "\x00", "").Replace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLength {
		ext := filepath.Ext(s)
		if len(ext) > 16 {
			ext = ""
		}
		s = s[:maxFileNameLength-len(ext)] + ext
	}
	return s, nil
}
