package artifacts

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("artifact not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Artifact records an uploaded image owned by a browser session. The latest
// artifact of a session is the one /apply-fix works on by default.
type Artifact struct {
	ID              string
	SessionID       string
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string
	CreatedAt       time.Time
}
