package artifacts

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"a11y-backend/internal/shared/storage/object"
	"a11y-backend/internal/shared/telemetry"
)

// Service stores uploaded images and tracks which session owns them.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Save writes the file to object storage and records the artifact.
func (s *Service) Save(ctx context.Context, sessionID, fileName string, r io.Reader) (Artifact, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(fileName) == "" {
		return Artifact{}, ErrInvalidInput
	}

	key, size, mimeType, err := s.Store.Save(ctx, sessionID, fileName, r)
	if err != nil {
		return Artifact{}, fmt.Errorf("store artifact: %w", err)
	}

	a := Artifact{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.Store.Provider(),
		StorageKey:      key,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return Artifact{}, fmt.Errorf("record artifact: %w", err)
	}

	telemetry.InfoCtx(ctx, "artifact.saved", map[string]any{
		"artifact_id": a.ID,
		"mime_type":   a.MimeType,
		"size_bytes":  a.SizeBytes,
		"provider":    a.StorageProvider,
	})
	return a, nil
}

// Latest returns the session's most recent artifact.
func (s *Service) Latest(ctx context.Context, sessionID string) (Artifact, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Artifact{}, ErrInvalidInput
	}
	return s.Repo.Latest(ctx, sessionID)
}

// Get returns artifact id if it belongs to the session.
func (s *Service) Get(ctx context.Context, sessionID, id string) (Artifact, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(id) == "" {
		return Artifact{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, sessionID, id)
}

// Open streams the stored bytes of an artifact.
func (s *Service) Open(ctx context.Context, a Artifact) (io.ReadCloser, error) {
	rc, err := s.Store.Open(ctx, a.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", a.ID, err)
	}
	return rc, nil
}
