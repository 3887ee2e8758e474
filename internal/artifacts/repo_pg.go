package artifacts

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, session_id, file_name, mime_type, size_bytes, storage_provider, storage_key, created_at`

// Create inserts a new artifact.
func (r *PGRepo) Create(ctx context.Context, a Artifact) error {
	const query = `
INSERT INTO artifacts (
    id,
    session_id,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	provider := a.StorageProvider
	if provider == "" {
		provider = "local"
	}
	_, err := r.DB.ExecContext(
		ctx,
		query,
		a.ID,
		a.SessionID,
		a.FileName,
		a.MimeType,
		a.SizeBytes,
		provider,
		a.StorageKey,
		a.CreatedAt,
	)
	return err
}

// Latest returns the newest artifact for a session.
func (r *PGRepo) Latest(ctx context.Context, sessionID string) (Artifact, error) {
	const query = `
SELECT ` + selectColumns + `
FROM artifacts
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT 1`
	return scanArtifact(r.DB.QueryRowContext(ctx, query, sessionID))
}

// GetByID fetches an artifact by id, scoped to the session.
func (r *PGRepo) GetByID(ctx context.Context, sessionID, id string) (Artifact, error) {
	const query = `
SELECT ` + selectColumns + `
FROM artifacts
WHERE session_id = $1 AND id = $2
LIMIT 1`
	return scanArtifact(r.DB.QueryRowContext(ctx, query, sessionID, id))
}

func scanArtifact(row *sql.Row) (Artifact, error) {
	var a Artifact
	var mimeType sql.NullString
	err := row.Scan(
		&a.ID,
		&a.SessionID,
		&a.FileName,
		&mimeType,
		&a.SizeBytes,
		&a.StorageProvider,
		&a.StorageKey,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artifact{}, ErrNotFound
		}
		return Artifact{}, err
	}
	if mimeType.Valid {
		a.MimeType = mimeType.String
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
