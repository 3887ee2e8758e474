package artifacts

import "context"

// Repo defines persistence operations for artifacts.
type Repo interface {
	Create(ctx context.Context, a Artifact) error
	Latest(ctx context.Context, sessionID string) (Artifact, error)
	GetByID(ctx context.Context, sessionID, id string) (Artifact, error)
}
