package artifacts

import (
	"context"
	"sync"
)

// MemoryRepo keeps artifacts in process memory. Records are lost on restart.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Artifact // sessionId -> artifacts, oldest first
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Artifact),
	}
}

// Create appends an artifact to its session.
func (r *MemoryRepo) Create(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[a.SessionID] = append(r.data[a.SessionID], a)
	return nil
}

// Latest returns the most recently created artifact of a session.
func (r *MemoryRepo) Latest(ctx context.Context, sessionID string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.data[sessionID]
	if len(list) == 0 {
		return Artifact{}, ErrNotFound
	}
	return list[len(list)-1], nil
}

// GetByID returns an artifact only if it belongs to sessionID.
func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, id string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.data[sessionID] {
		if a.ID == id {
			return a, nil
		}
	}
	return Artifact{}, ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
