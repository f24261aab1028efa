package queststate

import (
	"context"
	"sync"

	apperrors "github.com/talesofclaude/quest-engine/internal/errors"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	latest    map[string]string // player id -> snapshot id
}

// NewInMemoryRepository creates a new in-memory snapshot repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		snapshots: make(map[string]*Snapshot),
		latest:    make(map[string]string),
	}
}

// Put stores a snapshot and marks it as the player's latest
func (r *inMemoryRepository) Put(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return apperrors.InvalidArgument("snapshot cannot be nil")
	}
	if snapshot.ID == "" || snapshot.PlayerID == "" {
		return apperrors.InvalidArgument("snapshot id and player id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to avoid external modifications
	copied := *snapshot
	r.snapshots[snapshot.ID] = &copied
	r.latest[snapshot.PlayerID] = snapshot.ID

	return nil
}

// Get retrieves a snapshot by id
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, exists := r.snapshots[id]
	if !exists {
		return nil, apperrors.NotFoundf("snapshot not found: %s", id)
	}

	copied := *snapshot
	return &copied, nil
}

// GetLatest retrieves the player's most recently stored snapshot
func (r *inMemoryRepository) GetLatest(ctx context.Context, playerID string) (*Snapshot, error) {
	r.mu.RLock()
	id, exists := r.latest[playerID]
	r.mu.RUnlock()

	if !exists {
		return nil, apperrors.NotFoundf("no snapshots for player: %s", playerID)
	}

	return r.Get(ctx, id)
}

// ListByPlayer retrieves all snapshots stored for a player
func (r *inMemoryRepository) ListByPlayer(ctx context.Context, playerID string) ([]*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var snapshots []*Snapshot
	for _, snapshot := range r.snapshots {
		if snapshot.PlayerID == playerID {
			copied := *snapshot
			snapshots = append(snapshots, &copied)
		}
	}

	return snapshots, nil
}

// Delete removes a snapshot
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot, exists := r.snapshots[id]
	if !exists {
		return apperrors.NotFoundf("snapshot not found: %s", id)
	}

	delete(r.snapshots, id)
	if r.latest[snapshot.PlayerID] == id {
		delete(r.latest, snapshot.PlayerID)
	}

	return nil
}
