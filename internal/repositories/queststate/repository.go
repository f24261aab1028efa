package queststate

import (
	"context"
	"time"

	"github.com/talesofclaude/quest-engine/internal/domain/quest"
)

// Snapshot is one saved quest engine state for one player.
type Snapshot struct {
	ID        string            `json:"id"`
	PlayerID  string            `json:"playerId"`
	CreatedAt time.Time         `json:"createdAt"`
	State     quest.EngineState `json:"state"`
}

// Repository defines the interface for quest state snapshot storage
type Repository interface {
	// Put stores a snapshot and marks it as the player's latest
	Put(ctx context.Context, snapshot *Snapshot) error

	// Get retrieves a snapshot by id
	Get(ctx context.Context, id string) (*Snapshot, error)

	// GetLatest retrieves the player's most recently stored snapshot
	GetLatest(ctx context.Context, playerID string) (*Snapshot, error)

	// ListByPlayer retrieves all snapshots stored for a player
	ListByPlayer(ctx context.Context, playerID string) ([]*Snapshot, error)

	// Delete removes a snapshot
	Delete(ctx context.Context, id string) error
}
