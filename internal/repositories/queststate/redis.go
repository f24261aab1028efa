package queststate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/talesofclaude/quest-engine/internal/errors"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client *redis.Client
}

// redisRepository implements Repository using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a new Redis-backed repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("RedisRepoConfig and Client are required")
	}

	return &redisRepository{
		client: cfg.Client,
	}
}

func snapshotKey(id string) string {
	return fmt.Sprintf("queststate:snapshot:%s", id)
}

func playerKey(playerID string) string {
	return fmt.Sprintf("queststate:player:%s", playerID)
}

func latestKey(playerID string) string {
	return fmt.Sprintf("queststate:player:%s:latest", playerID)
}

// Put stores a snapshot and marks it as the player's latest
func (r *redisRepository) Put(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return apperrors.InvalidArgument("snapshot cannot be nil")
	}
	if snapshot.ID == "" || snapshot.PlayerID == "" {
		return apperrors.InvalidArgument("snapshot id and player id are required")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal snapshot")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, snapshotKey(snapshot.ID), string(data), 0)
	pipe.SAdd(ctx, playerKey(snapshot.PlayerID), snapshot.ID)
	pipe.Set(ctx, latestKey(snapshot.PlayerID), snapshot.ID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "failed to store snapshot in Redis").
			WithMeta("snapshot_id", snapshot.ID)
	}

	return nil
}

// Get retrieves a snapshot by id
func (r *redisRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFoundf("snapshot not found: %s", id)
		}
		return nil, apperrors.Wrap(err, "failed to get snapshot from Redis")
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal snapshot")
	}

	return &snapshot, nil
}

// GetLatest retrieves the player's most recently stored snapshot
func (r *redisRepository) GetLatest(ctx context.Context, playerID string) (*Snapshot, error) {
	id, err := r.client.Get(ctx, latestKey(playerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFoundf("no snapshots for player: %s", playerID)
		}
		return nil, apperrors.Wrap(err, "failed to get latest snapshot id from Redis")
	}

	return r.Get(ctx, id)
}

// ListByPlayer retrieves all snapshots stored for a player
func (r *redisRepository) ListByPlayer(ctx context.Context, playerID string) ([]*Snapshot, error) {
	ids, err := r.client.SMembers(ctx, playerKey(playerID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list player snapshots from Redis")
	}

	snapshots := make([]*Snapshot, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			snapshot, err := r.Get(ctx, id)
			if err != nil {
				return apperrors.Wrapf(err, "failed to get snapshot %s", id)
			}
			snapshots[i] = snapshot
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

// Delete removes a snapshot
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	snapshot, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, snapshotKey(id))
	pipe.SRem(ctx, playerKey(snapshot.PlayerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "failed to delete snapshot from Redis")
	}

	return nil
}
