package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/buildlog/estimator/internal/core/domain"
)

// Tombstone is the trash-bin record for a deleted project.
type Tombstone struct {
	Project   domain.Project `json:"project"`
	DeletedAt time.Time      `json:"deleted_at"`
}

// Key helpers
func trashKey(id string) string {
	return fmt.Sprintf("trash:project:%s", id)
}

const trashIndexKey = "trash:index"

// StoreTombstone keeps a deleted project recoverable for ttl. The
// tombstone is written after the backend confirms the delete, so a
// crash between the two loses the undo, never the delete.
func (c *Client) StoreTombstone(ctx context.Context, p *domain.Project, ttl time.Duration) error {
	data, err := json.Marshal(Tombstone{Project: *p, DeletedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode tombstone: %w", err)
	}

	key := trashKey(p.ID)
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}

	score := float64(time.Now().Unix())
	if err := c.rdb.ZAdd(ctx, trashIndexKey, redis.Z{Score: score, Member: p.ID}).Err(); err != nil {
		return fmt.Errorf("zadd failed: %w", err)
	}
	return nil
}

// GetTombstone retrieves the tombstone for id, or (nil, nil) when the
// project is not in the trash.
func (c *Client) GetTombstone(ctx context.Context, id string) (*Tombstone, error) {
	val, err := c.rdb.Get(ctx, trashKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get failed: %w", err)
	}

	var t Tombstone
	if err := json.Unmarshal(val, &t); err != nil {
		return nil, fmt.Errorf("failed to decode tombstone: %w", err)
	}
	return &t, nil
}

// RemoveTombstone drops id from the trash (after a restore, or an
// explicit purge).
func (c *Client) RemoveTombstone(ctx context.Context, id string) error {
	if err := c.rdb.Del(ctx, trashKey(id)).Err(); err != nil {
		return fmt.Errorf("del failed: %w", err)
	}
	if err := c.rdb.ZRem(ctx, trashIndexKey, id).Err(); err != nil {
		return fmt.Errorf("zrem failed: %w", err)
	}
	return nil
}

// ListTrash returns the ids currently in the trash, oldest first.
func (c *Client) ListTrash(ctx context.Context) ([]string, error) {
	return c.rdb.ZRange(ctx, trashIndexKey, 0, -1).Result()
}

// PurgeExpired removes index entries whose tombstone key has already
// expired. Returns the number of entries purged.
func (c *Client) PurgeExpired(ctx context.Context) (int, error) {
	ids, err := c.ListTrash(ctx)
	if err != nil {
		return 0, fmt.Errorf("zrange failed: %w", err)
	}

	purged := 0
	for _, id := range ids {
		exists, err := c.rdb.Exists(ctx, trashKey(id)).Result()
		if err != nil {
			return purged, fmt.Errorf("exists failed: %w", err)
		}
		if exists == 0 {
			if err := c.rdb.ZRem(ctx, trashIndexKey, id).Err(); err != nil {
				return purged, fmt.Errorf("zrem failed: %w", err)
			}
			purged++
		}
	}
	return purged, nil
}
