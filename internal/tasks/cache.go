package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ListCache keeps each user's task list in Redis for a short TTL and
// collapses concurrent cache fills for the same user into a single
// loader call. A nil client degrades to calling the loader directly, so
// the service works without Redis.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewListCache instantiates the cache helper.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

func listKey(ownerID int64) string {
	return fmt.Sprintf("tasks:user:%d", ownerID)
}

// Fetch loads the cached list or populates it using the loader.
func (c *ListCache) Fetch(ctx context.Context, ownerID int64, loader func(context.Context) ([]Task, error)) ([]Task, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	key := listKey(ownerID)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []Task
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Unreadable payload, fall through to a fresh load.
	} else if err != redis.Nil {
		return loader(ctx)
	}

	result := c.group.DoChan(key, func() (interface{}, error) {
		list, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if encoded, err := json.Marshal(list); err == nil {
			_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
		}
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Task), nil
	}
}

// Invalidate drops the cached list for a user after a write.
func (c *ListCache) Invalidate(ctx context.Context, ownerID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, listKey(ownerID)).Err()
}
