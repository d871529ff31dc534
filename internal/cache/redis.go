package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/kaedema/anirec/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Cache keeps raw catalog fetch results in Redis so repeat sessions
// for the same handle do not hammer the remote API. Session state is
// never cached; only the two fetch payloads are.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func listKey(username string) string {
	return fmt.Sprintf("anilist:list:%s", strings.ToLower(username))
}

// mediaKey digests the sorted candidate id set into one cache key.
func mediaKey(ids []int64) string {
	h := fnv.New64a()
	for _, id := range ids {
		fmt.Fprintf(h, "%d,", id)
	}
	return fmt.Sprintf("anilist:media:%x", h.Sum64())
}

// GetUserList returns the cached anime list for a handle, if any.
func (c *Cache) GetUserList(ctx context.Context, username string) ([]domain.HistoryEntry, bool, error) {
	val, err := c.client.Get(ctx, listKey(username)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get user list: %w", err)
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached user list: %w", err)
	}
	return entries, true, nil
}

func (c *Cache) SetUserList(ctx context.Context, username string, entries []domain.HistoryEntry) error {
	val, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal user list: %w", err)
	}
	if err := c.client.Set(ctx, listKey(username), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set user list: %w", err)
	}
	return nil
}

// GetMediaDetails returns cached candidate details for an id set.
func (c *Cache) GetMediaDetails(ctx context.Context, ids []int64) ([]domain.Media, bool, error) {
	val, err := c.client.Get(ctx, mediaKey(ids)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get media details: %w", err)
	}

	var media []domain.Media
	if err := json.Unmarshal([]byte(val), &media); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached media details: %w", err)
	}
	return media, true, nil
}

func (c *Cache) SetMediaDetails(ctx context.Context, ids []int64, media []domain.Media) error {
	val, err := json.Marshal(media)
	if err != nil {
		return fmt.Errorf("marshal media details: %w", err)
	}
	if err := c.client.Set(ctx, mediaKey(ids), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set media details: %w", err)
	}
	return nil
}

// ClearUserList drops the cached list for a handle, forcing the next
// session to refetch.
func (c *Cache) ClearUserList(ctx context.Context, username string) error {
	if err := c.client.Del(ctx, listKey(username)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", listKey(username), err)
	}
	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
