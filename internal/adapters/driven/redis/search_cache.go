package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchCache = (*SearchCache)(nil)

const (
	// Key prefixes for Redis
	searchKeyPrefix  = "recall:search:"
	videoIndexPrefix = "recall:video:"

	// scanBatchSize bounds each SCAN page during bulk invalidation
	scanBatchSize = 200
)

// SearchCache implements driven.SearchCache using Redis.
// Entries are plain JSON with a TTL; a per-video index set maps each
// video to the search keys that reference it so invalidation can be
// scoped. Entries are never partially updated - they are replaced
// wholesale or expire, so concurrent same-key writers are benign.
type SearchCache struct {
	client *redis.Client
}

// NewSearchCache creates a new Redis-backed SearchCache
func NewSearchCache(client *redis.Client) *SearchCache {
	return &SearchCache{client: client}
}

// Get retrieves cached results, domain.ErrNotFound on a miss
func (c *SearchCache) Get(ctx context.Context, key string) ([]*domain.RankedResult, error) {
	data, err := c.client.Get(ctx, searchKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	var results []*domain.RankedResult
	if err := json.Unmarshal(data, &results); err != nil {
		// A corrupt entry behaves like a miss
		return nil, domain.ErrNotFound
	}

	return results, nil
}

// Set stores results under the key with a TTL and indexes the entry by
// every video it references
func (c *SearchCache) Set(ctx context.Context, key string, results []*domain.RankedResult, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", ttl)
	}

	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	fullKey := searchKeyPrefix + key

	// Use pipeline for atomic operations
	pipe := c.client.Pipeline()
	pipe.Set(ctx, fullKey, data, ttl)

	// Index by video so InvalidateVideo can find this entry. The index
	// set outlives the entry slightly; deleting an already-expired key
	// during invalidation is harmless.
	for _, videoID := range distinctVideos(results) {
		indexKey := videoIndexPrefix + videoID
		pipe.SAdd(ctx, indexKey, fullKey)
		pipe.Expire(ctx, indexKey, ttl+time.Minute)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return nil
}

// InvalidateVideo removes every cached entry that references the video
func (c *SearchCache) InvalidateVideo(ctx context.Context, videoID string) error {
	indexKey := videoIndexPrefix + videoID

	keys, err := c.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
		}
	}

	if err := c.client.Del(ctx, indexKey).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return nil
}

// InvalidateAll removes all cached search entries and video indexes
func (c *SearchCache) InvalidateAll(ctx context.Context) error {
	for _, prefix := range []string{searchKeyPrefix, videoIndexPrefix} {
		if err := c.deleteByPrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}

// Ping verifies the cache is reachable
func (c *SearchCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// deleteByPrefix scans for keys matching the prefix and deletes them in
// batches
func (c *SearchCache) deleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func distinctVideos(results []*domain.RankedResult) []string {
	seen := make(map[string]bool, len(results))
	ids := make([]string, 0, len(results))
	for _, res := range results {
		id := res.Candidate.Chunk.VideoID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
