package driven

import (
	"context"
	"time"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// SearchCache stores ranked result lists keyed by query fingerprint
// (Redis). Entries are immutable once written - they are replaced
// wholesale or expire by TTL, so concurrent writers of the same key are
// benign (both computed the same answer from the same inputs).
type SearchCache interface {
	// Get returns the cached results for a key, or domain.ErrNotFound on
	// a miss. Infrastructure failures are wrapped in
	// domain.ErrCacheUnavailable.
	Get(ctx context.Context, key string) ([]*domain.RankedResult, error)

	// Set stores results under a key with a TTL, indexed by the videos
	// they reference so InvalidateVideo can find them.
	Set(ctx context.Context, key string, results []*domain.RankedResult, ttl time.Duration) error

	// InvalidateVideo removes every cached entry that references the video
	InvalidateVideo(ctx context.Context, videoID string) error

	// InvalidateAll removes all cached search entries
	InvalidateAll(ctx context.Context) error

	// Ping verifies the cache is reachable
	Ping(ctx context.Context) error
}
