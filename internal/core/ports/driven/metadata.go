package driven

import (
	"context"
	"time"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// VideoStore provides video metadata lookups (PostgreSQL)
type VideoStore interface {
	// Get retrieves a video by ID
	Get(ctx context.Context, id string) (*domain.Video, error)

	// CreationTimes returns created_at for each requested video.
	// One batched lookup per distinct video, never per chunk.
	// Missing videos are simply absent from the map.
	CreationTimes(ctx context.Context, videoIDs []string) (map[string]time.Time, error)

	// CourseVideoIDs resolves a course to its video IDs
	CourseVideoIDs(ctx context.Context, courseID string) ([]string, error)

	// CreatorVideoIDs resolves a creator to their ready video IDs
	CreatorVideoIDs(ctx context.Context, creatorID string) ([]string, error)
}

// UsageStore provides trailing-window usage aggregates per video
// (PostgreSQL)
type UsageStore interface {
	// UsageStats returns trailing-30-day aggregates for each requested
	// video. Videos with no usage rows get zero-valued stats, not an error.
	UsageStats(ctx context.Context, videoIDs []string) (map[string]*domain.VideoUsageStats, error)
}

// InteractionStore provides one user's recent interaction history
// with videos (PostgreSQL)
type InteractionStore interface {
	// RecentInteractions returns up to perVideo interaction timestamps for
	// the user against each requested video, most recent first.
	RecentInteractions(ctx context.Context, userID string, videoIDs []string, perVideo int) (map[string][]time.Time, error)
}
