package driving

import (
	"context"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// SearchService handles ranked transcript search
type SearchService interface {
	// Search runs the full pipeline: cache lookup, query embedding, vector
	// search, ranking, deduplication, truncation, cache write.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]*domain.RankedResult, error)

	// SearchCourse searches within one course's videos.
	// An empty or unknown course yields an empty result, not an error.
	SearchCourse(ctx context.Context, courseID, query string, opts domain.SearchOptions) ([]*domain.RankedResult, error)

	// SearchCreator searches within one creator's ready videos.
	// An empty or unknown creator yields an empty result, not an error.
	SearchCreator(ctx context.Context, creatorID, query string, opts domain.SearchOptions) ([]*domain.RankedResult, error)

	// InvalidateVideo drops cached entries referencing the video.
	// Best-effort: cache failures are logged and swallowed.
	InvalidateVideo(ctx context.Context, videoID string)

	// InvalidateAll drops every cached search entry. Best-effort.
	InvalidateAll(ctx context.Context)
}
