package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
	"github.com/lumenlearn/recall-core/internal/core/ports/driving"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// Over-fetch policy: the ranker receives up to overFetchRatio times the
// caller's final count, capped at an absolute ceiling to bound cost.
// Fixed policy, not caller-configurable.
const (
	overFetchRatio   = 3
	overFetchCeiling = 20
)

// searchService implements the SearchService interface.
// The cache is an optimization, never a correctness dependency: cache
// failures degrade to a miss and search proceeds against the store.
type searchService struct {
	vectors   driven.VectorStore
	embedding driven.EmbeddingService
	videos    driven.VideoStore
	ranker    *Ranker
	cache     driven.SearchCache
	observer  driven.SearchObserver
	logger    *slog.Logger
}

// NewSearchService creates a new SearchService. The cache and observer
// are optional; pass nil to disable caching or metrics.
func NewSearchService(
	vectors driven.VectorStore,
	embedding driven.EmbeddingService,
	videos driven.VideoStore,
	ranker *Ranker,
	cache driven.SearchCache,
	observer driven.SearchObserver,
	logger *slog.Logger,
) driving.SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{
		vectors:   vectors,
		embedding: embedding,
		videos:    videos,
		ranker:    ranker,
		cache:     cache,
		observer:  observer,
		logger:    logger,
	}
}

// Search performs a full ranked search pass
func (s *searchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]*domain.RankedResult, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	// Apply defaults
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = 0.7
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	key := cacheKey(query, opts)

	// Cache hit is a strict short-circuit - no refresh in background
	if cached, ok := s.cacheGet(ctx, opts, key); ok {
		if s.observer != nil {
			s.observer.CacheHit()
		}
		return cached, nil
	}
	if s.observer != nil && s.cache != nil && opts.CacheEnabled {
		s.observer.CacheMiss()
	}

	embedding, err := s.embedding.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	fetchLimit := opts.Limit * overFetchRatio
	if fetchLimit > overFetchCeiling {
		fetchLimit = overFetchCeiling
	}

	candidates, err := s.vectors.Search(ctx, embedding, domain.VectorQuery{
		Limit:               fetchLimit,
		SimilarityThreshold: opts.SimilarityThreshold,
		VideoIDs:            opts.VideoIDs,
	})
	if err != nil {
		// Store failures propagate unmodified - search cannot produce a
		// meaningful answer without the store
		return nil, err
	}

	if len(candidates) == 0 {
		return []*domain.RankedResult{}, nil
	}

	results := s.ranker.Rank(ctx, candidates, domain.RankOptionsFrom(opts))
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	s.cacheSet(ctx, opts, key, results)

	if s.observer != nil {
		s.observer.SearchCompleted(time.Since(start), len(results))
	}

	return results, nil
}

// SearchCourse searches within one course's videos
func (s *searchService) SearchCourse(ctx context.Context, courseID, query string, opts domain.SearchOptions) ([]*domain.RankedResult, error) {
	videoIDs, err := s.videos.CourseVideoIDs(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve course %s: %w", courseID, err)
	}
	if len(videoIDs) == 0 {
		return []*domain.RankedResult{}, nil
	}

	opts.VideoIDs = videoIDs
	return s.Search(ctx, query, opts)
}

// SearchCreator searches within one creator's ready videos
func (s *searchService) SearchCreator(ctx context.Context, creatorID, query string, opts domain.SearchOptions) ([]*domain.RankedResult, error) {
	videoIDs, err := s.videos.CreatorVideoIDs(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve creator %s: %w", creatorID, err)
	}
	if len(videoIDs) == 0 {
		return []*domain.RankedResult{}, nil
	}

	opts.VideoIDs = videoIDs
	return s.Search(ctx, query, opts)
}

// InvalidateVideo drops cached entries referencing the video.
// Best-effort: a stale cache entry is preferable to crashing a
// content-update flow.
func (s *searchService) InvalidateVideo(ctx context.Context, videoID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateVideo(ctx, videoID); err != nil {
		s.logger.Warn("cache invalidation failed", "video_id", videoID, "error", err)
	}
}

// InvalidateAll drops every cached search entry. Best-effort.
func (s *searchService) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("cache flush failed", "error", err)
	}
}

// cacheGet reads the cache, treating any failure as a miss
func (s *searchService) cacheGet(ctx context.Context, opts domain.SearchOptions, key string) ([]*domain.RankedResult, bool) {
	if s.cache == nil || !opts.CacheEnabled {
		return nil, false
	}
	results, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("cache read failed, proceeding without cache", "error", err)
		}
		return nil, false
	}
	return results, true
}

// cacheSet writes the cache, swallowing failures
func (s *searchService) cacheSet(ctx context.Context, opts domain.SearchOptions, key string, results []*domain.RankedResult) {
	if s.cache == nil || !opts.CacheEnabled {
		return
	}
	if err := s.cache.Set(ctx, key, results, opts.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", "error", err)
	}
}

// cacheKey fingerprints the query and every option that can change the
// output, boost toggles included, so a cached entry is only ever
// returned for an identical request shape.
func cacheKey(query string, opts domain.SearchOptions) string {
	videoIDs := make([]string, len(opts.VideoIDs))
	copy(videoIDs, opts.VideoIDs)
	sort.Strings(videoIDs)

	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(query)))
	b.WriteByte('|')
	b.WriteString(strings.Join(videoIDs, ","))
	fmt.Fprintf(&b, "|%d|%.4f|%t|%t|%s|%t|%.4f|%.4f|%.4f|%.4f|%.4f",
		opts.Limit,
		opts.SimilarityThreshold,
		opts.BoostRecency,
		opts.BoostPopularity,
		opts.AffinityUserID,
		opts.Deduplicate,
		opts.DedupThreshold,
		opts.Weights.Similarity,
		opts.Weights.Recency,
		opts.Weights.Popularity,
		opts.Weights.Affinity,
	)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
