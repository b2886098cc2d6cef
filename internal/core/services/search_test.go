package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven/mocks"
	"github.com/lumenlearn/recall-core/internal/core/ports/driving"
)

type searchFixture struct {
	service   driving.SearchService
	vectors   *mocks.MockVectorStore
	embedding *mocks.MockEmbeddingService
	videos    *mocks.MockVideoStore
	cache     *mocks.MockSearchCache
	observer  *mocks.MockObserver
}

func newSearchFixture() *searchFixture {
	f := &searchFixture{
		vectors:   mocks.NewMockVectorStore(),
		embedding: mocks.NewMockEmbeddingService(),
		videos:    mocks.NewMockVideoStore(),
		cache:     mocks.NewMockSearchCache(),
		observer:  mocks.NewMockObserver(),
	}
	ranker := NewRanker(f.videos, mocks.NewMockUsageStore(), mocks.NewMockInteractionStore(), nil)
	f.service = NewSearchService(f.vectors, f.embedding, f.videos, ranker, f.cache, f.observer, nil)
	return f
}

// plainOptions disables boosts and dedup so tests exercise one concern
// at a time
func plainOptions() domain.SearchOptions {
	return domain.SearchOptions{
		Limit:               5,
		SimilarityThreshold: 0.7,
		Weights:             domain.RankWeights{Similarity: 1.0},
		CacheEnabled:        true,
		CacheTTL:            time.Minute,
	}
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	f := newSearchFixture()

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := f.service.Search(context.Background(), query, plainOptions())
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("query %q: expected ErrInvalidInput, got %v", query, err)
		}
	}
	if f.vectors.SearchCalls != 0 {
		t.Errorf("expected no store calls for invalid queries, got %d", f.vectors.SearchCalls)
	}
}

func TestSearch_OverFetchesForTheRanker(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.9)})

	opts := plainOptions()
	opts.Limit = 5
	if _, err := f.service.Search(context.Background(), "how do goroutines work", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.vectors.LastQuery.Limit != 15 {
		t.Errorf("expected over-fetch limit 15 for limit 5, got %d", f.vectors.LastQuery.Limit)
	}
}

func TestSearch_OverFetchCappedAtCeiling(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.9)})

	opts := plainOptions()
	opts.Limit = 10
	if _, err := f.service.Search(context.Background(), "channels", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.vectors.LastQuery.Limit != 20 {
		t.Errorf("expected over-fetch capped at 20, got %d", f.vectors.LastQuery.Limit)
	}
}

func TestSearch_ThresholdPassedThrough(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.9)})

	opts := plainOptions()
	opts.SimilarityThreshold = 0.85
	if _, err := f.service.Search(context.Background(), "select statements", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.vectors.LastQuery.SimilarityThreshold != 0.85 {
		t.Errorf("expected threshold 0.85 passed through, got %f", f.vectors.LastQuery.SimilarityThreshold)
	}
}

func TestSearch_DefaultsApplied(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.9)})

	// Zero-value options fall back to limit 5 and threshold 0.7
	opts := domain.SearchOptions{Weights: domain.RankWeights{Similarity: 1.0}}
	if _, err := f.service.Search(context.Background(), "interfaces", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.vectors.LastQuery.Limit != 15 {
		t.Errorf("expected default limit 5 over-fetched to 15, got %d", f.vectors.LastQuery.Limit)
	}
	if f.vectors.LastQuery.SimilarityThreshold != 0.7 {
		t.Errorf("expected default threshold 0.7, got %f", f.vectors.LastQuery.SimilarityThreshold)
	}
}

func TestSearch_TruncatesToRequestedLimit(t *testing.T) {
	f := newSearchFixture()

	seed := make([]*domain.SearchCandidate, 0, 8)
	for i := 0; i < 8; i++ {
		seed = append(seed, candidate(
			string(rune('a'+i)), "video-"+string(rune('a'+i)), 0.95-float64(i)*0.01))
	}
	f.vectors.Seed(seed)

	opts := plainOptions()
	opts.Limit = 2
	results, err := f.service.Search(context.Background(), "maps", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
	if results[0].RankScore < results[1].RankScore {
		t.Error("truncation must keep the top-ranked results")
	}
}

func TestSearch_NoMatchesYieldsEmptyResult(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.5)})

	results, err := f.service.Search(context.Background(), "quantum chromodynamics", plainOptions())
	if err != nil {
		t.Fatalf("no matches is not an error, got %v", err)
	}
	if results == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results below threshold, got %d", len(results))
	}
}

func TestSearch_SecondIdenticalSearchHitsCache(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.9)})

	opts := plainOptions()
	first, err := f.service.Search(context.Background(), "goroutine leaks", opts)
	if err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	second, err := f.service.Search(context.Background(), "goroutine leaks", opts)
	if err != nil {
		t.Fatalf("second search failed: %v", err)
	}

	if f.vectors.SearchCalls != 1 {
		t.Errorf("expected cache to absorb the second search, store called %d times", f.vectors.SearchCalls)
	}
	if f.observer.CacheMisses != 1 || f.observer.CacheHits != 1 {
		t.Errorf("expected 1 miss then 1 hit, got misses=%d hits=%d",
			f.observer.CacheMisses, f.observer.CacheHits)
	}
	if len(first) != len(second) {
		t.Errorf("cached result differs: %d vs %d", len(first), len(second))
	}
}

func TestSearch_DifferentOptionsMissTheCache(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.9)})

	opts := plainOptions()
	if _, err := f.service.Search(context.Background(), "defer semantics", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts.SimilarityThreshold = 0.8
	if _, err := f.service.Search(context.Background(), "defer semantics", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.vectors.SearchCalls != 2 {
		t.Errorf("different option shapes must not share a cache entry, store called %d times", f.vectors.SearchCalls)
	}
}

func TestSearch_CacheFailureDegradesToMiss(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.9)})
	f.cache.SetError(errors.New("redis: connection pool exhausted"))

	results, err := f.service.Search(context.Background(), "error wrapping", plainOptions())
	if err != nil {
		t.Fatalf("cache failure must not fail the search, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result from the store, got %d", len(results))
	}
	if f.vectors.SearchCalls != 1 {
		t.Errorf("expected the store to serve the request, called %d times", f.vectors.SearchCalls)
	}
}

func TestSearch_NilCacheDisablesCaching(t *testing.T) {
	f := newSearchFixture()
	ranker := NewRanker(f.videos, mocks.NewMockUsageStore(), mocks.NewMockInteractionStore(), nil)
	service := NewSearchService(f.vectors, f.embedding, f.videos, ranker, nil, nil, nil)
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.9)})

	for i := 0; i < 2; i++ {
		if _, err := service.Search(context.Background(), "slices", plainOptions()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if f.vectors.SearchCalls != 2 {
		t.Errorf("without a cache every search hits the store, got %d calls", f.vectors.SearchCalls)
	}
}

func TestSearch_StoreErrorPropagates(t *testing.T) {
	f := newSearchFixture()
	storeErr := errors.New("pgvector index unavailable")
	f.vectors.SetError(storeErr)

	_, err := f.service.Search(context.Background(), "mutexes", plainOptions())
	if !errors.Is(err, storeErr) {
		t.Errorf("expected store error propagated, got %v", err)
	}
}

func TestSearch_EmbeddingErrorPropagates(t *testing.T) {
	f := newSearchFixture()
	f.embedding.SetFailNext(true)

	_, err := f.service.Search(context.Background(), "context cancellation", plainOptions())
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
	if f.vectors.SearchCalls != 0 {
		t.Errorf("store must not be queried without an embedding, called %d times", f.vectors.SearchCalls)
	}
}

func TestSearchCourse_ScopesToCourseVideos(t *testing.T) {
	f := newSearchFixture()
	f.videos.Add(&domain.Video{ID: "video-a", CourseID: "course-1"})
	f.videos.Add(&domain.Video{ID: "video-b", CourseID: "course-2"})
	f.vectors.Seed([]*domain.SearchCandidate{
		candidate("c1", "video-a", 0.9),
		candidate("c2", "video-b", 0.95),
	})

	results, err := f.service.SearchCourse(context.Background(), "course-1", "pointers", plainOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected only course-1 content, got %d results", len(results))
	}
	if results[0].Candidate.Chunk.VideoID != "video-a" {
		t.Errorf("expected video-a, got %s", results[0].Candidate.Chunk.VideoID)
	}
}

func TestSearchCourse_EmptyCourseSkipsTheStore(t *testing.T) {
	f := newSearchFixture()

	results, err := f.service.SearchCourse(context.Background(), "course-empty", "anything", plainOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result for a course with no videos, got %d", len(results))
	}
	if f.vectors.SearchCalls != 0 {
		t.Errorf("an empty scope must not reach the store, called %d times", f.vectors.SearchCalls)
	}
}

func TestSearchCreator_OnlyReadyVideos(t *testing.T) {
	f := newSearchFixture()
	f.videos.Add(&domain.Video{ID: "video-a", CreatorID: "creator-1", Status: domain.VideoStatusReady})
	f.videos.Add(&domain.Video{ID: "video-b", CreatorID: "creator-1", Status: "processing"})
	f.vectors.Seed([]*domain.SearchCandidate{
		candidate("c1", "video-a", 0.9),
		candidate("c2", "video-b", 0.95),
	})

	results, err := f.service.SearchCreator(context.Background(), "creator-1", "testing", plainOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected only ready videos, got %d results", len(results))
	}
	if results[0].Candidate.Chunk.VideoID != "video-a" {
		t.Errorf("expected video-a, got %s", results[0].Candidate.Chunk.VideoID)
	}
}

func TestSearch_InvalidateVideoEvictsCachedEntries(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{candidate("c1", "video-a", 0.9)})

	opts := plainOptions()
	if _, err := f.service.Search(context.Background(), "generics", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.service.InvalidateVideo(context.Background(), "video-a")

	if _, err := f.service.Search(context.Background(), "generics", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.vectors.SearchCalls != 2 {
		t.Errorf("expected invalidation to force a store round trip, got %d calls", f.vectors.SearchCalls)
	}
}

func TestSearch_InvalidateAllSurvivesCacheFailure(t *testing.T) {
	f := newSearchFixture()
	f.cache.SetError(errors.New("connection reset"))

	// Best-effort: must not panic or surface the error
	f.service.InvalidateAll(context.Background())
	f.service.InvalidateVideo(context.Background(), "video-a")
}

func TestSearch_ObserverRecordsCompletion(t *testing.T) {
	f := newSearchFixture()
	f.vectors.Seed([]*domain.SearchCandidate{
		candidate("c1", "video-a", 0.9),
		candidate("c2", "video-b", 0.8),
	})

	if _, err := f.service.Search(context.Background(), "embedding dimensions", plainOptions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.observer.Searches != 1 {
		t.Errorf("expected 1 completed search recorded, got %d", f.observer.Searches)
	}
	if f.observer.LastCount != 2 {
		t.Errorf("expected result count 2 recorded, got %d", f.observer.LastCount)
	}
}
