package services

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
)

// Ranking policy constants. These are fixed product policy, not caller
// configuration.
const (
	// recencyDecayDays controls the exponential decay of the recency
	// signal: a video created today scores ~1.0, one 90 days old ~0.37.
	recencyDecayDays = 90.0

	// Popularity normalization ceilings. Values above the ceiling clamp
	// to 1.0, they are never rejected.
	popularityViewCeiling        = 1000.0
	popularityInteractionCeiling = 500.0

	// Popularity blend weights (views / interactions / completion rate)
	popularityViewWeight        = 0.3
	popularityInteractionWeight = 0.4
	popularityCompletionWeight  = 0.3

	// Affinity signal: per-interaction decay and normalization
	affinityDecayDays     = 7.0
	affinityLookbackCount = 10
	affinityNormDivisor   = 5.0
)

// Ranker combines similarity with recency, popularity and per-user
// affinity into one relevance score per candidate, then removes
// near-duplicate chunks from the same video.
//
// Metadata lookups degrade rather than fail: a candidate whose side
// lookup errored gets 0 for that component and a Degraded flag in its
// breakdown. Ranking always produces a result list for non-empty input.
type Ranker struct {
	videos       driven.VideoStore
	usage        driven.UsageStore
	interactions driven.InteractionStore
	logger       *slog.Logger
}

// NewRanker creates a new Ranker
func NewRanker(videos driven.VideoStore, usage driven.UsageStore, interactions driven.InteractionStore, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{
		videos:       videos,
		usage:        usage,
		interactions: interactions,
		logger:       logger,
	}
}

// Rank orders candidates by their combined score and deduplicates.
// Output length is always <= input length. Ties keep arrival order
// (stable sort). Empty input yields empty output.
func (r *Ranker) Rank(ctx context.Context, candidates []*domain.SearchCandidate, opts domain.RankOptions) []*domain.RankedResult {
	if len(candidates) == 0 {
		return []*domain.RankedResult{}
	}

	videoIDs := distinctVideoIDs(candidates)
	now := time.Now()

	// One batched lookup per signal per distinct video, not per chunk
	createdAt, recencyDegraded := r.fetchCreationTimes(ctx, videoIDs, opts)
	stats, popularityDegraded := r.fetchUsageStats(ctx, videoIDs, opts)
	history, affinityDegraded := r.fetchInteractions(ctx, videoIDs, opts)

	results := make([]*domain.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		breakdown := domain.RankBreakdown{
			Similarity:         c.Similarity,
			RecencyDegraded:    recencyDegraded,
			PopularityDegraded: popularityDegraded,
			AffinityDegraded:   affinityDegraded,
		}

		if opts.BoostRecency && !recencyDegraded {
			ts, ok := createdAt[c.Chunk.VideoID]
			if ok {
				breakdown.Recency = recencyScore(ts, now)
			} else {
				// Video missing from the metadata store counts as a failed
				// lookup for this candidate
				breakdown.RecencyDegraded = true
			}
		}
		if opts.BoostPopularity && !popularityDegraded {
			// Missing usage rows mean nobody watched: score 0, not degraded
			if s := stats[c.Chunk.VideoID]; s != nil {
				breakdown.Popularity = popularityScore(s)
			}
		}
		if opts.AffinityUserID != "" && !affinityDegraded {
			breakdown.Affinity = affinityScore(history[c.Chunk.VideoID], now)
		}

		score := opts.Weights.Similarity*breakdown.Similarity +
			opts.Weights.Recency*breakdown.Recency +
			opts.Weights.Popularity*breakdown.Popularity +
			opts.Weights.Affinity*breakdown.Affinity

		results = append(results, &domain.RankedResult{
			Candidate: c,
			RankScore: score,
			Breakdown: breakdown,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RankScore > results[j].RankScore
	})

	if opts.Deduplicate {
		results = dedupeNearDuplicates(results, opts.DedupThreshold)
	}

	return results
}

// fetchCreationTimes returns per-video creation timestamps, or marks the
// whole recency component degraded if the batch lookup failed.
func (r *Ranker) fetchCreationTimes(ctx context.Context, videoIDs []string, opts domain.RankOptions) (map[string]time.Time, bool) {
	if !opts.BoostRecency {
		return nil, false
	}
	createdAt, err := r.videos.CreationTimes(ctx, videoIDs)
	if err != nil {
		r.logger.Warn("recency lookup failed, degrading component to 0", "error", err)
		return nil, true
	}
	return createdAt, false
}

func (r *Ranker) fetchUsageStats(ctx context.Context, videoIDs []string, opts domain.RankOptions) (map[string]*domain.VideoUsageStats, bool) {
	if !opts.BoostPopularity {
		return nil, false
	}
	stats, err := r.usage.UsageStats(ctx, videoIDs)
	if err != nil {
		r.logger.Warn("popularity lookup failed, degrading component to 0", "error", err)
		return nil, true
	}
	return stats, false
}

func (r *Ranker) fetchInteractions(ctx context.Context, videoIDs []string, opts domain.RankOptions) (map[string][]time.Time, bool) {
	if opts.AffinityUserID == "" {
		return nil, false
	}
	history, err := r.interactions.RecentInteractions(ctx, opts.AffinityUserID, videoIDs, affinityLookbackCount)
	if err != nil {
		r.logger.Warn("affinity lookup failed, degrading component to 0",
			"user_id", opts.AffinityUserID, "error", err)
		return nil, true
	}
	return history, false
}

// recencyScore decays exponentially with video age in days, clamped to
// [0,1]. There is no hard cutoff - very old content approaches 0 but
// never reaches it.
func recencyScore(createdAt, now time.Time) float64 {
	ageDays := now.Sub(createdAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return clamp01(math.Exp(-ageDays / recencyDecayDays))
}

// popularityScore blends trailing-window views, interactions and
// completion rate, each normalized against a fixed soft ceiling.
func popularityScore(stats *domain.VideoUsageStats) float64 {
	views := clamp01(float64(stats.ViewCount) / popularityViewCeiling)
	interactions := clamp01(float64(stats.Interactions) / popularityInteractionCeiling)
	completion := clamp01(stats.CompletionRate)

	return popularityViewWeight*views +
		popularityInteractionWeight*interactions +
		popularityCompletionWeight*completion
}

// affinityScore sums a 7-day exponential decay over the user's recent
// interactions with the video, normalized by a fixed divisor and clamped
// to [0,1]. No interactions yields 0.
func affinityScore(interactions []time.Time, now time.Time) float64 {
	if len(interactions) == 0 {
		return 0
	}
	var sum float64
	for _, ts := range interactions {
		ageDays := now.Sub(ts).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		sum += math.Exp(-ageDays / affinityDecayDays)
	}
	return clamp01(sum / affinityNormDivisor)
}

// dedupeNearDuplicates walks the sorted list and drops chunks that
// near-duplicate an already-kept chunk of the same video. Chunks of the
// same video that are not near-duplicates are both retained - this
// targets redundant content, not source diversity. The list is sorted
// descending, so the kept chunk always has the higher rank score.
func dedupeNearDuplicates(results []*domain.RankedResult, threshold float64) []*domain.RankedResult {
	if threshold <= 0 {
		threshold = 0.95
	}

	keptByVideo := make(map[string][]*domain.RankedResult)
	deduped := make([]*domain.RankedResult, 0, len(results))

	for _, res := range results {
		videoID := res.Candidate.Chunk.VideoID
		duplicate := false
		for _, kept := range keptByVideo[videoID] {
			if chunkSimilarity(res.Candidate, kept.Candidate) >= threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		keptByVideo[videoID] = append(keptByVideo[videoID], res)
		deduped = append(deduped, res)
	}

	return deduped
}

// chunkSimilarity estimates how similar two chunks of the same video are.
// When both carry embeddings it computes true cosine similarity;
// otherwise it falls back to the ratio of their query similarities,
// which is a cheap proxy for content overlap among high-scoring chunks.
func chunkSimilarity(a, b *domain.SearchCandidate) float64 {
	if len(a.Chunk.Embedding) > 0 && len(a.Chunk.Embedding) == len(b.Chunk.Embedding) {
		return cosineSimilarity(a.Chunk.Embedding, b.Chunk.Embedding)
	}

	lo, hi := a.Similarity, b.Similarity
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == 0 {
		return 0
	}
	return lo / hi
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func distinctVideoIDs(candidates []*domain.SearchCandidate) []string {
	seen := make(map[string]bool, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c.Chunk.VideoID] {
			seen[c.Chunk.VideoID] = true
			ids = append(ids, c.Chunk.VideoID)
		}
	}
	return ids
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
