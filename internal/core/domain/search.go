package domain

import "time"

// VectorQuery constrains a similarity query against the vector store.
type VectorQuery struct {
	// Limit is the maximum number of candidates to return. Must be positive.
	Limit int `json:"limit"`

	// SimilarityThreshold excludes candidates below this cosine similarity.
	// The store itself applies the cutoff; nothing below it ever reaches
	// the ranker.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// VideoIDs restricts the query to an allow-list of videos.
	// Nil or empty means unrestricted.
	VideoIDs []string `json:"video_ids,omitempty"`
}

// SearchOptions configures an enhanced search request
type SearchOptions struct {
	// Limit is the final result count after ranking and deduplication
	Limit int `json:"limit"`

	// SimilarityThreshold is passed through to the vector store
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// VideoIDs restricts search to an allow-list of videos
	VideoIDs []string `json:"video_ids,omitempty"`

	// BoostRecency enables the recency ranking component
	BoostRecency bool `json:"boost_recency"`

	// BoostPopularity enables the popularity ranking component
	BoostPopularity bool `json:"boost_popularity"`

	// AffinityUserID enables the per-user affinity component when non-empty
	AffinityUserID string `json:"affinity_user_id,omitempty"`

	// Weights for the four ranking signals
	Weights RankWeights `json:"weights"`

	// Deduplicate enables source-level near-duplicate removal after ranking
	Deduplicate bool `json:"deduplicate"`

	// DedupThreshold is the similarity above which two chunks of the same
	// video are treated as near-duplicates
	DedupThreshold float64 `json:"dedup_threshold"`

	// CacheEnabled controls the result cache. Defaults on.
	CacheEnabled bool `json:"cache_enabled"`

	// CacheTTL is the result cache entry lifetime
	CacheTTL time.Duration `json:"cache_ttl"`
}

// RankWeights weights the four ranking signals. By convention they sum
// to 1.0; the ranker does not renormalize a non-conforming set, which is
// a documented caller responsibility.
type RankWeights struct {
	Similarity float64 `json:"similarity"`
	Recency    float64 `json:"recency"`
	Popularity float64 `json:"popularity"`
	Affinity   float64 `json:"affinity"`
}

// DefaultRankWeights returns the standard signal weights
func DefaultRankWeights() RankWeights {
	return RankWeights{
		Similarity: 0.60,
		Recency:    0.15,
		Popularity: 0.15,
		Affinity:   0.10,
	}
}

// DefaultSearchOptions returns sensible defaults
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:               5,
		SimilarityThreshold: 0.7,
		BoostRecency:        true,
		BoostPopularity:     true,
		Weights:             DefaultRankWeights(),
		Deduplicate:         true,
		DedupThreshold:      0.95,
		CacheEnabled:        true,
		CacheTTL:            5 * time.Minute,
	}
}

// RankOptions configures a ranking pass
type RankOptions struct {
	BoostRecency    bool        `json:"boost_recency"`
	BoostPopularity bool        `json:"boost_popularity"`
	AffinityUserID  string      `json:"affinity_user_id,omitempty"`
	Weights         RankWeights `json:"weights"`
	Deduplicate     bool        `json:"deduplicate"`
	DedupThreshold  float64     `json:"dedup_threshold"`
}

// RankOptionsFrom extracts the ranking-relevant subset of search options
func RankOptionsFrom(opts SearchOptions) RankOptions {
	return RankOptions{
		BoostRecency:    opts.BoostRecency,
		BoostPopularity: opts.BoostPopularity,
		AffinityUserID:  opts.AffinityUserID,
		Weights:         opts.Weights,
		Deduplicate:     opts.Deduplicate,
		DedupThreshold:  opts.DedupThreshold,
	}
}

// RankBreakdown records the individual signal scores that produced a
// RankScore. Degraded components had their side lookup fail and were
// scored 0 rather than failing the ranking call.
type RankBreakdown struct {
	Similarity float64 `json:"similarity"`
	Recency    float64 `json:"recency"`
	Popularity float64 `json:"popularity"`
	Affinity   float64 `json:"affinity"`

	// Degraded lists which components fell back to 0 because their
	// metadata lookup failed
	RecencyDegraded    bool `json:"recency_degraded,omitempty"`
	PopularityDegraded bool `json:"popularity_degraded,omitempty"`
	AffinityDegraded   bool `json:"affinity_degraded,omitempty"`
}

// RankedResult is a search candidate plus its combined relevance score.
// Result lists are always sorted descending by RankScore.
type RankedResult struct {
	Candidate *SearchCandidate `json:"candidate"`
	RankScore float64          `json:"rank_score"`
	Breakdown RankBreakdown    `json:"breakdown"`
}
