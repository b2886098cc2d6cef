package domain

// ContextFormat selects the textual layout of a built context.
// The format affects only presentation, never content selection.
type ContextFormat string

const (
	FormatDetailed ContextFormat = "detailed" // heading and prose per chunk
	FormatTagged   ContextFormat = "tagged"   // machine-parseable tagged blocks
	FormatCompact  ContextFormat = "compact"  // minimal prefix per chunk
)

// ContextOptions configures context assembly
type ContextOptions struct {
	// MaxTokens is the token budget. Chunks are appended until the next
	// one would exceed it, then assembly stops.
	MaxTokens int `json:"max_tokens"`

	// Format selects one of the three textual layouts
	Format ContextFormat `json:"format"`

	// IncludeTimestamps adds human-readable timestamps to chunk headers
	IncludeTimestamps bool `json:"include_timestamps"`

	// IncludeScores adds per-chunk rank scores (debug visibility)
	IncludeScores bool `json:"include_scores"`

	// DeduplicateText drops chunks whose normalized text prefix matches an
	// already-included chunk, regardless of source video
	DeduplicateText bool `json:"deduplicate_text"`
}

// DefaultContextOptions returns sensible defaults
func DefaultContextOptions() ContextOptions {
	return ContextOptions{
		MaxTokens:         8000,
		Format:            FormatDetailed,
		IncludeTimestamps: true,
		DeduplicateText:   true,
	}
}

// TimestampRange is a (start, end) span in seconds within one video
type TimestampRange struct {
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

// ContextSource aggregates which chunks of one video made it into a
// built context
type ContextSource struct {
	VideoID    string           `json:"video_id"`
	Title      string           `json:"title"`
	URL        string           `json:"url,omitempty"`
	ChunksUsed int              `json:"chunks_used"`
	Timestamps []TimestampRange `json:"timestamps"`
}

// FormattedContext is the token-budgeted text block handed to the
// language model, plus the structured source metadata that produced it.
// Never persisted.
type FormattedContext struct {
	Context     string           `json:"context"`
	Sources     []*ContextSource `json:"sources"`
	TotalChunks int              `json:"total_chunks"`
	TotalTokens int              `json:"total_tokens"` // estimated
	Truncated   bool             `json:"truncated"`
}

// Citation is the UI-facing projection of a ranked result used to show
// provenance. Derived per response, never persisted independently.
type Citation struct {
	VideoID      string  `json:"video_id"`
	Title        string  `json:"title"`
	URL          string  `json:"url,omitempty"`
	StartSeconds float64 `json:"start_seconds"`
	Timestamp    string  `json:"timestamp"` // human-formatted, e.g. "12:07"
	Preview      string  `json:"preview"`
	Relevance    float64 `json:"relevance"`
}
