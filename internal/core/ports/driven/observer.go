package driven

import "time"

// SearchObserver receives search pipeline events for metrics.
// Implementations must be safe for concurrent use. The orchestrator
// treats a nil observer as a no-op so the search path is never coupled
// to a metrics backend.
type SearchObserver interface {
	// CacheHit is called when a search is served from the result cache
	CacheHit()

	// CacheMiss is called when a search has to query the vector store
	CacheMiss()

	// SearchCompleted is called after a full (non-cached) search pass
	SearchCompleted(took time.Duration, resultCount int)

	// ContextTruncated is called when context assembly hits its token
	// budget and drops chunks
	ContextTruncated(droppedChunks int)
}
