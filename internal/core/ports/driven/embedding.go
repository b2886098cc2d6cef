package driven

import "context"

// EmbeddingService turns a learner's question into a vector comparable
// against the stored transcript chunk embeddings. Transcript ingestion
// embeds its chunks out of band; this port carries search-time queries
// only.
type EmbeddingService interface {
	// EmbedQuery embeds a single search query
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Dimensions returns the vector width the service produces. It must
	// match the embedding column the vector store was created with.
	Dimensions() int

	// Close releases held connections
	Close() error
}
