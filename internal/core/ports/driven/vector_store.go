package driven

import (
	"context"

	"github.com/lumenlearn/recall-core/internal/core/domain"
)

// VectorStore performs similarity queries over the embedded transcript
// chunks (PostgreSQL + pgvector)
type VectorStore interface {
	// Search returns the top candidates by cosine similarity above the
	// query's threshold, optionally restricted to a video allow-list.
	// Returns domain.ErrInvalidQuery for malformed input (wrong embedding
	// dimensionality, non-positive limit) and wraps datastore failures in
	// domain.ErrStoreUnavailable.
	Search(ctx context.Context, embedding []float32, q domain.VectorQuery) ([]*domain.SearchCandidate, error)

	// Dimensions returns the embedding dimensionality the store was
	// created with. Constant for the lifetime of a deployment.
	Dimensions() int

	// HealthCheck verifies the store is reachable
	HealthCheck(ctx context.Context) error
}
