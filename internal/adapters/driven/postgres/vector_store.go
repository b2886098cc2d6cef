package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore implements driven.VectorStore over pgvector.
// It is a thin adapter: constraint translation and result shape
// normalization only - the index itself does the work.
type VectorStore struct {
	db         *DB
	dimensions int
}

// NewVectorStore creates a new VectorStore. dimensions must match the
// embedding column the deployment was created with.
func NewVectorStore(db *DB, dimensions int) *VectorStore {
	if dimensions <= 0 {
		dimensions = 1536
	}
	return &VectorStore{db: db, dimensions: dimensions}
}

// Search returns candidates above the similarity threshold, most similar
// first. The threshold cut happens in SQL, so nothing below it ever
// leaves the store.
func (s *VectorStore) Search(ctx context.Context, embedding []float32, q domain.VectorQuery) ([]*domain.SearchCandidate, error) {
	if len(embedding) != s.dimensions {
		return nil, fmt.Errorf("%w: embedding has %d dimensions, store expects %d",
			domain.ErrInvalidQuery, len(embedding), s.dimensions)
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidQuery, q.Limit)
	}
	if q.SimilarityThreshold < 0 || q.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("%w: similarity threshold %f outside [0,1]",
			domain.ErrInvalidQuery, q.SimilarityThreshold)
	}

	// Cosine distance: similarity = 1 - (embedding <=> query)
	query := `
		SELECT c.id, c.video_id, c.chunk_text, c.start_seconds, c.end_seconds, c.word_count,
		       1 - (c.embedding <=> $1) AS similarity,
		       v.title, v.url, v.creator_id, v.course_id, v.status, v.created_at
		FROM transcript_chunks c
		JOIN videos v ON v.id = c.video_id
		WHERE 1 - (c.embedding <=> $1) >= $2
	`
	args := []interface{}{pgvector.NewVector(embedding), q.SimilarityThreshold}

	if len(q.VideoIDs) > 0 {
		query += ` AND c.video_id = ANY($3)`
		args = append(args, pq.Array(q.VideoIDs))
	}

	query += fmt.Sprintf(` ORDER BY c.embedding <=> $1 LIMIT %d`, q.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var candidates []*domain.SearchCandidate
	for rows.Next() {
		chunk := &domain.TranscriptChunk{}
		video := &domain.Video{}
		var similarity float64

		err := rows.Scan(
			&chunk.ID,
			&chunk.VideoID,
			&chunk.Text,
			&chunk.StartSeconds,
			&chunk.EndSeconds,
			&chunk.WordCount,
			&similarity,
			&video.Title,
			&video.URL,
			&video.CreatorID,
			&video.CourseID,
			&video.Status,
			&video.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		video.ID = chunk.VideoID

		candidates = append(candidates, &domain.SearchCandidate{
			Chunk:      chunk,
			Video:      video,
			Similarity: similarity,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return candidates, nil
}

// Dimensions returns the embedding dimensionality of the store
func (s *VectorStore) Dimensions() int {
	return s.dimensions
}

// HealthCheck verifies the store is reachable
func (s *VectorStore) HealthCheck(ctx context.Context) error {
	return s.db.Ping(ctx)
}
