package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/lumenlearn/recall-core/internal/core/domain"
	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VideoStore = (*VideoStore)(nil)

// VideoStore implements driven.VideoStore using PostgreSQL
type VideoStore struct {
	db *DB
}

// NewVideoStore creates a new VideoStore
func NewVideoStore(db *DB) *VideoStore {
	return &VideoStore{db: db}
}

// Get retrieves a video by ID
func (s *VideoStore) Get(ctx context.Context, id string) (*domain.Video, error) {
	query := `
		SELECT id, title, url, creator_id, course_id, status, created_at
		FROM videos
		WHERE id = $1
	`

	video := &domain.Video{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&video.ID,
		&video.Title,
		&video.URL,
		&video.CreatorID,
		&video.CourseID,
		&video.Status,
		&video.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return video, nil
}

// CreationTimes returns created_at for each requested video in one query.
// Missing videos are absent from the map.
func (s *VideoStore) CreationTimes(ctx context.Context, videoIDs []string) (map[string]time.Time, error) {
	if len(videoIDs) == 0 {
		return map[string]time.Time{}, nil
	}

	query := `SELECT id, created_at FROM videos WHERE id = ANY($1)`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(videoIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := make(map[string]time.Time, len(videoIDs))
	for rows.Next() {
		var id string
		var createdAt time.Time
		if err := rows.Scan(&id, &createdAt); err != nil {
			return nil, err
		}
		times[id] = createdAt
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return times, nil
}

// CourseVideoIDs resolves a course to its video IDs
func (s *VideoStore) CourseVideoIDs(ctx context.Context, courseID string) ([]string, error) {
	query := `SELECT id FROM videos WHERE course_id = $1`
	return s.queryIDs(ctx, query, courseID)
}

// CreatorVideoIDs resolves a creator to their ready video IDs
func (s *VideoStore) CreatorVideoIDs(ctx context.Context, creatorID string) ([]string, error) {
	query := `SELECT id FROM videos WHERE creator_id = $1 AND status = $2`
	return s.queryIDs(ctx, query, creatorID, domain.VideoStatusReady)
}

func (s *VideoStore) queryIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
