package domain

import "time"

// Video represents a course video whose transcript has been chunked and
// embedded. Only the fields the retrieval core reads are modelled here;
// ingestion and playback own the rest.
type Video struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	CreatorID string    `json:"creator_id"`
	CourseID  string    `json:"course_id,omitempty"`
	Status    string    `json:"status"` // "processing", "ready", "failed"
	CreatedAt time.Time `json:"created_at"`
}

// VideoStatusReady marks a video whose transcript is fully ingested and
// searchable. Creator-scoped search only considers ready videos.
const VideoStatusReady = "ready"

// TranscriptChunk represents a fixed span of a video transcript with its
// own embedding. Chunks are immutable once embedded; the retrieval core
// only ever reads them.
type TranscriptChunk struct {
	ID           string            `json:"id"`
	VideoID      string            `json:"video_id"`
	Text         string            `json:"text"`
	Embedding    []float32         `json:"embedding,omitempty"`
	StartSeconds float64           `json:"start_seconds"`
	EndSeconds   float64           `json:"end_seconds"`
	WordCount    int               `json:"word_count"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// SearchCandidate is a chunk returned by a similarity query before
// ranking, carrying cosine similarity and denormalized video metadata.
// Candidates are produced per query and never persisted.
type SearchCandidate struct {
	Chunk      *TranscriptChunk `json:"chunk"`
	Video      *Video           `json:"video"`
	Similarity float64          `json:"similarity"` // cosine similarity, practically [0,1]
}

// VideoUsageStats aggregates a video's trailing-window usage signals.
// Zero values are valid - a video nobody watched is simply unpopular.
type VideoUsageStats struct {
	VideoID        string  `json:"video_id"`
	ViewCount      int     `json:"view_count"`
	Interactions   int     `json:"interactions"`
	CompletionRate float64 `json:"completion_rate"` // [0,1]
}
