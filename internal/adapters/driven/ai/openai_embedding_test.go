package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func embeddingHandler(t *testing.T, vector []float32) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}

		var req queryEmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Input == "" {
			t.Error("expected a non-empty query input")
		}

		resp := map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": vector},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
	}
}

func TestNewOpenAIEmbedding_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedding("", "text-embedding-3-small", "")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNewOpenAIEmbedding_Defaults(t *testing.T) {
	svc, err := NewOpenAIEmbedding("test-key", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.model != defaultEmbeddingModel {
		t.Errorf("expected default model, got %s", svc.model)
	}
	if svc.baseURL != defaultBaseURL {
		t.Errorf("expected default base URL, got %s", svc.baseURL)
	}
	if svc.Dimensions() != 1536 {
		t.Errorf("expected 1536 dimensions, got %d", svc.Dimensions())
	}
}

func TestNewOpenAIEmbedding_ModelDimensions(t *testing.T) {
	tests := []struct {
		model      string
		dimensions int
	}{
		{"text-embedding-3-small", 1536},
		{"text-embedding-3-large", 3072},
		{"text-embedding-ada-002", 1536},
		{"some-unknown-model", 1536},
	}

	for _, tt := range tests {
		svc, err := NewOpenAIEmbedding("test-key", tt.model, "")
		if err != nil {
			t.Fatalf("model %s: unexpected error: %v", tt.model, err)
		}
		if svc.Dimensions() != tt.dimensions {
			t.Errorf("model %s: expected %d dimensions, got %d", tt.model, tt.dimensions, svc.Dimensions())
		}
	}
}

func TestOpenAIEmbedding_EmbedQuery(t *testing.T) {
	vector := make([]float32, 1536)
	vector[0] = 0.7
	server := httptest.NewServer(embeddingHandler(t, vector))
	defer server.Close()

	svc, err := NewOpenAIEmbedding("test-key", "", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embedding, err := svc.EmbedQuery(context.Background(), "how do channels work")
	if err != nil {
		t.Fatalf("EmbedQuery failed: %v", err)
	}
	if len(embedding) != 1536 || embedding[0] != 0.7 {
		t.Errorf("unexpected embedding: len=%d first=%f", len(embedding), embedding[0])
	}
}

func TestOpenAIEmbedding_RejectsWrongWidth(t *testing.T) {
	// A 2-wide vector from a 1536-wide model means the deployment is
	// misconfigured; the client must refuse it
	server := httptest.NewServer(embeddingHandler(t, []float32{0.1, 0.2}))
	defer server.Close()

	svc, err := NewOpenAIEmbedding("test-key", "", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.EmbedQuery(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if !strings.Contains(err.Error(), "expected 1536") {
		t.Errorf("expected dimension mismatch message, got %v", err)
	}
}

func TestOpenAIEmbedding_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	svc, err := NewOpenAIEmbedding("test-key", "", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.EmbedQuery(context.Background(), "anything")
	if err == nil || !strings.Contains(err.Error(), "no embedding returned") {
		t.Errorf("expected empty-response error, got %v", err)
	}
}

func TestOpenAIEmbedding_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error", "code": "rate_limited"}}`)
	}))
	defer server.Close()

	svc, err := NewOpenAIEmbedding("test-key", "", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.EmbedQuery(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected API error")
	}
	if !strings.Contains(err.Error(), "Rate limit exceeded") {
		t.Errorf("expected API error message surfaced, got %v", err)
	}
}
