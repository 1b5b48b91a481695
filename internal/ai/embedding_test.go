package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// newEmbeddingsServer answers with one deterministic vector per input, so
// tests can verify positional alignment end to end.
func newEmbeddingsServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode embeddings request: %v", err)
		}
		type datum struct {
			Embedding []float32 `json:"embedding"`
		}
		data := make([]datum, len(req.Input))
		for i := range req.Input {
			data[i] = datum{Embedding: []float32{float32(i + 1), 0, 0}}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}))
}

func TestEmbedBatchKeepsInputOrder(t *testing.T) {
	server := newEmbeddingsServer(t)
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := EmbeddingConfig{BaseURL: server.URL, Model: "test-emb"}

	vectors, err := client.EmbedBatch(context.Background(), cfg, []string{"first", "second", "third"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	for i, vec := range vectors {
		if vec[0] != float32(i+1) {
			t.Fatalf("vector %d out of position: %v", i, vec)
		}
	}
}

func TestEmbedBatchRejectsBlankEntry(t *testing.T) {
	server := newEmbeddingsServer(t)
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := EmbeddingConfig{BaseURL: server.URL, Model: "test-emb"}

	// Silently dropping the blank entry would shift every later vector onto
	// the wrong input; the call must fail instead.
	if _, err := client.EmbedBatch(context.Background(), cfg, []string{"first", "   ", "third"}); err == nil {
		t.Fatal("expected an error for a blank input entry")
	}
}

func TestEmbedBatchShortResponseIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"embedding": []float32{1, 0}}},
		})
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := EmbeddingConfig{BaseURL: server.URL, Model: "test-emb"}

	if _, err := client.EmbedBatch(context.Background(), cfg, []string{"first", "second"}); err == nil {
		t.Fatal("expected an error when the provider returns fewer vectors than inputs")
	}
}
