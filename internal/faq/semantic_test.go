package faq

import (
	"context"
	"testing"
)

type stubFAQEmbedder struct {
	queryVec   []float32
	batchVecs  map[string][]float32
	embedCalls int
	batchCalls int
}

func (s *stubFAQEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.embedCalls++
	return s.queryVec, nil
}

func (s *stubFAQEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = s.batchVecs[t]
	}
	return out, nil
}

var _ Embedder = (*stubFAQEmbedder)(nil)

type mapEmbeddingCache struct {
	data map[string][]float32
}

func (c *mapEmbeddingCache) Get(ctx context.Context, question string) ([]float32, bool) {
	vec, ok := c.data[question]
	return vec, ok
}

func (c *mapEmbeddingCache) Set(ctx context.Context, question string, vec []float32) {
	c.data[question] = vec
}

var _ EmbeddingCache = (*mapEmbeddingCache)(nil)

func TestSemanticMatchAboveThreshold(t *testing.T) {
	embedder := &stubFAQEmbedder{
		queryVec: []float32{1, 0, 0},
		batchVecs: map[string][]float32{
			"What are the hostel facilities?": {0.9, 0.1, 0},
			"Where is the college located?":   {0, 1, 0},
		},
	}
	matcher := NewSemanticMatcher(embedder, nil)

	answer, ok, err := matcher.Match(context.Background(), "hostel details", map[string]string{
		"What are the hostel facilities?": "Separate hostels with mess and Wi-Fi.",
		"Where is the college located?":   "Haliyal, Karnataka.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a semantic match")
	}
	if answer != "Separate hostels with mess and Wi-Fi." {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestSemanticMatchBelowThreshold(t *testing.T) {
	embedder := &stubFAQEmbedder{
		queryVec: []float32{1, 0, 0},
		batchVecs: map[string][]float32{
			"Where is the college located?": {0, 1, 0},
		},
	}
	matcher := NewSemanticMatcher(embedder, nil)

	_, ok, err := matcher.Match(context.Background(), "unrelated", map[string]string{
		"Where is the college located?": "Haliyal, Karnataka.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no match for orthogonal vectors")
	}
}

func TestSemanticMatchEmptySetNeverEmbeds(t *testing.T) {
	embedder := &stubFAQEmbedder{}
	matcher := NewSemanticMatcher(embedder, nil)

	_, ok, err := matcher.Match(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no match for an empty FAQ set")
	}
	if embedder.embedCalls != 0 || embedder.batchCalls != 0 {
		t.Fatalf("embedder must not be called for an empty set, got %d/%d calls",
			embedder.embedCalls, embedder.batchCalls)
	}
}

func TestSemanticMatchUsesCachedQuestionVectors(t *testing.T) {
	question := "What are the hostel facilities?"
	embedder := &stubFAQEmbedder{queryVec: []float32{1, 0, 0}}
	cache := &mapEmbeddingCache{data: map[string][]float32{
		question: {1, 0, 0},
	}}
	matcher := NewSemanticMatcher(embedder, cache)

	_, ok, err := matcher.Match(context.Background(), "hostel details", map[string]string{
		question: "Separate hostels with mess and Wi-Fi.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a match from the cached vector")
	}
	if embedder.batchCalls != 0 {
		t.Fatalf("expected no batch embedding with a warm cache, got %d calls", embedder.batchCalls)
	}
}

// droppingEmbedder mimics a provider that skips blank inputs, returning
// fewer vectors than it was asked for.
type droppingEmbedder struct {
	vecs map[string][]float32
}

func (d *droppingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (d *droppingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	for _, t := range texts {
		if vec, ok := d.vecs[t]; ok {
			out = append(out, vec)
		}
	}
	return out, nil
}

var _ Embedder = (*droppingEmbedder)(nil)

func TestSemanticMatchShortBatchIsError(t *testing.T) {
	// Only the real question gets a vector back; the blank key's slot is
	// missing. Assigning by position would hand the real question's vector
	// to the blank key and return its answer.
	embedder := &droppingEmbedder{vecs: map[string][]float32{
		"Where is the college located?": {1, 0, 0},
	}}
	matcher := NewSemanticMatcher(embedder, nil)

	answer, ok, err := matcher.Match(context.Background(), "where is the college", map[string]string{
		"   ":                           "blank-answer",
		"Where is the college located?": "right-answer",
	})
	if err == nil {
		t.Fatal("expected an error for a short embedding batch")
	}
	if ok || answer == "blank-answer" {
		t.Fatalf("misattributed vector produced answer %q", answer)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Fatalf("identical vectors should score ~1, got %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("orthogonal vectors should score 0, got %f", got)
	}
	if got := CosineSimilarity(nil, []float32{1}); got != 0 {
		t.Fatalf("mismatched vectors should score 0, got %f", got)
	}
	if got := CosineSimilarity([]float32{0, 0}, []float32{0, 0}); got != 0 {
		t.Fatalf("zero vectors should score 0, got %f", got)
	}
}
