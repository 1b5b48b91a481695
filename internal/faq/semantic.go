package faq

import (
	"context"
	"fmt"
	"math"
)

// semanticThreshold is the minimum cosine similarity (exclusive) for a
// semantic FAQ hit.
const semanticThreshold = 0.75

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingCache caches FAQ question embeddings between requests. A nil
// cache is valid and means every question is re-embedded per call.
type EmbeddingCache interface {
	Get(ctx context.Context, question string) ([]float32, bool)
	Set(ctx context.Context, question string, vec []float32)
}

type SemanticMatcher struct {
	embedder Embedder
	cache    EmbeddingCache
}

func NewSemanticMatcher(embedder Embedder, cache EmbeddingCache) *SemanticMatcher {
	return &SemanticMatcher{embedder: embedder, cache: cache}
}

// Match embeds the query and every FAQ question and returns the answer of
// the most similar question when cosine similarity exceeds the threshold.
// An empty FAQ set matches nothing and never touches the embedder.
func (m *SemanticMatcher) Match(ctx context.Context, query string, faqs map[string]string) (string, bool, error) {
	if len(faqs) == 0 {
		return "", false, nil
	}

	questions := sortedQuestions(faqs)
	vectors, err := m.questionVectors(ctx, questions)
	if err != nil {
		return "", false, err
	}

	queryVec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return "", false, err
	}

	bestIdx := -1
	bestScore := float32(0)
	for i, vec := range vectors {
		score := CosineSimilarity(queryVec, vec)
		if bestIdx == -1 || score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}

	if bestIdx >= 0 && bestScore > semanticThreshold {
		return faqs[questions[bestIdx]], true, nil
	}
	return "", false, nil
}

// questionVectors resolves question embeddings through the cache, embedding
// only the misses in one batch.
func (m *SemanticMatcher) questionVectors(ctx context.Context, questions []string) ([][]float32, error) {
	vectors := make([][]float32, len(questions))
	var missing []string
	var missingIdx []int

	for i, q := range questions {
		if m.cache != nil {
			if vec, ok := m.cache.Get(ctx, q); ok {
				vectors[i] = vec
				continue
			}
		}
		missing = append(missing, q)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		embedded, err := m.embedder.EmbedBatch(ctx, missing)
		if err != nil {
			return nil, err
		}
		// A short or long batch would misattribute every vector after the
		// gap to the wrong question; refuse rather than guess.
		if len(embedded) != len(missing) {
			return nil, fmt.Errorf("embedded %d of %d questions", len(embedded), len(missing))
		}
		for j, vec := range embedded {
			vectors[missingIdx[j]] = vec
			if m.cache != nil {
				m.cache.Set(ctx, missing[j], vec)
			}
		}
	}
	return vectors, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector is empty, mismatched, or zero.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
