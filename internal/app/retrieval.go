package app

import (
	"sort"

	"campus-assist/internal/faq"
	"campus-assist/internal/model"
)

// topChunksByCosine returns the k chunks most similar to the query
// embedding, best first. Ties keep the original chunk order.
func topChunksByCosine(chunks []model.DocChunk, query []float32, k int) []model.DocChunk {
	if k <= 0 || len(chunks) == 0 {
		return nil
	}

	type scored struct {
		chunk model.DocChunk
		score float32
	}
	ranked := make([]scored, len(chunks))
	for i := range chunks {
		ranked[i] = scored{
			chunk: chunks[i],
			score: faq.CosineSimilarity(query, chunks[i].EmbeddingVector()),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	top := make([]model.DocChunk, k)
	for i := 0; i < k; i++ {
		top[i] = ranked[i].chunk
	}
	return top
}
