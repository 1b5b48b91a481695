package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// FAQEmbeddingCache keeps FAQ question embeddings in Redis so the semantic
// matcher does not re-embed an unchanged question set on every query. Cache
// misses and Redis failures both fall through to the embedding API, so this
// is strictly an optimization.
type FAQEmbeddingCache struct {
	client *redisv9.Client
	model  string
	ttl    time.Duration
}

func NewFAQEmbeddingCache(client *redisv9.Client, model string, ttl time.Duration) *FAQEmbeddingCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &FAQEmbeddingCache{
		client: client,
		model:  model,
		ttl:    ttl,
	}
}

func (c *FAQEmbeddingCache) Get(ctx context.Context, question string) ([]float32, bool) {
	raw, err := c.client.Get(ctx, c.key(question)).Result()
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil || len(vec) == 0 {
		return nil, false
	}
	return vec, true
}

func (c *FAQEmbeddingCache) Set(ctx context.Context, question string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	payload, err := json.Marshal(vec)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(question), payload, c.ttl).Err()
}

func (c *FAQEmbeddingCache) key(question string) string {
	sum := sha1.Sum([]byte(question))
	return fmt.Sprintf("faq:emb:%s:%s", c.model, hex.EncodeToString(sum[:]))
}
