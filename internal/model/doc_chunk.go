package model

import (
	"encoding/json"
	"time"
)

// DocChunk stores one text chunk of an uploaded document and its embedding.
// Embedding is stored as a JSON array of float32 for portability.
type DocChunk struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:36;not null;index" json:"session_id"`
	Source    string    `gorm:"size:256;not null" json:"source"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Embedding string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (c *DocChunk) EmbeddingVector() []float32 {
	if c.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(c.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (c *DocChunk) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		c.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	c.Embedding = string(b)
}
