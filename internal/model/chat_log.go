package model

import "time"

// ChatLog records one resolved query/response pair. Logs are published to
// RabbitMQ on the request path and persisted by the background worker.
type ChatLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Bot       string    `gorm:"size:16;not null;index" json:"bot"`
	SessionID string    `gorm:"size:36;index" json:"session_id"`
	Audience  string    `gorm:"size:16" json:"audience"`
	Language  string    `gorm:"size:8" json:"language"`
	Query     string    `gorm:"type:text;not null" json:"query"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	Resolver  string    `gorm:"size:16" json:"resolver"`
	CreatedAt time.Time `json:"created_at"`
}
