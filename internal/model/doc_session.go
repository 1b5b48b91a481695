package model

import "time"

// DocSession binds an opaque session identifier to an uploaded document set.
// Sessions expire at ExpiresAt; expired rows are treated as unknown and
// swept by the purge ticker.
type DocSession struct {
	ID        string    `gorm:"primaryKey;size:36" json:"session_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *DocSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
