package repository

import (
	"fmt"

	"gorm.io/gorm"

	"campus-assist/internal/model"
)

type ChatLogRepository struct {
	db *gorm.DB
}

func NewChatLogRepository(db *gorm.DB) *ChatLogRepository {
	return &ChatLogRepository{db: db}
}

func (r *ChatLogRepository) Create(entry *model.ChatLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create chat log failed: %w", err)
	}
	return nil
}
