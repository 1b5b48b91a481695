package repository

import (
	"fmt"

	"gorm.io/gorm"

	"campus-assist/internal/model"
)

type DocChunkRepository struct {
	db *gorm.DB
}

func NewDocChunkRepository(db *gorm.DB) *DocChunkRepository {
	return &DocChunkRepository{db: db}
}

func (r *DocChunkRepository) CreateBatch(chunks []model.DocChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.db.Create(&chunks).Error; err != nil {
		return fmt.Errorf("create doc chunks batch failed: %w", err)
	}
	return nil
}

func (r *DocChunkRepository) ListBySessionID(sessionID string) ([]model.DocChunk, error) {
	var chunks []model.DocChunk
	if err := r.db.Where("session_id = ?", sessionID).Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list doc chunks by session failed: %w", err)
	}
	return chunks, nil
}

func (r *DocChunkRepository) DeleteBySessionIDs(sessionIDs []string) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	if err := r.db.Where("session_id IN ?", sessionIDs).Delete(&model.DocChunk{}).Error; err != nil {
		return fmt.Errorf("delete doc chunks by sessions failed: %w", err)
	}
	return nil
}
