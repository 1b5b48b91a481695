package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"campus-assist/internal/model"
)

type DocSessionRepository struct {
	db *gorm.DB
}

func NewDocSessionRepository(db *gorm.DB) *DocSessionRepository {
	return &DocSessionRepository{db: db}
}

func (r *DocSessionRepository) Create(session *model.DocSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("create doc session failed: %w", err)
	}
	return nil
}

func (r *DocSessionRepository) GetByID(id string) (*model.DocSession, error) {
	var session model.DocSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query doc session failed: %w", err)
	}
	return &session, nil
}

// PurgeExpired removes sessions past their expiry and returns their IDs so
// the caller can drop dependent chunk rows and cached history.
func (r *DocSessionRepository) PurgeExpired(now time.Time) ([]string, error) {
	var expired []model.DocSession
	if err := r.db.Where("expires_at < ?", now).Find(&expired).Error; err != nil {
		return nil, fmt.Errorf("list expired doc sessions failed: %w", err)
	}
	if len(expired) == 0 {
		return nil, nil
	}

	ids := make([]string, len(expired))
	for i := range expired {
		ids[i] = expired[i].ID
	}
	if err := r.db.Where("id IN ?", ids).Delete(&model.DocSession{}).Error; err != nil {
		return nil, fmt.Errorf("purge expired doc sessions failed: %w", err)
	}
	return ids, nil
}
