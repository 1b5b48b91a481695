package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campus-assist/internal/model"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Create(staff *model.Staff) error {
	if err := r.db.Create(staff).Error; err != nil {
		return fmt.Errorf("create staff failed: %w", err)
	}
	return nil
}

func (r *StaffRepository) GetByEmail(email string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.Where("email = ?", email).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query staff by email failed: %w", err)
	}
	return &staff, nil
}

// GetByEmailOrUniqueID is the duplicate-credential check used at registration.
func (r *StaffRepository) GetByEmailOrUniqueID(email, uniqueID string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.Where("email = ? OR unique_id = ?", email, uniqueID).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query staff by email or unique id failed: %w", err)
	}
	return &staff, nil
}
