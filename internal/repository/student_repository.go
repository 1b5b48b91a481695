package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campus-assist/internal/model"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	if err := r.db.Create(student).Error; err != nil {
		return fmt.Errorf("create student failed: %w", err)
	}
	return nil
}

func (r *StudentRepository) GetByEmail(email string) (*model.Student, error) {
	var student model.Student
	if err := r.db.Where("email = ?", email).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query student by email failed: %w", err)
	}
	return &student, nil
}

// GetByEmailOrUsn is the duplicate-credential check used at registration.
func (r *StudentRepository) GetByEmailOrUsn(email, usn string) (*model.Student, error) {
	var student model.Student
	if err := r.db.Where("email = ? OR usn = ?", email, usn).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query student by email or usn failed: %w", err)
	}
	return &student, nil
}
