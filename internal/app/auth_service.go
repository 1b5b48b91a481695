package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"campus-assist/internal/model"
	"campus-assist/internal/pkg/jwtutil"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicateCredential = errors.New("email or identifier already registered")
	ErrInvalidCredential   = errors.New("invalid email or identifier")
)

const (
	UserTypeStudent = "student"
	UserTypeStaff   = "staff"
)

type StudentStore interface {
	Create(student *model.Student) error
	GetByEmail(email string) (*model.Student, error)
	GetByEmailOrUsn(email, usn string) (*model.Student, error)
}

type StaffStore interface {
	Create(staff *model.Staff) error
	GetByEmail(email string) (*model.Staff, error)
	GetByEmailOrUniqueID(email, uniqueID string) (*model.Staff, error)
}

type AuthService struct {
	studentRepo   StudentStore
	staffRepo     StaffStore
	jwtSecret     string
	jwtExpiration time.Duration
}

type RegisterStudentInput struct {
	Name        string
	Batch       string
	Usn         string
	Email       string
	Branch      string
	PassOutYear string
}

type RegisterStaffInput struct {
	Name     string
	UniqueID string
	Email    string
}

type LoginInput struct {
	Email      string
	Identifier string // USN for students, unique ID for staff
}

type LoginResult struct {
	Token    string
	Email    string
	UserType string
	Name     string
}

func NewAuthService(studentRepo StudentStore, staffRepo StaffStore, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		studentRepo:   studentRepo,
		staffRepo:     staffRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *AuthService) RegisterStudent(input RegisterStudentInput) (*model.Student, error) {
	name := strings.TrimSpace(input.Name)
	usn := strings.TrimSpace(input.Usn)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if name == "" || usn == "" || email == "" ||
		strings.TrimSpace(input.Batch) == "" ||
		strings.TrimSpace(input.Branch) == "" ||
		strings.TrimSpace(input.PassOutYear) == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.studentRepo.GetByEmailOrUsn(email, usn)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(usn), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash usn failed: %w", err)
	}

	student := &model.Student{
		Name:        name,
		Batch:       strings.TrimSpace(input.Batch),
		Usn:         usn,
		UsnHash:     string(hash),
		Email:       email,
		Branch:      strings.TrimSpace(input.Branch),
		PassOutYear: strings.TrimSpace(input.PassOutYear),
	}
	if err := s.studentRepo.Create(student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *AuthService) RegisterStaff(input RegisterStaffInput) (*model.Staff, error) {
	name := strings.TrimSpace(input.Name)
	uniqueID := strings.TrimSpace(input.UniqueID)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if name == "" || uniqueID == "" || email == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.staffRepo.GetByEmailOrUniqueID(email, uniqueID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uniqueID), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash unique id failed: %w", err)
	}

	staff := &model.Staff{
		Name:         name,
		UniqueID:     uniqueID,
		UniqueIDHash: string(hash),
		Email:        email,
	}
	if err := s.staffRepo.Create(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// Login checks the student table first and falls back to staff, matching
// the registration split. The identifier is verified against the stored
// bcrypt hash.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	identifier := strings.TrimSpace(input.Identifier)
	if email == "" || identifier == "" {
		return nil, ErrInvalidInput
	}

	student, err := s.studentRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if student != nil {
		if bcrypt.CompareHashAndPassword([]byte(student.UsnHash), []byte(identifier)) == nil {
			return s.issueToken(email, UserTypeStudent, student.Name)
		}
	}

	staff, err := s.staffRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if staff != nil {
		if bcrypt.CompareHashAndPassword([]byte(staff.UniqueIDHash), []byte(identifier)) == nil {
			return s.issueToken(email, UserTypeStaff, staff.Name)
		}
	}

	return nil, ErrInvalidCredential
}

func (s *AuthService) issueToken(email, userType, name string) (*LoginResult, error) {
	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, email, userType)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:    token,
		Email:    email,
		UserType: userType,
		Name:     name,
	}, nil
}
