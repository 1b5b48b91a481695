package app

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"campus-assist/internal/model"
	"campus-assist/internal/pkg/jwtutil"
)

type memStudentStore struct {
	students []*model.Student
}

func (s *memStudentStore) Create(student *model.Student) error {
	s.students = append(s.students, student)
	return nil
}

func (s *memStudentStore) GetByEmail(email string) (*model.Student, error) {
	for _, st := range s.students {
		if st.Email == email {
			return st, nil
		}
	}
	return nil, nil
}

func (s *memStudentStore) GetByEmailOrUsn(email, usn string) (*model.Student, error) {
	for _, st := range s.students {
		if st.Email == email || st.Usn == usn {
			return st, nil
		}
	}
	return nil, nil
}

var _ StudentStore = (*memStudentStore)(nil)

type memStaffStore struct {
	staff []*model.Staff
}

func (s *memStaffStore) Create(staff *model.Staff) error {
	s.staff = append(s.staff, staff)
	return nil
}

func (s *memStaffStore) GetByEmail(email string) (*model.Staff, error) {
	for _, st := range s.staff {
		if st.Email == email {
			return st, nil
		}
	}
	return nil, nil
}

func (s *memStaffStore) GetByEmailOrUniqueID(email, uniqueID string) (*model.Staff, error) {
	for _, st := range s.staff {
		if st.Email == email || st.UniqueID == uniqueID {
			return st, nil
		}
	}
	return nil, nil
}

var _ StaffStore = (*memStaffStore)(nil)

func newTestAuthService() (*AuthService, *memStudentStore, *memStaffStore) {
	students := &memStudentStore{}
	staff := &memStaffStore{}
	return NewAuthService(students, staff, "test-secret", 30*time.Minute), students, staff
}

func validStudentInput() RegisterStudentInput {
	return RegisterStudentInput{
		Name:        "Asha Kulkarni",
		Batch:       "2022",
		Usn:         "2GI22CS001",
		Email:       "asha@example.edu",
		Branch:      "CSE",
		PassOutYear: "2026",
	}
}

func TestRegisterStudentHashesIdentifier(t *testing.T) {
	svc, students, _ := newTestAuthService()

	student, err := svc.RegisterStudent(validStudentInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(students.students) != 1 {
		t.Fatalf("expected 1 stored student, got %d", len(students.students))
	}
	if student.UsnHash == student.Usn {
		t.Fatal("usn must not be stored as its own hash")
	}
	if bcrypt.CompareHashAndPassword([]byte(student.UsnHash), []byte("2GI22CS001")) != nil {
		t.Fatal("stored hash must verify against the usn")
	}
}

func TestRegisterStudentDuplicate(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.RegisterStudent(validStudentInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RegisterStudent(validStudentInput()); !errors.Is(err, ErrDuplicateCredential) {
		t.Fatalf("expected ErrDuplicateCredential, got %v", err)
	}
}

func TestRegisterStudentMissingFields(t *testing.T) {
	svc, _, _ := newTestAuthService()

	input := validStudentInput()
	input.Branch = "  "
	if _, err := svc.RegisterStudent(input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterStaffDuplicateUniqueID(t *testing.T) {
	svc, _, _ := newTestAuthService()

	first := RegisterStaffInput{Name: "Ravi", UniqueID: "STF-42", Email: "ravi@example.edu"}
	if _, err := svc.RegisterStaff(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := RegisterStaffInput{Name: "Meera", UniqueID: "STF-42", Email: "meera@example.edu"}
	if _, err := svc.RegisterStaff(second); !errors.Is(err, ErrDuplicateCredential) {
		t.Fatalf("expected ErrDuplicateCredential, got %v", err)
	}
}

func TestLoginStudentSuccess(t *testing.T) {
	svc, _, _ := newTestAuthService()
	if _, err := svc.RegisterStudent(validStudentInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Login(LoginInput{Email: "asha@example.edu", Identifier: "2GI22CS001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UserType != UserTypeStudent {
		t.Fatalf("expected student user type, got %q", result.UserType)
	}

	claims, err := jwtutil.ParseToken("test-secret", result.Token)
	if err != nil {
		t.Fatalf("issued token must parse: %v", err)
	}
	if claims.Email != "asha@example.edu" || claims.UserType != UserTypeStudent {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginStaffSuccess(t *testing.T) {
	svc, _, _ := newTestAuthService()
	input := RegisterStaffInput{Name: "Ravi", UniqueID: "STF-42", Email: "ravi@example.edu"}
	if _, err := svc.RegisterStaff(input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Login(LoginInput{Email: "ravi@example.edu", Identifier: "STF-42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UserType != UserTypeStaff {
		t.Fatalf("expected staff user type, got %q", result.UserType)
	}
}

func TestLoginWrongIdentifier(t *testing.T) {
	svc, _, _ := newTestAuthService()
	if _, err := svc.RegisterStudent(validStudentInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Login(LoginInput{Email: "asha@example.edu", Identifier: "WRONG-USN"})
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Login(LoginInput{Email: "nobody@example.edu", Identifier: "X"})
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestAuthService()
	if _, err := svc.RegisterStudent(validStudentInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login(LoginInput{Email: "Asha@Example.edu", Identifier: "2GI22CS001"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
