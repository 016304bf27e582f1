package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/fetalrisk/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type memoryUserRepo struct {
	users    []models.User
	patients *memoryPatientRepo
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{patients: newMemoryPatientRepo()}
}

func (repo *memoryUserRepo) ExistsByNormalizedEmail(email string) (bool, error) {
	_, err := repo.FindByNormalizedEmail(email)
	return err == nil, nil
}

func (repo *memoryUserRepo) FindByNormalizedEmail(email string) (models.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (repo *memoryUserRepo) FindByID(userID uint) (models.User, error) {
	for _, user := range repo.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (repo *memoryUserRepo) CreateWithPatient(user *models.User, patient *models.Patient) error {
	user.ID = uint(len(repo.users) + 1)
	repo.users = append(repo.users, *user)
	patient.UserID = user.ID
	return repo.patients.Create(patient)
}

func (repo *memoryUserRepo) UpdatePassword(userID uint, passwordHash string) error {
	for index := range repo.users {
		if repo.users[index].ID == userID {
			repo.users[index].PasswordHash = passwordHash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func validRegistration() RegistrationInput {
	return RegistrationInput{
		Name:                 "Asha",
		Email:                " Asha@Example.com ",
		Password:             "sunrise2026",
		PasswordConfirmation: "sunrise2026",
		Age:                  intPtr(29),
		GestationWeeks:       intPtr(24),
		ContactNumber:        " +15550003 ",
	}
}

func TestRegisterCreatesUserAndPatient(t *testing.T) {
	users := newMemoryUserRepo()
	service := NewAuthService(users, users.patients)

	user, patient, err := service.Register(validRegistration())
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if user.Email != "asha@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if patient.UserID != user.ID || patient.Name != "Asha" || patient.ContactNumber != "+15550003" {
		t.Fatalf("unexpected patient %#v", patient)
	}
	if patient.GestationWeeks == nil || *patient.GestationWeeks != 24 {
		t.Fatalf("expected gestation weeks to be copied, got %v", patient.GestationWeeks)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("sunrise2026")) != nil {
		t.Fatal("expected bcrypt hash of the password")
	}

	patientID, err := service.PatientIDForUser(user.ID)
	if err != nil || patientID == nil || *patientID != patient.ID {
		t.Fatalf("PatientIDForUser() = %v, %v", patientID, err)
	}
}

func TestRegisterCollectsValidationMessages(t *testing.T) {
	users := newMemoryUserRepo()
	service := NewAuthService(users, users.patients)
	if _, _, err := service.Register(validRegistration()); err != nil {
		t.Fatalf("first Register() unexpected error: %v", err)
	}

	input := validRegistration()
	input.Name = " "
	input.PasswordConfirmation = "different1"
	input.Age = intPtr(5)

	_, _, err := service.Register(input)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	want := map[string]bool{
		"Name can't be blank":                         false,
		"Email has already been taken":                false,
		"Password confirmation doesn't match Password": false,
		"Age must be between 10 and 70":               false,
	}
	for _, message := range validation.Messages {
		if _, ok := want[message]; ok {
			want[message] = true
		}
	}
	for message, seen := range want {
		if !seen {
			t.Fatalf("expected message %q in %v", message, validation.Messages)
		}
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	users := newMemoryUserRepo()
	service := NewAuthService(users, users.patients)

	input := validRegistration()
	input.Password = "password"
	input.PasswordConfirmation = "password"
	if _, _, err := service.Register(input); err == nil {
		t.Fatal("expected weak password to be rejected")
	}
	if len(users.users) != 0 {
		t.Fatalf("expected no user stored")
	}
}

func TestAuthenticate(t *testing.T) {
	users := newMemoryUserRepo()
	service := NewAuthService(users, users.patients)
	if _, _, err := service.Register(validRegistration()); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if _, err := service.Authenticate("ASHA@example.com", "sunrise2026"); err != nil {
		t.Fatalf("Authenticate() unexpected error: %v", err)
	}
	for _, tc := range []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "asha@example.com", password: "sunset2026"},
		{name: "unknown email", email: "nobody@example.com", password: "sunrise2026"},
		{name: "blank", email: "", password: ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Authenticate(tc.email, tc.password); !errors.Is(err, ErrAuthCredentialsInvalid) {
				t.Fatalf("expected ErrAuthCredentialsInvalid, got %v", err)
			}
		})
	}
}

func TestResetPasswordReplacesHash(t *testing.T) {
	users := newMemoryUserRepo()
	service := NewAuthService(users, users.patients)
	if _, _, err := service.Register(validRegistration()); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	temporary, err := service.ResetPassword("asha@example.com")
	if err != nil {
		t.Fatalf("ResetPassword() unexpected error: %v", err)
	}
	if ValidatePasswordStrength(temporary) != nil {
		t.Fatalf("temporary password %q does not satisfy the policy", temporary)
	}
	if _, err := service.Authenticate("asha@example.com", temporary); err != nil {
		t.Fatalf("expected login with temporary password, got %v", err)
	}
	if _, err := service.Authenticate("asha@example.com", "sunrise2026"); err == nil {
		t.Fatal("expected old password to stop working")
	}

	if _, err := service.ResetPassword("missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSetPasswordValidatesStrength(t *testing.T) {
	users := newMemoryUserRepo()
	service := NewAuthService(users, users.patients)
	if _, _, err := service.Register(validRegistration()); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if err := service.SetPassword("asha@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := service.SetPassword("missing@example.com", "moonlight2026"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := service.SetPassword("ASHA@example.com", "moonlight2026"); err != nil {
		t.Fatalf("SetPassword() unexpected error: %v", err)
	}
	if _, err := service.Authenticate("asha@example.com", "moonlight2026"); err != nil {
		t.Fatalf("expected login with new password, got %v", err)
	}
}
