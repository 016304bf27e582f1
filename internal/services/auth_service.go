package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/models"
	"github.com/terraincognita07/fetalrisk/internal/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

var ErrUserNotFound = errors.New("user not found")

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	CreateWithPatient(user *models.User, patient *models.Patient) error
	UpdatePassword(userID uint, passwordHash string) error
}

type AuthPatientRepository interface {
	FindByUserID(userID uint) (models.Patient, error)
}

type RegistrationInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Age                  *int
	GestationWeeks       *int
	Gravida              *int
	ContactNumber        string
}

type AuthService struct {
	users    AuthUserRepository
	patients AuthPatientRepository
	now      func() time.Time
}

func NewAuthService(users AuthUserRepository, patients AuthPatientRepository) *AuthService {
	return &AuthService{users: users, patients: patients, now: time.Now}
}

// Register creates the user and the patient profile that mirrors it.
func (service *AuthService) Register(input RegistrationInput) (models.User, models.Patient, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeAuthEmail(input.Email)

	var problems validationCollector
	if name == "" {
		problems.add("Name can't be blank")
	}
	switch {
	case strings.TrimSpace(input.Email) == "":
		problems.add("Email can't be blank")
	case email == "":
		problems.add("Email is invalid")
	default:
		exists, err := service.users.ExistsByNormalizedEmail(email)
		if err != nil {
			return models.User{}, models.Patient{}, fmt.Errorf("check email uniqueness: %w", err)
		}
		if exists {
			problems.add("Email has already been taken")
		}
	}
	if input.Password == "" {
		problems.add("Password can't be blank")
	} else if err := ValidatePasswordStrength(input.Password); err != nil {
		problems.add("Password must be at least 8 characters and include a letter and a digit")
	}
	if input.PasswordConfirmation != "" && input.PasswordConfirmation != input.Password {
		problems.add("Password confirmation doesn't match Password")
	}
	validateOptionalRange(&problems, "Age", input.Age, 10, 70)
	validateOptionalRange(&problems, "Gestation weeks", input.GestationWeeks, 0, 45)
	validateOptionalRange(&problems, "Gravida", input.Gravida, 0, 20)
	if err := problems.err(); err != nil {
		return models.User{}, models.Patient{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, models.Patient{}, fmt.Errorf("hash password: %w", err)
	}

	contact := strings.TrimSpace(input.ContactNumber)
	user := models.User{
		Name:           name,
		Email:          email,
		PasswordHash:   string(passwordHash),
		Age:            input.Age,
		GestationWeeks: input.GestationWeeks,
		Gravida:        input.Gravida,
		ContactNumber:  contact,
		CreatedAt:      service.now().UTC(),
	}
	patient := models.Patient{
		Name:           name,
		Age:            input.Age,
		GestationWeeks: input.GestationWeeks,
		Gravida:        input.Gravida,
		ContactNumber:  contact,
		Email:          email,
	}
	if err := service.users.CreateWithPatient(&user, &patient); err != nil {
		return models.User{}, models.Patient{}, fmt.Errorf("create user: %w", err)
	}
	return user, patient, nil
}

// Authenticate returns ErrAuthCredentialsInvalid for unknown emails and wrong
// passwords alike.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthCredentialsInvalid
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

// PatientIDForUser returns nil when the user has no patient profile.
func (service *AuthService) PatientIDForUser(userID uint) (*uint, error) {
	patient, err := service.patients.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient.ID, nil
}

// ResetPassword replaces the password of the account with a random temporary
// one and returns it.
func (service *AuthService) ResetPassword(emailRaw string) (string, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return "", ErrAuthCredentialsInvalid
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	temporaryPassword, err := generateTemporaryPassword()
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	if err := service.storePassword(user.ID, temporaryPassword); err != nil {
		return "", err
	}
	return temporaryPassword, nil
}

// SetPassword replaces the password of the account with one chosen by an
// operator. The password must pass ValidatePasswordStrength.
func (service *AuthService) SetPassword(emailRaw string, password string) error {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return ErrAuthCredentialsInvalid
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return service.storePassword(user.ID, password)
}

func (service *AuthService) storePassword(userID uint, password string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(userID, string(passwordHash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// generateTemporaryPassword retries until the result satisfies
// ValidatePasswordStrength.
func generateTemporaryPassword() (string, error) {
	for {
		candidate, err := security.RandomString(14, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if ValidatePasswordStrength(candidate) == nil {
			return candidate, nil
		}
	}
}

func validateOptionalRange(problems *validationCollector, label string, value *int, lower int, upper int) {
	if value == nil {
		return
	}
	if *value < lower || *value > upper {
		problems.add(fmt.Sprintf("%s must be between %d and %d", label, lower, upper))
	}
}
