package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/fetalrisk/internal/models"
	"gorm.io/gorm"
)

type PatientRepository interface {
	FindByID(patientID uint) (models.Patient, error)
	FindByUserID(userID uint) (models.Patient, error)
	Create(patient *models.Patient) error
	Save(patient *models.Patient) error
}

// PatientInput is a partial update; nil fields are left unchanged.
type PatientInput struct {
	Name           *string
	Age            *int
	GestationWeeks *int
	Gravida        *int
	ContactNumber  *string
	Email          *string
}

type PatientService struct {
	patients PatientRepository
}

func NewPatientService(patients PatientRepository) *PatientService {
	return &PatientService{patients: patients}
}

// AuthorizePatient loads a patient for a patient-scoped route. Unknown ids
// yield ErrPatientNotFound and other users' patients ErrPatientForbidden.
func (service *PatientService) AuthorizePatient(userID uint, patientID uint) (models.Patient, error) {
	patient, err := service.patients.FindByID(patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Patient{}, ErrPatientNotFound
		}
		return models.Patient{}, fmt.Errorf("load patient: %w", err)
	}
	if patient.UserID != userID {
		return models.Patient{}, ErrPatientForbidden
	}
	return patient, nil
}

// FindOwned hides other users' patients entirely.
func (service *PatientService) FindOwned(userID uint, patientID uint) (models.Patient, error) {
	patient, err := service.AuthorizePatient(userID, patientID)
	if errors.Is(err, ErrPatientForbidden) {
		return models.Patient{}, ErrPatientNotFound
	}
	return patient, err
}

func (service *PatientService) FindForUser(userID uint) (models.Patient, error) {
	patient, err := service.patients.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Patient{}, ErrPatientNotFound
		}
		return models.Patient{}, fmt.Errorf("load patient: %w", err)
	}
	return patient, nil
}

func (service *PatientService) ListForUser(userID uint) ([]models.Patient, error) {
	patient, err := service.FindForUser(userID)
	if errors.Is(err, ErrPatientNotFound) {
		return []models.Patient{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []models.Patient{patient}, nil
}

// Upsert creates the user's patient or, since a user owns exactly one,
// replaces the fields of the existing one. created reports which happened.
func (service *PatientService) Upsert(userID uint, input PatientInput) (models.Patient, bool, error) {
	patient, err := service.FindForUser(userID)
	switch {
	case errors.Is(err, ErrPatientNotFound):
		patient = models.Patient{UserID: userID}
		applyPatientInput(&patient, input)
		if err := validatePatient(patient); err != nil {
			return models.Patient{}, false, err
		}
		if err := service.patients.Create(&patient); err != nil {
			return models.Patient{}, false, fmt.Errorf("create patient: %w", err)
		}
		return patient, true, nil
	case err != nil:
		return models.Patient{}, false, err
	}

	applyPatientInput(&patient, input)
	if err := validatePatient(patient); err != nil {
		return models.Patient{}, false, err
	}
	if err := service.patients.Save(&patient); err != nil {
		return models.Patient{}, false, fmt.Errorf("save patient: %w", err)
	}
	return patient, false, nil
}

func (service *PatientService) Update(userID uint, patientID uint, input PatientInput) (models.Patient, error) {
	patient, err := service.FindOwned(userID, patientID)
	if err != nil {
		return models.Patient{}, err
	}

	applyPatientInput(&patient, input)
	if err := validatePatient(patient); err != nil {
		return models.Patient{}, err
	}
	if err := service.patients.Save(&patient); err != nil {
		return models.Patient{}, fmt.Errorf("save patient: %w", err)
	}
	return patient, nil
}

func applyPatientInput(patient *models.Patient, input PatientInput) {
	if input.Name != nil {
		patient.Name = strings.TrimSpace(*input.Name)
	}
	if input.Age != nil {
		patient.Age = input.Age
	}
	if input.GestationWeeks != nil {
		patient.GestationWeeks = input.GestationWeeks
	}
	if input.Gravida != nil {
		patient.Gravida = input.Gravida
	}
	if input.ContactNumber != nil {
		patient.ContactNumber = strings.TrimSpace(*input.ContactNumber)
	}
	if input.Email != nil {
		patient.Email = strings.TrimSpace(*input.Email)
	}
}

func validatePatient(patient models.Patient) error {
	var problems validationCollector
	if patient.Name == "" {
		problems.add("Name can't be blank")
	}
	validateOptionalRange(&problems, "Age", patient.Age, 10, 70)
	validateOptionalRange(&problems, "Gestation weeks", patient.GestationWeeks, 0, 45)
	validateOptionalRange(&problems, "Gravida", patient.Gravida, 0, 20)
	if patient.Email != "" && NormalizeAuthEmail(patient.Email) == "" {
		problems.add("Email is invalid")
	}
	return problems.err()
}
