package db

import (
	"github.com/terraincognita07/fetalrisk/internal/models"
	"gorm.io/gorm"
)

type PatientRepository struct {
	database *gorm.DB
}

func NewPatientRepository(database *gorm.DB) *PatientRepository {
	return &PatientRepository{database: database}
}

func (repo *PatientRepository) FindByID(patientID uint) (models.Patient, error) {
	var patient models.Patient
	if err := repo.database.First(&patient, patientID).Error; err != nil {
		return models.Patient{}, err
	}
	return patient, nil
}

func (repo *PatientRepository) FindByUserID(userID uint) (models.Patient, error) {
	var patient models.Patient
	if err := repo.database.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return models.Patient{}, err
	}
	return patient, nil
}

func (repo *PatientRepository) Create(patient *models.Patient) error {
	return repo.database.Create(patient).Error
}

func (repo *PatientRepository) Save(patient *models.Patient) error {
	return repo.database.Save(patient).Error
}
