package db

import (
	"github.com/terraincognita07/fetalrisk/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GamificationRepository struct {
	database *gorm.DB
}

func NewGamificationRepository(database *gorm.DB) *GamificationRepository {
	return &GamificationRepository{database: database}
}

// FindOrCreate loads the ledger for (user, patient), creating an empty one on
// first access.
func (repo *GamificationRepository) FindOrCreate(userID uint, patientID *uint) (models.Gamification, error) {
	var gamification models.Gamification

	query := repo.database.Where("user_id = ?", userID)
	if patientID == nil {
		query = query.Where("patient_id IS NULL")
	} else {
		query = query.Where("patient_id = ?", *patientID)
	}

	err := query.Attrs(models.Gamification{
		UserID:    userID,
		PatientID: patientID,
		Badges:    datatypes.JSONSlice[string]{},
	}).FirstOrCreate(&gamification).Error
	if err != nil {
		return models.Gamification{}, err
	}
	if gamification.Badges == nil {
		gamification.Badges = datatypes.JSONSlice[string]{}
	}
	return gamification, nil
}

func (repo *GamificationRepository) Save(gamification *models.Gamification) error {
	return repo.database.Save(gamification).Error
}
