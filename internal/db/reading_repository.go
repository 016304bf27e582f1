package db

import (
	"github.com/terraincognita07/fetalrisk/internal/models"
	"gorm.io/gorm"
)

type ReadingRepository struct {
	database *gorm.DB
}

func NewReadingRepository(database *gorm.DB) *ReadingRepository {
	return &ReadingRepository{database: database}
}

func (repo *ReadingRepository) Create(reading *models.Reading) error {
	return repo.database.Create(reading).Error
}

// ListRecent returns up to limit readings, newest recorded_at first.
func (repo *ReadingRepository) ListRecent(patientID uint, limit int) ([]models.Reading, error) {
	readings := make([]models.Reading, 0)
	if err := repo.database.
		Where("patient_id = ?", patientID).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}
