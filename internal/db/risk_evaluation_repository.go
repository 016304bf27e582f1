package db

import (
	"github.com/terraincognita07/fetalrisk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RiskEvaluationRepository struct {
	database *gorm.DB
}

func NewRiskEvaluationRepository(database *gorm.DB) *RiskEvaluationRepository {
	return &RiskEvaluationRepository{database: database}
}

func (repo *RiskEvaluationRepository) Create(evaluation *models.RiskEvaluation) error {
	return repo.database.Omit(clause.Associations).Create(evaluation).Error
}

func (repo *RiskEvaluationRepository) CountForReading(readingID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.RiskEvaluation{}).
		Where("reading_id = ?", readingID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Latest returns the newest evaluation with its reading. gorm.ErrRecordNotFound
// means the patient has none yet.
func (repo *RiskEvaluationRepository) Latest(patientID uint) (models.RiskEvaluation, error) {
	var evaluation models.RiskEvaluation
	if err := repo.database.
		Preload("Reading").
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		First(&evaluation).Error; err != nil {
		return models.RiskEvaluation{}, err
	}
	return evaluation, nil
}

// ListRecent returns up to limit evaluations, newest first.
func (repo *RiskEvaluationRepository) ListRecent(patientID uint, limit int) ([]models.RiskEvaluation, error) {
	evaluations := make([]models.RiskEvaluation, 0)
	if err := repo.database.
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&evaluations).Error; err != nil {
		return nil, err
	}
	return evaluations, nil
}

// ListWithReadings returns every evaluation oldest first with readings preloaded.
func (repo *RiskEvaluationRepository) ListWithReadings(patientID uint) ([]models.RiskEvaluation, error) {
	evaluations := make([]models.RiskEvaluation, 0)
	if err := repo.database.
		Preload("Reading").
		Where("patient_id = ?", patientID).
		Order("created_at ASC, id ASC").
		Find(&evaluations).Error; err != nil {
		return nil, err
	}
	return evaluations, nil
}
