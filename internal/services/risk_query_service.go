package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/models"
	"gorm.io/gorm"
)

const (
	readingListLimit    = 100
	riskHistoryLimit    = 200
	noEvaluationsReason = "No risk evaluations yet for this patient."
)

// CurrentRisk is the latest evaluation with its reading. Level and score are
// nil when the patient has no evaluations.
type CurrentRisk struct {
	ID        *uint           `json:"id,omitempty"`
	RiskLevel *string         `json:"risk_level"`
	RiskScore *float64        `json:"risk_score"`
	Reason    string          `json:"reason"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	Reading   *models.Reading `json:"reading,omitempty"`
}

type RiskQueryService struct {
	readings    ReadingRepository
	evaluations RiskEvaluationRepository
	now         func() time.Time
}

func NewRiskQueryService(readings ReadingRepository, evaluations RiskEvaluationRepository) *RiskQueryService {
	return &RiskQueryService{readings: readings, evaluations: evaluations, now: time.Now}
}

func (service *RiskQueryService) ListReadings(patientID uint) ([]models.Reading, error) {
	return service.readings.ListRecent(patientID, readingListLimit)
}

func (service *RiskQueryService) CurrentRisk(patientID uint) (CurrentRisk, error) {
	evaluation, err := service.evaluations.Latest(patientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CurrentRisk{Reason: noEvaluationsReason}, nil
	}
	if err != nil {
		return CurrentRisk{}, fmt.Errorf("load latest evaluation: %w", err)
	}

	return CurrentRisk{
		ID:        &evaluation.ID,
		RiskLevel: &evaluation.RiskLevel,
		RiskScore: evaluation.RiskScore,
		Reason:    evaluation.Reason,
		CreatedAt: &evaluation.CreatedAt,
		UpdatedAt: &evaluation.UpdatedAt,
		Reading:   evaluation.Reading,
	}, nil
}

func (service *RiskQueryService) History(patientID uint) ([]models.RiskEvaluation, error) {
	return service.evaluations.ListRecent(patientID, riskHistoryLimit)
}

func (service *RiskQueryService) Forecast(patientID uint) (RiskForecast, error) {
	recent, err := service.evaluations.ListRecent(patientID, forecastWindow)
	if err != nil {
		return RiskForecast{}, fmt.Errorf("load recent evaluations: %w", err)
	}

	ascending := make([]models.RiskEvaluation, len(recent))
	for index, evaluation := range recent {
		ascending[len(recent)-1-index] = evaluation
	}
	return BuildRiskForecast(patientID, ascending, service.now()), nil
}
