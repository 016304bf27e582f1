package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/terraincognita07/fetalrisk/internal/models"
	"github.com/terraincognita07/fetalrisk/internal/security"
)

const (
	SimulationModeCritical = "critical"

	simulatedCriticalScore  = 0.95
	simulatedCriticalReason = "Simulated critical scenario for demo: severe hypertension, hypoxia, abnormal fetal heart rate, and fever."
)

type SimulationService struct {
	evaluations *RiskEvaluationService
	randomInt   func(lower int, upper int) (int, error)
}

func NewSimulationService(evaluations *RiskEvaluationService) *SimulationService {
	return &SimulationService{evaluations: evaluations, randomInt: security.RandomIntInRange}
}

// Simulate stores a synthetic reading. Mode "critical" uses fixed dangerous
// vitals and forces a critical evaluation; anything else draws normal-ish
// random vitals and keeps the predicted outcome.
func (service *SimulationService) Simulate(ctx context.Context, user models.User, patient models.Patient, mode string) (models.Reading, models.RiskEvaluation, error) {
	if strings.EqualFold(strings.TrimSpace(mode), SimulationModeCritical) {
		override := &EvaluationOverride{
			RiskLevel: models.RiskLevelCritical,
			RiskScore: simulatedCriticalScore,
			Reason:    simulatedCriticalReason,
		}
		return service.evaluations.recordReading(ctx, user, patient, criticalReadingInput(), override)
	}

	input, err := service.randomReadingInput()
	if err != nil {
		return models.Reading{}, models.RiskEvaluation{}, fmt.Errorf("generate simulated vitals: %w", err)
	}
	return service.evaluations.recordReading(ctx, user, patient, input, nil)
}

func criticalReadingInput() ReadingInput {
	maternalHR, systolic, diastolic := 135, 180, 115
	fetalHR, movements, spo2 := 90, 0, 85
	temperature := 39.2
	return ReadingInput{
		MaternalHR:         &maternalHR,
		SystolicBP:         &systolic,
		DiastolicBP:        &diastolic,
		FetalHR:            &fetalHR,
		FetalMovementCount: &movements,
		SpO2:               &spo2,
		Temperature:        &temperature,
	}
}

func (service *SimulationService) randomReadingInput() (ReadingInput, error) {
	ranges := []struct {
		lower, upper int
	}{
		{70, 110},  // maternal hr
		{100, 150}, // systolic
		{60, 95},   // diastolic
		{110, 170}, // fetal hr
		{0, 30},    // movements
		{94, 100},  // spo2
		{365, 378}, // temperature, tenths of a degree
	}

	values := make([]int, len(ranges))
	for index, bounds := range ranges {
		value, err := service.randomInt(bounds.lower, bounds.upper)
		if err != nil {
			return ReadingInput{}, err
		}
		values[index] = value
	}

	temperature := float64(values[6]) / 10
	return ReadingInput{
		MaternalHR:         &values[0],
		SystolicBP:         &values[1],
		DiastolicBP:        &values[2],
		FetalHR:            &values[3],
		FetalMovementCount: &values[4],
		SpO2:               &values[5],
		Temperature:        &temperature,
	}, nil
}
