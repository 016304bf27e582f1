package services

import (
	"context"
	"fmt"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/models"
	"github.com/terraincognita07/fetalrisk/internal/notify"
	"github.com/terraincognita07/fetalrisk/internal/predictor"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ReadingRepository interface {
	Create(reading *models.Reading) error
	ListRecent(patientID uint, limit int) ([]models.Reading, error)
}

type RiskEvaluationRepository interface {
	Create(evaluation *models.RiskEvaluation) error
	Latest(patientID uint) (models.RiskEvaluation, error)
	ListRecent(patientID uint, limit int) ([]models.RiskEvaluation, error)
	ListWithReadings(patientID uint) ([]models.RiskEvaluation, error)
}

type RiskPredictor interface {
	Evaluate(ctx context.Context, vitals predictor.Vitals) predictor.Evaluation
}

type AlertDispatcher interface {
	Dispatch(ctx context.Context, alert notify.Alert)
}

type EvaluationObserver interface {
	ObserveReading()
	ObserveEvaluation(level string, fallback bool)
}

// EvaluationOverride replaces the predicted outcome before it is stored.
type EvaluationOverride struct {
	RiskLevel string
	RiskScore float64
	Reason    string
}

type RiskEvaluationService struct {
	readings    ReadingRepository
	evaluations RiskEvaluationRepository
	predictor   RiskPredictor
	alerts      AlertDispatcher
	observer    EvaluationObserver
	logger      *zap.Logger
	now         func() time.Time
}

func NewRiskEvaluationService(
	readings ReadingRepository,
	evaluations RiskEvaluationRepository,
	riskPredictor RiskPredictor,
	alerts AlertDispatcher,
	observer EvaluationObserver,
	logger *zap.Logger,
) *RiskEvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskEvaluationService{
		readings:    readings,
		evaluations: evaluations,
		predictor:   riskPredictor,
		alerts:      alerts,
		observer:    observer,
		logger:      logger,
		now:         time.Now,
	}
}

// RecordReading stores the reading and evaluates it. Predictor failures never
// surface here; only storage errors do.
func (service *RiskEvaluationService) RecordReading(ctx context.Context, user models.User, patient models.Patient, input ReadingInput) (models.Reading, models.RiskEvaluation, error) {
	return service.recordReading(ctx, user, patient, input, nil)
}

func (service *RiskEvaluationService) recordReading(ctx context.Context, user models.User, patient models.Patient, input ReadingInput, override *EvaluationOverride) (models.Reading, models.RiskEvaluation, error) {
	if err := ValidateReadingInput(input); err != nil {
		return models.Reading{}, models.RiskEvaluation{}, err
	}

	reading := input.toReading(patient.ID, service.now())
	if err := service.readings.Create(&reading); err != nil {
		return models.Reading{}, models.RiskEvaluation{}, fmt.Errorf("save reading: %w", err)
	}
	if service.observer != nil {
		service.observer.ObserveReading()
	}

	evaluation, err := service.evaluate(ctx, user, patient, reading, override)
	if err != nil {
		return reading, models.RiskEvaluation{}, err
	}
	return reading, evaluation, nil
}

func (service *RiskEvaluationService) evaluate(ctx context.Context, user models.User, patient models.Patient, reading models.Reading, override *EvaluationOverride) (models.RiskEvaluation, error) {
	outcome := service.predictor.Evaluate(ctx, predictor.VitalsFromReading(reading, patient))
	result := outcome.Result

	evaluation := models.RiskEvaluation{
		PatientID:    patient.ID,
		ReadingID:    reading.ID,
		RiskLevel:    result.RiskLevel,
		RiskScore:    result.RiskScore,
		Reason:       result.Reason,
		ModelVersion: result.ModelVersion,
		ModelDetails: datatypes.NewJSONType(result.ModelDetails()),
	}
	if override != nil {
		score := override.RiskScore
		evaluation.RiskLevel = override.RiskLevel
		evaluation.RiskScore = &score
		evaluation.Reason = override.Reason
	}

	if err := service.evaluations.Create(&evaluation); err != nil {
		return models.RiskEvaluation{}, fmt.Errorf("save risk evaluation: %w", err)
	}
	if service.observer != nil {
		service.observer.ObserveEvaluation(evaluation.RiskLevel, outcome.FellBack)
	}

	service.logger.Info("risk evaluation stored",
		zap.Uint("patient_id", patient.ID),
		zap.Uint("reading_id", reading.ID),
		zap.String("risk_level", evaluation.RiskLevel),
		zap.Bool("fallback", outcome.FellBack),
		zap.Bool("override", override != nil),
	)

	if service.alerts != nil {
		service.alerts.Dispatch(ctx, notify.Alert{
			User:       user,
			Patient:    patient,
			Reading:    reading,
			Evaluation: evaluation,
		})
	}

	evaluation.Reading = nil
	return evaluation, nil
}
