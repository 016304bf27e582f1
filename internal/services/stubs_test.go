package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/llm"
	"github.com/terraincognita07/fetalrisk/internal/models"
	"github.com/terraincognita07/fetalrisk/internal/notify"
	"github.com/terraincognita07/fetalrisk/internal/predictor"
	"gorm.io/gorm"
)

type memoryReadingRepo struct {
	readings  []models.Reading
	createErr error
}

func (repo *memoryReadingRepo) Create(reading *models.Reading) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	reading.ID = uint(len(repo.readings) + 1)
	repo.readings = append(repo.readings, *reading)
	return nil
}

func (repo *memoryReadingRepo) ListRecent(patientID uint, limit int) ([]models.Reading, error) {
	result := make([]models.Reading, 0)
	for index := len(repo.readings) - 1; index >= 0 && len(result) < limit; index-- {
		if repo.readings[index].PatientID == patientID {
			result = append(result, repo.readings[index])
		}
	}
	return result, nil
}

type memoryEvaluationRepo struct {
	evaluations []models.RiskEvaluation
	createErr   error
	listErr     error
}

func (repo *memoryEvaluationRepo) Create(evaluation *models.RiskEvaluation) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	evaluation.ID = uint(len(repo.evaluations) + 1)
	evaluation.CreatedAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC).Add(time.Duration(evaluation.ID) * time.Hour)
	repo.evaluations = append(repo.evaluations, *evaluation)
	return nil
}

func (repo *memoryEvaluationRepo) Latest(patientID uint) (models.RiskEvaluation, error) {
	recent, _ := repo.ListRecent(patientID, 1)
	if len(recent) == 0 {
		return models.RiskEvaluation{}, gorm.ErrRecordNotFound
	}
	return recent[0], nil
}

func (repo *memoryEvaluationRepo) ListRecent(patientID uint, limit int) ([]models.RiskEvaluation, error) {
	if repo.listErr != nil {
		return nil, repo.listErr
	}
	result := make([]models.RiskEvaluation, 0)
	for index := len(repo.evaluations) - 1; index >= 0 && len(result) < limit; index-- {
		if repo.evaluations[index].PatientID == patientID {
			result = append(result, repo.evaluations[index])
		}
	}
	return result, nil
}

func (repo *memoryEvaluationRepo) ListWithReadings(patientID uint) ([]models.RiskEvaluation, error) {
	if repo.listErr != nil {
		return nil, repo.listErr
	}
	result := make([]models.RiskEvaluation, 0)
	for _, evaluation := range repo.evaluations {
		if evaluation.PatientID == patientID {
			result = append(result, evaluation)
		}
	}
	return result, nil
}

type memoryPatientRepo struct {
	patients map[uint]models.Patient
}

func newMemoryPatientRepo(patients ...models.Patient) *memoryPatientRepo {
	repo := &memoryPatientRepo{patients: map[uint]models.Patient{}}
	for _, patient := range patients {
		repo.patients[patient.ID] = patient
	}
	return repo
}

func (repo *memoryPatientRepo) FindByID(patientID uint) (models.Patient, error) {
	patient, ok := repo.patients[patientID]
	if !ok {
		return models.Patient{}, gorm.ErrRecordNotFound
	}
	return patient, nil
}

func (repo *memoryPatientRepo) FindByUserID(userID uint) (models.Patient, error) {
	for _, patient := range repo.patients {
		if patient.UserID == userID {
			return patient, nil
		}
	}
	return models.Patient{}, gorm.ErrRecordNotFound
}

func (repo *memoryPatientRepo) Create(patient *models.Patient) error {
	patient.ID = uint(len(repo.patients) + 1)
	repo.patients[patient.ID] = *patient
	return nil
}

func (repo *memoryPatientRepo) Save(patient *models.Patient) error {
	repo.patients[patient.ID] = *patient
	return nil
}

type staticRiskPredictor struct {
	evaluation predictor.Evaluation
	calls      int
}

func (stub *staticRiskPredictor) Evaluate(context.Context, predictor.Vitals) predictor.Evaluation {
	stub.calls++
	return stub.evaluation
}

type failingPredictor struct{}

func (failingPredictor) Predict(context.Context, predictor.Payload) (predictor.Result, error) {
	return predictor.Result{}, errors.New("connection refused")
}

type recordingAlerts struct {
	mu     sync.Mutex
	alerts []notify.Alert
}

func (recorder *recordingAlerts) Dispatch(_ context.Context, alert notify.Alert) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.alerts = append(recorder.alerts, alert)
}

type stubChat struct {
	enabled  bool
	content  string
	err      error
	requests []llm.ChatRequest
}

func (stub *stubChat) Enabled() bool {
	return stub.enabled
}

func (stub *stubChat) Complete(_ context.Context, request llm.ChatRequest) (string, error) {
	stub.requests = append(stub.requests, request)
	return stub.content, stub.err
}

func intPtr(value int) *int {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}

func stringPtr(value string) *string {
	return &value
}
