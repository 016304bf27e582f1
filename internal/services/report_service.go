package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/models"
	"github.com/terraincognita07/fetalrisk/internal/report"
)

var ErrReportFailed = errors.New("failed to generate report")

type ReportService struct {
	evaluations RiskEvaluationRepository
	location    *time.Location
	render      func(report.Input) ([]byte, error)
	now         func() time.Time
}

func NewReportService(evaluations RiskEvaluationRepository, location *time.Location) *ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{evaluations: evaluations, location: location, render: report.Render, now: time.Now}
}

// Build renders the patient's PDF report. Every failure is wrapped in
// ErrReportFailed.
func (service *ReportService) Build(patient models.Patient) ([]byte, string, error) {
	evaluations, err := service.evaluations.ListWithReadings(patient.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: load evaluations: %v", ErrReportFailed, err)
	}

	document, err := service.render(report.Input{
		Patient:     patient,
		Evaluations: evaluations,
		GeneratedAt: service.now(),
		Location:    service.location,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrReportFailed, err)
	}
	return document, report.Filename(patient.ID), nil
}
