package services

import (
	"time"

	"github.com/terraincognita07/fetalrisk/internal/models"
)

// ReadingInput is a submitted vitals snapshot. Every field is optional.
type ReadingInput struct {
	MaternalHR         *int
	SystolicBP         *int
	DiastolicBP        *int
	FetalHR            *int
	FetalMovementCount *int
	SpO2               *int
	Temperature        *float64
	RecordedAt         *time.Time
}

type intBounds struct {
	label string
	value *int
	lower int
	upper int
}

// ValidateReadingInput rejects physically impossible values. Clinically
// abnormal values are accepted; classifying them is the predictor's job.
func ValidateReadingInput(input ReadingInput) error {
	var problems validationCollector
	for _, bounds := range []intBounds{
		{label: "Maternal hr", value: input.MaternalHR, lower: 0, upper: 300},
		{label: "Systolic bp", value: input.SystolicBP, lower: 0, upper: 300},
		{label: "Diastolic bp", value: input.DiastolicBP, lower: 0, upper: 250},
		{label: "Fetal hr", value: input.FetalHR, lower: 0, upper: 300},
		{label: "Fetal movement count", value: input.FetalMovementCount, lower: 0, upper: 1000},
		{label: "Spo2", value: input.SpO2, lower: 0, upper: 100},
	} {
		validateOptionalRange(&problems, bounds.label, bounds.value, bounds.lower, bounds.upper)
	}
	if input.Temperature != nil && (*input.Temperature < 25 || *input.Temperature > 45) {
		problems.add("Temperature must be between 25 and 45")
	}
	return problems.err()
}

func (input ReadingInput) toReading(patientID uint, now time.Time) models.Reading {
	recordedAt := now.UTC()
	if input.RecordedAt != nil && !input.RecordedAt.IsZero() {
		recordedAt = input.RecordedAt.UTC()
	}
	return models.Reading{
		PatientID:          patientID,
		MaternalHR:         input.MaternalHR,
		SystolicBP:         input.SystolicBP,
		DiastolicBP:        input.DiastolicBP,
		FetalHR:            input.FetalHR,
		FetalMovementCount: input.FetalMovementCount,
		SpO2:               input.SpO2,
		Temperature:        input.Temperature,
		RecordedAt:         recordedAt,
	}
}
