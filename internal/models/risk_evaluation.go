package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RiskLevelNormal   = "normal"
	RiskLevelWarning  = "warning"
	RiskLevelCritical = "critical"
)

func IsRiskLevel(level string) bool {
	switch level {
	case RiskLevelNormal, RiskLevelWarning, RiskLevelCritical:
		return true
	default:
		return false
	}
}

// ModelDetails holds the optional secondary outputs reported by the predictor.
type ModelDetails struct {
	MLRiskLevel                *string   `json:"ml_risk_level,omitempty"`
	MLClassProbabilities       []float64 `json:"ml_class_probabilities,omitempty"`
	MLLogRegRiskLevel          *string   `json:"ml_logreg_risk_level,omitempty"`
	MLLogRegClassProbabilities []float64 `json:"ml_logreg_class_probabilities,omitempty"`
}

type RiskEvaluation struct {
	ID           uint                             `gorm:"primaryKey" json:"id"`
	PatientID    uint                             `gorm:"index;not null" json:"patient_id"`
	ReadingID    uint                             `gorm:"uniqueIndex;not null" json:"reading_id"`
	RiskLevel    string                           `gorm:"not null" json:"risk_level"`
	RiskScore    *float64                         `json:"risk_score"`
	Reason       string                           `json:"reason"`
	ModelVersion string                           `json:"model_version,omitempty"`
	ModelDetails datatypes.JSONType[ModelDetails] `json:"model_details"`
	Reading      *Reading                         `gorm:"foreignKey:ReadingID" json:"reading,omitempty"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

// ScoreOr returns the stored score, or fallback when none was recorded.
func (evaluation RiskEvaluation) ScoreOr(fallback float64) float64 {
	if evaluation.RiskScore == nil {
		return fallback
	}
	return *evaluation.RiskScore
}
