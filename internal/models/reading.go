package models

import "time"

// Reading is one vitals snapshot. Every measurement is optional; the predictor
// boundary substitutes defaults for missing values.
type Reading struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	PatientID          uint      `gorm:"index;not null" json:"patient_id"`
	MaternalHR         *int      `json:"maternal_hr"`
	SystolicBP         *int      `json:"systolic_bp"`
	DiastolicBP        *int      `json:"diastolic_bp"`
	FetalHR            *int      `json:"fetal_hr"`
	FetalMovementCount *int      `json:"fetal_movement_count"`
	SpO2               *int      `gorm:"column:spo2" json:"spo2"`
	Temperature        *float64  `json:"temperature"`
	RecordedAt         time.Time `gorm:"not null" json:"recorded_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
