package predictor

import "github.com/terraincognita07/fetalrisk/internal/models"

const (
	DefaultAge                = 28
	DefaultMaternalHR         = 90
	DefaultSystolicBP         = 120
	DefaultDiastolicBP        = 80
	DefaultFetalHR            = 140
	DefaultFetalMovementCount = 10
	DefaultSpO2               = 98
	DefaultTemperature        = 37.0
	DefaultBloodSugar         = 7.0
)

// Vitals is a possibly incomplete measurement set. Missing values stay nil
// until WithDefaults resolves them.
type Vitals struct {
	Age                *int
	MaternalHR         *int
	SystolicBP         *int
	DiastolicBP        *int
	FetalHR            *int
	FetalMovementCount *int
	SpO2               *int
	Temperature        *float64
	BloodSugar         *float64
}

// Payload is the wire contract sent to every predictor.
type Payload struct {
	Age                int     `json:"age"`
	SystolicBP         int     `json:"systolic_bp"`
	DiastolicBP        int     `json:"diastolic_bp"`
	BloodSugar         float64 `json:"bs"`
	Temperature        float64 `json:"temperature"`
	MaternalHR         int     `json:"maternal_hr"`
	FetalHR            int     `json:"fetal_hr"`
	SpO2               int     `json:"spo2"`
	FetalMovementCount int     `json:"fetal_movement_count"`
}

func VitalsFromReading(reading models.Reading, patient models.Patient) Vitals {
	return Vitals{
		Age:                patient.Age,
		MaternalHR:         reading.MaternalHR,
		SystolicBP:         reading.SystolicBP,
		DiastolicBP:        reading.DiastolicBP,
		FetalHR:            reading.FetalHR,
		FetalMovementCount: reading.FetalMovementCount,
		SpO2:               reading.SpO2,
		Temperature:        reading.Temperature,
	}
}

func (vitals Vitals) WithDefaults() Payload {
	return Payload{
		Age:                intOr(vitals.Age, DefaultAge),
		SystolicBP:         intOr(vitals.SystolicBP, DefaultSystolicBP),
		DiastolicBP:        intOr(vitals.DiastolicBP, DefaultDiastolicBP),
		BloodSugar:         floatOr(vitals.BloodSugar, DefaultBloodSugar),
		Temperature:        floatOr(vitals.Temperature, DefaultTemperature),
		MaternalHR:         intOr(vitals.MaternalHR, DefaultMaternalHR),
		FetalHR:            intOr(vitals.FetalHR, DefaultFetalHR),
		SpO2:               intOr(vitals.SpO2, DefaultSpO2),
		FetalMovementCount: intOr(vitals.FetalMovementCount, DefaultFetalMovementCount),
	}
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func floatOr(value *float64, fallback float64) float64 {
	if value == nil {
		return fallback
	}
	return *value
}
