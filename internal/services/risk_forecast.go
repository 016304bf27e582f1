package services

import (
	"math"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/models"
)

const (
	ForecastMethod         = "trend_extrapolation_v1"
	forecastWindow         = 12
	forecastMissingScore   = 0.1
	forecastWarningCutoff  = 0.35
	forecastCriticalCutoff = 0.7
)

var forecastHorizons = []int{1, 3, 6, 12}

type ForecastPoint struct {
	HorizonHours int       `json:"horizon_hours"`
	At           time.Time `json:"at"`
	RiskScore    float64   `json:"risk_score"`
	RiskLevel    string    `json:"risk_level"`
}

type RiskForecast struct {
	PatientID uint            `json:"patient_id"`
	BaseTime  time.Time       `json:"base_time"`
	Method    string          `json:"method"`
	Points    []ForecastPoint `json:"points"`
}

// BuildRiskForecast extrapolates the linear trend of the given evaluations,
// which must be ordered oldest first. Fewer than two evaluations produce no
// points.
func BuildRiskForecast(patientID uint, evaluations []models.RiskEvaluation, now time.Time) RiskForecast {
	if len(evaluations) > forecastWindow {
		evaluations = evaluations[len(evaluations)-forecastWindow:]
	}

	forecast := RiskForecast{
		PatientID: patientID,
		BaseTime:  now.UTC(),
		Method:    ForecastMethod,
		Points:    []ForecastPoint{},
	}
	if len(evaluations) == 0 {
		return forecast
	}
	forecast.BaseTime = evaluations[len(evaluations)-1].CreatedAt.UTC()
	if len(evaluations) < 2 {
		return forecast
	}

	first := evaluations[0].ScoreOr(forecastMissingScore)
	last := evaluations[len(evaluations)-1].ScoreOr(forecastMissingScore)
	slope := (last - first) / float64(len(evaluations)-1)

	for index, hours := range forecastHorizons {
		factor := 1 + float64(index)*0.3
		score := roundTo(clamp(last+slope*factor, 0, 1), 3)
		forecast.Points = append(forecast.Points, ForecastPoint{
			HorizonHours: hours,
			At:           forecast.BaseTime.Add(time.Duration(hours) * time.Hour),
			RiskScore:    score,
			RiskLevel:    ForecastLevel(score),
		})
	}
	return forecast
}

func ForecastLevel(score float64) string {
	switch {
	case score < forecastWarningCutoff:
		return models.RiskLevelNormal
	case score < forecastCriticalCutoff:
		return models.RiskLevelWarning
	default:
		return models.RiskLevelCritical
	}
}

func clamp(value float64, lower float64, upper float64) float64 {
	return math.Max(lower, math.Min(upper, value))
}

func roundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
