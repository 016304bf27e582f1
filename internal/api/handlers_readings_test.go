package api

import (
	"net/http"
	"testing"
	"time"
)

type readingEnvelope struct {
	Reading struct {
		ID        uint `json:"id"`
		PatientID uint `json:"patient_id"`
	} `json:"reading"`
	RiskEvaluation struct {
		ReadingID    uint     `json:"reading_id"`
		RiskLevel    string   `json:"risk_level"`
		RiskScore    *float64 `json:"risk_score"`
		Reason       string   `json:"reason"`
		ModelVersion string   `json:"model_version"`
	} `json:"risk_evaluation"`
}

func TestCreateReadingStoresEvaluation(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "reading@example.com", "")

	response := env.do(t, http.MethodPost, patientPath(user.patientID, "/readings"), user.token, map[string]any{
		"reading": map[string]any{
			"maternal_hr":  82,
			"systolic_bp":  118,
			"diastolic_bp": 76,
			"fetal_hr":     140,
			"spo2":         98,
			"temperature":  36.8,
		},
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}
	var created readingEnvelope
	decodeJSON(t, response, &created)
	if created.Reading.PatientID != user.patientID {
		t.Fatalf("expected reading for patient %d, got %d", user.patientID, created.Reading.PatientID)
	}
	if created.RiskEvaluation.ReadingID != created.Reading.ID {
		t.Fatalf("expected evaluation linked to reading %d, got %d", created.Reading.ID, created.RiskEvaluation.ReadingID)
	}
	if created.RiskEvaluation.RiskLevel != "normal" {
		t.Fatalf("expected normal risk level, got %q", created.RiskEvaluation.RiskLevel)
	}

	response = env.do(t, http.MethodGet, patientPath(user.patientID, "/readings"), user.token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected list status 200, got %d", response.StatusCode)
	}
	var readings []struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, response, &readings)
	if len(readings) != 1 || readings[0].ID != created.Reading.ID {
		t.Fatalf("expected the stored reading listed, got %+v", readings)
	}

	if emails := env.emails.sent(); len(emails) != 0 {
		t.Fatalf("expected no alert for a normal reading, got %d emails", len(emails))
	}
}

func TestCreateReadingRejectsImpossibleValues(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "invalid-reading@example.com", "")

	response := env.do(t, http.MethodPost, patientPath(user.patientID, "/readings"), user.token, map[string]any{
		"reading": map[string]any{"spo2": 140, "temperature": 60},
	})
	if response.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", response.StatusCode)
	}
	problems := readValidationErrors(t, response)
	if len(problems) != 2 {
		t.Fatalf("expected two validation messages, got %v", problems)
	}

	response = env.do(t, http.MethodPost, patientPath(user.patientID, "/readings"), user.token, map[string]any{})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected missing reading status 400, got %d", response.StatusCode)
	}
}

func TestCreateReadingFallsBackWhenPredictorUnavailable(t *testing.T) {
	env := newTestEnv(t, withRiskPredictor(unavailablePredictor{}))
	user := env.register(t, "fallback@example.com", "")

	response := env.do(t, http.MethodPost, patientPath(user.patientID, "/readings"), user.token, map[string]any{
		"reading": map[string]any{"systolic_bp": 175, "diastolic_bp": 115},
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201 despite predictor failure, got %d", response.StatusCode)
	}
	var created readingEnvelope
	decodeJSON(t, response, &created)
	if created.RiskEvaluation.RiskLevel != "normal" || created.RiskEvaluation.ModelVersion != "fallback" {
		t.Fatalf("expected fallback evaluation, got %+v", created.RiskEvaluation)
	}
	if created.RiskEvaluation.Reason != "ML service unavailable" {
		t.Fatalf("unexpected fallback reason %q", created.RiskEvaluation.Reason)
	}
}

func TestCriticalSimulationTriggersEmailAndSMS(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "critical@example.com", "+15550009999")

	response := env.do(t, http.MethodPost, patientPath(user.patientID, "/simulate_reading"), user.token, map[string]string{"mode": "critical"})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}
	var created readingEnvelope
	decodeJSON(t, response, &created)
	if created.RiskEvaluation.RiskLevel != "critical" {
		t.Fatalf("expected critical evaluation, got %q", created.RiskEvaluation.RiskLevel)
	}
	if created.RiskEvaluation.RiskScore == nil || *created.RiskEvaluation.RiskScore != 0.95 {
		t.Fatalf("expected score 0.95, got %v", created.RiskEvaluation.RiskScore)
	}

	emails := env.emails.sent()
	if len(emails) != 1 || emails[0].To != "critical@example.com" {
		t.Fatalf("expected one email alert to the account owner, got %+v", emails)
	}
	messages := env.sms.sent()
	if len(messages) != 1 || messages[0].To != "+15550009999" {
		t.Fatalf("expected one sms alert to the patient contact, got %+v", messages)
	}
}

func TestRandomSimulationWithoutBody(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "random@example.com", "")

	response := env.do(t, http.MethodPost, patientPath(user.patientID, "/simulate_reading"), user.token, nil)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}
	var created readingEnvelope
	decodeJSON(t, response, &created)
	if created.Reading.ID == 0 || created.RiskEvaluation.ReadingID != created.Reading.ID {
		t.Fatalf("expected stored reading with evaluation, got %+v", created)
	}
}

func TestCurrentRiskHistoryAndForecast(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "forecast@example.com", "")

	response := env.do(t, http.MethodGet, patientPath(user.patientID, "/current_risk"), user.token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected current risk status 200, got %d", response.StatusCode)
	}
	placeholder := map[string]any{}
	decodeJSON(t, response, &placeholder)
	if placeholder["risk_level"] != nil || placeholder["reason"] != "No risk evaluations yet for this patient." {
		t.Fatalf("unexpected placeholder %v", placeholder)
	}

	base := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	for index, systolic := range []int{120, 170} {
		response = env.do(t, http.MethodPost, patientPath(user.patientID, "/readings"), user.token, map[string]any{
			"reading": map[string]any{"systolic_bp": systolic, "recorded_at": base.Add(time.Duration(index) * time.Hour)},
		})
		if response.StatusCode != http.StatusCreated {
			t.Fatalf("reading %d: expected status 201, got %d", index, response.StatusCode)
		}
	}

	response = env.do(t, http.MethodGet, patientPath(user.patientID, "/current_risk"), user.token, nil)
	current := map[string]any{}
	decodeJSON(t, response, &current)
	if current["risk_level"] != "warning" {
		t.Fatalf("expected latest evaluation to be warning, got %v", current["risk_level"])
	}

	response = env.do(t, http.MethodGet, patientPath(user.patientID, "/risk_history"), user.token, nil)
	var history []map[string]any
	decodeJSON(t, response, &history)
	if len(history) != 2 {
		t.Fatalf("expected two history entries, got %d", len(history))
	}

	response = env.do(t, http.MethodGet, patientPath(user.patientID, "/risk_forecast"), user.token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected forecast status 200, got %d", response.StatusCode)
	}
	var forecast struct {
		PatientID uint `json:"patient_id"`
		Points    []struct {
			RiskScore float64 `json:"risk_score"`
			RiskLevel string  `json:"risk_level"`
		} `json:"points"`
	}
	decodeJSON(t, response, &forecast)
	if forecast.PatientID != user.patientID || len(forecast.Points) == 0 {
		t.Fatalf("expected forecast points, got %+v", forecast)
	}
	for _, point := range forecast.Points {
		if point.RiskScore < 0 || point.RiskScore > 1 {
			t.Fatalf("forecast score out of range: %v", point.RiskScore)
		}
	}
}

func TestReportReturnsPDFAttachment(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "report@example.com", "")

	response := env.do(t, http.MethodGet, patientPath(user.patientID, "/report"), user.token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	if contentType := response.Header.Get("Content-Type"); contentType != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", contentType)
	}
	if disposition := response.Header.Get("Content-Disposition"); len(disposition) < len("attachment;") || disposition[:len("attachment;")] != "attachment;" {
		t.Fatalf("expected attachment disposition, got %q", disposition)
	}
}

func TestCreateReadingAcceptsStringVitals(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "string-vitals@example.com", "")

	response := env.do(t, http.MethodPost, patientPath(user.patientID, "/readings"), user.token, map[string]any{
		"reading": map[string]any{
			"maternal_hr":          "82",
			"systolic_bp":          "118",
			"diastolic_bp":         "76",
			"fetal_hr":             "140",
			"fetal_movement_count": "",
			"spo2":                 "97",
			"temperature":          "36.8",
		},
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}
	var created struct {
		Reading struct {
			SpO2               *int     `json:"spo2"`
			Temperature        *float64 `json:"temperature"`
			FetalMovementCount *int     `json:"fetal_movement_count"`
		} `json:"reading"`
	}
	decodeJSON(t, response, &created)
	if created.Reading.SpO2 == nil || *created.Reading.SpO2 != 97 {
		t.Fatalf("expected spo2 97, got %v", created.Reading.SpO2)
	}
	if created.Reading.Temperature == nil || *created.Reading.Temperature != 36.8 {
		t.Fatalf("expected temperature 36.8, got %v", created.Reading.Temperature)
	}
	if created.Reading.FetalMovementCount != nil {
		t.Fatalf("expected blank movement count to stay unset, got %d", *created.Reading.FetalMovementCount)
	}
}
