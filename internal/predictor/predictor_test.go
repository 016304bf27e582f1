package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/config"
	"github.com/terraincognita07/fetalrisk/internal/models"
)

func intPtr(value int) *int {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}

func newTestService(t *testing.T, backend Predictor, timeout time.Duration) *Service {
	t.Helper()
	return NewService(backend, config.PredictorConfig{Timeout: timeout}, nil, nil)
}

func assertFallback(t *testing.T, evaluation Evaluation) {
	t.Helper()
	if !evaluation.FellBack {
		t.Fatalf("expected fallback, got %#v", evaluation)
	}
	result := evaluation.Result
	if result.RiskLevel != models.RiskLevelNormal || result.RiskScore == nil || *result.RiskScore != 0.1 {
		t.Fatalf("unexpected fallback result %#v", result)
	}
	if result.Reason != "ML service unavailable" || result.ModelVersion != "fallback" {
		t.Fatalf("unexpected fallback reason/model %q/%q", result.Reason, result.ModelVersion)
	}
}

func TestWithDefaultsFillsMissingValues(t *testing.T) {
	payload := Vitals{SystolicBP: intPtr(150), Temperature: floatPtr(38.1)}.WithDefaults()

	expected := Payload{
		Age:                28,
		SystolicBP:         150,
		DiastolicBP:        80,
		BloodSugar:         7.0,
		Temperature:        38.1,
		MaternalHR:         90,
		FetalHR:            140,
		SpO2:               98,
		FetalMovementCount: 10,
	}
	if payload != expected {
		t.Fatalf("expected %#v, got %#v", expected, payload)
	}
}

func TestVitalsFromReadingUsesPatientAge(t *testing.T) {
	reading := models.Reading{FetalHR: intPtr(150)}
	patient := models.Patient{Age: intPtr(33)}

	payload := VitalsFromReading(reading, patient).WithDefaults()
	if payload.Age != 33 || payload.FetalHR != 150 || payload.MaternalHR != DefaultMaternalHR {
		t.Fatalf("unexpected payload %#v", payload)
	}
}

func TestHTTPPredictorSendsCanonicalPayload(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"risk_level":"warning","risk_score":0.55,"reason":"elevated","model_version":"pso_v2","ml_risk_level":2,"ml_class_probabilities":[0.1,0.2,0.7],"ml_logreg_risk_level":"Warning"}`))
	}))
	defer server.Close()

	service := newTestService(t, NewHTTPPredictor(server.URL, server.Client()), time.Second)
	evaluation := service.Evaluate(context.Background(), Vitals{FetalHR: intPtr(165)})

	if evaluation.FellBack {
		t.Fatalf("did not expect fallback: %#v", evaluation)
	}
	for _, key := range []string{"age", "systolic_bp", "diastolic_bp", "bs", "temperature", "maternal_hr", "fetal_hr", "spo2", "fetal_movement_count"} {
		if _, ok := received[key]; !ok {
			t.Fatalf("expected payload key %q in %#v", key, received)
		}
	}
	if received["fetal_hr"] != float64(165) {
		t.Fatalf("expected fetal_hr 165, got %v", received["fetal_hr"])
	}

	result := evaluation.Result
	if result.RiskLevel != models.RiskLevelWarning || *result.RiskScore != 0.55 || result.ModelVersion != "pso_v2" {
		t.Fatalf("unexpected result %#v", result)
	}
	details := result.ModelDetails()
	if details.MLRiskLevel == nil || *details.MLRiskLevel != models.RiskLevelCritical {
		t.Fatalf("expected class index 2 to map to critical, got %#v", details.MLRiskLevel)
	}
	if details.MLLogRegRiskLevel == nil || *details.MLLogRegRiskLevel != models.RiskLevelWarning {
		t.Fatalf("expected logreg level warning, got %#v", details.MLLogRegRiskLevel)
	}
	if len(details.MLClassProbabilities) != 3 {
		t.Fatalf("expected class probabilities, got %#v", details.MLClassProbabilities)
	}
}

func TestHTTPPredictorFailuresFallBack(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		delay   time.Duration
		outcome string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, outcome: "error"},
		{name: "malformed json", status: http.StatusOK, body: `not json`, outcome: "error"},
		{name: "invalid risk level", status: http.StatusOK, body: `{"risk_level":"extreme","risk_score":0.9}`, outcome: "error"},
		{name: "score out of range", status: http.StatusOK, body: `{"risk_level":"warning","risk_score":1.7}`, outcome: "error"},
		{name: "timeout", status: http.StatusOK, body: `{"risk_level":"warning"}`, delay: 300 * time.Millisecond, outcome: "timeout"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.delay > 0 {
					select {
					case <-time.After(tc.delay):
					case <-r.Context().Done():
						return
					}
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			service := newTestService(t, NewHTTPPredictor(server.URL, server.Client()), 50*time.Millisecond)
			evaluation := service.Evaluate(context.Background(), Vitals{})
			assertFallback(t, evaluation)
			if evaluation.Outcome != tc.outcome {
				t.Fatalf("expected outcome %q, got %q", tc.outcome, evaluation.Outcome)
			}
		})
	}
}

func TestScriptPredictorReadsStdout(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	backend, err := NewScriptPredictor([]string{"sh", "-c", `echo "loading model"; echo '{"risk_level":"critical","risk_score":0.91,"reason":"High ML probability of fetal distress."}'`})
	if err != nil {
		t.Fatalf("new script predictor: %v", err)
	}

	evaluation := newTestService(t, backend, 5*time.Second).Evaluate(context.Background(), Vitals{})
	if evaluation.FellBack {
		t.Fatalf("did not expect fallback: %#v", evaluation)
	}
	if evaluation.Result.RiskLevel != models.RiskLevelCritical || *evaluation.Result.RiskScore != 0.91 {
		t.Fatalf("unexpected result %#v", evaluation.Result)
	}
}

func TestScriptPredictorNonZeroExitFallsBack(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	backend, err := NewScriptPredictor([]string{"sh", "-c", "echo model missing >&2; exit 3"})
	if err != nil {
		t.Fatalf("new script predictor: %v", err)
	}
	assertFallback(t, newTestService(t, backend, 5*time.Second).Evaluate(context.Background(), Vitals{}))
}

func TestNewScriptPredictorRejectsEmptyCommand(t *testing.T) {
	if _, err := NewScriptPredictor(ParseScriptCommand("   ")); err == nil {
		t.Fatal("expected empty command error")
	}
}

func TestHeuristicPredictorGate(t *testing.T) {
	tests := []struct {
		name   string
		vitals Vitals
		level  string
		score  float64
	}{
		{name: "defaults are normal", vitals: Vitals{}, level: models.RiskLevelNormal, score: 0.15},
		{name: "low spo2 only stays normal", vitals: Vitals{SpO2: intPtr(90)}, level: models.RiskLevelNormal, score: 0.15},
		{name: "fetal bradycardia is warning", vitals: Vitals{FetalHR: intPtr(100)}, level: models.RiskLevelWarning, score: 0.45},
		{name: "hypertension is warning", vitals: Vitals{SystolicBP: intPtr(165)}, level: models.RiskLevelWarning, score: 0.45},
		{
			name:   "hypertension and abnormal fetal hr is critical",
			vitals: Vitals{DiastolicBP: intPtr(115), FetalHR: intPtr(180)},
			level:  models.RiskLevelCritical,
			score:  0.85,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := HeuristicPredictor{}.Predict(context.Background(), tc.vitals.WithDefaults())
			if err != nil {
				t.Fatalf("predict: %v", err)
			}
			if result.RiskLevel != tc.level || *result.RiskScore != tc.score {
				t.Fatalf("expected %s/%v, got %s/%v", tc.level, tc.score, result.RiskLevel, *result.RiskScore)
			}
		})
	}
}

func TestNewSelectsBackendByMode(t *testing.T) {
	if _, err := New(config.PredictorConfig{Mode: "quantum"}, nil); err == nil {
		t.Fatal("expected unknown mode error")
	}

	backend, err := New(config.PredictorConfig{Mode: config.PredictorModeHeuristic}, nil)
	if err != nil {
		t.Fatalf("new heuristic: %v", err)
	}
	if _, ok := backend.(HeuristicPredictor); !ok {
		t.Fatalf("expected heuristic predictor, got %T", backend)
	}
}
