package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fetalrisk/internal/config"
	"github.com/terraincognita07/fetalrisk/internal/db"
	"github.com/terraincognita07/fetalrisk/internal/llm"
	"github.com/terraincognita07/fetalrisk/internal/metrics"
	"github.com/terraincognita07/fetalrisk/internal/notify"
	"github.com/terraincognita07/fetalrisk/internal/predictor"
	"gorm.io/gorm"
)

const testSecretKey = "test-secret-key-with-at-least-32-characters"

type recordingEnqueuer struct {
	mu       sync.Mutex
	messages []notify.EmailMessage
}

func (recorder *recordingEnqueuer) Enqueue(message notify.EmailMessage) bool {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.messages = append(recorder.messages, message)
	return true
}

func (recorder *recordingEnqueuer) sent() []notify.EmailMessage {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]notify.EmailMessage(nil), recorder.messages...)
}

type recordingSMS struct {
	mu       sync.Mutex
	messages []notify.SMSMessage
}

func (recorder *recordingSMS) Send(_ context.Context, message notify.SMSMessage) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.messages = append(recorder.messages, message)
	return nil
}

func (recorder *recordingSMS) sent() []notify.SMSMessage {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]notify.SMSMessage(nil), recorder.messages...)
}

type stubChat struct {
	enabled bool
	content string
}

func (stub *stubChat) Enabled() bool {
	return stub.enabled
}

func (stub *stubChat) Complete(context.Context, llm.ChatRequest) (string, error) {
	if stub.content == "" {
		return "", llm.ErrEmptyContent
	}
	return stub.content, nil
}

type unavailablePredictor struct{}

func (unavailablePredictor) Predict(context.Context, predictor.Payload) (predictor.Result, error) {
	return predictor.Result{}, errors.New("ml service unreachable")
}

type testEnv struct {
	app      *fiber.App
	database *gorm.DB
	emails   *recordingEnqueuer
	sms      *recordingSMS
	chat     *stubChat
}

type testEnvOption func(*Options)

func withRiskPredictor(backend predictor.Predictor) testEnvOption {
	return func(options *Options) {
		options.Predictor = predictor.NewService(backend, config.PredictorConfig{Timeout: time.Second}, nil, nil)
	}
}

func withAIRate(perMinute int) testEnvOption {
	return func(options *Options) {
		options.AIRatePerMinute = perMinute
	}
}

func newTestEnv(t *testing.T, opts ...testEnvOption) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "fetalrisk-api-test.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	env := &testEnv{database: database, emails: &recordingEnqueuer{}, sms: &recordingSMS{}, chat: &stubChat{}}
	options := Options{
		SecretKey: testSecretKey,
		TokenTTL:  time.Hour,
		Location:  time.UTC,
		Metrics:   metrics.NewCollector(),
		Predictor: predictor.NewService(predictor.HeuristicPredictor{}, config.PredictorConfig{Timeout: time.Second}, nil, nil),
		Alerts:    notify.NewAlertDispatcher(env.emails, env.sms, time.Second, nil, nil),
		Chat:      env.chat,
	}
	for _, opt := range opts {
		opt(&options)
	}

	handler, err := NewHandler(database, options)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	env.app = NewApp(handler, []string{"http://localhost:3000"})
	return env
}

func (env *testEnv) do(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

type registeredUser struct {
	token     string
	userID    uint
	patientID uint
}

func (env *testEnv) register(t *testing.T, email string, contact string) registeredUser {
	t.Helper()

	response := env.do(t, http.MethodPost, "/api/v1/register", "", map[string]any{
		"user": map[string]any{
			"name":                  "Test Mother",
			"email":                 email,
			"password":              "StrongPass1",
			"password_confirmation": "StrongPass1",
			"age":                   30,
			"gestation_weeks":       28,
			"contact_number":        contact,
		},
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected status 201, got %d", email, response.StatusCode)
	}

	var payload struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		PatientID uint   `json:"patient_id"`
		Token     string `json:"token"`
	}
	decodeJSON(t, response, &payload)
	if payload.Token == "" || payload.PatientID == 0 {
		t.Fatalf("register %s: expected token and patient id, got %+v", email, payload)
	}
	return registeredUser{token: payload.Token, userID: payload.User.ID, patientID: payload.PatientID}
}

func patientPath(patientID uint, suffix string) string {
	return fmt.Sprintf("/api/v1/patients/%d%s", patientID, suffix)
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(body), err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]any{}
	decodeJSON(t, response, &payload)
	message, _ := payload["error"].(string)
	return message
}

func readValidationErrors(t *testing.T, response *http.Response) []string {
	t.Helper()

	var payload struct {
		Errors []string `json:"errors"`
	}
	decodeJSON(t, response, &payload)
	return payload.Errors
}
