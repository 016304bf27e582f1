package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/llm"
	"github.com/terraincognita07/fetalrisk/internal/models"
	"github.com/terraincognita07/fetalrisk/internal/resilient"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	patternsHistoryLimit = 40
	defaultDietCuisine   = "Indian"
	defaultCoachScore    = 0.1
	defaultCoachReason   = "No risk evaluations yet."

	reasonNoAPIKey        = "no_api_key"
	reasonEmptyContent    = "empty_ai_content"
	reasonExceptionPrefix = "exception: "
	healthSearchNoKey     = "AI health search is not configured on the server (missing OPENAI_API_KEY)."
	healthSearchFailure   = "There was a problem contacting the AI service. Please try again later."
)

type ChatCompleter interface {
	Enabled() bool
	Complete(ctx context.Context, request llm.ChatRequest) (string, error)
}

type ExplainResult struct {
	Explanation string `json:"explanation"`
	AIEnabled   bool   `json:"ai_enabled"`
}

type CareCoachResult struct {
	AIEnabled bool   `json:"ai_enabled"`
	Tips      string `json:"tips"`
}

type DietPlanRequest struct {
	Cuisine string
	Date    string
}

type DietPlanResult struct {
	AIEnabled bool   `json:"ai_enabled"`
	DietPlan  string `json:"diet_plan"`
	Reason    string `json:"reason,omitempty"`
}

type HealthSearchResult struct {
	AIEnabled bool   `json:"ai_enabled"`
	Answer    string `json:"answer"`
}

type PatternsResult struct {
	AIEnabled bool   `json:"ai_enabled"`
	Summary   string `json:"summary"`
}

// AIService produces the chat-completion backed texts. Every method answers
// with canned text when the model is unconfigured or unavailable.
type AIService struct {
	chat        ChatCompleter
	caller      *resilient.Caller[string]
	readings    ReadingRepository
	evaluations RiskEvaluationRepository
	location    *time.Location
	logger      *zap.Logger
	now         func() time.Time
}

func NewAIService(
	chat ChatCompleter,
	caller *resilient.Caller[string],
	readings ReadingRepository,
	evaluations RiskEvaluationRepository,
	location *time.Location,
	logger *zap.Logger,
) *AIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &AIService{
		chat:        chat,
		caller:      caller,
		readings:    readings,
		evaluations: evaluations,
		location:    location,
		logger:      logger,
		now:         time.Now,
	}
}

// complete returns the model text, or an empty string and the reason the
// canned text has to be used instead.
func (service *AIService) complete(ctx context.Context, feature string, request llm.ChatRequest) (string, string) {
	if service.chat == nil || !service.chat.Enabled() {
		return "", reasonNoAPIKey
	}

	outcome := service.caller.Call(ctx, func(ctx context.Context) (string, error) {
		return service.chat.Complete(ctx, request)
	}, func(error) string { return "" })
	if !outcome.FellBack {
		return outcome.Value, ""
	}

	service.logger.Warn("ai feature fell back",
		zap.String("feature", feature),
		zap.String("kind", outcome.Kind),
		zap.Error(outcome.Err),
	)
	if errors.Is(outcome.Err, llm.ErrEmptyContent) {
		return "", reasonEmptyContent
	}
	return "", reasonExceptionPrefix + outcome.Kind
}

func (service *AIService) Explain(ctx context.Context, risk RiskSnapshot) ExplainResult {
	text, failure := service.complete(ctx, "explain", llm.ChatRequest{
		System:      explainSystemPrompt,
		User:        buildExplainPrompt(risk),
		Temperature: 0.4,
		MaxTokens:   400,
	})
	if failure != "" {
		return ExplainResult{Explanation: explainFallback(risk), AIEnabled: false}
	}
	return ExplainResult{Explanation: text, AIEnabled: true}
}

// CareCoach bases its tips on the patient's latest evaluation. A nil patient
// or an empty history uses a normal baseline.
func (service *AIService) CareCoach(ctx context.Context, patient *models.Patient) (CareCoachResult, error) {
	level := models.RiskLevelNormal
	score := defaultCoachScore
	reason := defaultCoachReason

	if patient != nil {
		evaluation, err := service.evaluations.Latest(patient.ID)
		switch {
		case err == nil:
			level = evaluation.RiskLevel
			score = evaluation.ScoreOr(defaultCoachScore)
			reason = evaluation.Reason
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return CareCoachResult{}, err
		}
	}

	text, failure := service.complete(ctx, "care_coach", llm.ChatRequest{
		System:      careCoachSystemPrompt,
		User:        buildCareCoachPrompt(level, &score, reason),
		Temperature: 0.5,
		MaxTokens:   400,
	})
	if failure != "" {
		return CareCoachResult{AIEnabled: false, Tips: careCoachFallback(level)}, nil
	}
	return CareCoachResult{AIEnabled: true, Tips: text}, nil
}

func (service *AIService) DietPlan(ctx context.Context, patient *models.Patient, request DietPlanRequest) (DietPlanResult, error) {
	cuisine := strings.TrimSpace(request.Cuisine)
	if cuisine == "" {
		cuisine = defaultDietCuisine
	}
	date := strings.TrimSpace(request.Date)
	if date == "" {
		date = DateAtLocation(service.now(), service.location).Format("2006-01-02")
	}

	var latest *models.Reading
	if patient != nil {
		readings, err := service.readings.ListRecent(patient.ID, 1)
		if err != nil {
			return DietPlanResult{}, err
		}
		if len(readings) > 0 {
			latest = &readings[0]
		}
	}

	text, failure := service.complete(ctx, "diet_plan", llm.ChatRequest{
		System:      dietPlanSystemPrompt,
		User:        buildDietPlanPrompt(cuisine, date, patient, latest),
		Temperature: 0.5,
		MaxTokens:   550,
	})
	if failure != "" {
		return DietPlanResult{AIEnabled: false, DietPlan: dietPlanFallback(cuisine, date), Reason: failure}, nil
	}
	return DietPlanResult{AIEnabled: true, DietPlan: text}, nil
}

func (service *AIService) HealthSearch(ctx context.Context, question string) (HealthSearchResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return HealthSearchResult{}, ErrQuestionRequired
	}

	text, failure := service.complete(ctx, "health_search", llm.ChatRequest{
		System:      healthSearchSystemPrompt,
		User:        question,
		Temperature: 0.4,
		MaxTokens:   400,
	})
	switch failure {
	case "":
		return HealthSearchResult{AIEnabled: true, Answer: text}, nil
	case reasonNoAPIKey:
		return HealthSearchResult{AIEnabled: false, Answer: healthSearchFallback(healthSearchNoKey)}, nil
	default:
		return HealthSearchResult{AIEnabled: false, Answer: healthSearchFallback(healthSearchFailure)}, nil
	}
}

func (service *AIService) Patterns(ctx context.Context, patient models.Patient) (PatternsResult, error) {
	readings, err := service.readings.ListRecent(patient.ID, patternsHistoryLimit)
	if err != nil {
		return PatternsResult{}, err
	}
	evaluations, err := service.evaluations.ListRecent(patient.ID, patternsHistoryLimit)
	if err != nil {
		return PatternsResult{}, err
	}

	prompt, err := buildPatternsPrompt(patient, readings, evaluations)
	if err != nil {
		return PatternsResult{}, err
	}

	text, failure := service.complete(ctx, "patterns", llm.ChatRequest{
		System:      patternsSystemPrompt,
		User:        prompt,
		Temperature: 0.4,
		MaxTokens:   600,
	})
	if failure != "" {
		return PatternsResult{AIEnabled: false, Summary: patternsFallback(failure)}, nil
	}
	return PatternsResult{AIEnabled: true, Summary: text}, nil
}
