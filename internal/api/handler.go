package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/db"
	"github.com/terraincognita07/fetalrisk/internal/metrics"
	"github.com/terraincognita07/fetalrisk/internal/resilient"
	"github.com/terraincognita07/fetalrisk/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL = 24 * time.Hour
	defaultChatTimeout  = 20 * time.Second
)

type Handler struct {
	secretKey    []byte
	tokenTTL     time.Duration
	location     *time.Location
	logger       *zap.Logger
	metrics      *metrics.Collector
	loginLimiter *attemptLimiter
	aiLimiter    *clientRateLimiter

	repositories        *db.Repositories
	authService         *services.AuthService
	patientService      *services.PatientService
	evaluationService   *services.RiskEvaluationService
	simulationService   *services.SimulationService
	riskQueryService    *services.RiskQueryService
	gamificationService *services.GamificationService
	aiService           *services.AIService
	reportService       *services.ReportService
}

// Options carries the collaborators built outside the API layer.
type Options struct {
	SecretKey       string
	TokenTTL        time.Duration
	Location        *time.Location
	AIRatePerMinute int
	Logger          *zap.Logger
	Metrics         *metrics.Collector
	Predictor       services.RiskPredictor
	Alerts          services.AlertDispatcher
	Chat            services.ChatCompleter
	ChatCaller      *resilient.Caller[string]
}

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if options.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Predictor == nil {
		return nil, errors.New("risk predictor is required")
	}

	handler := &Handler{
		secretKey:    []byte(options.SecretKey),
		tokenTTL:     options.TokenTTL,
		location:     options.Location,
		logger:       options.Logger,
		metrics:      options.Metrics,
		loginLimiter: newAttemptLimiter(),
		aiLimiter:    newClientRateLimiter(options.AIRatePerMinute),
	}
	if handler.tokenTTL <= 0 {
		handler.tokenTTL = defaultAuthTokenTTL
	}
	if handler.location == nil {
		handler.location = time.UTC
	}
	if handler.logger == nil {
		handler.logger = zap.NewNop()
	}

	return handler.withDependencies(database, options), nil
}
