package api

import (
	"github.com/terraincognita07/fetalrisk/internal/db"
	"github.com/terraincognita07/fetalrisk/internal/resilient"
	"github.com/terraincognita07/fetalrisk/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB, options Options) *Handler {
	repositories := db.NewRepositories(database)
	handler.repositories = repositories

	// A nil *metrics.Collector must not leak into the interfaces below.
	var evaluationObserver services.EvaluationObserver
	var callObserver resilient.Observer
	if handler.metrics != nil {
		evaluationObserver = handler.metrics
		callObserver = handler.metrics
	}

	chatCaller := options.ChatCaller
	if chatCaller == nil {
		chatCaller = resilient.NewCaller[string](resilient.Policy{Name: "llm", Timeout: defaultChatTimeout}, handler.logger, callObserver)
	}

	handler.authService = services.NewAuthService(repositories.Users, repositories.Patients)
	handler.patientService = services.NewPatientService(repositories.Patients)
	handler.evaluationService = services.NewRiskEvaluationService(
		repositories.Readings,
		repositories.RiskEvaluations,
		options.Predictor,
		options.Alerts,
		evaluationObserver,
		handler.logger,
	)
	handler.simulationService = services.NewSimulationService(handler.evaluationService)
	handler.riskQueryService = services.NewRiskQueryService(repositories.Readings, repositories.RiskEvaluations)
	handler.gamificationService = services.NewGamificationService(repositories.Gamifications, repositories.Patients, handler.location)
	handler.aiService = services.NewAIService(
		options.Chat,
		chatCaller,
		repositories.Readings,
		repositories.RiskEvaluations,
		handler.location,
		handler.logger,
	)
	handler.reportService = services.NewReportService(repositories.RiskEvaluations, handler.location)
	return handler
}
