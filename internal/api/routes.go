package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	if handler.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(handler.metrics.Handler()))
	}
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	v1 := app.Group("/api/v1")

	v1.Post("/register", handler.Register)
	v1.Post("/login", handler.Login)
	v1.Get("/me", handler.AuthRequired, handler.Me)

	patients := v1.Group("/patients", handler.AuthRequired)
	patients.Get("", handler.ListPatients)
	patients.Post("", handler.CreatePatient)
	patients.Get("/:id", handler.GetPatient)
	patients.Patch("/:id", handler.UpdatePatient)
	patients.Put("/:id", handler.UpdatePatient)

	patients.Get("/:id/readings", handler.PatientScoped, handler.ListReadings)
	patients.Post("/:id/readings", handler.PatientScoped, handler.CreateReading)
	patients.Get("/:id/current_risk", handler.PatientScoped, handler.CurrentRisk)
	patients.Get("/:id/risk_history", handler.PatientScoped, handler.RiskHistory)
	patients.Get("/:id/risk_forecast", handler.PatientScoped, handler.RiskForecast)
	patients.Get("/:id/report", handler.PatientScoped, handler.Report)
	patients.Post("/:id/ai_patterns", handler.PatientScoped, handler.AIRateLimited, handler.Patterns)
	patients.Post("/:id/simulate_reading", handler.PatientScoped, handler.SimulateReading)

	v1.Post("/explain", handler.AuthRequired, handler.AIRateLimited, handler.Explain)
	v1.Post("/ai_health_search", handler.AuthRequired, handler.AIRateLimited, handler.HealthSearch)
	v1.Post("/ai/care_coach", handler.AuthRequired, handler.AIRateLimited, handler.CareCoach)
	v1.Post("/ai/diet_plan", handler.AuthRequired, handler.AIRateLimited, handler.DietPlan)

	v1.Get("/gamification", handler.AuthRequired, handler.GetGamification)
	v1.Patch("/gamification", handler.AuthRequired, handler.UpdateGamification)
}
