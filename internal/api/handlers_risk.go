package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) CurrentRisk(c *fiber.Ctx) error {
	patient, _ := currentPatient(c)
	current, err := handler.riskQueryService.CurrentRisk(patient.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to load current risk")
	}
	return c.JSON(current)
}

func (handler *Handler) RiskHistory(c *fiber.Ctx) error {
	patient, _ := currentPatient(c)
	history, err := handler.riskQueryService.History(patient.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to load risk history")
	}
	return c.JSON(history)
}

func (handler *Handler) RiskForecast(c *fiber.Ctx) error {
	patient, _ := currentPatient(c)
	forecast, err := handler.riskQueryService.Forecast(patient.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to build risk forecast")
	}
	return c.JSON(forecast)
}

func (handler *Handler) Report(c *fiber.Ctx) error {
	patient, _ := currentPatient(c)
	document, filename, err := handler.reportService.Build(*patient)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to generate report")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(document)
}
