package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fetalrisk/internal/models"
)

type readingResponse struct {
	Reading        models.Reading        `json:"reading"`
	RiskEvaluation models.RiskEvaluation `json:"risk_evaluation"`
}

func (handler *Handler) ListReadings(c *fiber.Ctx) error {
	patient, _ := currentPatient(c)
	readings, err := handler.riskQueryService.ListReadings(patient.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to load readings")
	}
	return c.JSON(readings)
}

func (handler *Handler) CreateReading(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	patient, _ := currentPatient(c)

	var request readingRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if request.Reading == nil {
		return missingParam(c, "reading")
	}

	reading, evaluation, err := handler.evaluationService.RecordReading(c.UserContext(), *user, *patient, request.Reading.toInput())
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to save reading")
	}
	return c.Status(fiber.StatusCreated).JSON(readingResponse{Reading: reading, RiskEvaluation: evaluation})
}

func (handler *Handler) SimulateReading(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	patient, _ := currentPatient(c)

	var request simulationRequest
	if err := parseOptionalBody(c, &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	reading, evaluation, err := handler.simulationService.Simulate(c.UserContext(), *user, *patient, request.Mode)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to simulate reading")
	}
	return c.Status(fiber.StatusCreated).JSON(readingResponse{Reading: reading, RiskEvaluation: evaluation})
}
