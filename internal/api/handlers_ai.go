package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fetalrisk/internal/models"
	"github.com/terraincognita07/fetalrisk/internal/services"
)

func (handler *Handler) Explain(c *fiber.Ctx) error {
	var request explainRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if request.Risk == nil {
		return missingParam(c, "risk")
	}
	return c.JSON(handler.aiService.Explain(c.UserContext(), *request.Risk))
}

func (handler *Handler) HealthSearch(c *fiber.Ctx) error {
	var request healthSearchRequest
	if err := parseOptionalBody(c, &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	result, err := handler.aiService.HealthSearch(c.UserContext(), request.Question)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to answer question")
	}
	return c.JSON(result)
}

func (handler *Handler) CareCoach(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	var request careCoachRequest
	if err := parseOptionalBody(c, &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	patient, err := handler.resolveOwnPatient(user.ID, request.PatientID.ptr())
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to load patient")
	}
	if patient == nil {
		return apiError(c, fiber.StatusNotFound, "Patient not found for this user")
	}

	result, err := handler.aiService.CareCoach(c.UserContext(), patient)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to generate care tips")
	}
	return c.JSON(result)
}

func (handler *Handler) DietPlan(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	var request dietPlanRequest
	if err := parseOptionalBody(c, &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	patient, err := handler.resolveOwnPatient(user.ID, request.PatientID.ptr())
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to generate diet plan.")
	}

	result, err := handler.aiService.DietPlan(c.UserContext(), patient, services.DietPlanRequest{
		Cuisine: request.Cuisine,
		Date:    request.Date,
	})
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to generate diet plan.")
	}
	return c.JSON(result)
}

func (handler *Handler) Patterns(c *fiber.Ctx) error {
	patient, _ := currentPatient(c)
	result, err := handler.aiService.Patterns(c.UserContext(), *patient)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to analyse patterns")
	}
	return c.JSON(result)
}

// resolveOwnPatient prefers the user's own patient and otherwise accepts an
// explicit id the user owns. It returns nil when neither exists.
func (handler *Handler) resolveOwnPatient(userID uint, requestedID *uint) (*models.Patient, error) {
	patient, err := handler.patientService.FindForUser(userID)
	if err == nil {
		return &patient, nil
	}
	if !errors.Is(err, services.ErrPatientNotFound) {
		return nil, err
	}
	if requestedID == nil {
		return nil, nil
	}

	patient, err = handler.patientService.FindOwned(userID, *requestedID)
	if errors.Is(err, services.ErrPatientNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}
