package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fetalrisk/internal/services"
)

// PatientScoped loads the :id patient for nested routes. Unknown patients are
// 404 and patients of other users 403.
func (handler *Handler) PatientScoped(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "Not authorized")
	}

	patientID, err := parsePatientID(c)
	if err != nil {
		return handler.respondServiceError(c, services.ErrPatientNotFound, "")
	}

	patient, err := handler.patientService.AuthorizePatient(user.ID, patientID)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to load patient")
	}

	c.Locals(contextPatientKey, &patient)
	return c.Next()
}

func parsePatientID(c *fiber.Ctx) (uint, error) {
	value, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || value == 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(value), nil
}
