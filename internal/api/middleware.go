package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fetalrisk/internal/models"
)

const (
	contextUserKey    = "current_user"
	contextPatientKey = "current_patient"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

func currentPatient(c *fiber.Ctx) (*models.Patient, bool) {
	patient, ok := c.Locals(contextPatientKey).(*models.Patient)
	return patient, ok
}
