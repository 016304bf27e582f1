package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fetalrisk/internal/services"
)

func (handler *Handler) ListPatients(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	patients, err := handler.patientService.ListForUser(user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to load patients")
	}
	return c.JSON(patients)
}

func (handler *Handler) GetPatient(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	patientID, err := parsePatientID(c)
	if err != nil {
		return handler.respondServiceError(c, services.ErrPatientNotFound, "")
	}

	patient, err := handler.patientService.FindOwned(user.ID, patientID)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to load patient")
	}
	return c.JSON(patient)
}

func (handler *Handler) CreatePatient(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	var request patientRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if request.Patient == nil {
		return missingParam(c, "patient")
	}

	patient, created, err := handler.patientService.Upsert(user.ID, request.Patient.toInput())
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to save patient")
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(patient)
}

func (handler *Handler) UpdatePatient(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	patientID, err := parsePatientID(c)
	if err != nil {
		return handler.respondServiceError(c, services.ErrPatientNotFound, "")
	}

	var request patientRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if request.Patient == nil {
		return missingParam(c, "patient")
	}

	patient, err := handler.patientService.Update(user.ID, patientID, request.Patient.toInput())
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to save patient")
	}
	return c.JSON(patient)
}
