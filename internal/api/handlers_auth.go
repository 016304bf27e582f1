package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fetalrisk/internal/models"
	"github.com/terraincognita07/fetalrisk/internal/services"
)

type authResponse struct {
	User      models.User `json:"user"`
	PatientID *uint       `json:"patient_id"`
	Token     string      `json:"token"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var request registerRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if request.User == nil {
		return missingParam(c, "user")
	}

	user, patient, err := handler.authService.Register(request.User.toInput())
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to create account")
	}

	token, err := handler.buildToken(&user)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse{User: user, PatientID: &patient.ID, Token: token})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := time.Now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "Too many login attempts. Please try again later.")
	}

	var request loginRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(request.Email, request.Password)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to sign in")
	}
	handler.loginLimiter.reset(limiterKey)

	patientID, err := handler.authService.PatientIDForUser(user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to sign in")
	}
	token, err := handler.buildToken(&user)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	return c.JSON(authResponse{User: user, PatientID: patientID, Token: token})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "Not authorized")
	}
	return c.JSON(user)
}
