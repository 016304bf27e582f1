package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fetalrisk/internal/services"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func validationErrors(c *fiber.Ctx, messages []string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": messages})
}

func missingParam(c *fiber.Ctx, name string) error {
	return apiError(c, fiber.StatusBadRequest, "param is missing or the value is empty: "+name)
}

// respondServiceError maps service errors onto HTTP responses. Anything not
// recognised is logged and answered with a 500 carrying fallbackMessage.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error, fallbackMessage string) error {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		return validationErrors(c, validation.Messages)
	case errors.Is(err, services.ErrPatientNotFound):
		return apiError(c, fiber.StatusNotFound, "Patient not found")
	case errors.Is(err, services.ErrPatientForbidden):
		return apiError(c, fiber.StatusForbidden, "Not authorized for this patient")
	case errors.Is(err, services.ErrNotEnoughPoints):
		return apiError(c, fiber.StatusUnprocessableEntity, "not enough points")
	case errors.Is(err, services.ErrInvalidGamificationAction):
		return apiError(c, fiber.StatusBadRequest, "Invalid action_type")
	case errors.Is(err, services.ErrQuestionRequired):
		return apiError(c, fiber.StatusUnprocessableEntity, "question is required")
	case errors.Is(err, services.ErrReportFailed):
		handler.logger.Error("report generation failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "Failed to generate report")
	}

	handler.logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return apiError(c, fiber.StatusInternalServerError, fallbackMessage)
}

// parseOptionalBody decodes a JSON body when one was sent.
func parseOptionalBody(c *fiber.Ctx, target any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(target)
}
