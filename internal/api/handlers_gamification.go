package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fetalrisk/internal/services"
)

func (handler *Handler) GetGamification(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	ledger, err := handler.gamificationService.Load(user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to load gamification")
	}
	return c.JSON(ledger)
}

func (handler *Handler) UpdateGamification(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	var request gamificationRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ledger, err := handler.gamificationService.Apply(user.ID, services.GamificationAction{
		ActionType: request.ActionType,
		RewardID:   request.RewardID,
	})
	if err != nil {
		return handler.respondServiceError(c, err, "Failed to update gamification")
	}
	return c.JSON(ledger)
}
