package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ObserveRequests writes the access log line and request metrics.
func (handler *Handler) ObserveRequests(c *fiber.Ctx) error {
	started := time.Now()
	err := c.Next()
	elapsed := time.Since(started)

	status := c.Response().StatusCode()
	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	route := c.Route().Path
	if handler.metrics != nil {
		handler.metrics.ObserveRequest(c.Method(), route, strconv.Itoa(status), elapsed)
	}
	handler.logger.Info("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("route", route),
		zap.Int("status", status),
		zap.Duration("latency", elapsed),
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.String("ip", c.IP()),
	)
	return err
}
