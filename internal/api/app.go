package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const requestBodyLimit = 1 << 20

// NewApp wires the middleware stack and every route onto a fresh fiber app.
func NewApp(handler *Handler, corsOrigins []string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "fetalrisk",
		DisableStartupMessage: true,
		BodyLimit:             requestBodyLimit,
		ErrorHandler:          handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(handler.ObserveRequests)
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(corsOrigins, ","),
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
		ExposeHeaders: fiber.HeaderAuthorization,
	}))
	app.Use(compress.New())

	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}
