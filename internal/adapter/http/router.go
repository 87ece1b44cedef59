package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

// NewApp builds the fiber app with every route registered.
func NewApp(h *Handler, staticDir string, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "smart-cv-generator",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          2 * time.Minute,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))

	app.Get("/", h.FormPage)
	app.Post("/generate", h.Generate)
	app.Get("/healthz", h.Health)
	app.Static("/static", staticDir)

	return app
}
