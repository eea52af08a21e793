package api

import (
	"github.com/bikkkubo/yeni-auto/internal/api/handlers"
	"github.com/bikkkubo/yeni-auto/pkg/config"
	"github.com/bikkkubo/yeni-auto/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	webhookHandler *handlers.WebhookHandler,
	webhookCfg *config.WebhookConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Access-Token",
	}))
	app.Use(logger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Webhook routes, gated by the shared platform token
	webhook := app.Group("/api/v1/webhook", middleware.WebhookAuth(webhookCfg.Token, appLogger))
	webhook.Post("/channelio", webhookHandler.HandleInquiry)
	webhook.Get("/channelio", webhookHandler.Readiness)

	return app
}
