package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

func (c *HealthController) RegisterRoutes(r fiber.Router) {
	r.Get("health", c.Check)
}

func (c *HealthController) Check(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":    "ok",
		"message":   "AI Chatbot backend is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
