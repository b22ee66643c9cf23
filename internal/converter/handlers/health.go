package handlers

import (
	"net/http"

	"plan-converter/internal/plan/repository"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe reports that the process is up.
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe reports ready once the plan database answers.
func ReadinessProbe(repo *repository.Repository) fiber.Handler {
	return func(c fiber.Ctx) error {
		if repo != nil {
			if err := repo.Ping(c.Context()); err != nil {
				return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}
