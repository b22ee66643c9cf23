package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"plan-converter/internal/converter/graph"
	"plan-converter/internal/converter/models"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Render Handler
// ============================================================

// Render draws an SVG preview from a model JSON body.
func (h *PlanHandler) Render(c fiber.Ctx) error {
	log.Printf("[RENDER] Received request")
	log.Printf("[RENDER] Content-Length: %d", len(c.Body()))

	model, ok := decodeModel(c)
	if !ok {
		return nil
	}

	svg, err := h.renderer.Render(model)
	if err != nil {
		log.Printf("[RENDER] Render error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// Planner exports a model JSON body as a react-planner scene.
func (h *PlanHandler) Planner(c fiber.Ctx) error {
	model, ok := decodeModel(c)
	if !ok {
		return nil
	}

	scene, err := graph.NewGraphBuilder().Build(model)
	if err != nil {
		log.Printf("[RENDER] Planner export error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(scene)
}

// decodeModel reads the model body. On failure it has already written the
// error response.
func decodeModel(c fiber.Ctx) (*models.Model, bool) {
	if len(c.Body()) == 0 {
		_ = c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "body required"})
		return nil, false
	}

	var model models.Model
	if err := json.Unmarshal(c.Body(), &model); err != nil {
		log.Printf("[RENDER] Decode error: %v", err)
		_ = c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON payload"})
		return nil, false
	}
	return &model, true
}
