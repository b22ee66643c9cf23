package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"plan-converter/internal/converter/models"
	"plan-converter/internal/plan/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ============================================================
// Stored Plans
// ============================================================

// Register mounts the converter routes.
func (h *PlanHandler) Register(router fiber.Router) {
	router.Post("/convert", h.Convert)
	router.Post("/render", h.Render)
	router.Post("/planner", h.Planner)

	router.Get("/plans", h.ListPlans)
	router.Get("/plans/:id", h.GetPlan)
	router.Get("/plans/:id/svg", h.GetPlanSVG)
	router.Get("/plans/:id/source", h.GetPlanSource)
	router.Delete("/plans/:id", h.DeletePlan)
}

// ListPlans returns stored plans, newest first.
func (h *PlanHandler) ListPlans(c fiber.Ctx) error {
	if h.repo == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "plan storage disabled"})
	}

	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
	}
	plans, err := h.repo.List(c.Context(), limit)
	if err != nil {
		log.Printf("[PLANS] List error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list plans"})
	}
	return c.JSON(plans)
}

// GetPlan returns the model JSON of a stored plan.
func (h *PlanHandler) GetPlan(c fiber.Ctx) error {
	plan, ok := h.lookup(c)
	if !ok {
		return nil
	}
	c.Set("Content-Type", "application/json")
	return c.Send(plan.Model)
}

// GetPlanSVG returns the SVG preview of a plan.
func (h *PlanHandler) GetPlanSVG(c fiber.Ctx) error {
	plan, ok := h.lookup(c)
	if !ok {
		return nil
	}

	c.Set("Content-Type", "image/svg+xml")
	if h.storage != nil && h.storage.Exists(h.storage.SVGPath(plan.ID)) {
		return c.SendFile(h.storage.SVGPath(plan.ID))
	}

	var model models.Model
	if err := json.Unmarshal(plan.Model, &model); err != nil {
		log.Printf("[PLANS] Stored model %s unreadable: %v", plan.ID, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "stored model unreadable"})
	}
	svg, err := h.renderer.Render(&model)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendString(svg)
}

// GetPlanSource returns the original building text.
func (h *PlanHandler) GetPlanSource(c fiber.Ctx) error {
	plan, ok := h.lookup(c)
	if !ok {
		return nil
	}
	if h.storage == nil || !h.storage.Exists(h.storage.SourcePath(plan.ID)) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "source not found"})
	}
	c.Set("Content-Type", "text/plain; charset=utf-8")
	return c.SendFile(h.storage.SourcePath(plan.ID))
}

// DeletePlan removes a plan and its files.
func (h *PlanHandler) DeletePlan(c fiber.Ctx) error {
	id, ok := planID(c)
	if !ok {
		return nil
	}
	if h.repo == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "plan storage disabled"})
	}

	if err := h.repo.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "plan not found"})
		}
		log.Printf("[PLANS] Delete error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete plan"})
	}
	if h.storage != nil {
		if err := h.storage.Remove(id); err != nil {
			log.Printf("[PLANS] Remove files of %s: %v", id, err)
		}
	}

	log.Printf("[PLANS] Deleted plan %s", id)
	return c.SendStatus(http.StatusNoContent)
}

// lookup loads the plan named by :id. On failure it has already written the
// error response.
func (h *PlanHandler) lookup(c fiber.Ctx) (*repository.Plan, bool) {
	id, ok := planID(c)
	if !ok {
		return nil, false
	}
	if h.repo == nil {
		_ = c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "plan storage disabled"})
		return nil, false
	}

	plan, err := h.repo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "plan not found"})
			return nil, false
		}
		log.Printf("[PLANS] Get error: %v", err)
		_ = c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load plan"})
		return nil, false
	}
	return plan, true
}

func planID(c fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid plan id"})
		return "", false
	}
	return id.String(), true
}
