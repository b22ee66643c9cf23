package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"plan-converter/internal/converter/emitter"
	"plan-converter/internal/converter/graph"
	"plan-converter/internal/converter/mapper"
	"plan-converter/internal/converter/models"
	"plan-converter/internal/converter/parser"
	"plan-converter/internal/plan/repository"
	"plan-converter/internal/plan/storage"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ============================================================
// Plan Handler
// ============================================================

// PlanHandler converts building text and, when a repository is configured,
// keeps the results.
type PlanHandler struct {
	converter *mapper.Converter
	renderer  *mapper.Renderer
	repo      *repository.Repository
	storage   *storage.FileStorage
}

func NewPlanHandler(repo *repository.Repository, storage *storage.FileStorage) *PlanHandler {
	return &PlanHandler{
		converter: mapper.New(),
		renderer:  mapper.NewRenderer(),
		repo:      repo,
		storage:   storage,
	}
}

type convertResponse struct {
	ID          string             `json:"id,omitempty"`
	Model       *models.Model      `json:"model"`
	Diagnostics parser.Diagnostics `json:"diagnostics"`
}

type wallErrorResponse struct {
	Error       string             `json:"error"`
	Line        int                `json:"line"`
	Wall        string             `json:"wall,omitempty"`
	Token       string             `json:"token,omitempty"`
	Diagnostics parser.Diagnostics `json:"diagnostics"`
}

// ============================================================
// Convert Handler
// ============================================================

// Convert turns a building text description into a model.
//
// Input is a multipart "file" field or the raw request body. ?format=json
// (default), yaml or planner selects the response; ?save=false skips
// storage.
func (h *PlanHandler) Convert(c fiber.Ctx) error {
	log.Printf("[CONVERTER] Received request")
	log.Printf("[CONVERTER] Content-Type: %s", c.Get("Content-Type"))

	data, name, err := readInput(c)
	if err != nil {
		log.Printf("[CONVERTER] Input error: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	format := strings.ToLower(c.Query("format", "json"))
	if format != "json" && format != "yaml" && format != "yml" && format != "planner" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unknown format %q", format)})
	}

	log.Printf("[CONVERTER] Starting conversion of %s, data size: %d bytes", name, len(data))
	model, diags, err := h.converter.Convert(bytes.NewReader(data))
	if diags == nil {
		diags = parser.Diagnostics{}
	}
	if err != nil {
		var wallErr *parser.WallError
		if errors.As(err, &wallErr) {
			log.Printf("[CONVERTER] Conversion rejected: %v", wallErr)
			return c.Status(http.StatusUnprocessableEntity).JSON(wallErrorResponse{
				Error:       wallErr.Error(),
				Line:        wallErr.Line,
				Wall:        wallErr.Label,
				Token:       wallErr.Token,
				Diagnostics: diags,
			})
		}
		log.Printf("[CONVERTER] Conversion error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(diags) > 0 {
		log.Printf("[CONVERTER] Diagnostics: %s", diags.Summary())
	}
	c.Set("X-Diagnostics", strconv.Itoa(len(diags)))

	var planID string
	if h.repo != nil && c.Query("save") != "false" {
		planID, err = h.save(c, name, data, model, diags)
		if err != nil {
			log.Printf("[CONVERTER] Save error: %v", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save plan"})
		}
		c.Set("X-Plan-ID", planID)
	}

	log.Printf("[CONVERTER] Conversion successful: %d walls, %d diagnostics", len(model.Walls), len(diags))

	switch format {
	case "yaml", "yml":
		out, err := emitter.Marshal(model, emitter.FormatYAML)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set("Content-Type", emitter.FormatYAML.ContentType())
		return c.Send(out)
	case "planner":
		scene, err := graph.NewGraphBuilder().Build(model)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(scene)
	}

	return c.JSON(convertResponse{ID: planID, Model: model, Diagnostics: diags})
}

func (h *PlanHandler) save(c fiber.Ctx, name string, source []byte, model *models.Model, diags parser.Diagnostics) (string, error) {
	doc, err := emitter.Marshal(model, emitter.FormatJSON)
	if err != nil {
		return "", err
	}
	svg, err := h.renderer.Render(model)
	if err != nil {
		return "", err
	}

	plan := &repository.Plan{
		ID:          uuid.NewString(),
		Name:        name,
		Walls:       len(model.Walls),
		Diagnostics: len(diags),
		Model:       doc,
	}

	// Files first: a row is only inserted once its artifacts exist.
	if h.storage != nil {
		files := []struct {
			path string
			data []byte
		}{
			{h.storage.SourcePath(plan.ID), source},
			{h.storage.ModelPath(plan.ID), doc},
			{h.storage.SVGPath(plan.ID), []byte(svg)},
		}
		for _, f := range files {
			if err := h.storage.SaveFile(plan.ID, f.path, f.data); err != nil {
				h.discardFiles(plan.ID)
				return "", err
			}
		}
	}

	if err := h.repo.Create(c.Context(), plan); err != nil {
		h.discardFiles(plan.ID)
		return "", err
	}

	log.Printf("[PLANS] Stored plan %s (%s)", plan.ID, name)
	return plan.ID, nil
}

func (h *PlanHandler) discardFiles(planID string) {
	if h.storage == nil {
		return
	}
	if err := h.storage.Remove(planID); err != nil {
		log.Printf("[PLANS] Cleanup of %s failed: %v", planID, err)
	}
}

// readInput returns the uploaded file (multipart "file") or the raw body,
// and a display name for the plan.
func readInput(c fiber.Ctx) ([]byte, string, error) {
	name := c.Query("name")

	if strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		file, err := c.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("file required in multipart/form-data")
		}
		log.Printf("[CONVERTER] File received: %s, size: %d", file.Filename, file.Size)

		f, err := file.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read file")
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
		}
		return nonEmpty(data, name)
	}

	return nonEmpty(c.Body(), name)
}

func nonEmpty(data []byte, name string) ([]byte, string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, "", fmt.Errorf("body required")
	}
	if name == "" {
		name = "building"
	}
	return data, name, nil
}
