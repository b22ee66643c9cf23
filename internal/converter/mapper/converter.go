package mapper

import (
	"fmt"
	"io"

	"plan-converter/internal/converter/models"
	"plan-converter/internal/converter/parser"
)

// ============================================================
// Converter
// ============================================================

// Converter runs the building text pipeline: sections, defaults, type
// tables, walls, openings.
type Converter struct{}

func New() *Converter {
	return &Converter{}
}

// Convert building text → resolved model. Recoverable problems come back as
// diagnostics; a malformed wall line fails the whole conversion with a
// *parser.WallError.
func (c *Converter) Convert(r io.Reader) (*models.Model, parser.Diagnostics, error) {
	lines, err := parser.ReadLines(r)
	if err != nil {
		return nil, nil, err
	}
	sections := parser.Split(lines)

	var diags parser.Diagnostics

	// Defaults are resolved before anything that depends on them.
	defaults := parser.ParseDefaults(sections.Defaults, &diags)
	settings := parser.ResolveSettings(defaults, &diags)

	doorTypes := parser.ParseTypes(sections.Doors, models.OpeningDoor, settings, &diags)
	windowTypes := parser.ParseTypes(sections.Windows, models.OpeningWindow, settings, &diags)

	walls, err := parser.ParseWalls(sections.Walls, settings, &diags)
	if err != nil {
		return nil, diags, fmt.Errorf("resolve walls: %w", err)
	}

	parser.MapOpenings(sections.Openings, walls, &diags)

	model := &models.Model{
		Defaults:    defaults,
		DoorTypes:   doorTypes,
		WindowTypes: windowTypes,
		Walls:       walls,
	}
	return model, diags, nil
}
