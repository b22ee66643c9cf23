package parser

import (
	"strings"

	"plan-converter/internal/converter/models"
)

// ============================================================
// Type Table Parser
// ============================================================

// ParseTypes resolves "name = preset, width[, height]" catalog lines. kind
// selects the height default: lintel-sill for windows, lintel for doors.
// Lines that cannot be resolved are reported and skipped; the last entry
// for a name wins.
func ParseTypes(lines []Line, kind models.OpeningKind, s Settings, diags *Diagnostics) map[string]models.TypeEntry {
	section := SectionDoors
	if kind == models.OpeningWindow {
		section = SectionWindows
	}

	table := make(map[string]models.TypeEntry)
	for _, line := range lines {
		entry, ok := parseTypeLine(line, section, kind, s, diags)
		if ok {
			table[entry.Name] = entry
		}
	}
	return table
}

func parseTypeLine(line Line, section Section, kind models.OpeningKind, s Settings, diags *Diagnostics) (models.TypeEntry, bool) {
	name, val, ok := strings.Cut(line.Text, "=")
	if !ok {
		diags.report(CodeTypeSyntax, section, line, "", "expected name = preset, width[, height]")
		return models.TypeEntry{}, false
	}
	name = strings.TrimSpace(name)

	parts := strings.Split(val, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) != 2 && len(parts) != 3 {
		diags.report(CodeTypeFieldCount, section, line, name, "expected 2 or 3 comma-separated fields, got %d", len(parts))
		return models.TypeEntry{}, false
	}

	width, err := parseNumber(parts[1])
	if err != nil {
		diags.report(CodeTypeWidth, section, line, parts[1], "width of %s is not a number", name)
		return models.TypeEntry{}, false
	}
	if width <= 0 {
		diags.report(CodeTypeWidth, section, line, parts[1], "width of %s must be positive", name)
		return models.TypeEntry{}, false
	}

	height, heightToken := s.DefaultHeight(kind), ""
	if len(parts) == 3 && parts[2] != "" {
		heightToken = parts[2]
		height, err = parseNumber(parts[2])
		if err != nil {
			diags.report(CodeTypeHeight, section, line, parts[2], "height of %s is not a number", name)
			return models.TypeEntry{}, false
		}
	}
	if height <= 0 {
		diags.report(CodeTypeHeight, section, line, heightToken, "height of %s must be positive", name)
		return models.TypeEntry{}, false
	}

	return models.TypeEntry{
		Name:   name,
		Preset: parts[0],
		Width:  models.Round(width),
		Height: models.Round(height),
	}, true
}
