package parser

import (
	"math"
	"strings"

	"plan-converter/internal/converter/models"
)

// ============================================================
// Defaults Resolver
// ============================================================

// ParseDefaults resolves "key = value" lines. Numeric keys that do not parse
// to a finite number are kept as text; lines without "=" are ignored. Later keys win.
func ParseDefaults(lines []Line, diags *Diagnostics) models.Defaults {
	values := make(map[string]models.Value)

	for _, line := range lines {
		key, val, ok := strings.Cut(line.Text, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch {
		case key == models.KeyBrickColour:
			values[key] = parseColours(line, val, diags)
		case models.IsNumericKey(key):
			if num, err := parseNumber(val); err == nil {
				values[key] = models.Number(num)
			} else {
				values[key] = models.Text(val)
			}
		default:
			values[key] = models.Text(val)
		}
	}

	return models.NewDefaults(values)
}

func parseColours(line Line, val string, diags *Diagnostics) models.ColorMap {
	colours := make(models.ColorMap)
	for _, pair := range strings.Fields(val) {
		code, colour, ok := strings.Cut(pair, ":")
		if !ok || code == "" {
			diags.report(CodeDefaultsColourPair, SectionDefaults, line, pair, "expected code:colour")
			continue
		}
		colours[code] = colour
	}
	return colours
}

// ============================================================
// Settings
// ============================================================

// Settings are the numeric defaults the resolvers work with.
type Settings struct {
	Brick           float64
	WallHeight      float64
	ThicknessFactor float64
	SillLevel       float64
	LintelLevel     float64
}

// ResolveSettings reads the numeric defaults, falling back to built-in
// values. A default that is present but not numeric is reported.
func ResolveSettings(d models.Defaults, diags *Diagnostics) Settings {
	return Settings{
		Brick:           numericDefault(d, models.KeyBrick, models.FallbackBrick, diags),
		WallHeight:      numericDefault(d, models.KeyWallHeight, models.FallbackWallHeight, diags),
		ThicknessFactor: numericDefault(d, models.KeyWallThickness, models.FallbackThicknessFactor, diags),
		SillLevel:       numericDefault(d, models.KeySillLevel, models.FallbackSillLevel, diags),
		LintelLevel:     numericDefault(d, models.KeyLintelLevel, models.FallbackLintelLevel, diags),
	}
}

func numericDefault(d models.Defaults, key string, fallback float64, diags *Diagnostics) float64 {
	if num, ok := d.Number(key); ok && !math.IsNaN(num) && !math.IsInf(num, 0) {
		return num
	}
	if v, ok := d.Get(key); ok {
		diags.report(CodeDefaultsNotNumeric, SectionDefaults, Line{}, key,
			"default %s = %v is not a number, using %v", key, v, fallback)
	}
	return fallback
}

// Thickness converts a thickness factor to a wall thickness.
func (s Settings) Thickness(factor float64) float64 {
	return models.Round(factor * s.Brick)
}

// DefaultHeight is the opening height used when a type line omits it.
func (s Settings) DefaultHeight(kind models.OpeningKind) float64 {
	if kind == models.OpeningWindow {
		return s.LintelLevel - s.SillLevel
	}
	return s.LintelLevel
}
