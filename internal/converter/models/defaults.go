package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// ============================================================
// Default values
// ============================================================

// Recognized default keys.
const (
	KeyBrick         = "brick"
	KeyWallHeight    = "wall_height"
	KeyWallThickness = "wall_thickness"
	KeyLintelLevel   = "lintel_level"
	KeySillLevel     = "sill_level"
	KeyBrickColour   = "brick_colour"
)

// Values used when a numeric default is absent.
const (
	FallbackBrick           = 230.0
	FallbackWallHeight      = 3000.0
	FallbackThicknessFactor = 1.0
	FallbackLintelLevel     = 2100.0
	FallbackSillLevel       = 1000.0
)

// IsNumericKey reports whether key holds a number in the defaults section.
func IsNumericKey(key string) bool {
	switch key {
	case KeyBrick, KeyWallHeight, KeyWallThickness, KeyLintelLevel, KeySillLevel:
		return true
	}
	return false
}

// Value is one of Number, Text or ColorMap.
type Value interface {
	isValue()
}

type Number float64

type Text string

// ColorMap maps a brick code to a colour name.
type ColorMap map[string]string

func (Number) isValue()   {}
func (Text) isValue()     {}
func (ColorMap) isValue() {}

// Defaults is the resolved "defaults" section. It is read-only once built;
// ColorMap values handed out by Get are copies.
type Defaults struct {
	values map[string]Value
}

// NewDefaults copies values into a new Defaults.
func NewDefaults(values map[string]Value) Defaults {
	d := Defaults{values: make(map[string]Value, len(values))}
	for k, v := range values {
		d.values[k] = cloneValue(v)
	}
	return d
}

func cloneValue(v Value) Value {
	if cm, ok := v.(ColorMap); ok {
		return ColorMap(maps.Clone(cm))
	}
	return v
}

func (d Defaults) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Number returns the numeric value of key. ok is false when the key is
// missing or holds something other than a Number.
func (d Defaults) Number(key string) (float64, bool) {
	n, ok := d.values[key].(Number)
	return float64(n), ok
}

func (d Defaults) Len() int {
	return len(d.values)
}

// Keys returns the keys in sorted order.
func (d Defaults) Keys() []string {
	return slices.Sorted(maps.Keys(d.values))
}

// plain is the emitted form. Numbers are rounded like every other float.
func (d Defaults) plain() map[string]any {
	out := make(map[string]any, len(d.values))
	for k, v := range d.values {
		switch tv := v.(type) {
		case Number:
			out[k] = Round(float64(tv))
		case Text:
			out[k] = string(tv)
		case ColorMap:
			out[k] = map[string]string(tv)
		}
	}
	return out
}

func (d Defaults) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.plain())
}

func (d Defaults) MarshalYAML() (any, error) {
	return d.plain(), nil
}

func (d *Defaults) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	values := make(map[string]Value, len(raw))
	for k, msg := range raw {
		var num float64
		if err := json.Unmarshal(msg, &num); err == nil {
			values[k] = Number(num)
			continue
		}
		var text string
		if err := json.Unmarshal(msg, &text); err == nil {
			values[k] = Text(text)
			continue
		}
		var colors map[string]string
		if err := json.Unmarshal(msg, &colors); err == nil {
			values[k] = ColorMap(colors)
			continue
		}
		return fmt.Errorf("defaults: unsupported value for %q", k)
	}

	d.values = values
	return nil
}
