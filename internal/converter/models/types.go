package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Geometry primitives
// ============================================================

// Precision is the number of decimals kept for every emitted float.
const Precision = 4

// roundLimit is where float64 has no fractional digits left to round.
const roundLimit = 1e15

// Round rounds v to Precision decimals. Negative zero is folded to zero;
// values too large to carry decimals are returned unchanged.
func Round(v float64) float64 {
	if math.Abs(v) >= roundLimit || math.IsNaN(v) {
		return v
	}
	scale := math.Pow10(Precision)
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}

// Point is a 2D coordinate, emitted as [x, y].
type Point struct {
	X float64
	Y float64
}

func (p Point) Rounded() Point {
	return Point{X: Round(p.X), Y: Round(p.Y)}
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("point: expected [x, y], got %d values", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

func (p Point) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			floatNode(p.X),
			floatNode(p.Y),
		},
	}, nil
}

// floatNode leaves the tag implicit so integral coordinates print as 3000, not !!float 3000.
func floatNode(v float64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

// ============================================================
// Type tables
// ============================================================

// TypeEntry is a door or window preset from a type catalog.
type TypeEntry struct {
	Name   string  `json:"-" yaml:"-"`
	Preset string  `json:"preset" yaml:"preset"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ============================================================
// Walls & openings
// ============================================================

type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// KindOf classifies an opening reference: codes starting with "W" are windows.
func KindOf(ref string) OpeningKind {
	if strings.HasPrefix(strings.ToUpper(ref), "W") {
		return OpeningWindow
	}
	return OpeningDoor
}

// Opening lies on the wall segment path[SegmentIndex] -> path[SegmentIndex+1],
// Position units from its first point.
type Opening struct {
	SegmentIndex int         `json:"segment_index" yaml:"segment_index"`
	Position     float64     `json:"position" yaml:"position"`
	Type         OpeningKind `json:"type" yaml:"type"`
	Ref          string      `json:"ref" yaml:"ref"`
}

type Wall struct {
	Label     string    `json:"label" yaml:"label"`
	Start     Point     `json:"start" yaml:"start"`
	Path      []Point   `json:"path" yaml:"path"`
	Height    float64   `json:"height" yaml:"height"`
	Thickness float64   `json:"thickness" yaml:"thickness"`
	Closed    bool      `json:"closed" yaml:"closed"`
	Openings  []Opening `json:"openings" yaml:"openings"`
}

// SegmentCount returns the number of edges in the wall path.
func (w *Wall) SegmentCount() int {
	if len(w.Path) < 2 {
		return 0
	}
	return len(w.Path) - 1
}

// Segment returns the endpoints of edge i.
func (w *Wall) Segment(i int) (Point, Point, bool) {
	if i < 0 || i >= w.SegmentCount() {
		return Point{}, Point{}, false
	}
	return w.Path[i], w.Path[i+1], true
}

// SegmentLength returns the length of edge i, or 0 when it does not exist.
func (w *Wall) SegmentLength(i int) float64 {
	a, b, ok := w.Segment(i)
	if !ok {
		return 0
	}
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// ============================================================
// Model
// ============================================================

type Model struct {
	Defaults    Defaults             `json:"defaults" yaml:"defaults"`
	DoorTypes   map[string]TypeEntry `json:"door_types" yaml:"door_types"`
	WindowTypes map[string]TypeEntry `json:"window_types" yaml:"window_types"`
	Walls       []Wall               `json:"walls" yaml:"walls"`
}

// Wall looks a wall up by label. With duplicate labels the last one wins.
func (m *Model) Wall(label string) (*Wall, bool) {
	for i := len(m.Walls) - 1; i >= 0; i-- {
		if m.Walls[i].Label == label {
			return &m.Walls[i], true
		}
	}
	return nil, false
}

// Bounds returns the bounding box of every wall path point.
func (m *Model) Bounds() (lo, hi Point, ok bool) {
	for _, w := range m.Walls {
		for _, p := range w.Path {
			if !ok {
				lo, hi, ok = p, p, true
				continue
			}
			lo.X = math.Min(lo.X, p.X)
			lo.Y = math.Min(lo.Y, p.Y)
			hi.X = math.Max(hi.X, p.X)
			hi.Y = math.Max(hi.Y, p.Y)
		}
	}
	return lo, hi, ok
}
