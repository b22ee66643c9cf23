package graph

import (
	"fmt"
	"math"
	"slices"

	"plan-converter/internal/converter/models"
)

// ============================================================
// Graph Builder
// ============================================================

const tolerance = 2.0 // points closer than this share a vertex

// GraphBuilder turns a resolved model into a react-planner scene: wall
// segments become lines between shared vertices, openings become holes,
// closed walls become areas.
type GraphBuilder struct {
	vertices map[string]models.Vertex
	order    []string
	lines    map[string]models.Line
	holes    map[string]models.Hole
	areas    map[string]models.Area
	vertexID int
}

func NewGraphBuilder() *GraphBuilder {
	g := &GraphBuilder{}
	g.reset()
	return g
}

func (g *GraphBuilder) reset() {
	g.vertices = make(map[string]models.Vertex)
	g.order = g.order[:0]
	g.lines = make(map[string]models.Line)
	g.holes = make(map[string]models.Hole)
	g.areas = make(map[string]models.Area)
	g.vertexID = 0
}

// Build creates a scene from the building model.
func (g *GraphBuilder) Build(m *models.Model) (*models.Scene, error) {
	if m == nil {
		return nil, fmt.Errorf("model is nil")
	}
	g.reset()

	sill := numberOr(m.Defaults, models.KeySillLevel, models.FallbackSillLevel)
	lintel := numberOr(m.Defaults, models.KeyLintelLevel, models.FallbackLintelLevel)

	for i := range m.Walls {
		wall := &m.Walls[i]
		segmentLines := g.addWall(wall)
		for j, opening := range wall.Openings {
			g.addHole(m, wall, j, opening, segmentLines, sill, lintel)
		}
		if wall.Closed {
			g.addArea(wall)
		}
	}

	layer := models.Layer{
		ID:       "layer-1",
		Altitude: 0,
		Order:    0,
		Opacity:  1,
		Name:     "default",
		Visible:  true,
		Vertices: g.vertices,
		Lines:    g.lines,
		Holes:    g.holes,
		Areas:    g.areas,
		Items:    map[string]any{},
		Selected: models.ElementsSet{Vertices: []string{}, Lines: []string{}, Holes: []string{}, Areas: []string{}, Items: []string{}},
	}

	width, height := 3000.0, 2000.0
	if lo, hi, ok := m.Bounds(); ok && hi.X > lo.X && hi.Y > lo.Y {
		width, height = models.Round(hi.X-lo.X), models.Round(hi.Y-lo.Y)
	}

	return &models.Scene{
		Unit:          "mm",
		Layers:        map[string]models.Layer{"layer-1": layer},
		SelectedLayer: "layer-1",
		Grids:         defaultGrids(),
		Groups:        map[string]any{},
		Width:         width,
		Height:        height,
		Meta:          map[string]any{},
		Guides:        defaultGuides(),
	}, nil
}

// addWall adds one line per non-degenerate segment and returns the line ID
// for each segment index ("" for skipped segments).
func (g *GraphBuilder) addWall(wall *models.Wall) []string {
	segmentLines := make([]string, wall.SegmentCount())

	for i := range segmentLines {
		a, b, _ := wall.Segment(i)
		v1ID := g.findOrCreateVertex(a)
		v2ID := g.findOrCreateVertex(b)
		if v1ID == v2ID {
			continue
		}

		id := g.uniqueLineID(fmt.Sprintf("%s_%d", wall.Label, i+1))
		g.lines[id] = models.Line{
			ID:         id,
			Name:       wall.Label,
			Type:       "wall",
			Prototype:  "lines",
			Vertices:   []string{v1ID, v2ID},
			Holes:      []string{},
			Properties: wallProperties(wall),
		}
		g.attachLineToVertex(v1ID, id)
		g.attachLineToVertex(v2ID, id)
		segmentLines[i] = id
	}
	return segmentLines
}

func (g *GraphBuilder) addHole(m *models.Model, wall *models.Wall, idx int, opening models.Opening, segmentLines []string, sill, lintel float64) {
	if opening.SegmentIndex < 0 || opening.SegmentIndex >= len(segmentLines) {
		return
	}
	lineID := segmentLines[opening.SegmentIndex]
	if lineID == "" {
		return
	}

	offset := 0.0
	if length := wall.SegmentLength(opening.SegmentIndex); length > 0 {
		offset = models.Round(clamp(opening.Position/length, 0, 1))
	}

	id := fmt.Sprintf("%s_%s_%d", wall.Label, opening.Ref, idx+1)
	g.holes[id] = models.Hole{
		ID:         id,
		Name:       opening.Ref,
		Type:       string(opening.Type),
		Prototype:  "holes",
		Offset:     offset,
		Line:       lineID,
		Properties: holeProperties(m, wall, opening, sill, lintel),
	}

	line := g.lines[lineID]
	line.Holes = appendUnique(line.Holes, id)
	g.lines[lineID] = line
}

func (g *GraphBuilder) addArea(wall *models.Wall) {
	points := wall.Path
	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return
	}

	id := wall.Label + "_area"
	var ids []string
	for _, p := range points {
		vid := g.findOrCreateVertex(p)
		vertex := g.vertices[vid]
		vertex.Areas = appendUnique(vertex.Areas, id)
		g.vertices[vid] = vertex
		ids = append(ids, vid)
	}

	g.areas[id] = models.Area{
		ID:         id,
		Name:       wall.Label,
		Type:       "area",
		Prototype:  "areas",
		Vertices:   ids,
		Holes:      []string{},
		Properties: defaultAreaProperties(),
	}
}

func (g *GraphBuilder) findOrCreateVertex(p models.Point) string {
	// reuse a nearby vertex if there is one
	for _, id := range g.order {
		v := g.vertices[id]
		if distance(p, models.Point{X: v.X, Y: v.Y}) < tolerance {
			return id
		}
	}

	g.vertexID++
	id := fmt.Sprintf("v%d", g.vertexID)
	g.vertices[id] = models.Vertex{
		ID:        id,
		Name:      "Vertex",
		Type:      "vertex",
		Prototype: "vertices",
		X:         p.X,
		Y:         p.Y,
		Lines:     []string{},
		Areas:     []string{},
	}
	g.order = append(g.order, id)
	return id
}

func (g *GraphBuilder) uniqueLineID(base string) string {
	id := base
	for n := 2; ; n++ {
		if _, taken := g.lines[id]; !taken {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

func (g *GraphBuilder) attachLineToVertex(vertexID, lineID string) {
	vertex := g.vertices[vertexID]
	vertex.Lines = appendUnique(vertex.Lines, lineID)
	g.vertices[vertexID] = vertex
}

// ============================================================
// Helpers
// ============================================================

func distance(p1, p2 models.Point) float64 {
	return math.Hypot(p1.X-p2.X, p1.Y-p2.Y)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func appendUnique(dst []string, src ...string) []string {
	for _, s := range src {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

func numberOr(d models.Defaults, key string, fallback float64) float64 {
	if v, ok := d.Number(key); ok {
		return v
	}
	return fallback
}

// ============================================================
// Defaults
// ============================================================

func wallProperties(wall *models.Wall) map[string]any {
	return map[string]any{
		"height":    models.LengthValue{Length: wall.Height},
		"thickness": models.LengthValue{Length: wall.Thickness},
		"textureA":  "bricks",
		"textureB":  "bricks",
	}
}

func holeProperties(m *models.Model, wall *models.Wall, opening models.Opening, sill, lintel float64) map[string]any {
	table, width, height, altitude := m.DoorTypes, 900.0, lintel, 0.0
	if opening.Type == models.OpeningWindow {
		table, width, height, altitude = m.WindowTypes, 1200.0, lintel-sill, sill
	}
	preset := ""
	if entry, ok := table[opening.Ref]; ok {
		preset, width, height = entry.Preset, entry.Width, entry.Height
	}

	return map[string]any{
		"preset":    preset,
		"width":     models.LengthValue{Length: width},
		"height":    models.LengthValue{Length: height},
		"altitude":  models.LengthValue{Length: altitude},
		"thickness": models.LengthValue{Length: wall.Thickness},
	}
}

func defaultAreaProperties() map[string]any {
	return map[string]any{
		"patternColor": "#F5F5F5",
		"thickness":    models.LengthValue{Length: 0},
	}
}

func defaultGrids() map[string]models.Grid {
	return map[string]models.Grid{
		"h1": {
			ID:   "h1",
			Type: "horizontal-streak",
			Properties: map[string]any{
				"step":   20,
				"colors": []string{"#808080", "#ddd", "#ddd", "#ddd", "#ddd"},
			},
		},
		"v1": {
			ID:   "v1",
			Type: "vertical-streak",
			Properties: map[string]any{
				"step":   20,
				"colors": []string{"#808080", "#ddd", "#ddd", "#ddd", "#ddd"},
			},
		},
	}
}

func defaultGuides() models.Guides {
	return models.Guides{
		Horizontal: map[string]any{},
		Vertical:   map[string]any{},
		Circular:   map[string]any{},
	}
}
