package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"plan-converter/internal/converter/models"
)

// ============================================================
// Renderer
// ============================================================

const (
	defaultMargin   = 500.0
	emptyPlanSize   = 1000.0
	fallbackOpening = 900.0
)

// Renderer draws a resolved model as an SVG plan preview. Y is flipped so
// that north points up.
type Renderer struct {
	Margin float64
}

func NewRenderer() *Renderer {
	return &Renderer{Margin: defaultMargin}
}

// Render builds the SVG preview: one polyline per wall, one stroke per opening.
func (r *Renderer) Render(m *models.Model) (string, error) {
	if m == nil {
		return "", fmt.Errorf("model is nil")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	r.setViewBox(svg, m)

	walls := svg.CreateElement("g")
	walls.CreateAttr("id", "walls")
	openings := svg.CreateElement("g")
	openings.CreateAttr("id", "openings")

	for i := range m.Walls {
		wall := &m.Walls[i]
		r.renderWall(walls, wall)
		r.renderOpenings(openings, wall, m)
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("write svg: %w", err)
	}
	return out, nil
}

// ============================================================
// Layout
// ============================================================

func (r *Renderer) setViewBox(svg *etree.Element, m *models.Model) {
	lo, hi, ok := m.Bounds()
	if !ok {
		size := formatFloat(emptyPlanSize)
		svg.CreateAttr("width", size)
		svg.CreateAttr("height", size)
		svg.CreateAttr("viewBox", "0 0 "+size+" "+size)
		return
	}

	x := lo.X - r.Margin
	y := -hi.Y - r.Margin
	width := hi.X - lo.X + 2*r.Margin
	height := hi.Y - lo.Y + 2*r.Margin

	svg.CreateAttr("width", formatFloat(width))
	svg.CreateAttr("height", formatFloat(height))
	svg.CreateAttr("viewBox", strings.Join([]string{
		formatFloat(x), formatFloat(y), formatFloat(width), formatFloat(height),
	}, " "))
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderWall(parent *etree.Element, wall *models.Wall) {
	if len(wall.Path) < 2 {
		return
	}

	points := make([]string, 0, len(wall.Path))
	for _, p := range wall.Path {
		points = append(points, formatPoint(p))
	}

	el := parent.CreateElement("polyline")
	el.CreateAttr("id", wall.Label)
	el.CreateAttr("class", "wall")
	el.CreateAttr("points", strings.Join(points, " "))
	el.CreateAttr("fill", "none")
	el.CreateAttr("stroke", "#000")
	el.CreateAttr("stroke-width", formatFloat(wall.Thickness))
	el.CreateAttr("stroke-linejoin", "miter")
}

// renderOpenings draws each opening from its position along the segment,
// as wide as its catalog entry.
func (r *Renderer) renderOpenings(parent *etree.Element, wall *models.Wall, m *models.Model) {
	for i, opening := range wall.Openings {
		a, b, ok := wall.Segment(opening.SegmentIndex)
		length := wall.SegmentLength(opening.SegmentIndex)
		if !ok || length == 0 {
			continue
		}

		width := openingWidth(opening, m)
		ux := (b.X - a.X) / length
		uy := (b.Y - a.Y) / length
		from := models.Point{X: a.X + ux*opening.Position, Y: a.Y + uy*opening.Position}
		to := models.Point{X: from.X + ux*width, Y: from.Y + uy*width}

		stroke := "#1f77b4"
		if opening.Type == models.OpeningDoor {
			stroke = "#d62728"
		}

		el := parent.CreateElement("line")
		el.CreateAttr("id", fmt.Sprintf("%s_%d", wall.Label, i))
		el.CreateAttr("class", string(opening.Type))
		el.CreateAttr("data-ref", opening.Ref)
		el.CreateAttr("x1", formatFloat(from.X))
		el.CreateAttr("y1", formatFloat(-from.Y))
		el.CreateAttr("x2", formatFloat(to.X))
		el.CreateAttr("y2", formatFloat(-to.Y))
		el.CreateAttr("stroke", stroke)
		el.CreateAttr("stroke-width", formatFloat(wall.Thickness))
	}
}

func openingWidth(opening models.Opening, m *models.Model) float64 {
	table := m.DoorTypes
	if opening.Type == models.OpeningWindow {
		table = m.WindowTypes
	}
	if entry, ok := table[opening.Ref]; ok {
		return entry.Width
	}
	return fallbackOpening
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	val = models.Round(val)
	if val == 0 || math.IsNaN(val) {
		return "0"
	}
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + "," + formatFloat(-p.Y)
}
