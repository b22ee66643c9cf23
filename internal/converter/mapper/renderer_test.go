package mapper

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	"plan-converter/internal/converter/models"
)

func renderDoc(t *testing.T, m *models.Model) *etree.Document {
	t.Helper()
	svg, err := NewRenderer().Render(m)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(svg); err != nil {
		t.Fatalf("output is not XML: %v\n%s", err, svg)
	}
	return doc
}

func TestRender_WallsAndOpenings(t *testing.T) {
	model, _, err := New().Convert(strings.NewReader(building))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	doc := renderDoc(t, model)

	svg := doc.SelectElement("svg")
	if svg == nil {
		t.Fatalf("missing svg root")
	}
	if got := svg.SelectAttrValue("viewBox", ""); got != "-500 -2500 4000 3000" {
		t.Errorf("unexpected viewBox %q", got)
	}

	polylines := doc.FindElements("//g[@id='walls']/polyline")
	if len(polylines) != 2 {
		t.Fatalf("expected 2 wall polylines, got %d", len(polylines))
	}
	if got := polylines[0].SelectAttrValue("points", ""); got != "0,0 3000,0 3000,-2000 0,0" {
		t.Errorf("unexpected points %q", got)
	}
	if got := polylines[0].SelectAttrValue("stroke-width", ""); got != "230" {
		t.Errorf("unexpected stroke width %q", got)
	}

	lines := doc.FindElements("//g[@id='openings']/line")
	if len(lines) != 3 {
		t.Fatalf("expected 3 openings, got %d", len(lines))
	}
	door := lines[0]
	if door.SelectAttrValue("class", "") != "door" || door.SelectAttrValue("data-ref", "") != "D1" {
		t.Errorf("unexpected door element %v", door.Attr)
	}
	if door.SelectAttrValue("x1", "") != "500" || door.SelectAttrValue("x2", "") != "1400" {
		t.Errorf("door should span 500..1400, got %s..%s", door.SelectAttrValue("x1", ""), door.SelectAttrValue("x2", ""))
	}
	window := lines[1]
	if window.SelectAttrValue("class", "") != "window" || window.SelectAttrValue("y1", "") != "-300" {
		t.Errorf("unexpected window element %v", window.Attr)
	}
}

func TestRender_EmptyModel(t *testing.T) {
	doc := renderDoc(t, &models.Model{})
	svg := doc.SelectElement("svg")
	if got := svg.SelectAttrValue("viewBox", ""); got != "0 0 1000 1000" {
		t.Errorf("unexpected viewBox %q", got)
	}
}

func TestRender_NilModel(t *testing.T) {
	if _, err := NewRenderer().Render(nil); err == nil {
		t.Errorf("expected error for nil model")
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		0:          "0",
		3000:       "3000",
		-0.00001:   "0",
		1707.10678: "1707.1068",
	}
	for in, want := range cases {
		if got := formatFloat(in); got != want {
			t.Errorf("formatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
