package graph

import (
	"encoding/json"
	"testing"

	"plan-converter/internal/converter/models"
)

func closedWall() models.Wall {
	return models.Wall{
		Label:     "W1",
		Start:     models.Point{X: 0, Y: 0},
		Path:      []models.Point{{X: 0, Y: 0}, {X: 3000, Y: 0}, {X: 3000, Y: 2000}, {X: 0, Y: 0}},
		Height:    2800,
		Thickness: 230,
		Closed:    true,
		Openings: []models.Opening{
			{SegmentIndex: 0, Position: 1500, Type: models.OpeningDoor, Ref: "D1"},
			{SegmentIndex: 1, Position: 4000, Type: models.OpeningWindow, Ref: "W9"},
		},
	}
}

func TestBuild_LinesVerticesAreas(t *testing.T) {
	m := &models.Model{
		DoorTypes: map[string]models.TypeEntry{"D1": {Name: "D1", Preset: "standard", Width: 800, Height: 2000}},
		Walls:     []models.Wall{closedWall()},
	}
	scene, err := NewGraphBuilder().Build(m)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	layer := scene.Layers["layer-1"]
	if len(layer.Vertices) != 3 {
		t.Errorf("expected 3 shared vertices, got %d", len(layer.Vertices))
	}
	if len(layer.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(layer.Lines))
	}
	line, ok := layer.Lines["W1_1"]
	if !ok || line.Vertices[0] != "v1" || line.Vertices[1] != "v2" {
		t.Errorf("unexpected first line %+v", line)
	}
	if v := layer.Vertices["v1"]; len(v.Lines) != 2 {
		t.Errorf("start vertex should join the first and last line, got %v", v.Lines)
	}

	area, ok := layer.Areas["W1_area"]
	if !ok || len(area.Vertices) != 3 {
		t.Errorf("expected a 3-vertex area, got %+v", area)
	}

	if scene.Width != 3000 || scene.Height != 2000 || scene.Unit != "mm" {
		t.Errorf("unexpected scene size %v x %v %s", scene.Width, scene.Height, scene.Unit)
	}
}

func TestBuild_Holes(t *testing.T) {
	m := &models.Model{
		Defaults:  models.NewDefaults(map[string]models.Value{models.KeySillLevel: models.Number(900)}),
		DoorTypes: map[string]models.TypeEntry{"D1": {Name: "D1", Preset: "standard", Width: 800, Height: 2000}},
		Walls:     []models.Wall{closedWall()},
	}
	scene, err := NewGraphBuilder().Build(m)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	layer := scene.Layers["layer-1"]

	door, ok := layer.Holes["W1_D1_1"]
	if !ok {
		t.Fatalf("door hole missing: %v", layer.Holes)
	}
	if door.Line != "W1_1" || door.Offset != 0.5 || door.Type != "door" {
		t.Errorf("unexpected door %+v", door)
	}
	if door.Properties["width"] != (models.LengthValue{Length: 800}) {
		t.Errorf("door width should come from the catalog, got %v", door.Properties["width"])
	}

	window := layer.Holes["W1_W9_2"]
	if window.Offset != 1 {
		t.Errorf("offset past the segment end should clamp to 1, got %v", window.Offset)
	}
	if window.Properties["altitude"] != (models.LengthValue{Length: 900}) {
		t.Errorf("window altitude should be the sill level, got %v", window.Properties["altitude"])
	}
	if got := layer.Lines["W1_1"].Holes; len(got) != 1 || got[0] != "W1_D1_1" {
		t.Errorf("line should list its hole, got %v", got)
	}
}

func TestBuild_SharedVerticesAcrossWalls(t *testing.T) {
	m := &models.Model{Walls: []models.Wall{
		{Label: "A", Path: []models.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}}},
		{Label: "B", Path: []models.Point{{X: 1000.5, Y: 0}, {X: 1000, Y: 1000}}},
		{Label: "A", Path: []models.Point{{X: 0, Y: 0}, {X: 0, Y: 500}}},
	}}
	scene, err := NewGraphBuilder().Build(m)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	layer := scene.Layers["layer-1"]

	if len(layer.Vertices) != 4 {
		t.Errorf("expected points within tolerance to merge, got %d vertices", len(layer.Vertices))
	}
	if _, ok := layer.Lines["A_1_2"]; !ok {
		t.Errorf("duplicate wall labels should get unique line ids, got %v", keys(layer.Lines))
	}
}

func TestBuild_Deterministic(t *testing.T) {
	m := &models.Model{Walls: []models.Wall{closedWall()}}
	first, _ := NewGraphBuilder().Build(m)
	want, _ := json.Marshal(first)

	b := NewGraphBuilder()
	for i := 0; i < 3; i++ {
		scene, _ := b.Build(m)
		got, _ := json.Marshal(scene)
		if string(got) != string(want) {
			t.Fatalf("scene differs on rebuild %d", i)
		}
	}
}

func TestBuild_NilModel(t *testing.T) {
	if _, err := NewGraphBuilder().Build(nil); err == nil {
		t.Errorf("expected error for nil model")
	}
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
