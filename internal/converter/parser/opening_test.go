package parser

import (
	"strings"
	"testing"

	"plan-converter/internal/converter/models"
)

func testWalls(t *testing.T, texts ...string) []models.Wall {
	t.Helper()
	walls := make([]models.Wall, 0, len(texts))
	for _, text := range texts {
		wall, _ := parseWall(t, text)
		walls = append(walls, wall)
	}
	return walls
}

func mapOpenings(t *testing.T, walls []models.Wall, text string) Diagnostics {
	t.Helper()
	var diags Diagnostics
	MapOpenings([]Line{{No: 20, Text: text}}, walls, &diags)
	return diags
}

func TestMapOpenings_AttachesPairsToSegments(t *testing.T) {
	walls := testWalls(t, "W1: 0,0 3000E 2000N c")
	diags := mapOpenings(t, walls, "W1 : 0: 500 D1 1: 300 W2 1200 D3")

	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := []models.Opening{
		{SegmentIndex: 0, Position: 500, Type: models.OpeningDoor, Ref: "D1"},
		{SegmentIndex: 1, Position: 300, Type: models.OpeningWindow, Ref: "W2"},
		{SegmentIndex: 1, Position: 1200, Type: models.OpeningDoor, Ref: "D3"},
	}
	got := walls[0].Openings
	if len(got) != len(want) {
		t.Fatalf("expected %d openings, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("opening %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestMapOpenings_AppendsAcrossLines(t *testing.T) {
	walls := testWalls(t, "A: 0,0 1000E")
	var diags Diagnostics
	MapOpenings([]Line{
		{No: 1, Text: "A : 0: 100 D1"},
		{No: 2, Text: "A : 0: 600 w1"},
	}, walls, &diags)

	got := walls[0].Openings
	if len(got) != 2 || got[0].Ref != "D1" || got[1].Ref != "w1" {
		t.Fatalf("unexpected openings %v", got)
	}
	if got[1].Type != models.OpeningWindow {
		t.Errorf("lowercase w ref should be a window, got %s", got[1].Type)
	}
}

func TestMapOpenings_UnknownWallSuggestsLabel(t *testing.T) {
	walls := testWalls(t, "Outer: 0,0 1000E", "Inner: 0,0 500N")
	diags := mapOpenings(t, walls, "Outr : 0: 100 D1")

	if len(diags) != 1 || diags[0].Code != CodeUnknownWall {
		t.Fatalf("expected unknown wall diagnostic, got %v", diags)
	}
	if !strings.Contains(diags[0].Message, "did you mean Outer?") {
		t.Errorf("expected a suggestion, got %q", diags[0].Message)
	}
	for _, w := range walls {
		if len(w.Openings) != 0 {
			t.Errorf("wall %s should have no openings", w.Label)
		}
	}
}

func TestMapOpenings_DuplicateLabelsUseLastWall(t *testing.T) {
	walls := testWalls(t, "A: 0,0 100E", "A: 0,0 1000N")
	mapOpenings(t, walls, "A : 0: 800 D1")

	if len(walls[0].Openings) != 0 || len(walls[1].Openings) != 1 {
		t.Fatalf("expected opening on the later wall, got %v / %v", walls[0].Openings, walls[1].Openings)
	}
}

func TestMapOpenings_RecoverableProblems(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		code     Code
		openings int
	}{
		{"no label", "just text", CodeOpeningSyntax, 0},
		{"marker without colon", "W1 : 0 500 D1", CodeOpeningMarker, 0},
		{"segment not an integer", "W1 : x: 500 D1 1: 200 D2", CodeOpeningSegment, 1},
		{"negative segment", "W1 : -1: 500 D1", CodeOpeningSegment, 0},
		{"segment out of range", "W1 : 3: 500 D1", CodeOpeningSegment, 0},
		{"bad position", "W1 : 0: middle D1 0: 200 D2", CodeOpeningPosition, 1},
		{"dangling at end", "W1 : 0: 500 D1 700", CodeOpeningDangling, 1},
		{"dangling before marker", "W1 : 0: 500 1: 300 W2", CodeOpeningDangling, 1},
		{"outside segment", "W1 : 0: 5000 D1", CodeOpeningOutsideSegment, 1},
		{"negative position", "W1 : 1: -10 W1", CodeOpeningOutsideSegment, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			walls := testWalls(t, "W1: 0,0 3000E 2000N c")
			diags := mapOpenings(t, walls, tc.text)

			if !diags.Has(tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, diags)
			}
			if diags[0].Line != 20 || diags[0].Section != SectionOpenings {
				t.Errorf("unexpected location %+v", diags[0])
			}
			if got := len(walls[0].Openings); got != tc.openings {
				t.Errorf("expected %d openings, got %v", tc.openings, walls[0].Openings)
			}
		})
	}
}

func TestMapOpenings_PositionOnSegmentEnd(t *testing.T) {
	walls := testWalls(t, "A: 0,0 1000E 1000<45")
	diags := mapOpenings(t, walls, "A : 1: 1000 W1")
	if len(diags) != 0 {
		t.Errorf("position at segment end should be accepted, got %v", diags)
	}
}

func TestClosestLabel(t *testing.T) {
	labels := []string{"north", "south", "W1"}
	cases := []struct {
		label string
		want  string
	}{
		{"nrth", "north"},
		{"SOUTH", "south"},
		{"W2", "W1"},
		{"garage", ""},
	}
	for _, tc := range cases {
		if got := closestLabel(tc.label, labels); got != tc.want {
			t.Errorf("closestLabel(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
	if got := closestLabel("x", nil); got != "" {
		t.Errorf("expected no suggestion without labels, got %q", got)
	}
}

func TestDiagnostics_Summary(t *testing.T) {
	var diags Diagnostics
	if diags.Summary() != "no diagnostics" {
		t.Errorf("unexpected empty summary %q", diags.Summary())
	}

	diags.report(CodeOpeningDangling, SectionOpenings, Line{No: 3}, "700", "position without a reference on wall %s", "A")
	want := `line 3 [opening-dangling] position without a reference on wall A (token: "700")`
	if diags.Summary() != want {
		t.Errorf("expected %q, got %q", want, diags.Summary())
	}

	diags.report(CodeWallDuplicate, SectionWalls, Line{No: 5}, "", "again")
	if !strings.HasSuffix(diags.Summary(), "(and 1 more)") {
		t.Errorf("unexpected summary %q", diags.Summary())
	}
}
