package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_ConvertsSample(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "parseddata.json")
	svg := filepath.Join(dir, "plan.svg")
	planner := filepath.Join(dir, "scene.json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", "testdata/building.txt", "-out", out, "-svg", svg, "-planner", planner}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Converted 'testdata/building.txt' → '"+out+"'") {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "[CLI]") || !strings.Contains(stderr.String(), "unknown-wall-reference") {
		t.Errorf("expected the unknown wall to be reported, got %q", stderr.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc struct {
		Walls []struct {
			Label     string       `json:"label"`
			Path      [][2]float64 `json:"path"`
			Thickness float64      `json:"thickness"`
			Height    float64      `json:"height"`
			Openings  []any        `json:"openings"`
		} `json:"walls"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(doc.Walls) != 3 {
		t.Fatalf("expected 3 walls, got %d", len(doc.Walls))
	}

	outer := doc.Walls[0]
	if len(outer.Path) != 5 || outer.Path[4] != [2]float64{0, 0} || outer.Thickness != 345 || len(outer.Openings) != 3 {
		t.Errorf("unexpected outer wall %+v", outer)
	}
	porch := doc.Walls[2]
	if porch.Path[2] != [2]float64{8000, -1500} || porch.Height != 2400 {
		t.Errorf("unexpected porch wall %+v", porch)
	}

	for _, path := range []string{svg, planner} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("missing side output %s: %v", path, err)
		}
	}
}

func TestRun_YAML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "model.yaml")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-in", "testdata/building.txt", "-out", out, "-format", "yaml"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), "door_types:") {
		t.Errorf("expected yaml output:\n%s", data)
	}
}

func TestRun_FatalWallError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "broken.txt")
	if err := os.WriteFile(in, []byte("# wall_data\nA : 0,0 100X\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(dir, "out.json")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-in", in, "-out", out}, &stdout, &stderr); code != exitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "unknown direction") {
		t.Errorf("expected the wall error on stderr, got %q", stderr.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("no output should be written on failure")
	}
}

func TestRun_Usage(t *testing.T) {
	cases := [][]string{
		{"-format", "xml"},
		{"-nope"},
		{"extra"},
	}
	for _, args := range cases {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != exitUsage {
			t.Errorf("run(%v): expected exit 2, got %d", args, code)
		}
	}
}

func TestRun_MissingInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-in", filepath.Join(t.TempDir(), "missing.txt")}, &stdout, &stderr); code != exitFailure {
		t.Errorf("expected exit 1, got %d", code)
	}
}
