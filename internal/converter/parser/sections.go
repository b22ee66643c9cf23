package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ============================================================
// Section Splitter
// ============================================================

type Section string

const (
	SectionDefaults Section = "defaults"
	SectionDoors    Section = "doors"
	SectionWindows  Section = "windows"
	SectionWalls    Section = "walls"
	SectionOpenings Section = "openings"
)

// Header substrings, checked in order.
var sectionHeaders = []struct {
	marker  string
	section Section
}{
	{"default", SectionDefaults},
	{"door_type", SectionDoors},
	{"window_type", SectionWindows},
	{"wall_data", SectionWalls},
	{"opening_data", SectionOpenings},
}

// Line is a trimmed, non-empty source line and its 1-based number.
type Line struct {
	No   int
	Text string
}

type Sections struct {
	Defaults []Line
	Doors    []Line
	Windows  []Line
	Walls    []Line
	Openings []Line
}

const maxLineSize = 1 << 20

// ReadLines reads r and keeps the trimmed non-empty lines.
func ReadLines(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []Line
	no := 0
	for scanner.Scan() {
		no++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		lines = append(lines, Line{No: no, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

// Split partitions lines by their "#" headers. A header that matches no
// section closes the active one; lines outside a section are dropped.
func Split(lines []Line) Sections {
	var out Sections
	var active *[]Line

	for _, line := range lines {
		if strings.HasPrefix(line.Text, "#") {
			active = out.target(headerSection(line.Text))
			continue
		}
		if active != nil {
			*active = append(*active, line)
		}
	}
	return out
}

func headerSection(header string) Section {
	label := strings.ToLower(strings.TrimSpace(header[1:]))
	for _, h := range sectionHeaders {
		if strings.Contains(label, h.marker) {
			return h.section
		}
	}
	return ""
}

func (s *Sections) target(section Section) *[]Line {
	switch section {
	case SectionDefaults:
		return &s.Defaults
	case SectionDoors:
		return &s.Doors
	case SectionWindows:
		return &s.Windows
	case SectionWalls:
		return &s.Walls
	case SectionOpenings:
		return &s.Openings
	}
	return nil
}
