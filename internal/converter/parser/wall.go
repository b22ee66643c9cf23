package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"plan-converter/internal/converter/models"
)

// ============================================================
// Wall Path Resolver
// ============================================================

// Degrees is a heading measured counter-clockwise from +X.
type Degrees float64

var compass = map[byte]Degrees{
	'N': 90,
	'E': 0,
	'S': 270,
	'W': 180,
}

// cursor is the pen state while a wall path is traced. A relative turn is
// only possible once oriented is set by an absolute segment.
type cursor struct {
	position models.Point
	heading  Degrees
	oriented bool
}

// turn applies a relative delta to the current heading.
func (c cursor) turn(delta Degrees) (Degrees, error) {
	if !c.oriented {
		return 0, ErrNoHeading
	}
	return normalize(c.heading + delta), nil
}

// advance moves length units along h and orients the cursor to h.
func (c cursor) advance(length float64, h Degrees) cursor {
	rad := float64(h) * math.Pi / 180
	return cursor{
		position: models.Point{
			X: c.position.X + length*math.Cos(rad),
			Y: c.position.Y + length*math.Sin(rad),
		},
		heading:  h,
		oriented: true,
	}
}

func normalize(d Degrees) Degrees {
	h := math.Mod(float64(d), 360)
	if h < 0 {
		h += 360
	}
	return Degrees(h)
}

// ParseWalls resolves every wall line. The first malformed wall aborts the
// whole run.
func ParseWalls(lines []Line, s Settings, diags *Diagnostics) ([]models.Wall, error) {
	walls := make([]models.Wall, 0, len(lines))
	seen := make(map[string]int)

	for _, line := range lines {
		wall, err := ParseWall(line, s, diags)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[wall.Label]; ok {
			diags.report(CodeWallDuplicate, SectionWalls, line, wall.Label,
				"wall %s already defined on line %d, openings attach to the later one", wall.Label, prev)
		}
		seen[wall.Label] = line.No
		walls = append(walls, wall)
	}
	return walls, nil
}

// ParseWall resolves one "label : x,y token..." line.
func ParseWall(line Line, s Settings, diags *Diagnostics) (models.Wall, error) {
	label, rest, ok := strings.Cut(line.Text, ":")
	label = strings.TrimSpace(label)
	if !ok || label == "" {
		return models.Wall{}, &WallError{Line: line.No, Label: label, Err: fmt.Errorf("%w: expected label : x,y segments", ErrMalformedWall)}
	}

	fail := func(token string, err error) (models.Wall, error) {
		return models.Wall{}, &WallError{Line: line.No, Label: label, Token: token, Err: err}
	}

	tokens := strings.Fields(rest)
	if len(tokens) == 0 {
		return fail("", fmt.Errorf("%w: missing start point", ErrMalformedWall))
	}
	origin, err := parseStart(tokens[0])
	if err != nil {
		return fail(tokens[0], err)
	}

	start := origin.Rounded()
	wall := models.Wall{
		Label:     label,
		Start:     start,
		Path:      []models.Point{start},
		Height:    s.WallHeight,
		Thickness: s.Thickness(s.ThicknessFactor),
		Openings:  []models.Opening{},
	}
	pen := cursor{position: origin}

	for _, token := range tokens[1:] {
		switch {
		case strings.EqualFold(token, "c"):
			wall.Closed = true
		case strings.EqualFold(token, "o"):
		case strings.Contains(token, "="):
			key, val, _ := strings.Cut(token, "=")
			if !isWallAttribute(key) {
				diags.report(CodeWallAttribute, SectionWalls, line, token, "unknown attribute %q on wall %s ignored", key, label)
				continue
			}
			if err := applyAttribute(&wall, key, val, s); err != nil {
				return fail(token, err)
			}
		default:
			length, h, err := parseSegment(token, pen)
			if err != nil {
				return fail(token, err)
			}
			pen = pen.advance(length, h)
			if !finite(pen.position) {
				return fail(token, fmt.Errorf("%w: coordinates out of range", ErrInvalidSegment))
			}
			wall.Path = append(wall.Path, pen.position.Rounded())
		}
	}

	if wall.Closed && wall.Path[len(wall.Path)-1] != start {
		wall.Path = append(wall.Path, start)
	}
	wall.Height = models.Round(wall.Height)
	return wall, nil
}

func parseStart(token string) (models.Point, error) {
	xs, ys, ok := strings.Cut(token, ",")
	if !ok {
		return models.Point{}, fmt.Errorf("%w: start point must be x,y", ErrMalformedWall)
	}
	x, errX := parseNumber(xs)
	y, errY := parseNumber(ys)
	if errX != nil || errY != nil {
		return models.Point{}, fmt.Errorf("%w: start point must be x,y", ErrMalformedWall)
	}
	return models.Point{X: x, Y: y}, nil
}

func isWallAttribute(key string) bool {
	switch key {
	case "height", "thick", "thickness":
		return true
	}
	return false
}

func applyAttribute(wall *models.Wall, key, val string, s Settings) error {
	num, err := parseNumber(val)
	if err != nil {
		return fmt.Errorf("%w: %s needs a number", ErrInvalidAttribute, key)
	}
	if key == "height" {
		wall.Height = num
	} else {
		wall.Thickness = s.Thickness(num)
	}
	return nil
}

// parseSegment decodes "<len><N|E|S|W>" or "<len><<delta>" against the
// current cursor and returns the length and the new heading.
func parseSegment(token string, pen cursor) (float64, Degrees, error) {
	last := token[len(token)-1]
	if h, ok := compass[byte(unicode.ToUpper(rune(last)))]; ok {
		length, err := parseNumber(token[:len(token)-1])
		if err != nil {
			return 0, 0, ErrInvalidSegment
		}
		return length, h, nil
	}

	if lengthStr, deltaStr, ok := strings.Cut(token, "<"); ok {
		length, errL := parseNumber(lengthStr)
		delta, errD := parseNumber(deltaStr)
		if errL != nil || errD != nil {
			return 0, 0, ErrInvalidSegment
		}
		h, err := pen.turn(Degrees(delta))
		if err != nil {
			return 0, 0, err
		}
		return length, h, nil
	}

	if unicode.IsLetter(rune(last)) {
		if _, err := parseNumber(token[:len(token)-1]); err == nil {
			return 0, 0, fmt.Errorf("%w %q, expected N, E, S or W", ErrUnknownDirection, string(last))
		}
	}
	return 0, 0, ErrInvalidSegment
}

func finite(p models.Point) bool {
	return !math.IsInf(p.X, 0) && !math.IsNaN(p.X) && !math.IsInf(p.Y, 0) && !math.IsNaN(p.Y)
}

// parseNumber parses a finite float.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}
