package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"plan-converter/internal/converter/models"
)

// ============================================================
// Opening Mapper
// ============================================================

// positionTolerance absorbs rounding when a position sits on a segment end.
const positionTolerance = 1e-4

// MapOpenings attaches "label : seg: pos ref pos ref ..." lines to walls.
// Problems are reported and skipped; walls are modified in place. When two
// walls share a label the later one receives the openings.
func MapOpenings(lines []Line, walls []models.Wall, diags *Diagnostics) {
	index := make(map[string]int, len(walls))
	labels := make([]string, 0, len(walls))
	for i, w := range walls {
		if _, ok := index[w.Label]; !ok {
			labels = append(labels, w.Label)
		}
		index[w.Label] = i
	}

	for _, line := range lines {
		label, rest, ok := strings.Cut(line.Text, ":")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			diags.report(CodeOpeningSyntax, SectionOpenings, line, "", "expected label : segment: position ref ...")
			continue
		}

		i, ok := index[label]
		if !ok {
			msg := "unknown wall reference " + label
			if suggestion := closestLabel(label, labels); suggestion != "" {
				msg += ", did you mean " + suggestion + "?"
			}
			diags.report(CodeUnknownWall, SectionOpenings, line, label, "%s", msg)
			continue
		}

		mapLine(line, &walls[i], strings.Fields(rest), diags)
	}
}

func isMarker(token string) bool {
	return strings.HasSuffix(token, ":")
}

func mapLine(line Line, wall *models.Wall, tokens []string, diags *Diagnostics) {
	i := 0
	for i < len(tokens) {
		marker := tokens[i]
		i++
		if !isMarker(marker) {
			diags.report(CodeOpeningMarker, SectionOpenings, line, marker, "expected a segment marker like 0: on wall %s", wall.Label)
			continue
		}

		segment, err := strconv.Atoi(strings.TrimSuffix(marker, ":"))
		valid := true
		switch {
		case err != nil || segment < 0:
			diags.report(CodeOpeningSegment, SectionOpenings, line, marker, "segment index must be a non-negative integer")
			valid = false
		case segment >= wall.SegmentCount():
			diags.report(CodeOpeningSegment, SectionOpenings, line, marker,
				"wall %s has %d segments, segment %d does not exist", wall.Label, wall.SegmentCount(), segment)
			valid = false
		}

		for i < len(tokens) && !isMarker(tokens[i]) {
			if i+1 >= len(tokens) || isMarker(tokens[i+1]) {
				diags.report(CodeOpeningDangling, SectionOpenings, line, tokens[i], "position without a reference on wall %s", wall.Label)
				i++
				continue
			}
			posToken, ref := tokens[i], tokens[i+1]
			i += 2
			if !valid {
				continue
			}

			pos, err := parseNumber(posToken)
			if err != nil {
				diags.report(CodeOpeningPosition, SectionOpenings, line, posToken, "position of %s is not a number", ref)
				continue
			}
			if length := wall.SegmentLength(segment); pos < -positionTolerance || pos > length+positionTolerance {
				diags.report(CodeOpeningOutsideSegment, SectionOpenings, line, posToken,
					"%s at %v lies outside segment %d of wall %s (length %v)", ref, pos, segment, wall.Label, models.Round(length))
			}

			wall.Openings = append(wall.Openings, models.Opening{
				SegmentIndex: segment,
				Position:     models.Round(pos),
				Type:         models.KindOf(ref),
				Ref:          ref,
			})
		}
	}
}

// closestLabel suggests a known wall label for a misspelt one.
func closestLabel(label string, labels []string) string {
	if ranks := fuzzy.RankFindFold(label, labels); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", len(label)/2+1
	for _, candidate := range labels {
		dist := fuzzy.LevenshteinDistance(strings.ToLower(label), strings.ToLower(candidate))
		if dist <= bestDist && (best == "" || dist < bestDist) {
			best, bestDist = candidate, dist
		}
	}
	return best
}
