package parser

import (
	"fmt"
	"strings"
)

// ============================================================
// Diagnostics
// ============================================================

// Code identifies the kind of a recoverable problem.
type Code string

const (
	CodeDefaultsColourPair Code = "defaults-colour-pair"
	CodeDefaultsNotNumeric Code = "defaults-not-numeric"

	CodeTypeSyntax     Code = "type-syntax"
	CodeTypeFieldCount Code = "type-field-count"
	CodeTypeWidth      Code = "type-width"
	CodeTypeHeight     Code = "type-height"

	CodeWallAttribute Code = "wall-attribute"
	CodeWallDuplicate Code = "wall-duplicate"

	CodeOpeningSyntax         Code = "opening-syntax"
	CodeUnknownWall           Code = "unknown-wall-reference"
	CodeOpeningMarker         Code = "opening-marker"
	CodeOpeningSegment        Code = "opening-segment"
	CodeOpeningPosition       Code = "opening-position"
	CodeOpeningDangling       Code = "opening-dangling"
	CodeOpeningOutsideSegment Code = "opening-outside-segment"
)

// Diagnostic is a problem that was reported and skipped over.
type Diagnostic struct {
	Code    Code    `json:"code"`
	Section Section `json:"section"`
	Line    int     `json:"line"`
	Token   string  `json:"token,omitempty"`
	Message string  `json:"message"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d [%s] %s", d.Line, d.Code, d.Message)
	if d.Token != "" {
		fmt.Fprintf(&b, " (token: %q)", d.Token)
	}
	return b.String()
}

// Diagnostics collects recoverable problems in source order.
type Diagnostics []Diagnostic

func (d *Diagnostics) report(code Code, section Section, line Line, token, format string, args ...any) {
	*d = append(*d, Diagnostic{
		Code:    code,
		Section: section,
		Line:    line.No,
		Token:   token,
		Message: fmt.Sprintf(format, args...),
	})
}

// Has reports whether any diagnostic carries code.
func (d Diagnostics) Has(code Code) bool {
	for _, diag := range d {
		if diag.Code == code {
			return true
		}
	}
	return false
}

// Summary returns a compact one-line description.
func (d Diagnostics) Summary() string {
	switch len(d) {
	case 0:
		return "no diagnostics"
	case 1:
		return d[0].String()
	default:
		return fmt.Sprintf("%s (and %d more)", d[0].String(), len(d)-1)
	}
}
