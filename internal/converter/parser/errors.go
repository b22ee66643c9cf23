package parser

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedWall    = errors.New("malformed wall line")
	ErrInvalidSegment   = errors.New("invalid segment format")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrNoHeading        = errors.New("first segment must use an absolute direction (e.g. 3000E)")
	ErrInvalidAttribute = errors.New("invalid wall attribute")
)

// WallError aborts a conversion. It names the wall line that could not be
// resolved and the offending token.
type WallError struct {
	Line  int
	Label string
	Token string
	Err   error
}

func (e *WallError) Error() string {
	msg := fmt.Sprintf("line %d", e.Line)
	if e.Label != "" {
		msg += fmt.Sprintf(": wall %q", e.Label)
	}
	msg += fmt.Sprintf(": %v", e.Err)
	if e.Token != "" {
		msg += fmt.Sprintf(": %q", e.Token)
	}
	return msg
}

func (e *WallError) Unwrap() error {
	return e.Err
}
