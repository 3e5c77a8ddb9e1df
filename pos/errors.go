package pos

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyModel  = errors.New("pos: model has no start transitions")
	ErrReservedTag = errors.New("pos: reserved start tag in training data")
	ErrDecodeStuck = errors.New("pos: decoding stuck")
)

type ReservedTagError struct {
	Line     int
	Position int
}

func (e *ReservedTagError) Error() string {
	return fmt.Sprintf("pos: line %d: reserved tag %q at position %d", e.Line, StartTag, e.Position)
}

func (e *ReservedTagError) Is(target error) bool {
	return target == ErrReservedTag
}

// StuckError is returned when no tag of the column before Position has a
// successor. Prefix is the best tag path over positions [0, Position).
type StuckError struct {
	Position int
	Word     string
	Prefix   []string
}

func (e *StuckError) Error() string {
	return fmt.Sprintf("pos: decoding stuck at position %d (%q): no successor tags", e.Position, e.Word)
}

func (e *StuckError) Is(target error) bool {
	return target == ErrDecodeStuck
}
