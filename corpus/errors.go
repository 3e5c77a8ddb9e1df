package corpus

import (
	"errors"
	"fmt"
)

var (
	ErrIO       = errors.New("corpus io error")
	ErrMismatch = errors.New("corpus line mismatch")
)

// IOError reports a corpus stream that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("corpus: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// MismatchError reports a tags line and a sentence line that do not hold the
// same number of tokens. Line is 1-based.
type MismatchError struct {
	Line  int
	Tags  int
	Words int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("corpus: line %d: %d tags but %d words", e.Line, e.Tags, e.Words)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}
