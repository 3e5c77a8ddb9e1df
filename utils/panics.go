package utils

import (
	"fmt"
	"runtime/debug"
)

type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("got panic: %v", e.Value)
}

// RecoverWithError must be deferred directly. It turns a panic into an error
// stored in *err.
func RecoverWithError(err *error) {
	if rv := recover(); rv != nil {
		*err = &PanicError{Value: rv, Stack: debug.Stack()}
	}
}
