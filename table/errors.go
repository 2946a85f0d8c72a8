package table

import (
	"errors"
	"fmt"
)

// ErrMalformedInput matches any *MalformedInputError via errors.Is
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports an input table that cannot be loaded.
// Line and Column are zero when unknown.
type MalformedInputError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *MalformedInputError) Error() string {
	where := e.Path
	if where == "" {
		where = "input"
	}
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", where, e.Line)
	}
	if e.Column != "" {
		where = fmt.Sprintf("%s: column %s", where, e.Column)
	}
	return fmt.Sprintf("malformed input %s: %v", where, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}
