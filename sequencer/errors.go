package sequencer

import (
	"errors"
	"fmt"
)

// ErrIOWrite matches any *IOWriteError via errors.Is
var ErrIOWrite = errors.New("cannot write output")

// IOWriteError reports a filesystem failure while writing the MIDI file
type IOWriteError struct {
	Path string
	Op   string // create, write, chmod, sync, close, rename
	Err  error
}

func (e *IOWriteError) Error() string {
	return fmt.Sprintf("cannot write %s (%s): %v", e.Path, e.Op, e.Err)
}

func (e *IOWriteError) Unwrap() error {
	return e.Err
}

func (e *IOWriteError) Is(target error) bool {
	return target == ErrIOWrite
}
