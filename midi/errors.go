package midi

import (
	"errors"
	"fmt"
)

// ErrUnknownPitchName matches any *UnknownPitchNameError via errors.Is
var ErrUnknownPitchName = errors.New("unknown pitch name")

// ErrUnknownInstrument matches any *UnknownInstrumentError via errors.Is
var ErrUnknownInstrument = errors.New("unknown instrument")

// UnknownPitchNameError is returned when a note name cannot be resolved to a
// MIDI note number.
type UnknownPitchNameError struct {
	Name   string
	Reason string
}

func (e *UnknownPitchNameError) Error() string {
	return fmt.Sprintf("unknown pitch name %q: %s", e.Name, e.Reason)
}

func (e *UnknownPitchNameError) Is(target error) bool {
	return target == ErrUnknownPitchName
}

// UnknownInstrumentError is returned when an instrument name is not in the
// General MIDI table.
type UnknownInstrumentError struct {
	Name string
}

func (e *UnknownInstrumentError) Error() string {
	return fmt.Sprintf("unknown instrument %q: not a General MIDI instrument name", e.Name)
}

func (e *UnknownInstrumentError) Is(target error) bool {
	return target == ErrUnknownInstrument
}
