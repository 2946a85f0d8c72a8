package sequencer

import (
	"errors"
	"fmt"
	"math"

	"text2midi/debug"
	"text2midi/midi"
	"text2midi/table"
)

// DefaultInstrument is the General MIDI instrument used when none is configured
const DefaultInstrument = "Cello"

// Emitter turns table rows into an instrument track
type Emitter struct {
	instrument string
}

// NewEmitter creates an emitter for a General MIDI instrument name.
// An empty name means DefaultInstrument.
func NewEmitter(instrument string) *Emitter {
	if instrument == "" {
		instrument = DefaultInstrument
	}
	return &Emitter{instrument: instrument}
}

// Instrument returns the configured instrument name
func (e *Emitter) Instrument() string {
	return e.instrument
}

// Emit maps every row, in order, to a note on a new track. Nothing is sorted,
// merged or dropped. The first row that fails aborts the whole track.
func (e *Emitter) Emit(rows []table.Row) (*Track, error) {
	program, err := midi.ProgramOf(e.instrument)
	if err != nil {
		return nil, err
	}

	track := NewTrack(midi.InstrumentName(program), program)
	track.Notes = make([]midi.Note, 0, len(rows))

	for i, row := range rows {
		note, err := noteOf(row)
		if err != nil {
			var me *table.MalformedInputError
			if errors.As(err, &me) {
				return nil, err
			}
			return nil, fmt.Errorf("%s: %w", rowLabel(i, row), err)
		}
		if note.Velocity == 0 {
			debug.Logger("sequencer").Warn("velocity 0 is a note-off to MIDI players, the note will not sound",
				"row", rowLabel(i, row), "note", row.NoteName)
		}
		track.Append(note)
		debug.Log("sequencer", "%s: %s -> pitch %d vel %d %.3f-%.3fs",
			rowLabel(i, row), row.NoteName, note.Pitch, note.Velocity, note.Start, note.End)
	}

	return track, nil
}

// Emit is shorthand for NewEmitter(instrument).Emit(rows)
func Emit(rows []table.Row, instrument string) (*Track, error) {
	return NewEmitter(instrument).Emit(rows)
}

func noteOf(row table.Row) (midi.Note, error) {
	pitch, err := midi.PitchOf(row.NoteName)
	if err != nil {
		return midi.Note{}, err
	}
	if row.Velocity < 0 || row.Velocity > 127 {
		return midi.Note{}, &table.MalformedInputError{
			Line:   row.Line,
			Column: table.ColVelocity,
			Err:    fmt.Errorf("%d is outside 0-127", row.Velocity),
		}
	}
	// negative times are clamped when encoding, only the upper bound can fail
	for _, f := range []struct {
		column  string
		seconds float64
	}{{table.ColStart, row.Start}, {table.ColEnd, row.End}} {
		if _, err := SecondsToTicks(math.Max(f.seconds, 0)); err != nil {
			return midi.Note{}, &table.MalformedInputError{Line: row.Line, Column: f.column, Err: err}
		}
	}
	return midi.Note{
		Pitch:    pitch,
		Velocity: uint8(row.Velocity),
		Start:    row.Start,
		End:      row.End,
	}, nil
}

func rowLabel(i int, row table.Row) string {
	if row.Line > 0 {
		return fmt.Sprintf("line %d", row.Line)
	}
	return fmt.Sprintf("row %d", i+1)
}
