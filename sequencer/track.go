package sequencer

import "text2midi/midi"

// Track is one instrument's ordered note list. Notes stay in the order they
// were appended; playback order is decided by each note's start time.
type Track struct {
	Name    string // written as the track name meta event
	Program uint8  // General MIDI program, zero-based
	Channel uint8  // MIDI channel 0-15
	Notes   []midi.Note
}

// NewTrack creates an empty track on channel 0
func NewTrack(name string, program uint8) *Track {
	return &Track{
		Name:    name,
		Program: program,
	}
}

// Append adds a note at the end of the track
func (t *Track) Append(n midi.Note) {
	t.Notes = append(t.Notes, n)
}

// Len returns the number of notes
func (t *Track) Len() int {
	return len(t.Notes)
}

// Duration returns the latest start or end time of any note, in seconds
func (t *Track) Duration() float64 {
	var d float64
	for _, n := range t.Notes {
		d = max(d, n.Start, n.End)
	}
	return d
}
