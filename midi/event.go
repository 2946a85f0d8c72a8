package midi

// Note is a single note event on an instrument track.
// Start and End are absolute times in seconds.
type Note struct {
	Pitch    uint8   // MIDI note number 0-127
	Velocity uint8   // 0-127
	Start    float64 // seconds
	End      float64 // seconds
}

// Duration returns End - Start (negative if the note ends before it starts)
func (n Note) Duration() float64 {
	return n.End - n.Start
}

// Name returns the note name in scientific pitch notation
func (n Note) Name() string {
	return NoteName(n.Pitch)
}
