package midi

import (
	"strconv"
	"strings"
)

// Semitone offsets of the natural notes from C
var naturalSteps = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Accidentals accepted after the letter. '!' is an alternate flat.
var accidentals = map[byte]int{
	'#': 1, 'b': -1, '!': -1,
}

// Sharp spellings used when naming a note number
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchOf resolves a scientific pitch notation name ("C4", "A#3", "Eb-1") to a
// MIDI note number. Octaves start at -1, so C-1 is 0, C4 is 60 and A4 is 69.
func PitchOf(name string) (uint8, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return 0, &UnknownPitchNameError{Name: name, Reason: "empty"}
	}

	step, ok := naturalSteps[upper(s[0])]
	if !ok {
		return 0, &UnknownPitchNameError{Name: name, Reason: "note letter must be A-G"}
	}
	s = s[1:]

	if len(s) > 0 {
		if off, ok := accidentals[s[0]]; ok {
			step += off
			s = s[1:]
		}
	}

	if s == "" || s == "+" || s == "-" {
		return 0, &UnknownPitchNameError{Name: name, Reason: "missing octave"}
	}
	octave, err := strconv.Atoi(s)
	if err != nil {
		return 0, &UnknownPitchNameError{Name: name, Reason: "octave must be an integer"}
	}
	if octave < -1 || octave > 9 {
		return 0, &UnknownPitchNameError{Name: name, Reason: "outside MIDI range 0-127"}
	}

	pitch := 12*(octave+1) + step
	if pitch < 0 || pitch > 127 {
		return 0, &UnknownPitchNameError{Name: name, Reason: "outside MIDI range 0-127"}
	}
	return uint8(pitch), nil
}

// NoteName returns the sharp spelling of a note number (60 -> "C4")
func NoteName(pitch uint8) string {
	octave := int(pitch)/12 - 1
	return noteNames[pitch%12] + strconv.Itoa(octave)
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
