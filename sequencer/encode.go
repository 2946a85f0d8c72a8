package sequencer

import (
	"fmt"
	"io"
	"math"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"text2midi/debug"
)

// Timing of the written file. The tempo is fixed, so seconds map to ticks
// linearly: one second is TicksPerSecond ticks.
const (
	Resolution     = 220   // ticks per quarter note
	TempoBPM       = 120.0 // quarter notes per minute
	TicksPerSecond = Resolution * TempoBPM / 60

	// MaxTicks is the largest delta-time an SMF variable-length quantity can hold.
	// Absolute times are capped at it so no single delta can exceed it.
	MaxTicks = 0x0FFFFFFF
)

// event ordering classes at equal ticks
const (
	classOff  = iota // note-off of a note with a length
	classZero        // on+off pair of a zero-length note
	classOn          // note-on of a note with a length
)

// timedEvent is one or more messages placed back to back at an absolute tick
type timedEvent struct {
	tick  uint32
	class int
	msgs  [][]byte
}

// Encode writes the track as a format 0 Standard MIDI File: track name,
// tempo and program change at tick 0, then a note-on/note-off pair per note.
func Encode(track *Track, w io.Writer) error {
	events, err := timedEvents(track)
	if err != nil {
		return err
	}

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(track.Name))
	tr.Add(0, smf.MetaTempo(TempoBPM))
	tr.Add(0, gomidi.ProgramChange(track.Channel, track.Program))

	var last uint32
	for _, ev := range events {
		tr.Add(ev.tick-last, ev.msgs...)
		last = ev.tick
	}
	tr.Close(0)
	debug.Log("sequencer", "encoded %d notes, %.3fs", len(track.Notes), TicksToSeconds(last))

	// smf.New is format 0 while it holds a single track
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("building track: %w", err)
	}

	_, err = s.WriteTo(w)
	return err
}

// timedEvents expands notes into absolute-tick events ordered by time.
// The sort is stable, so notes at the same tick keep track order.
func timedEvents(track *Track) ([]timedEvent, error) {
	log := debug.Logger("sequencer")
	events := make([]timedEvent, 0, 2*len(track.Notes))

	for i, n := range track.Notes {
		start, end := n.Start, n.End
		if start < 0 {
			log.Warn("note starts before zero, clamped", "note", i+1, "start", start)
			start = 0
		}
		if end < start {
			log.Warn("note ends before it starts, clamped to zero length", "note", i+1, "start", n.Start, "end", n.End)
			end = start
		}

		on, err := SecondsToTicks(start)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i+1, err)
		}
		off, err := SecondsToTicks(end)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i+1, err)
		}

		noteOn := gomidi.NoteOn(track.Channel, n.Pitch, n.Velocity)
		noteOff := gomidi.NoteOff(track.Channel, n.Pitch)
		if off == on {
			// kept as one pair so its note-off cannot land after another note's note-on
			events = append(events, timedEvent{tick: on, class: classZero, msgs: [][]byte{noteOn, noteOff}})
			continue
		}
		events = append(events,
			timedEvent{tick: on, class: classOn, msgs: [][]byte{noteOn}},
			timedEvent{tick: off, class: classOff, msgs: [][]byte{noteOff}},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].class < events[j].class
	})
	return events, nil
}

// SecondsToTicks converts an absolute time to the nearest tick
func SecondsToTicks(seconds float64) (uint32, error) {
	if seconds < 0 || math.IsNaN(seconds) {
		return 0, fmt.Errorf("time %v is not a non-negative number", seconds)
	}
	ticks := math.Round(seconds * TicksPerSecond)
	if ticks > MaxTicks {
		return 0, fmt.Errorf("time %.3fs is beyond the largest SMF tick", seconds)
	}
	return uint32(ticks), nil
}

// TicksToSeconds is the inverse of SecondsToTicks
func TicksToSeconds(ticks uint32) float64 {
	return float64(ticks) / TicksPerSecond
}
