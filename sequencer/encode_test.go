package sequencer

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"text2midi/midi"
)

// decodedNote is a note read back from written SMF bytes
type decodedNote struct {
	Pitch     uint8
	Velocity  uint8
	StartTick int64
	EndTick   int64
	StartSec  float64
}

type decoded struct {
	Program  int // -1 if no program change was seen
	Notes    []decodedNote
	Unpaired int
}

// decodeSMF pairs note-ons with note-offs per pitch, first in first out
func decodeSMF(t *testing.T, data []byte) decoded {
	t.Helper()

	out := decoded{Program: -1}
	open := make(map[uint8][]int)

	smf.ReadTracksFrom(bytes.NewReader(data)).Do(func(ev smf.TrackEvent) {
		msg := gomidi.Message(ev.Message)
		var ch, key, vel, prog uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			open[key] = append(open[key], len(out.Notes))
			out.Notes = append(out.Notes, decodedNote{
				Pitch:     key,
				Velocity:  vel,
				StartTick: ev.AbsTicks,
				StartSec:  float64(ev.AbsMicroSeconds) / 1e6,
			})
		case msg.GetNoteEnd(&ch, &key):
			idx := open[key]
			if len(idx) == 0 {
				out.Unpaired++
				return
			}
			out.Notes[idx[0]].EndTick = ev.AbsTicks
			open[key] = idx[1:]
		case msg.GetProgramChange(&ch, &prog):
			out.Program = int(prog)
		}
	})

	for _, idx := range open {
		out.Unpaired += len(idx)
	}
	return out
}

func encode(t *testing.T, track *Track) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(track, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestEncode_Header(t *testing.T) {
	data := encode(t, NewTrack("Cello", 42))

	if string(data[0:4]) != "MThd" {
		t.Fatalf("missing MThd chunk: % x", data[:4])
	}
	if format := binary.BigEndian.Uint16(data[8:10]); format != 0 {
		t.Errorf("format = %d, want 0", format)
	}
	if tracks := binary.BigEndian.Uint16(data[10:12]); tracks != 1 {
		t.Errorf("tracks = %d, want 1", tracks)
	}
	if division := binary.BigEndian.Uint16(data[12:14]); division != Resolution {
		t.Errorf("division = %d, want %d", division, Resolution)
	}
	if string(data[14:18]) != "MTrk" {
		t.Errorf("missing MTrk chunk")
	}
	if !bytes.Contains(data, []byte("Cello")) {
		t.Error("track name meta event missing")
	}
}

func TestEncode_NotesAndProgram(t *testing.T) {
	track := NewTrack("Cello", 42)
	track.Append(midi.Note{Pitch: 60, Velocity: 100, Start: 0, End: 1})
	track.Append(midi.Note{Pitch: 64, Velocity: 90, Start: 0.5, End: 1.5})
	track.Append(midi.Note{Pitch: 67, Velocity: 80, Start: 2, End: 2.25})

	got := decodeSMF(t, encode(t, track))

	if got.Program != 42 {
		t.Errorf("program = %d, want 42", got.Program)
	}
	if got.Unpaired != 0 {
		t.Errorf("%d unpaired note events", got.Unpaired)
	}
	want := []decodedNote{
		{Pitch: 60, Velocity: 100, StartTick: 0, EndTick: 440, StartSec: 0},
		{Pitch: 64, Velocity: 90, StartTick: 220, EndTick: 660, StartSec: 0.5},
		{Pitch: 67, Velocity: 80, StartTick: 880, EndTick: 990, StartSec: 2},
	}
	if len(got.Notes) != len(want) {
		t.Fatalf("got %d notes, want %d", len(got.Notes), len(want))
	}
	for i := range want {
		g := got.Notes[i]
		w := want[i]
		if g.Pitch != w.Pitch || g.Velocity != w.Velocity || g.StartTick != w.StartTick || g.EndTick != w.EndTick {
			t.Errorf("note %d = %+v, want %+v", i, g, w)
		}
		// the tempo meta event must make ticks line up with seconds
		if math.Abs(g.StartSec-w.StartSec) > 0.001 {
			t.Errorf("note %d starts at %.4fs, want %.4fs", i, g.StartSec, w.StartSec)
		}
	}
}

func TestEncode_OutOfOrderTrackIsTimeOrderedOnDisk(t *testing.T) {
	track := NewTrack("Cello", 42)
	track.Append(midi.Note{Pitch: 72, Velocity: 50, Start: 3, End: 4})
	track.Append(midi.Note{Pitch: 48, Velocity: 60, Start: 0, End: 1})

	got := decodeSMF(t, encode(t, track))
	if len(got.Notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(got.Notes))
	}
	if got.Notes[0].Pitch != 48 || got.Notes[1].Pitch != 72 {
		t.Errorf("on-disk order = %d, %d; want 48, 72", got.Notes[0].Pitch, got.Notes[1].Pitch)
	}
	// the track itself is untouched
	if track.Notes[0].Pitch != 72 {
		t.Error("Encode must not reorder the track")
	}
}

func TestEncode_RepeatedPitchBackToBack(t *testing.T) {
	track := NewTrack("Cello", 42)
	track.Append(midi.Note{Pitch: 60, Velocity: 100, Start: 0, End: 1})
	track.Append(midi.Note{Pitch: 60, Velocity: 100, Start: 1, End: 2})

	got := decodeSMF(t, encode(t, track))
	if got.Unpaired != 0 || len(got.Notes) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Notes[0].EndTick != 440 || got.Notes[1].StartTick != 440 || got.Notes[1].EndTick != 880 {
		t.Errorf("note-off must precede the next note-on at the same tick: %+v", got.Notes)
	}
}

func TestEncode_ClampsInvalidTimes(t *testing.T) {
	track := NewTrack("Cello", 42)
	track.Append(midi.Note{Pitch: 60, Velocity: 100, Start: -1, End: 0.5})
	track.Append(midi.Note{Pitch: 62, Velocity: 100, Start: 1, End: 0.5})

	got := decodeSMF(t, encode(t, track))
	if got.Unpaired != 0 || len(got.Notes) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Notes[0].StartTick != 0 || got.Notes[0].EndTick != 220 {
		t.Errorf("negative start not clamped: %+v", got.Notes[0])
	}
	if got.Notes[1].StartTick != 440 || got.Notes[1].EndTick != 440 {
		t.Errorf("end before start not clamped to zero length: %+v", got.Notes[1])
	}
}

func TestEncode_Deterministic(t *testing.T) {
	track := NewTrack("Cello", 42)
	track.Append(midi.Note{Pitch: 60, Velocity: 100, Start: 0, End: 1})
	track.Append(midi.Note{Pitch: 64, Velocity: 100, Start: 0, End: 1})

	a := encode(t, track)
	b := encode(t, track)
	if !bytes.Equal(a, b) {
		t.Error("encoding the same track twice produced different bytes")
	}
}

func TestSecondsToTicks(t *testing.T) {
	tests := []struct {
		seconds float64
		want    uint32
		wantErr bool
	}{
		{0, 0, false},
		{1, 440, false},
		{0.5, 220, false},
		{0.0011, 0, false},
		{0.0012, 1, false},
		{-0.1, 0, true},
		{math.NaN(), 0, true},
		{MaxTicks / TicksPerSecond, MaxTicks, false},
		{MaxTicks/TicksPerSecond + 1, 0, true},
		{700000, 0, true},
		{1e12, 0, true},
	}
	for _, tt := range tests {
		got, err := SecondsToTicks(tt.seconds)
		if (err != nil) != tt.wantErr {
			t.Errorf("SecondsToTicks(%v) error = %v, wantErr %v", tt.seconds, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("SecondsToTicks(%v) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
	if TicksToSeconds(440) != 1 {
		t.Errorf("TicksToSeconds(440) = %v, want 1", TicksToSeconds(440))
	}
}

func TestEncode_TimeOutOfRange(t *testing.T) {
	for _, end := range []float64{700000, 1e12} {
		track := NewTrack("Cello", 42)
		track.Append(midi.Note{Pitch: 60, Velocity: 100, Start: 0, End: end})

		var buf bytes.Buffer
		if err := Encode(track, &buf); err == nil {
			t.Errorf("End %v: expected error for a time beyond the SMF delta-time range", end)
		}
	}
}

func TestEncode_ZeroLengthNoteDoesNotCutSamePitch(t *testing.T) {
	track := NewTrack("Cello", 42)
	track.Append(midi.Note{Pitch: 60, Velocity: 100, Start: 1, End: 2})
	track.Append(midi.Note{Pitch: 60, Velocity: 70, Start: 1, End: 1})

	got := decodeSMF(t, encode(t, track))
	if got.Unpaired != 0 || len(got.Notes) != 2 {
		t.Fatalf("got %+v", got)
	}
	// the zero-length pair comes first, then the held note sounds to its end
	zero, held := got.Notes[0], got.Notes[1]
	if zero.Velocity != 70 || zero.StartTick != 440 || zero.EndTick != 440 {
		t.Errorf("zero-length note = %+v, want 440-440", zero)
	}
	if held.Velocity != 100 || held.StartTick != 440 || held.EndTick != 880 {
		t.Errorf("held note = %+v, want 440-880", held)
	}
}

func TestEncode_VelocityZeroIsWrittenAsIs(t *testing.T) {
	track := NewTrack("Cello", 42)
	track.Append(midi.Note{Pitch: 60, Velocity: 0, Start: 0, End: 1})

	data := encode(t, track)
	if !bytes.Contains(data, []byte{0x90, 60, 0}) {
		t.Error("note-on with velocity 0 should be written unchanged")
	}
	// readers take a velocity 0 note-on as a note-off, so nothing pairs up
	got := decodeSMF(t, data)
	if len(got.Notes) != 0 || got.Unpaired != 2 {
		t.Errorf("got %d notes and %d unpaired events, want 0 and 2", len(got.Notes), got.Unpaired)
	}
}
