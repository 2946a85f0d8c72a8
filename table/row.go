package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Required header columns
const (
	ColNoteName = "NoteName"
	ColStart    = "Start"
	ColEnd      = "End"
	ColVelocity = "Velocity"
)

var requiredColumns = []string{ColNoteName, ColStart, ColEnd, ColVelocity}

// Row is one typed line of the note table
type Row struct {
	NoteName string
	Start    float64 // seconds
	End      float64 // seconds
	Velocity int     // 0-127
	Line     int     // 1-based line in the input, 0 if not from a file
}

// record is the untyped CSV shape; extra columns are ignored by the decoder
type record struct {
	NoteName string `csv:"NoteName"`
	Start    string `csv:"Start"`
	End      string `csv:"End"`
	Velocity string `csv:"Velocity"`
}

// row coerces a record to its declared types
func (r record) row(line int) (Row, error) {
	start, err := parseSeconds(r.Start)
	if err != nil {
		return Row{}, &MalformedInputError{Line: line, Column: ColStart, Err: err}
	}
	end, err := parseSeconds(r.End)
	if err != nil {
		return Row{}, &MalformedInputError{Line: line, Column: ColEnd, Err: err}
	}
	velocity, err := parseVelocity(r.Velocity)
	if err != nil {
		return Row{}, &MalformedInputError{Line: line, Column: ColVelocity, Err: err}
	}
	return Row{
		NoteName: r.NoteName,
		Start:    start,
		End:      end,
		Velocity: velocity,
		Line:     line,
	}, nil
}

func parseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value, want seconds")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

func parseVelocity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value, want integer 0-127")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if v < 0 || v > 127 {
		return 0, fmt.Errorf("%d is outside 0-127", v)
	}
	return v, nil
}
