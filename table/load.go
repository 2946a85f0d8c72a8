// Package table loads the comma-separated note table that drives a conversion.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"text2midi/debug"
)

// DefaultCharset is used when no WithCharset option is given
const DefaultCharset = "utf-8"

type options struct {
	charset string
}

// Option modifies how a table is read
type Option func(*options)

// WithCharset sets the input text encoding by WHATWG label ("utf-8", "shift_jis", ...)
func WithCharset(name string) Option {
	return func(o *options) {
		o.charset = name
	}
}

// Load reads the table at path. Any failure is a *MalformedInputError.
func Load(path string, opts ...Option) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MalformedInputError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := Decode(f, opts...)
	if err != nil {
		var me *MalformedInputError
		if errors.As(err, &me) {
			me.Path = path
		}
		return nil, err
	}

	debug.Logger("table").Debug("loaded", "path", path, "rows", len(rows))
	return rows, nil
}

// Decode reads a table from r. Rows come back in input order.
func Decode(r io.Reader, opts ...Option) ([]Row, error) {
	o := options{charset: DefaultCharset}
	for _, opt := range opts {
		opt(&o)
	}

	enc, err := htmlindex.Get(o.charset)
	if err != nil {
		return nil, &MalformedInputError{Err: fmt.Errorf("unsupported charset %q: %w", o.charset, err)}
	}

	// BOMOverride strips a byte-order mark and otherwise falls back to enc
	decoded := transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder()))

	lr := &lineReader{r: csv.NewReader(decoded)}
	var records []record
	if err := gocsv.UnmarshalCSV(lr, &records); err != nil {
		var me *MalformedInputError
		if errors.As(err, &me) {
			return nil, me
		}
		return nil, &MalformedInputError{Err: err}
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		line := 0
		if i < len(lr.lines) {
			line = lr.lines[i]
		}
		row, err := rec.row(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		debug.LogEvery(1000, "table", "decoded row %d", i+1)
	}
	return rows, nil
}

// lineReader feeds gocsv while checking the header and remembering the input
// line of every data record.
type lineReader struct {
	r     *csv.Reader
	lines []int
}

func (l *lineReader) Read() ([]string, error) {
	return l.r.Read()
}

func (l *lineReader) ReadAll() ([][]string, error) {
	header, err := l.r.Read()
	if err == io.EOF {
		return nil, &MalformedInputError{Line: 1, Err: errors.New("empty file, want a header row")}
	}
	if err != nil {
		return nil, &MalformedInputError{Line: parseErrorLine(err), Err: err}
	}
	if err := checkHeader(header); err != nil {
		return nil, &MalformedInputError{Line: 1, Err: err}
	}

	all := [][]string{header}
	for {
		rec, err := l.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedInputError{Line: parseErrorLine(err), Err: err}
		}
		line, _ := l.r.FieldPos(0)
		l.lines = append(l.lines, line)
		all = append(all, rec)
	}
	return all, nil
}

// checkHeader wants every required column exactly once
func checkHeader(header []string) error {
	present := make(map[string]int, len(header))
	for _, name := range header {
		present[name]++
	}

	var missing, repeated []string
	for _, name := range requiredColumns {
		switch {
		case present[name] == 0:
			missing = append(missing, name)
		case present[name] > 1:
			repeated = append(repeated, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("header is missing required column(s) %s", strings.Join(missing, ", "))
	}
	if len(repeated) > 0 {
		return fmt.Errorf("header repeats column(s) %s", strings.Join(repeated, ", "))
	}
	return nil
}

func parseErrorLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}
