package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"text2midi/midi"
	"text2midi/sequencer"
)

// LogLevel names accepted by the logger
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// Config holds everything one conversion run needs besides the two paths
type Config struct {
	Instrument string   // General MIDI instrument name for the track
	Charset    string   // input text encoding (WHATWG label)
	LogLevel   LogLevel // stderr log threshold
	Summary    bool     // print the note table after writing
	Preview    bool     // open the piano roll preview after writing
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instrument: sequencer.DefaultInstrument,
		Charset:    "utf-8",
		LogLevel:   LogInfo,
	}
}

// Validate checks field values. An unknown instrument is reported as
// *midi.UnknownInstrumentError so callers can tell it apart.
func (c *Config) Validate() error {
	switch LogLevel(strings.ToLower(string(c.LogLevel))) {
	case LogDebug, LogInfo, LogWarn, LogError:
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if _, err := htmlindex.Get(c.Charset); err != nil {
		return fmt.Errorf("unsupported charset %q: %w", c.Charset, err)
	}

	if _, err := midi.ProgramOf(c.Instrument); err != nil {
		return err
	}
	return nil
}
