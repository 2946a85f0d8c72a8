package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"text2midi/config"
	"text2midi/debug"
	"text2midi/midi"
	"text2midi/sequencer"
	"text2midi/table"
	"text2midi/theme"
	"text2midi/tui"
	"text2midi/widgets"
)

// Exit codes
const (
	exitOK = iota
	exitUsage
	exitMalformedInput
	exitUnknownPitch
	exitUnknownInstrument
	exitWrite
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	th := theme.Default()
	debug.Enable(stderr, string(config.LogInfo), th)
	defer debug.Disable()

	err := newCommand(stdout, stderr, th).Run(ctx, args)
	if err != nil {
		debug.Logger("cli").Error("conversion failed", "err", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, table.ErrMalformedInput):
		return exitMalformedInput
	case errors.Is(err, midi.ErrUnknownPitchName):
		return exitUnknownPitch
	case errors.Is(err, midi.ErrUnknownInstrument):
		return exitUnknownInstrument
	case errors.Is(err, sequencer.ErrIOWrite):
		return exitWrite
	default:
		return exitUsage
	}
}

func newCommand(stdout, stderr io.Writer, th *theme.Theme) *cli.Command {
	defaults := config.DefaultConfig()

	return &cli.Command{
		Name:            "text2midi",
		Usage:           "convert a CSV note table (NoteName,Start,End,Velocity) into a MIDI file",
		ArgsUsage:       "<text_path> <midi_path>",
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "instrument",
				Aliases: []string{"i"},
				Value:   defaults.Instrument,
				Usage:   "General MIDI instrument name for the track",
			},
			&cli.StringFlag{
				Name:  "charset",
				Value: defaults.Charset,
				Usage: "input text encoding (utf-8, shift_jis, windows-1252, ...)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: string(defaults.LogLevel),
				Usage: "log level: debug, info, warn, error",
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "print the note table after writing",
			},
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "open the piano roll preview after writing",
			},
			&cli.BoolFlag{
				Name:  "list-instruments",
				Usage: "print the General MIDI instrument names and exit",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("list-instruments") {
				for program, name := range midi.InstrumentNames() {
					fmt.Fprintf(stdout, "%3d  %s\n", program, name)
				}
				return nil
			}
			if cmd.NArg() != 2 {
				return fmt.Errorf("%w: expected <text_path> <midi_path>, got %d argument(s)", errUsage, cmd.NArg())
			}

			cfg := &config.Config{
				Instrument: cmd.String("instrument"),
				Charset:    cmd.String("charset"),
				LogLevel:   config.LogLevel(cmd.String("log-level")),
				Summary:    cmd.Bool("summary"),
				Preview:    cmd.Bool("preview"),
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := debug.Enable(stderr, string(cfg.LogLevel), th); err != nil {
				return err
			}

			return convert(cfg, cmd.Args().Get(0), cmd.Args().Get(1), stdout, th)
		},
	}
}

// convert runs load -> emit -> write for one file pair
func convert(cfg *config.Config, textPath, midiPath string, stdout io.Writer, th *theme.Theme) error {
	log := debug.Logger("cli")

	rows, err := table.Load(textPath, table.WithCharset(cfg.Charset))
	if err != nil {
		return err
	}
	log.Debug("loaded table", "path", textPath, "rows", len(rows))

	emitter := sequencer.NewEmitter(cfg.Instrument)
	track, err := emitter.Emit(rows)
	if err != nil {
		return err
	}
	log.Debug("emitted track", "instrument", emitter.Instrument(), "notes", track.Len())

	if err := sequencer.Write(track, midiPath); err != nil {
		return err
	}
	log.Info("wrote midi file", "notes", track.Len(), "program", track.Program, "path", midiPath)

	if cfg.Summary {
		fmt.Fprintln(stdout, widgets.NoteTable(track, th))
	}
	if cfg.Preview {
		return tui.Run(track, th)
	}
	return nil
}
