package widgets

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"text2midi/midi"
	"text2midi/sequencer"
	"text2midi/theme"
)

// NoteTable renders every note of the track in track order, followed by a
// one-line summary.
func NoteTable(track *sequencer.Track, th *theme.Theme) string {
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())

	rows := make([][]string, 0, track.Len())
	for i, n := range track.Notes {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			n.Name(),
			strconv.Itoa(int(n.Pitch)),
			RenderPad(th.Velocity(n.Velocity)) + " " + strconv.Itoa(int(n.Velocity)),
			fmt.Sprintf("%.3f", n.Start),
			fmt.Sprintf("%.3f", n.End),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("#", "NOTE", "PITCH", "VEL", "START", "END").
		Rows(rows...)

	return t.Render() + "\n" + dimStyle.Render(Summary(track))
}

// Summary describes a track in one line
func Summary(track *sequencer.Track) string {
	noun := "notes"
	if track.Len() == 1 {
		noun = "note"
	}
	return fmt.Sprintf("%d %s  program %d (%s)  %.3fs",
		track.Len(), noun, track.Program, midi.InstrumentName(track.Program), track.Duration())
}
