// Package tui is a read-only piano roll for looking over an emitted track.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"text2midi/midi"
	"text2midi/sequencer"
	"text2midi/theme"
	"text2midi/widgets"
)

// ViewScales are the zoom levels in seconds per column
var ViewScales = []float64{
	0.03125,
	0.0625,
	0.125,
	0.25,
	0.5,
	1.0,
	2.0,
	4.0,
}

const (
	defaultScale = 3 // 0.25s per column
	defaultCols  = 48
	defaultRows  = 16
	labelWidth   = 5 // "C#-1 "
)

var keys = []widgets.KeyBinding{
	{Key: "h/l", Desc: "prev/next note"},
	{Key: "j/k", Desc: "pitch down/up"},
	{Key: "q/w", Desc: "zoom out/in"},
	{Key: "?", Desc: "help"},
	{Key: "esc", Desc: "quit"},
}

var helpSections = []widgets.KeySection{
	{Title: "Select", Keys: []widgets.KeyBinding{
		{Key: "h / left", Desc: "previous note in file order"},
		{Key: "l / right", Desc: "next note in file order"},
		{Key: "j / down", Desc: "nearest note on a lower pitch"},
		{Key: "k / up", Desc: "nearest note on a higher pitch"},
	}},
	{Title: "View", Keys: []widgets.KeyBinding{
		{Key: "q", Desc: "zoom out"},
		{Key: "w", Desc: "zoom in"},
		{Key: "?", Desc: "toggle this help"},
		{Key: "esc / ctrl+c", Desc: "quit"},
	}},
}

type Model struct {
	Track *sequencer.Track
	Theme *theme.Theme

	selected    int // index into Track.Notes, -1 if empty
	centerTime  float64
	centerPitch int
	scale       int
	cols        int
	rows        int
	showHelp    bool
	quitting    bool
}

// NewModel creates a preview positioned on the first note of the track
func NewModel(track *sequencer.Track, th *theme.Theme) Model {
	m := Model{
		Track:       track,
		Theme:       th,
		selected:    -1,
		centerPitch: 60,
		scale:       defaultScale,
		cols:        defaultCols,
		rows:        defaultRows,
	}
	if track.Len() > 0 {
		m.selected = 0
		m.centerOnSelection()
	}
	return m
}

// Selected returns the index of the selected note, -1 if none
func (m Model) Selected() int {
	return m.selected
}

// Scale returns the current zoom in seconds per column
func (m Model) Scale() float64 {
	return ViewScales[m.scale]
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "h", "left":
			m.selectByOrder(-1)
		case "l", "right":
			m.selectByOrder(1)
		case "j", "down":
			m.selectByPitch(-1)
		case "k", "up":
			m.selectByPitch(1)
		case "q":
			if m.scale < len(ViewScales)-1 {
				m.scale++
			}
		case "w":
			if m.scale > 0 {
				m.scale--
			}
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.cols = max(8, msg.Width-labelWidth-1)
		m.rows = max(4, msg.Height-8)
	}

	return m, nil
}

func (m *Model) centerOnSelection() {
	if m.selected < 0 || m.selected >= m.Track.Len() {
		return
	}
	n := m.Track.Notes[m.selected]
	m.centerTime = n.Start
	m.centerPitch = int(n.Pitch)
}

// selectByOrder walks the track in insertion order, wrapping at either end
func (m *Model) selectByOrder(direction int) {
	count := m.Track.Len()
	if count == 0 {
		return
	}
	m.selected = (m.selected + direction + count) % count
	m.centerOnSelection()
}

// selectByPitch jumps to the closest note in time on the nearest pitch in direction
func (m *Model) selectByPitch(direction int) {
	if m.selected < 0 {
		return
	}
	current := m.Track.Notes[m.selected]

	bestIdx := -1
	bestDist := 0.0
	for pitch := int(current.Pitch) + direction; pitch >= 0 && pitch <= 127; pitch += direction {
		for i, n := range m.Track.Notes {
			if int(n.Pitch) != pitch {
				continue
			}
			dist := abs(n.Start - current.Start)
			if bestIdx < 0 || dist < bestDist {
				bestIdx = i
				bestDist = dist
			}
		}
		if bestIdx >= 0 {
			break
		}
	}

	if bestIdx >= 0 {
		m.selected = bestIdx
		m.centerOnSelection()
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Background(m.Theme.BG()).Padding(0, 1)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	selectedStyle := lipgloss.NewStyle().Foreground(m.Theme.Success()).Bold(true)

	if m.showHelp {
		return headerStyle.Render("PREVIEW HELP") + "\n\n" + widgets.RenderKeyHelp(helpSections)
	}

	var out strings.Builder
	out.WriteString(headerStyle.Render(fmt.Sprintf("PREVIEW  %s", widgets.Summary(m.Track))))
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(fmt.Sprintf("View: %gs/col", m.Scale())))
	out.WriteString("\n\n")
	out.WriteString(m.grid())

	if m.selected >= 0 {
		n := m.Track.Notes[m.selected]
		out.WriteString("\n")
		out.WriteString(selectedStyle.Render(fmt.Sprintf("Selected: #%d %s  start:%.3fs  end:%.3fs  vel:%d",
			m.selected+1, n.Name(), n.Start, n.End, n.Velocity)))
	}

	out.WriteString("\n\n")
	out.WriteString(widgets.RenderKeyLine(keys, dimStyle))
	return out.String()
}

// grid draws pitches top (high) to bottom (low) and time left to right
func (m Model) grid() string {
	sym := m.Theme.Symbols
	secPerCol := m.Scale()
	startTime := m.centerTime - float64(m.cols)*secPerCol/2
	topPitch := m.centerPitch + m.rows/2
	end := m.Track.Duration()
	outside := lipgloss.NewStyle().Foreground(m.Theme.Surface()).Render(string(sym.Outside))

	var out strings.Builder
	for row := 0; row < m.rows; row++ {
		pitch := topPitch - row
		if pitch < 0 || pitch > 127 {
			continue
		}
		out.WriteString(fmt.Sprintf("%-*s", labelWidth, midi.NoteName(uint8(pitch))))

		for col := 0; col < m.cols; col++ {
			colStart := startTime + float64(col)*secPerCol
			colEnd := colStart + secPerCol

			if colEnd <= 0 || colStart > end {
				out.WriteString(outside)
				continue
			}

			held := 0
			startIdx := -1
			for i, n := range m.Track.Notes {
				if int(n.Pitch) != pitch {
					continue
				}
				if n.Start < colEnd && n.End > colStart {
					held++
				}
				if n.Start >= colStart && n.Start < colEnd && (startIdx < 0 || i == m.selected) {
					startIdx = i
				}
			}

			switch {
			case startIdx >= 0 && startIdx == m.selected:
				out.WriteString(lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Render(string(sym.Selected)))
			case startIdx >= 0:
				vel := m.Track.Notes[startIdx].Velocity
				out.WriteString(lipgloss.NewStyle().Foreground(m.Theme.Velocity(vel)).Render(string(sym.Start)))
			case held > 1:
				out.WriteRune(sym.Overlap)
			case held == 1:
				out.WriteRune(sym.Sustain)
			default:
				out.WriteRune(sym.Empty)
			}
		}
		out.WriteString("\n")
	}
	return out.String()
}

// Run opens the preview full screen and blocks until the user quits
func Run(track *sequencer.Track, th *theme.Theme) error {
	p := tea.NewProgram(NewModel(track, th), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
