package ui

import (
	"fmt"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// StreamStat is one row of a [Tick]: a declared stream's name, enable
// state, and how many retained events currently belong to it.
type StreamStat struct {
	Name    string
	Enabled bool
	Count   int
}

// Tick is a point-in-time poll of a running recorder, the shape a
// WatchSource hands the viewer once per refresh.
type Tick struct {
	RecorderName string
	Capacity     int // notional event capacity, for the overall bar; 0 disables it
	Streams      []StreamStat
	Total        int
}

// WatchSource supplies ticks; cmd/timelinectl wraps a live
// *timeline.Timeline behind this so the viewer never imports the
// recorder package directly.
type WatchSource func() Tick

type watchModel struct {
	title    string
	source   WatchSource
	interval time.Duration
	spinner  spinner.Model
	prog    progress.Model
	rows    []StreamStat
	order   []string
	palette []lipgloss.Color
	recName string
	total   int
	width   int
	done    bool
	printer *message.Printer
}

type tickMsg Tick

// DoneMsg tells the viewer its workload has finished; send it through
// a running *tea.Program to stop the spinner and quit cleanly.
type DoneMsg struct{}

// NewWatchModel returns a Bubble Tea model that polls source every
// interval and renders per-stream fill alongside an overall progress bar.
func NewWatchModel(title string, source WatchSource, interval time.Duration) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &watchModel{
		title:    title,
		source:   source,
		interval: interval,
		spinner:  sp,
		prog:     prog,
		width:    80,
		printer:  message.NewPrinter(language.English),
	}
}

func (m *watchModel) poll() tea.Msg { return tickMsg(m.source()) }

func (m *watchModel) scheduleNext() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return m.poll() })
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll)
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		t := Tick(msg)
		m.applyTick(t)
		if m.done {
			return m, nil
		}
		return m, m.scheduleNext()
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *watchModel) applyTick(t Tick) {
	m.recName = t.RecorderName
	m.total = t.Total
	m.rows = t.Streams
	m.order = m.order[:0]
	for _, s := range t.Streams {
		m.order = append(m.order, s.Name)
		if _, ok := m.colorFor(s.Name); !ok {
			m.palette = append(m.palette, nextPaletteColor(len(m.palette)))
		}
	}
	if t.Capacity > 0 {
		pct := float64(t.Total) / float64(t.Capacity)
		if pct > 1 {
			pct = 1
		}
		m.prog.SetPercent(pct)
	}
}

// colorFor returns the palette color already assigned to name, if any.
func (m *watchModel) colorFor(name string) (lipgloss.Color, bool) {
	for i, n := range m.order {
		if n == name && i < len(m.palette) {
			return m.palette[i], true
		}
	}
	return "", false
}

// nextPaletteColor picks a stable ANSI color for the i'th distinct
// stream, wrapping through a fixed-size palette the way the teacher's
// type interner wraps a growing slot count into a fixed-width field.
func nextPaletteColor(i int) lipgloss.Color {
	palette := []string{"2", "3", "4", "5", "6", "9", "10", "13"}
	idx, err := safecast.Conv[uint8](i)
	if err != nil {
		idx = 0
	}
	return lipgloss.Color(palette[int(idx)%len(palette)])
}

func (m *watchModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%s)", m.title, m.recName)
	if m.done {
		header = "stopped: " + header
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := m.width - 16
	if nameWidth < 16 {
		nameWidth = 16
	}
	for i, row := range m.rows {
		color := lipgloss.Color("7")
		if i < len(m.palette) {
			color = m.palette[i]
		}
		style := lipgloss.NewStyle().Foreground(color)
		if !row.Enabled {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		}
		name := truncate(row.Name, nameWidth)
		count := m.printer.Sprintf("%d", row.Count)
		b.WriteString(fmt.Sprintf("  %s %10s\n", style.Render(fmt.Sprintf("%-*s", nameWidth, name)), count))
	}

	b.WriteString("\n")
	b.WriteString(m.prog.View())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("total retained: %s\n", m.printer.Sprintf("%d", m.total)))

	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
