package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/phaselab/phaselab/internal/engine"
)

const (
	portraitWidth  = 54
	portraitHeight = 18
	sectionWidth   = 30
	sectionHeight  = 9
	stripWidth     = 86
	stripHeight    = 5
	stripSamples   = 240

	// A stalled terminal or debugger pause must not turn into a huge
	// catch-up burst.
	maxFrameGap = 250 * time.Millisecond
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model runs an engine at wall-clock rate and renders the phase
// portrait, a scrolling strip of one quantity and, when sampling is
// on, the Poincaré section.
type Model struct {
	eng      *engine.Engine
	name     string
	columns  []string
	speed    float64
	running  bool
	showHelp bool
	lastTick time.Time
	report   engine.Report

	xcol, ycol, strip int
}

func NewModel(eng *engine.Engine, name string, speed float64) Model {
	if speed <= 0 {
		speed = 1
	}
	m := Model{
		eng:      eng,
		name:     name,
		columns:  eng.Columns(),
		speed:    speed,
		running:  true,
		lastTick: time.Now(),
	}
	if len(m.columns) > 1 {
		m.ycol = 1
	}
	return m
}

// Run starts the live view on the alternate screen and blocks until
// the user quits.
func Run(eng *engine.Engine, name string, speed float64) error {
	p := tea.NewProgram(NewModel(eng, name, speed), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.eng.Reset()
			m.report = engine.Report{}
		case "tab":
			m.strip = m.nextColumn(m.strip)
		case "x":
			m.xcol = m.nextColumn(m.xcol)
		case "y":
			m.ycol = m.nextColumn(m.ycol)
		case "+", "=":
			if m.speed < 64 {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 0.0625 {
				m.speed /= 2
			}
		case "c":
			m.eng.ClearPoints()
		case "t":
			CycleTheme()
		case "?":
			m.showHelp = !m.showHelp
		}

	case TickMsg:
		now := time.Time(msg)
		if m.running {
			elapsed := now.Sub(m.lastTick)
			if elapsed < 0 || elapsed > maxFrameGap {
				elapsed = maxFrameGap
			}
			m.report = m.eng.Advance(elapsed, m.speed)
		}
		m.lastTick = now
		return m, tick()
	}
	return m, nil
}

func (m Model) nextColumn(i int) int {
	if len(m.columns) == 0 {
		return 0
	}
	return (i + 1) % len(m.columns)
}

func (m Model) View() string {
	var b strings.Builder

	status := accentStyle().Render("RUNNING")
	switch {
	case !m.running:
		status = alertStyle().Render("PAUSED")
	case m.report.Backlog > 5*m.eng.Dt():
		status = alertStyle().Render("LAGGING")
	}
	b.WriteString(headerStyle().Render("PHASELAB · " + m.name))
	b.WriteString("  " + status)
	b.WriteString(valueStyle().Render(fmt.Sprintf("  x%.4g", m.speed)))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.portraitPanel(), m.sidePanel()))
	b.WriteString("\n" + m.stripPanel() + "\n")

	if m.showHelp {
		b.WriteString(helpStyle().Render(helpText))
	} else {
		b.WriteString(helpStyle().Render("space pause · r reset · tab strip · x/y axes · +/- speed · c clear · t theme · ? help · q quit"))
	}
	return b.String()
}

const helpText = `  space   pause / resume
  r       reset to initial state
  tab     cycle the strip variable
  x / y   cycle the portrait axes
  + / -   double / halve the speed
  c       clear section samples
  t       cycle the color theme
  q       quit`

func (m Model) portraitPanel() string {
	if len(m.columns) == 0 {
		return panelStyle().Render("no state variables")
	}
	xn, yn := m.columns[m.xcol], m.columns[m.ycol]

	p := NewPlot(portraitWidth, portraitHeight).Lines(true)
	for _, s := range m.eng.History() {
		p.Add(s.Values[xn], s.Values[yn])
	}

	title := accentStyle().Render(fmt.Sprintf("%s vs %s", xn, yn))
	return panelStyle().Render(title + "\n" + p.Render())
}

func (m Model) sidePanel() string {
	parts := []string{m.statsPanel()}
	if m.eng.Section().Enabled() {
		parts = append(parts, m.sectionPanel())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) statsPanel() string {
	t, now := m.eng.Now()

	var b strings.Builder
	row := func(label, val string) {
		b.WriteString(labelStyle().Render(label) + valueStyle().Render(val) + "\n")
	}
	row("time", fmt.Sprintf("%.2f", t))
	row("steps", fmt.Sprintf("%d", m.eng.StepsTaken()))
	row("dt", fmt.Sprintf("%g", m.eng.Dt()))
	row("backlog", fmt.Sprintf("%.3f", m.report.Backlog))
	if m.eng.Section().Enabled() {
		row("samples", fmt.Sprintf("%d", m.eng.PointCount()))
	}
	b.WriteString("\n")

	for i, name := range m.columns {
		if i == 8 {
			b.WriteString(helpStyle().Render("...") + "\n")
			break
		}
		row(name, fmt.Sprintf("%+.3f", now[name]))
	}
	return panelStyle().Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) sectionPanel() string {
	sc := m.eng.Section()

	p := NewPlot(sectionWidth, sectionHeight)
	for _, pt := range m.eng.Points() {
		p.Add(pt.X, pt.Y)
	}

	title := accentStyle().Render(fmt.Sprintf("poincare %s/%s", sc.PlotX, sc.PlotY))
	return panelStyle().Render(title + "\n" + p.Render())
}

func (m Model) stripPanel() string {
	if len(m.columns) == 0 {
		return ""
	}
	name := m.columns[m.strip]
	data := m.eng.Series(name, stripSamples)
	if len(data) < 2 {
		return panelStyle().Render(accentStyle().Render(name) + "\n(collecting)")
	}
	chart := asciigraph.Plot(data,
		asciigraph.Height(stripHeight),
		asciigraph.Width(stripWidth),
		asciigraph.Caption(name))
	return panelStyle().Render(chart)
}
