package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color set every style below derives from.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Alert   lipgloss.Color
}

var themes = []Theme{
	{
		Name:    "phosphor",
		Primary: lipgloss.Color("#00ff88"),
		Accent:  lipgloss.Color("#88ffcc"),
		Text:    lipgloss.Color("#ccffdd"),
		Muted:   lipgloss.Color("#2a5540"),
		Alert:   lipgloss.Color("#ffcc00"),
	},
	{
		Name:    "ice",
		Primary: lipgloss.Color("#5fd7ff"),
		Accent:  lipgloss.Color("#d7afff"),
		Text:    lipgloss.Color("#e4f4ff"),
		Muted:   lipgloss.Color("#33556a"),
		Alert:   lipgloss.Color("#ff8787"),
	},
	{
		Name:    "plasma",
		Primary: lipgloss.Color("#ff5fd7"),
		Accent:  lipgloss.Color("#ffaf5f"),
		Text:    lipgloss.Color("#ffe4f4"),
		Muted:   lipgloss.Color("#663355"),
		Alert:   lipgloss.Color("#ffff5f"),
	},
}

var themeIndex = 0

func CurrentTheme() Theme { return themes[themeIndex] }

// CycleTheme advances to the next built-in theme and returns it.
func CycleTheme() Theme {
	themeIndex = (themeIndex + 1) % len(themes)
	return themes[themeIndex]
}

// SetTheme selects a theme by name; unknown names are ignored.
func SetTheme(name string) {
	for i, t := range themes {
		if t.Name == name {
			themeIndex = i
			return
		}
	}
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// Styles rebuild from the active theme so cycling retints everything
// on the next render.

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme().Primary)
}

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme().Muted).
		Padding(0, 1)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme().Muted).Width(9)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme().Text)
}

func accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme().Accent)
}

func alertStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme().Alert)
}

func helpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme().Muted)
}
