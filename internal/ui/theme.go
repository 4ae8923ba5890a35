package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Pending  lipgloss.Style
	Overdue  lipgloss.Style
	Urgent   lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style

	BoxUnchecked string
	BoxChecked   string
	SymOK        string
	SymFail      string
	BarFilled    string
	BarEmpty     string
	Border       lipgloss.Border
}

var current = themeFor("classic")

// SetTheme switches the palette; unknown names fall back to classic.
func SetTheme(name string) { current = themeFor(name) }

// Current returns the active theme.
func Current() Theme { return current }

func themeFor(name string) Theme {
	base := lipgloss.NewStyle()
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:         "neon",
			Title:        base.Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        base.Faint(true),
			Accent:       base.Foreground(lipgloss.Color("14")),
			Success:      base.Foreground(lipgloss.Color("10")),
			Error:        base.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      base.Foreground(lipgloss.Color("11")),
			Overdue:      base.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160")).Bold(true),
			Urgent:       base.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
			Selected:     base.Bold(true).Foreground(lipgloss.Color("13")),
			Done:         base.Faint(true).Strikethrough(true),
			BoxUnchecked: "◻",
			BoxChecked:   "◼",
			SymOK:        "✔",
			SymFail:      "✖",
			BarFilled:    "█",
			BarEmpty:     "░",
			Border:       lipgloss.RoundedBorder(),
		}
	case "mono":
		return Theme{
			Name:         "mono",
			Title:        base,
			Muted:        base,
			Accent:       base,
			Success:      base,
			Error:        base,
			Pending:      base,
			Overdue:      base,
			Urgent:       base,
			Selected:     base,
			Done:         base,
			BoxUnchecked: "[ ]",
			BoxChecked:   "[x]",
			SymOK:        "ok",
			SymFail:      "error:",
			BarFilled:    "#",
			BarEmpty:     "-",
			Border:       lipgloss.ASCIIBorder(),
		}
	default:
		return Theme{
			Name:         "classic",
			Title:        base.Bold(true),
			Muted:        base.Faint(true),
			Accent:       base.Foreground(lipgloss.Color("12")),
			Success:      base.Foreground(lipgloss.Color("42")),
			Error:        base.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      base.Foreground(lipgloss.Color("214")),
			Overdue:      base.Foreground(lipgloss.Color("9")).Bold(true),
			Urgent:       base.Foreground(lipgloss.Color("214")).Bold(true),
			Selected:     base.Bold(true).Reverse(true),
			Done:         base.Faint(true).Strikethrough(true),
			BoxUnchecked: "☐",
			BoxChecked:   "☑",
			SymOK:        "✔",
			SymFail:      "✖",
			BarFilled:    "█",
			BarEmpty:     "░",
			Border:       lipgloss.RoundedBorder(),
		}
	}
}
