// Package tui provides a live terminal monitor for a running simulation.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/hartsched/internal/sim"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(fgColor)

	stealStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	doneStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

// Monitor is the bubbletea model rendering live per-hart counters.
type Monitor struct {
	sim     *sim.Sim
	spinner spinner.Model
	stats   []sim.HartStats
	drained bool
}

type statsMsg struct {
	stats     []sim.HartStats
	remaining int
}

// New creates a monitor over a started simulation.
func New(s *sim.Sim) *Monitor {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return &Monitor{sim: s, spinner: sp}
}

// Run renders the monitor until the workload drains and the user quits.
func Run(s *sim.Sim) error {
	_, err := tea.NewProgram(New(s)).Run()
	return err
}

func (m *Monitor) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

func (m *Monitor) poll() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return statsMsg{stats: m.sim.Stats(), remaining: m.sim.Remaining()}
	})
}

func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case statsMsg:
		m.stats = msg.stats
		m.drained = msg.remaining == 0
		if m.drained {
			return m, nil
		}
		return m, m.poll()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Monitor) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hartsched monitor"))
	b.WriteString("\n\n")

	rows := []string{headerStyle.Render(fmt.Sprintf("%-5s %7s %7s %7s %7s %7s %9s",
		"HART", "SEEDED", "PICKED", "STOLEN", "IDLE", "REQUE", "COMPLETE"))}
	for i, h := range m.stats {
		row := fmt.Sprintf("%-5d %7d %7d %7d %7d %7d %9d",
			i, h.Seeded, h.Picked, h.Stolen, h.Idle, h.Requeues, h.Completed)
		if h.Stolen > 0 {
			row = stealStyle.Render(row)
		}
		rows = append(rows, row)
	}
	b.WriteString(panelStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n\n")

	if m.drained {
		b.WriteString(doneStyle.Render("workload drained"))
	} else {
		b.WriteString(fmt.Sprintf("%s %d tasks remaining", m.spinner.View(), m.sim.Remaining()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")

	return b.String()
}
