// Package console implements the optional `--console`/`screenctl console`
// TUI dashboard (spec.md/SPEC_FULL.md §4.M): connection state, time since
// last heartbeat, active shell session count, and a tail of recent audit
// events, polled from the local HTTP API once a second.
//
// bubbletea/bubbles/lipgloss are carried as indirect dependencies in the
// teacher's go.mod but never exercised by the teacher's own code; the
// Init/Update/View model shape and lipgloss list styling here are grounded
// on stacklok-toolhive/cmd/thv/app/ui's setup wizard, the one repo in the
// example pack that actually drives a bubbletea program.
package console

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/screenctl/screenctld/internal/apiclient"
	"github.com/screenctl/screenctld/internal/cliutil"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E05252"))
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
)

const pollInterval = 1 * time.Second

type tickMsg time.Time

type statusMsg struct {
	status map[string]interface{}
	events []apiclient.AuditEvent
	err    error
}

// Model is the bubbletea program backing `screenctl console`.
type Model struct {
	client *apiclient.Client

	status   map[string]interface{}
	events   []apiclient.AuditEvent
	lastErr  error
	quitting bool
}

// New builds a Model polling the daemon reachable through client.
func New(client *apiclient.Client) Model {
	return Model{client: client}
}

// Init kicks off the first poll.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poll(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) poll() tea.Cmd {
	return func() tea.Msg {
		status, err := m.client.Status()
		if err != nil {
			return statusMsg{err: err}
		}
		events, err := m.client.AuditRecent(20)
		if err != nil {
			return statusMsg{status: status, err: err}
		}
		return statusMsg{status: status, events: events}
	}
}

// Update handles key presses (q/ctrl+c quit) and the poll tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		return m, tea.Batch(m.poll(), tick())
	case statusMsg:
		if msg.status != nil {
			m.status = msg.status
		}
		if msg.events != nil {
			m.events = msg.events
		}
		m.lastErr = msg.err
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("screenctl console") + "\n\n")

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("could not reach daemon: %v", m.lastErr)) + "\n\n")
	}

	if m.status != nil {
		state, _ := m.status["controlServerState"].(string)
		b.WriteString(fmt.Sprintf("Connection: %s\n", cliutil.GetConnectionBadge(state)))

		if ack, ok := m.status["lastHeartbeatAckSeconds"].(float64); ok {
			b.WriteString(dimStyle.Render(fmt.Sprintf("Last heartbeat ack: %.0fs ago", ack)) + "\n")
		} else {
			b.WriteString(dimStyle.Render("Last heartbeat ack: none yet") + "\n")
		}

		if sessions, ok := m.status["activeShellSessions"].(float64); ok {
			b.WriteString(fmt.Sprintf("Active shell sessions: %d\n", int(sessions)))
		}
	} else {
		b.WriteString(dimStyle.Render("waiting for first status poll...") + "\n")
	}

	b.WriteString("\n" + headerStyle.Render("Recent audit events") + "\n")
	if len(m.events) == 0 {
		b.WriteString(dimStyle.Render("  (none yet)") + "\n")
	}
	for _, ev := range m.events {
		marker := "allow"
		if !ev.Allowed {
			marker = "deny"
		}
		b.WriteString(fmt.Sprintf("  %-8s %-20s %-6s %s\n", ev.Timestamp, ev.Method, marker, ev.Reason))
	}

	b.WriteString("\n" + dimStyle.Render("q to quit") + "\n")
	return docStyle.Render(b.String())
}

// Run launches the console program and blocks until the user quits.
func Run(client *apiclient.Client) error {
	p := tea.NewProgram(New(client))
	_, err := p.Run()
	return err
}
