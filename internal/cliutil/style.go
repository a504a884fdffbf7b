// Package cliutil provides the terminal styling helpers shared by
// cmd/screenctl's subcommands: colored status dots, badges for connection
// state, and a minimal table renderer.
//
// Adapted from diane-assistant-diane/server/internal/cli/style.go: same
// lipgloss palette and PrintSuccess/PrintError/PrintWarning/RenderTable/
// GetStatusDot shapes, with the teacher's MCP-server-type badge
// (http/sse/stdio/builtin) replaced by a connection-state badge
// (connected/reconnecting/registering/disconnected) matching screencontrol's
// own state machine (spec.md §4.H).
package cliutil

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	highlight  = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special    = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning    = lipgloss.AdaptiveColor{Light: "#F29F05", Dark: "#F29F05"}
	errorColor = lipgloss.AdaptiveColor{Light: "#E05252", Dark: "#E05252"}

	titleStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(0, 1)

	dotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).SetString("•")
	okDot    = lipgloss.NewStyle().Foreground(special).SetString("●")
	warnDot  = lipgloss.NewStyle().Foreground(warning).SetString("●")
	errDot   = lipgloss.NewStyle().Foreground(errorColor).SetString("●")

	badgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true)

	connectedBadge    = badgeStyle.Copy().Background(lipgloss.Color("#27AE60"))
	reconnectingBadge = badgeStyle.Copy().Background(lipgloss.Color("#F29F05"))
	registeringBadge  = badgeStyle.Copy().Background(lipgloss.Color("#3C8AFF"))
	disconnectedBadge = badgeStyle.Copy().Background(lipgloss.Color("#7F8C8D"))
)

// Title renders the CLI's banner heading, e.g. for `screenctl status`.
func Title(s string) string {
	return titleStyle.Render(s)
}

func PrintSuccess(msg string) {
	fmt.Printf("%s %s\n", okDot.String(), msg)
}

func PrintError(msg string) {
	fmt.Printf("%s %s\n", errDot.String(), msg)
}

func PrintWarning(msg string) {
	fmt.Printf("%s %s\n", warnDot.String(), msg)
}

// RenderTable prints a left-aligned table with a bold header row, used by
// `screenctl logs --audit` and `screenctl settings`.
func RenderTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		fmt.Print(headerStyle.Copy().Width(widths[i] + 2).Render(h))
	}
	fmt.Println()

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Print(lipgloss.NewStyle().Width(widths[i]+2).Padding(0, 1).Render(cell))
			}
		}
		fmt.Println()
	}
}

// GetStatusDot renders a colored status dot for a boolean health check.
func GetStatusDot(ok bool, hasError bool) string {
	if hasError {
		return errDot.String()
	}
	if ok {
		return okDot.String()
	}
	return dotStyle.String()
}

// GetConnectionBadge renders a badge for the control-server connection
// state reported by GET /status (internal/agent.Status).
func GetConnectionBadge(state string) string {
	switch state {
	case "connected":
		return connectedBadge.Render("CONNECTED")
	case "registering":
		return registeringBadge.Render("REGISTERING")
	case "reconnecting":
		return reconnectingBadge.Render("RECONNECTING")
	default:
		return disconnectedBadge.Render("DISCONNECTED")
	}
}
