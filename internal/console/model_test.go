package console

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/screenctl/screenctld/internal/apiclient"
)

func TestViewShowsWaitingMessageBeforeFirstPoll(t *testing.T) {
	m := New(apiclient.New(0))
	view := m.View()
	if !strings.Contains(view, "waiting for first status poll") {
		t.Fatalf("expected a waiting message, got:\n%s", view)
	}
}

func TestUpdateAppliesStatusMessage(t *testing.T) {
	m := New(apiclient.New(0))
	updated, _ := m.Update(statusMsg{status: map[string]interface{}{"controlServerState": "connected"}})
	view := updated.View()
	if !strings.Contains(view, "CONNECTED") {
		t.Fatalf("expected CONNECTED badge in view, got:\n%s", view)
	}
}

func TestUpdateAppliesAuditEvents(t *testing.T) {
	m := New(apiclient.New(0))
	updated, _ := m.Update(statusMsg{events: []apiclient.AuditEvent{
		{Timestamp: "12:00:00", Method: "fs_read", Allowed: false, Reason: "protected path"},
	}})
	view := updated.View()
	if !strings.Contains(view, "fs_read") || !strings.Contains(view, "deny") {
		t.Fatalf("expected denied fs_read event in view, got:\n%s", view)
	}
}

func TestQuitKeySetsQuittingAndReturnsQuitCmd(t *testing.T) {
	m := New(apiclient.New(0))
	updatedModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	updated := updatedModel.(Model)
	if !updated.quitting {
		t.Fatalf("expected quitting to be set after 'q'")
	}
	if cmd == nil {
		t.Fatalf("expected a non-nil tea.Cmd (tea.Quit) after 'q'")
	}
}

func TestErrorIsRenderedInView(t *testing.T) {
	m := New(apiclient.New(0))
	updated, _ := m.Update(statusMsg{err: errTest{}})
	view := updated.View()
	if !strings.Contains(view, "could not reach daemon") {
		t.Fatalf("expected an error line in view, got:\n%s", view)
	}
}

type errTest struct{}

func (errTest) Error() string { return "connection refused" }
