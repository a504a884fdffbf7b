package shellsession

import (
	"strings"
	"testing"
	"time"
)

func TestStartSendReadStop(t *testing.T) {
	m := NewManager()
	s, err := m.Start("", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected non-empty session id")
	}

	if _, ok := m.Get(s.ID); !ok {
		t.Fatalf("expected session to be tracked after Start")
	}

	if err := s.SendInput("echo hello-session"); err != nil {
		t.Fatalf("SendInput: %v", err)
	}

	var stdout string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		out, _, _, _ := s.ReadOutput()
		stdout += out
		if strings.Contains(stdout, "hello-session") {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !strings.Contains(stdout, "hello-session") {
		t.Fatalf("expected stdout to contain echoed text, got %q", stdout)
	}

	if err := s.Stop("TERM"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	m.Remove(s.ID)
	if _, ok := m.Get(s.ID); ok {
		t.Fatalf("expected session to be removed after Stop+Remove")
	}
}

func TestListReturnsAllTrackedSessions(t *testing.T) {
	m := NewManager()
	s1, err := m.Start("", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	s2, err := m.Start("", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s1.Stop("KILL")
	defer s2.Stop("KILL")

	ids := m.List()
	if len(ids) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(ids))
	}
}

func TestGetMissingSessionReturnsFalse(t *testing.T) {
	m := NewManager()
	if _, ok := m.Get("does-not-exist"); ok {
		t.Fatalf("expected Get of unknown id to return false")
	}
}
