package audit

import (
	"path/filepath"
	"testing"
	"time"
)

func TestOpenCreatesSchemaAndPersistsEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.RecordBlockedFileAccess("/etc/shadow", "http", "path is on the protected-exact list", "shadow-file"); err != nil {
		t.Fatalf("RecordBlockedFileAccess: %v", err)
	}
	if err := s.RecordInvocation("system_info", "control_server", true, "", 12*time.Millisecond); err != nil {
		t.Fatalf("RecordInvocation: %v", err)
	}

	events, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Method != "system_info" || events[0].Kind != KindToolInvoked {
		t.Fatalf("expected most recent event to be the system_info invocation, got %+v", events[0])
	}
	if events[1].Method != "/etc/shadow" || events[1].Allowed || events[1].Kind != KindBlockedFileAccess {
		t.Fatalf("expected the /etc/shadow denial to be preserved, got %+v", events[1])
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestRecentDefaultsLimitWhenNonPositive(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "audit.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Recent(0); err != nil {
		t.Fatalf("Recent: %v", err)
	}
}
