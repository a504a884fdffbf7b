package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "nope", "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := s.Get()
	want := Defaults()
	if got.HTTPPort != want.HTTPPort || got.GUIBridgePort != want.GUIBridgePort {
		t.Fatalf("got %+v, want defaults %+v", got, want)
	}
}

func TestUpdatePersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Update(func(c *Config) {
		c.ControlServerURL = "wss://control.example.com/ws"
		c.HTTPPort = 9000
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := s.Get(); got.HTTPPort != 9000 || got.ControlServerURL != "wss://control.example.com/ws" {
		t.Fatalf("in-memory snapshot not updated: %+v", got)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Get(); got.HTTPPort != 9000 {
		t.Fatalf("persisted config not reloaded, got %+v", got)
	}
}

func TestGetReturnsSnapshotNotLiveReference(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	snap := s.Get()
	_ = s.Update(func(c *Config) { c.AgentName = "changed" })

	if snap.AgentName == "changed" {
		t.Fatalf("snapshot mutated after Update; Get must copy-on-read")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCREENCTL_HTTP_PORT", "9999")
	t.Setenv("SCREENCTL_API_KEY", "secret-key")
	t.Setenv("SCREENCTL_DEBUG", "1")

	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := s.Get()
	if got.HTTPPort != 9999 || got.APIKey != "secret-key" || !got.Debug {
		t.Fatalf("env overrides not applied: %+v", got)
	}
}

func TestMachineIDStableAcrossCalls(t *testing.T) {
	a := MachineID()
	b := MachineID()
	if a != b {
		t.Fatalf("MachineID not stable: %q vs %q", a, b)
	}
	if a == "" {
		t.Fatalf("MachineID returned empty string")
	}
}

func TestDefaultConfigPathNonEmpty(t *testing.T) {
	if defaultConfigPath() == "" {
		t.Fatalf("defaultConfigPath must not be empty")
	}
}

func TestLoadBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config file")
	}
}

func TestSubscribeNotifiedOnUpdate(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var seen []string
	s.Subscribe(func(cfg Config) { seen = append(seen, cfg.ControlServerURL) })

	if err := s.Update(func(c *Config) { c.ControlServerURL = "wss://control.example.com/ws" }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Update(func(c *Config) { c.AgentName = "agent-1" }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d: %v", len(seen), seen)
	}
	if seen[0] != "wss://control.example.com/ws" || seen[1] != "wss://control.example.com/ws" {
		t.Fatalf("unexpected notified snapshots: %v", seen)
	}
}

func TestUpdateFromMapSubscriberSeesMergedConfig(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var gotURL string
	s.Subscribe(func(cfg Config) { gotURL = cfg.ControlServerURL })

	if err := s.UpdateFromMap(map[string]interface{}{"controlServerUrl": "wss://paired.example.com/ws"}); err != nil {
		t.Fatalf("UpdateFromMap: %v", err)
	}
	if gotURL != "wss://paired.example.com/ws" {
		t.Fatalf("subscriber did not see merged config, got %q", gotURL)
	}
}
