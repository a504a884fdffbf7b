package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/screenctl/screenctld/internal/security"
)

func newFSForTest() *Filesystem {
	return &Filesystem{Gate: security.New(nil)}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	fsys := newFSForTest()

	writeResult := fsys.Write("test", map[string]interface{}{"path": path, "content": "hello world"})
	if !writeResult.Success {
		t.Fatalf("Write failed: %+v", writeResult)
	}

	readResult := fsys.Read("test", map[string]interface{}{"path": path})
	if !readResult.Success {
		t.Fatalf("Read failed: %+v", readResult)
	}
	if readResult.Extra["content"] != "hello world" {
		t.Fatalf("unexpected content: %+v", readResult.Extra)
	}
}

func TestReadDeniesProtectedPath(t *testing.T) {
	fsys := newFSForTest()
	result := fsys.Read("test", map[string]interface{}{"path": "/etc/shadow"})
	if result.Success {
		t.Fatalf("expected /etc/shadow read to be denied")
	}
}

func TestDeleteProtectedPathDenied(t *testing.T) {
	fsys := newFSForTest()
	result := fsys.Delete("test", map[string]interface{}{"path": "/etc/shadow"})
	if result.Success {
		t.Fatalf("expected /etc/shadow delete to be denied")
	}
}

func TestListSkipsProtectedEntries(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "visible.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, ".ssh"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".ssh", "id_rsa"), []byte("key"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	fsys := newFSForTest()
	result := fsys.List("test", map[string]interface{}{"path": dir, "recursive": true})
	if !result.Success {
		t.Fatalf("List failed: %+v", result)
	}

	entries, _ := result.Extra["entries"].([]map[string]interface{})
	for _, e := range entries {
		if e["name"] == "id_rsa" {
			t.Fatalf("expected id_rsa to be hidden from listing, got %+v", entries)
		}
	}
}

func TestReadRangeSelectsLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lines.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	fsys := newFSForTest()
	result := fsys.ReadRange("test", map[string]interface{}{"path": path, "startLine": float64(2), "endLine": float64(3)})
	if !result.Success {
		t.Fatalf("ReadRange failed: %+v", result)
	}
	if result.Extra["content"] != "two\nthree\n" {
		t.Fatalf("unexpected content: %+v", result.Extra)
	}
}

func TestPatchReplaceFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("foo bar foo"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	fsys := newFSForTest()
	result := fsys.Patch("test", map[string]interface{}{
		"path": path,
		"operations": []interface{}{
			map[string]interface{}{"type": "replace_first", "pattern": "foo", "replacement": "baz"},
		},
	})
	if !result.Success {
		t.Fatalf("Patch failed: %+v", result)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "baz bar foo" {
		t.Fatalf("unexpected patched content: %q", data)
	}
}

func TestPatchDryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	fsys := newFSForTest()
	result := fsys.Patch("test", map[string]interface{}{
		"path":   path,
		"dryRun": true,
		"operations": []interface{}{
			map[string]interface{}{"type": "replace_all", "pattern": "original", "replacement": "changed"},
		},
	})
	if !result.Success || result.Extra["modified"] != true {
		t.Fatalf("expected dry run to report modified=true, got %+v", result)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("dry run must not write to disk, got %q", data)
	}
}

func TestSearchFindsGlobMatches(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.go", "b.go", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	fsys := newFSForTest()
	result := fsys.Search("test", map[string]interface{}{"path": dir, "pattern": "*.go"})
	if !result.Success {
		t.Fatalf("Search failed: %+v", result)
	}
	matches, _ := result.Extra["matches"].([]string)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(matches), matches)
	}
}

func TestGrepFindsMatchingLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code.go")
	if err := os.WriteFile(path, []byte("package main\n\nfunc TODO() {}\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	fsys := newFSForTest()
	result := fsys.Grep("test", map[string]interface{}{"path": path, "pattern": "TODO"})
	if !result.Success {
		t.Fatalf("Grep failed: %+v", result)
	}
	matches, _ := result.Extra["matches"].([]map[string]interface{})
	if len(matches) != 1 || matches[0]["line"] != 3 {
		t.Fatalf("unexpected grep matches: %+v", matches)
	}
}
