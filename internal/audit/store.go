// Package audit is the append-only trail of security-gate decisions and
// tool invocations (SPEC_FULL.md §4.K). Modeled on the teacher's
// internal/db package (single *sql.DB, a migrate() schema block run with
// CREATE TABLE IF NOT EXISTS, plain database/sql query methods) but backed
// by modernc.org/sqlite instead of mattn/go-sqlite3: screenctld is built and
// shipped for Windows, macOS and Linux from one pipeline, and a pure-Go
// driver avoids needing a C toolchain and cgo at cross-compile time.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Event is one row of the audit trail: either a security-gate denial or a
// completed tool invocation.
type Event struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`   // blocked_file_access, blocked_command, or tool_invoked
	Method    string    `json:"method"` // the path, command, or dispatch method this row is about
	Actor     string    `json:"actor"`  // "http" or "control_server"
	Allowed   bool      `json:"allowed"`
	Reason    string    `json:"reason"`
	Rule      string    `json:"rule"`
	DurationMS int64    `json:"duration_ms"`
}

// Audit event kinds, per SPEC_FULL.md §3's AuditEvent.kind enum.
const (
	KindBlockedFileAccess = "blocked_file_access"
	KindBlockedCommand    = "blocked_command"
	KindToolInvoked       = "tool_invoked"
)

// Store wraps the audit database connection.
type Store struct {
	conn *sql.DB
	path string
}

// Open creates (or reopens) the audit database at path. If path is empty,
// it defaults to <dir>/audit.db under the OS-specific config directory
// resolution screenctld already uses for its own config file.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("audit: database path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("audit: create directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}
	// modernc.org/sqlite serializes writers at the connection level; a
	// single open connection avoids SQLITE_BUSY under concurrent tool
	// invocations without needing a busy-timeout retry loop.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("audit: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the filesystem path of the audit database.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		kind TEXT NOT NULL,
		method TEXT NOT NULL,
		actor TEXT NOT NULL,
		allowed INTEGER NOT NULL,
		reason TEXT,
		rule TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_audit_events_timestamp ON audit_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_audit_events_kind ON audit_events(kind);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RecordBlockedFileAccess appends a denied fs_* protected-path decision to
// the audit trail. Called by the tool handlers at the point CheckPath
// denies, before the Fail result is returned to the caller.
func (s *Store) RecordBlockedFileAccess(path, actor, reason, rule string) error {
	return s.insert(KindBlockedFileAccess, path, actor, false, reason, rule, 0)
}

// RecordBlockedCommand appends a denied shell_exec command-filter decision
// to the audit trail.
func (s *Store) RecordBlockedCommand(command, actor, reason, rule string) error {
	return s.insert(KindBlockedCommand, command, actor, false, reason, rule, 0)
}

// RecordInvocation appends a completed tool invocation to the audit trail.
func (s *Store) RecordInvocation(method, actor string, success bool, errMsg string, duration time.Duration) error {
	return s.insert(KindToolInvoked, method, actor, success, errMsg, "", duration.Milliseconds())
}

func (s *Store) insert(kind, subject, actor string, allowed bool, reason, rule string, durationMS int64) error {
	_, err := s.conn.Exec(
		`INSERT INTO audit_events (kind, method, actor, allowed, reason, rule, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		kind, subject, actor, boolToInt(allowed), reason, rule, durationMS,
	)
	return err
}

// Recent returns the most recent n audit events, newest first.
func (s *Store) Recent(n int) ([]Event, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := s.conn.Query(
		`SELECT id, timestamp, kind, method, actor, allowed, reason, rule, duration_ms
		 FROM audit_events ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var allowed int
		var reason, rule sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Kind, &e.Method, &e.Actor, &allowed, &reason, &rule, &e.DurationMS); err != nil {
			return nil, err
		}
		e.Allowed = allowed != 0
		e.Reason = reason.String
		e.Rule = rule.String
		events = append(events, e)
	}
	return events, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
