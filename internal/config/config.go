// Package config loads, saves, and holds screenctld's configuration. State
// is process-wide but not a singleton: callers get a *Store, mutations swap
// an atomic snapshot, and readers never block on a writer.
//
// Modeled on the teacher's internal/config.Load() (file + env-var override
// layering) but extended with Update()/UpdateFromMap(), which persist the
// file, for the /settings POST path described
// in spec.md §4.G.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
)

// Config is the persisted mapping described in SPEC_FULL.md §3.
type Config struct {
	HTTPPort         int    `json:"httpPort"`
	GUIBridgePort    int    `json:"guiBridgePort"`
	ControlServerURL string `json:"controlServerUrl"`
	CustomerID       string `json:"customerId"`
	LicenseUUID      string `json:"licenseUuid"`
	AgentName        string `json:"agentName"`
	MachineID        string `json:"machineId"`
	AutoStart        bool   `json:"autoStart"`
	EnableLogging    bool   `json:"enableLogging"`

	// Ambient additions (SPEC_FULL.md §3/§4.J).
	LogDir      string `json:"logDir"`
	AuditDBPath string `json:"auditDbPath"`
	BindAddr    string `json:"bindAddr"` // "" = 127.0.0.1 only
	APIKey      string `json:"apiKey"`
	Debug       bool   `json:"debug"`
}

// Defaults returns the zero-value-safe defaults named throughout spec.md.
func Defaults() Config {
	return Config{
		HTTPPort:      3456,
		GUIBridgePort: 3457,
		EnableLogging: true,
	}
}

// Store holds the active configuration behind an atomic pointer so readers
// (many goroutines: HTTP handlers, the dispatcher, the console) never take a
// lock, and writers (the /settings handler) publish a whole new value.
type Store struct {
	path string
	v    atomic.Pointer[Config]

	subMu       sync.Mutex
	subscribers []func(Config)
}

// Load reads the config file at path (creating none if absent — a missing
// file is not an error, the Store just holds Defaults()), applies
// environment overrides, and returns a ready Store.
//
// Search order when path is empty: $SCREENCTL_CONFIG, then the
// platform-conventional location named in spec.md §6.
func Load(path string) (*Store, error) {
	if path == "" {
		path = os.Getenv("SCREENCTL_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath()
	}

	cfg := Defaults()
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	s := &Store{path: path}
	s.v.Store(&cfg)
	return s, nil
}

// Get returns a value-copy snapshot of the current configuration. Callers
// may hold onto it; later Updates never mutate it out from under them.
func (s *Store) Get() Config {
	return *s.v.Load()
}

// Path returns the file path this Store persists to.
func (s *Store) Path() string { return s.path }

// Update applies fn to a copy of the current config and atomically publishes
// the result, then persists it to disk. fn should only set fields it means
// to change — it receives the current snapshot, not a zero value.
func (s *Store) Update(fn func(*Config)) error {
	next := s.Get()
	fn(&next)
	s.v.Store(&next)
	if err := s.save(next); err != nil {
		return err
	}
	s.notify(next)
	return nil
}

// Subscribe registers fn to run after every successful Update, e.g. so the
// agent can notice a `pair` writing a new controlServerUrl and start the
// WebSocket client it didn't have at startup. Modeled on the teacher's
// mcpproxy notifyChan: callers are expected to be quick and non-blocking,
// since notify runs synchronously from the writer's goroutine.
func (s *Store) Subscribe(fn func(Config)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(cfg Config) {
	s.subMu.Lock()
	subs := append([]func(Config){}, s.subscribers...)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(cfg)
	}
}

// UpdateFromMap applies a partial JSON object (as decoded from a
// POST /settings body) on top of the current snapshot and persists the result. Unknown keys
// are ignored; keys present in patch overwrite the corresponding field.
func (s *Store) UpdateFromMap(patch map[string]interface{}) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("config: marshal patch: %w", err)
	}
	return s.Update(func(cfg *Config) {
		_ = json.Unmarshal(raw, cfg)
	})
}

func (s *Store) save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", s.path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCREENCTL_HTTP_PORT"); v != "" {
		if n := parsePositiveInt(v); n > 0 {
			cfg.HTTPPort = n
		}
	}
	if v := os.Getenv("SCREENCTL_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if os.Getenv("SCREENCTL_DEBUG") == "1" {
		cfg.Debug = true
	}
}

func parsePositiveInt(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// DefaultAuditDBPath returns the audit.db path alongside the
// platform-conventional config file location, used when AuditDBPath is
// left unset in the config.
func DefaultAuditDBPath() string {
	return filepath.Join(filepath.Dir(defaultConfigPath()), "audit.db")
}

func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("ProgramData")
		if base == "" {
			base = `C:\ProgramData`
		}
		return filepath.Join(base, "ScreenControl", "config.json")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "ScreenControl", "config.json")
	default:
		return filepath.Join("/etc", "screencontrol", "config.json")
	}
}
