// Package agent wires components A-M together (spec.md §5): the security
// gate, tool handlers, shell session manager, GUI bridge, dispatcher, HTTP
// server, WebSocket client, and control protocol handler, sharing one
// config store, logger, and audit store. It owns the startup and
// graceful-shutdown sequence.
//
// Grounded on diane-assistant-diane/server/internal/slave's top-level
// wiring (a single struct holding the WS client, the dispatcher-equivalent,
// and a Start/Stop pair), generalized from that package's master/slave
// pairing to screencontrol's config/security/audit/HTTP/WS component graph.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/screenctl/screenctld/internal/audit"
	"github.com/screenctl/screenctld/internal/config"
	"github.com/screenctl/screenctld/internal/controlproto"
	"github.com/screenctl/screenctld/internal/dispatcher"
	"github.com/screenctl/screenctld/internal/guibridge"
	"github.com/screenctl/screenctld/internal/httpserver"
	"github.com/screenctl/screenctld/internal/security"
	"github.com/screenctl/screenctld/internal/shellsession"
	"github.com/screenctl/screenctld/internal/tools"
	"github.com/screenctl/screenctld/internal/wsclient"
)

// Agent owns every long-lived component and the goroutines that run them.
type Agent struct {
	Config  *config.Store
	Audit   *audit.Store
	Gate    *security.Gate
	Log     *slog.Logger
	Version string

	sessions   *shellsession.Manager
	dispatcher *dispatcher.Dispatcher
	bridge     *guibridge.Client
	http       *httpserver.Server
	ws         *wsclient.Client
	protocol   *controlproto.Handler

	mu               sync.Mutex
	running          bool
	wsConnected      bool
	registered       bool
	lastHeartbeatAck time.Time

	wg sync.WaitGroup
}

// New builds an Agent from a loaded config, audit store, and logger. No
// goroutines are started and no sockets are bound until Run is called.
func New(cfg *config.Store, auditStore *audit.Store, log *slog.Logger, version string) *Agent {
	if log == nil {
		log = slog.Default()
	}

	snapshot := cfg.Get()
	gate := security.New(nil)

	a := &Agent{
		Config:   cfg,
		Audit:    auditStore,
		Gate:     gate,
		Log:      log,
		Version:  version,
		sessions: shellsession.NewManager(),
	}

	a.bridge = guibridge.New(snapshot.GUIBridgePort)
	a.dispatcher = dispatcher.New(a.bridge, auditStore, log.With("component", "dispatcher"))
	a.registerTools()

	a.http = httpserver.New(a.dispatcher, cfg, auditStore, a, version, log.With("component", "httpserver"))

	if snapshot.ControlServerURL != "" {
		a.buildWS(snapshot)
	}

	// `screenctl pair` can write a controlServerUrl into a daemon that was
	// started without one; notice that and bring the WebSocket client up
	// without requiring a restart.
	cfg.Subscribe(a.onConfigChanged)

	return a
}

// buildWS constructs the control-protocol handler and WebSocket client for
// snapshot's controlServerUrl. onConfigChanged calls it with a.mu held; New
// calls it before the agent is shared with any other goroutine.
func (a *Agent) buildWS(snapshot config.Config) {
	a.protocol = &controlproto.Handler{
		Dispatcher:   a.dispatcher,
		Log:          a.Log.With("component", "controlproto"),
		MachineID:    snapshot.MachineID,
		CustomerID:   snapshot.CustomerID,
		LicenseUUID:  snapshot.LicenseUUID,
		AgentName:    snapshot.AgentName,
		AgentVersion: a.Version,
	}
	a.ws = wsclient.New(snapshot.ControlServerURL, a.handleInbound, a.handleConnected, a.Log.With("component", "wsclient"))
	a.protocol.Sender = a.ws
	a.ws.BuildHeartbeat = a.buildHeartbeat
}

// onConfigChanged runs on every config.Store.Update. If the agent is
// already running and didn't have a control server configured at startup,
// a freshly-paired URL starts the WebSocket client immediately instead of
// waiting for a restart.
func (a *Agent) onConfigChanged(cfg config.Config) {
	if cfg.ControlServerURL == "" {
		return
	}

	a.mu.Lock()
	alreadyRunning := a.running
	needsStart := a.ws == nil
	if needsStart {
		a.buildWS(cfg)
	}
	ws := a.ws
	a.mu.Unlock()

	if needsStart && alreadyRunning {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			ws.Run()
		}()
	}
}

func (a *Agent) registerTools() {
	fs := &tools.Filesystem{Gate: a.Gate, Audit: a.Audit}
	sh := &tools.Shell{Gate: a.Gate, Sessions: a.sessions, Audit: a.Audit}
	sys := tools.System{}
	clip := tools.Clipboard{Bridge: a.bridge}

	d := a.dispatcher
	d.Register("fs_list", fs.List)
	d.Register("fs_read", fs.Read)
	d.Register("fs_read_range", fs.ReadRange)
	d.Register("fs_write", fs.Write)
	d.Register("fs_delete", fs.Delete)
	d.Register("fs_move", fs.Move)
	d.Register("fs_search", fs.Search)
	d.Register("fs_grep", fs.Grep)
	d.Register("fs_patch", fs.Patch)

	d.Register("shell_exec", sh.Exec)
	d.Register("shell_start_session", sh.StartSession)
	d.Register("shell_send_input", sh.SendInput)
	d.Register("shell_read_output", sh.ReadOutput)
	d.Register("shell_stop_session", sh.StopSession)

	d.Register("system_info", sys.Info)
	d.Register("wait", sys.Wait)
	d.Register("current_time", sys.CurrentTime)
	d.Register("env_get", sys.EnvGet)
	d.Register("env_set", sys.EnvSet)

	d.Register("clipboard_read", clip.Read)
	d.Register("clipboard_write", clip.Write)
}

// Run binds the HTTP server and, if configured, starts the WebSocket
// client, blocking until ctx is canceled. It returns once every component
// has stopped (spec.md §5's graceful-shutdown sequence).
func (a *Agent) Run(ctx context.Context) error {
	cfg := a.Config.Get()
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.HTTPPort)
	if cfg.BindAddr != "" {
		addr = fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.HTTPPort)
	}

	a.mu.Lock()
	a.running = true
	ws := a.ws
	a.mu.Unlock()

	errCh := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Log.Info("starting HTTP server", "addr", addr)
		if err := a.http.ListenAndServe(ctx, addr); err != nil {
			errCh <- fmt.Errorf("agent: http server: %w", err)
		}
	}()

	if ws != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			ws.Run()
		}()
	}

	select {
	case err := <-errCh:
		a.shutdown()
		a.wg.Wait()
		return err
	case <-ctx.Done():
		a.shutdown()
		a.wg.Wait()
		return nil
	}
}

func (a *Agent) shutdown() {
	if a.ws != nil {
		a.ws.Stop()
	}
	if a.Audit != nil {
		_ = a.Audit.Close()
	}
}

func (a *Agent) handleConnected() {
	a.mu.Lock()
	a.wsConnected = true
	a.registered = false // each new connection registers again
	a.mu.Unlock()

	if a.protocol == nil {
		return
	}
	msg, err := a.protocol.BuildRegister()
	if err != nil {
		a.Log.Error("failed to build register frame", "error", err)
		return
	}
	if err := a.ws.Send(msg); err != nil {
		a.Log.Error("failed to send register frame", "error", err)
	}
}

func (a *Agent) handleInbound(msg controlproto.Message) error {
	if msg.Type == controlproto.TypeHeartbeatAck {
		a.mu.Lock()
		a.lastHeartbeatAck = time.Now()
		a.mu.Unlock()
	}
	if msg.Type == controlproto.TypeRegistered {
		a.mu.Lock()
		a.registered = true
		a.mu.Unlock()
	}
	return a.protocol.HandleInbound(msg)
}

func (a *Agent) buildHeartbeat() (controlproto.Message, error) {
	active := len(a.sessions.List())
	return a.protocol.BuildHeartbeat(active)
}
