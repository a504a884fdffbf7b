// Package dispatcher routes a tooltypes.Invocation to a local handler, the
// GUI bridge, or the MCP-style static advertisement (spec.md §4.F),
// grounded 1:1 on original_source/service/src/control_server/
// command_dispatcher.cpp's GUI_METHODS table and alias if-chain.
package dispatcher

import (
	"log/slog"
	"time"

	"github.com/screenctl/screenctld/internal/tooltypes"
)

// Handler is a registered tool implementation. actor identifies the
// transport the invocation arrived on ("http" or "control_server"), threaded
// through so a handler that consults the security gate can attribute an
// audit row to the caller that triggered it.
type Handler func(actor string, params map[string]interface{}) tooltypes.Result

// AuditSink is the subset of internal/audit.Store's surface the dispatcher
// needs, kept as an interface so this package doesn't depend on sqlite.
type AuditSink interface {
	RecordInvocation(method, actor string, success bool, errMsg string, duration time.Duration) error
}

// GUIBridge forwards GUI-tagged methods to the loopback helper (component E).
type GUIBridge interface {
	Call(method string, params map[string]interface{}) (tooltypes.Result, error)
}

// Dispatcher owns the method -> handler table and the GUI bridge / audit
// sink every dispatch passes through.
type Dispatcher struct {
	handlers map[string]Handler
	bridge   GUIBridge
	audit    AuditSink
	log      *slog.Logger
}

// New builds a Dispatcher. audit may be nil (audit logging becomes a no-op),
// matching the teacher's pattern of optional nil-checked collaborators
// rather than a separate no-op implementation type.
func New(bridge GUIBridge, audit AuditSink, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[string]Handler),
		bridge:   bridge,
		audit:    audit,
		log:      log,
	}
}

// Register binds a canonical method name to its handler.
func (d *Dispatcher) Register(method string, h Handler) {
	d.handlers[method] = h
}

// Dispatch routes inv to the right place, recovering any panic inside a
// handler so a crashing tool call cannot take down the goroutine's caller
// (the HTTP request or the WebSocket reader loop), per spec.md §7.
func (d *Dispatcher) Dispatch(actor string, inv tooltypes.Invocation) (result tooltypes.Result) {
	start := time.Now()
	method := inv.Method

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("tool handler panicked", "method", method, "panic", r)
			result = tooltypes.Fail("internal error handling " + method)
		}
		if d.audit != nil {
			_ = d.audit.RecordInvocation(method, actor, result.Success, result.Error, time.Since(start))
		}
	}()

	d.log.Debug("dispatching", "method", method, "actor", actor)

	switch {
	case isMCPMethod(method):
		return dispatchMCP(method)
	case isGUIMethod(method):
		if d.bridge == nil {
			return tooltypes.Fail("GUI operations unavailable - bridge not connected")
		}
		r, err := d.bridge.Call(canonicalMethod(method), inv.Params)
		if err != nil {
			return tooltypes.Failf(err)
		}
		return r
	default:
		canon := canonicalMethod(method)
		h, ok := d.handlers[canon]
		if !ok {
			return tooltypes.Fail("unknown method: " + method)
		}
		return h(actor, inv.Params)
	}
}
