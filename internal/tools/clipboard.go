package tools

import (
	"os"
	"runtime"

	"github.com/screenctl/screenctld/internal/tooltypes"
)

// GUIBridge is the subset of internal/guibridge.Client's surface the
// clipboard handlers need. Defined here (not imported) to keep this
// package's dependency graph a leaf: guibridge depends on tooltypes, not
// the other way around.
type GUIBridge interface {
	Call(method string, params map[string]interface{}) (tooltypes.Result, error)
}

// Clipboard groups clipboard_read/clipboard_write. Both operations read or
// write the GUI session's clipboard, which only the GUI bridge helper (4.E)
// can reach — this process never opens a display connection itself.
type Clipboard struct {
	Bridge GUIBridge
}

// Read implements clipboard_read.
func (c Clipboard) Read(actor string, params map[string]interface{}) tooltypes.Result {
	if d := c.checkDisplayReachable(); d != nil {
		return *d
	}
	result, err := c.Bridge.Call("clipboard_read", params)
	if err != nil {
		return tooltypes.Failf(err)
	}
	return result
}

// Write implements clipboard_write.
func (c Clipboard) Write(actor string, params map[string]interface{}) tooltypes.Result {
	if d := c.checkDisplayReachable(); d != nil {
		return *d
	}
	result, err := c.Bridge.Call("clipboard_write", params)
	if err != nil {
		return tooltypes.Failf(err)
	}
	return result
}

// checkDisplayReachable only applies on Linux, where a clipboard helper
// needs either an X11 or Wayland session to attach to; on Windows/macOS the
// GUI session is always reachable through the bridge and this is a no-op.
func (c Clipboard) checkDisplayReachable() *tooltypes.Result {
	if runtime.GOOS != "linux" {
		return nil
	}
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		r := tooltypes.Fail("no GUI session available: neither DISPLAY nor WAYLAND_DISPLAY is set")
		return &r
	}
	return nil
}
