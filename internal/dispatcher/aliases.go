package dispatcher

// guiMethods are the methods that must be proxied to the GUI bridge rather
// than handled locally — screen capture, input synthesis, window and
// application management. Carried over verbatim in meaning from
// command_dispatcher.cpp's GUI_METHODS table.
var guiMethods = map[string]bool{
	"screenshot":            true,
	"screenshot_app":        true,
	"desktop_screenshot":    true,
	"click":                 true,
	"click_absolute":        true,
	"mouse_click":           true,
	"doubleClick":           true,
	"clickElement":          true,
	"moveMouse":             true,
	"mouse_move":            true,
	"scroll":                true,
	"scrollMouse":           true,
	"mouse_scroll":          true,
	"drag":                  true,
	"mouse_drag":            true,
	"typeText":              true,
	"keyboard_type":         true,
	"pressKey":              true,
	"keyboard_press":        true,
	"keyboard_shortcut":     true,
	"getClickableElements":  true,
	"getUIElements":         true,
	"getMousePosition":      true,
	"analyzeWithOCR":        true,
	"listApplications":      true,
	"focusApplication":      true,
	"launchApplication":     true,
	"app_launch":            true,
	"closeApp":              true,
	"app_quit":               true,
	"window_list":           true,
	"window_focus":          true,
	"window_move":           true,
	"window_resize":         true,
	// clipboard is handled by internal/tools.Clipboard, which forwards every
	// call to the GUI bridge itself after a Linux-only display check
	// (DISPLAY or WAYLAND_DISPLAY must be set) — it is not in this proxy
	// table because it has that reachability check first.
}

// methodAliases maps historical/alternate method names to the canonical
// name a handler is registered under, grounded on command_dispatcher.cpp's
// "method == X || method == Y" alias chain.
var methodAliases = map[string]string{
	"listDirectory":   "fs_list",
	"readFile":        "fs_read",
	"writeFile":       "fs_write",
	"deleteFile":      "fs_delete",
	"moveFile":        "fs_move",
	"executeCommand":  "shell_exec",
	"unlockMachine":   "machine_unlock",
	"lockMachine":     "machine_lock",
	"getMachineInfo":  "machine_info",
	"ping":            "health",
}

// canonicalMethod resolves a caller-supplied method name to the name a
// handler is registered under.
func canonicalMethod(method string) string {
	if canon, ok := methodAliases[method]; ok {
		return canon
	}
	return method
}

func isGUIMethod(method string) bool {
	return guiMethods[canonicalMethod(method)] || guiMethods[method]
}
