package dispatcher

import "github.com/screenctl/screenctld/internal/tooltypes"

// mcpMethods is the static MCP-style advertisement surface: tools/list,
// prompts/list, resources/list, plus the health/ping alias. This agent has
// no prompts or resources to serve, so those two return empty lists rather
// than erroring — a client probing MCP discovery gets a well-formed,
// empty answer instead of "unknown method".
func isMCPMethod(method string) bool {
	switch method {
	case "tools/list", "prompts/list", "resources/list", "health", "ping":
		return true
	}
	return false
}

func dispatchMCP(method string) tooltypes.Result {
	switch method {
	case "tools/list":
		return tooltypes.Ok(map[string]interface{}{"tools": toolNames})
	case "prompts/list":
		return tooltypes.Ok(map[string]interface{}{"prompts": []string{}})
	case "resources/list":
		return tooltypes.Ok(map[string]interface{}{"resources": []string{}})
	case "health", "ping":
		return tooltypes.Ok(map[string]interface{}{"status": "ok"})
	}
	return tooltypes.Fail("unknown method: " + method)
}

// toolNames is the full list of spec.md §4.B operation names, advertised to
// MCP-aware callers independent of which are GUI-proxied vs. locally
// handled.
var toolNames = []string{
	"fs_list", "fs_read", "fs_read_range", "fs_write", "fs_delete", "fs_move",
	"fs_search", "fs_grep", "fs_patch",
	"shell_exec", "shell_start_session", "shell_send_input", "shell_read_output",
	"shell_stop_session",
	"system_info", "clipboard_read", "clipboard_write", "wait", "current_time",
	"env_get", "env_set",
	"screenshot", "click", "moveMouse", "scroll", "drag", "typeText", "pressKey",
	"window_list", "window_focus", "window_move", "window_resize",
}
