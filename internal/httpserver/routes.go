package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(s.corsMiddleware)
	r.Use(s.authMiddleware)

	r.Get("/health", s.dispatch("health"))
	r.Get("/version", s.handleVersion)
	r.Get("/status", s.handleStatus)
	r.Get("/settings", s.handleSettingsGet)
	r.Post("/settings", s.handleSettingsPost)
	r.Get("/audit/recent", s.handleAuditRecent)

	// GUI bridge (component E), routed through the dispatcher's GUI-method table.
	r.Get("/screenshot", s.dispatch("screenshot"))
	r.Post("/mouse/move", s.dispatch("mouse_move"))
	r.Post("/click", s.dispatch("click"))
	r.Post("/mouse/scroll", s.dispatch("mouse_scroll"))
	r.Post("/mouse/drag", s.dispatch("mouse_drag"))
	r.Get("/mouse/position", s.dispatch("getMousePosition"))
	r.Post("/keyboard/type", s.dispatch("keyboard_type"))
	r.Post("/keyboard/key", s.dispatch("keyboard_press"))
	r.Get("/ui/elements", s.dispatch("getUIElements"))
	r.Get("/ui/windows", s.dispatch("window_list"))
	r.Get("/ui/active", s.dispatch("getMousePosition"))
	r.Post("/ui/focus", s.dispatch("window_focus"))

	// Filesystem handlers (component B).
	r.Post("/fs/list", s.dispatch("fs_list"))
	r.Post("/fs/read", s.dispatch("fs_read"))
	r.Post("/fs/read_range", s.dispatch("fs_read_range"))
	r.Post("/fs/write", s.dispatch("fs_write"))
	r.Post("/fs/delete", s.dispatch("fs_delete"))
	r.Post("/fs/move", s.dispatch("fs_move"))
	r.Post("/fs/search", s.dispatch("fs_search"))
	r.Post("/fs/grep", s.dispatch("fs_grep"))
	r.Post("/fs/patch", s.dispatch("fs_patch"))

	// Shell handlers (component C).
	r.Post("/shell/exec", s.dispatch("shell_exec"))
	r.Post("/shell/session/start", s.dispatch("shell_start_session"))
	r.Post("/shell/session/input", s.dispatch("shell_send_input"))
	r.Post("/shell/session/output", s.dispatch("shell_read_output"))
	r.Post("/shell/session/stop", s.dispatch("shell_stop_session"))

	// System handlers.
	r.Get("/system/info", s.dispatch("system_info"))
	r.Get("/clipboard/read", s.dispatch("clipboard_read"))
	r.Post("/clipboard/write", s.dispatch("clipboard_write"))
	r.Post("/wait", s.dispatch("wait"))
	r.Get("/time", s.dispatch("current_time"))
	r.Get("/env/{name}", s.handleEnvGet)
	r.Post("/env", s.dispatch("env_set"))

	// MCP-style static advertisement.
	r.Get("/mcp/tools", s.dispatch("tools/list"))
	r.Get("/mcp/prompts", s.dispatch("prompts/list"))
	r.Get("/mcp/resources", s.dispatch("resources/list"))

	// Open Questions resolved as inert stubs (SPEC_FULL.md §6), rather than
	// guessing a security model for them.
	r.Post("/credential-provider/unlock", s.notImplemented)
	r.Post("/credential-provider/credentials", s.notImplemented)
	r.Post("/credential-provider/result", s.notImplemented)

	return r
}

func (s *Server) notImplemented(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotImplemented, map[string]interface{}{
		"success": false,
		"error":   "not implemented",
	})
}
