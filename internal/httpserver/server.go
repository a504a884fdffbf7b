// Package httpserver is the local REST surface (spec.md §4.G): a thin
// go-chi/chi/v5 router translating HTTP requests into tooltypes.Invocation
// calls against the shared dispatcher, and dispatcher results back into
// JSON responses.
package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/screenctl/screenctld/internal/audit"
	"github.com/screenctl/screenctld/internal/config"
	"github.com/screenctl/screenctld/internal/tooltypes"
)

// Dispatcher is the subset of internal/dispatcher.Dispatcher's surface the
// HTTP server needs.
type Dispatcher interface {
	Dispatch(actor string, inv tooltypes.Invocation) tooltypes.Result
}

// StatusProvider supplies the live status snapshot for GET /status.
type StatusProvider interface {
	Status() map[string]interface{}
}

// Server wraps the chi router and its dependencies.
type Server struct {
	router     chi.Router
	dispatcher Dispatcher
	config     *config.Store
	audit      *audit.Store
	status     StatusProvider
	version    string
	log        *slog.Logger
}

// New builds a Server. audit and status may be nil; the corresponding
// routes then respond with an empty/unavailable body rather than panicking.
func New(d Dispatcher, cfg *config.Store, auditStore *audit.Store, status StatusProvider, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{dispatcher: d, config: cfg, audit: auditStore, status: status, version: version, log: log}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe binds to addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// writeResult always answers 200: a ToolResult, success or failure, is a
// completed dispatch, not a transport error (spec.md §6). Reserve non-200
// status codes for genuine transport-level failures, written separately by
// the caller (malformed request bodies, the GUI-bridge 502 below).
func (s *Server) writeResult(w http.ResponseWriter, result tooltypes.Result) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// dispatch decodes an optional JSON body as params, calls the dispatcher
// under the given method, and writes the ToolResult.
func (s *Server) dispatch(method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params map[string]interface{}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&params); err != nil && r.ContentLength > 0 {
				s.writeJSON(w, http.StatusBadRequest, tooltypes.Fail("invalid JSON body: "+err.Error()))
				return
			}
		}

		result := s.dispatcher.Dispatch("http", tooltypes.Invocation{Method: method, Params: params})
		if !result.Success && isGUIUnavailable(result.Error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(result)
			return
		}
		s.writeResult(w, result)
	}
}

func isGUIUnavailable(errMsg string) bool {
	return errMsg == "GUI operations unavailable - bridge not connected" ||
		errMsg == "GUI operations unavailable - tray app not connected"
}
