package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/screenctl/screenctld/internal/audit"
	"github.com/screenctl/screenctld/internal/tooltypes"
)

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"version": s.version})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "unknown"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.status.Status())
}

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	if s.config == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, tooltypes.Fail("configuration store unavailable"))
		return
	}
	s.writeJSON(w, http.StatusOK, s.config.Get())
}

func (s *Server) handleSettingsPost(w http.ResponseWriter, r *http.Request) {
	if s.config == nil {
		s.writeResult(w, tooltypes.Fail("configuration store unavailable"))
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeJSON(w, http.StatusBadRequest, tooltypes.Fail("invalid JSON body: "+err.Error()))
		return
	}

	if err := s.config.UpdateFromMap(patch); err != nil {
		s.writeResult(w, tooltypes.Failf(err))
		return
	}

	s.writeJSON(w, http.StatusOK, s.config.Get())
}

func (s *Server) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"events": []interface{}{}})
		return
	}
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n := parseLimit(q); n > 0 {
			limit = n
		}
	}
	events, err := s.audit.Recent(limit)
	if err != nil {
		s.writeResult(w, tooltypes.Failf(err))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func parseLimit(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func (s *Server) handleEnvGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	result := s.dispatcher.Dispatch("http", tooltypes.Invocation{Method: "env_get", Params: map[string]interface{}{"name": name}})
	s.writeResult(w, result)
}
