package http

import (
	"fmt"
	"net/http"
	"sort"
)

// root identifies the service and lists its public operations.
func (h *Handler) root(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"service":    serviceName,
		"operations": []string{"/signup", "/login", "/verify-2fa", "/verify-token", "/logout"},
	})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

// readyz runs every readiness check and names the first failing dependency.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](r.Context()); err != nil {
			logHTTPOperationError(r.Context(), "readiness_check", http.StatusServiceUnavailable, "NOT_READY", fmt.Errorf("%s: %w", name, err))
			writeError(w, http.StatusServiceUnavailable, "NOT_READY", name+" unavailable")
			return
		}
	}
	writeMessage(w, http.StatusOK, "ready")
}
