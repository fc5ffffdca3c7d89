package handler

import (
	"net/http"

	"github.com/dukerupert/familyhub/internal/connectivity"
)

type ConnectivityHandler struct {
	monitor *connectivity.Monitor
}

func NewConnectivityHandler(m *connectivity.Monitor) *ConnectivityHandler {
	return &ConnectivityHandler{monitor: m}
}

func (h *ConnectivityHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.Status())
}

// Retry probes immediately. The body reports the outcome; a failed probe is
// not an HTTP error.
func (h *ConnectivityHandler) Retry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.Retry(r.Context()))
}
