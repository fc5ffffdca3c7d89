package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/familyhub/internal/dashboard"
)

type DashboardHandler struct {
	svc    *dashboard.Service
	logger *slog.Logger
	now    func() time.Time
}

func NewDashboardHandler(svc *dashboard.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger, now: time.Now}
}

func (h *DashboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Leaderboard(r.Context())
	if err != nil {
		h.logger.Error("load leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// Agenda serves the schedule for ?date=YYYY-MM-DD, defaulting to today.
func (h *DashboardHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	day := h.now()
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := time.ParseInLocation(time.DateOnly, s, day.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = d
	}

	agenda, err := h.svc.Agenda(r.Context(), day)
	if err != nil {
		h.logger.Error("load agenda", "date", agenda.Date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load agenda")
		return
	}
	writeJSON(w, http.StatusOK, agenda)
}
