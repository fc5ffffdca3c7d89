package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/familyhub/internal/seed"
)

type SeedHandler struct {
	engine *seed.Engine
	logger *slog.Logger
}

func NewSeedHandler(e *seed.Engine, logger *slog.Logger) *SeedHandler {
	return &SeedHandler{engine: e, logger: logger}
}

type seedResponse struct {
	Outcome seed.Outcome   `json:"outcome"`
	Kind    seed.ErrorKind `json:"kind,omitempty"`
	Step    string         `json:"step,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.engine.EnsureSeeded(r.Context())
	if err != nil {
		h.logger.Error("seed failed", "error", err)
		resp := seedResponse{Outcome: outcome, Error: "seed failed"}
		var be *seed.BootstrapError
		if errors.As(err, &be) {
			resp.Kind = be.Kind
			resp.Step = be.Step
		}
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	writeJSON(w, http.StatusOK, seedResponse{Outcome: outcome})
}
