package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/familyhub/internal/connectivity"
	"github.com/dukerupert/familyhub/internal/dashboard"
	"github.com/dukerupert/familyhub/internal/handler"
	"github.com/dukerupert/familyhub/internal/middleware"
	"github.com/dukerupert/familyhub/internal/seed"
	"github.com/dukerupert/familyhub/internal/store"
	ws "github.com/dukerupert/familyhub/internal/websocket"
)

const (
	retryLimit  = 10
	retryWindow = time.Minute
)

type Server struct {
	hub           *ws.Hub
	dashboardH    *handler.DashboardHandler
	connectivityH *handler.ConnectivityHandler
	seedH         *handler.SeedHandler
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(gw store.Gateway, engine *seed.Engine, monitor *connectivity.Monitor, hub *ws.Hub, logger *slog.Logger) *Server {
	svc := dashboard.NewService(gw, logger.With("component", "dashboard"))
	return &Server{
		hub:           hub,
		dashboardH:    handler.NewDashboardHandler(svc, logger.With("component", "dashboard")),
		connectivityH: handler.NewConnectivityHandler(monitor),
		seedH:         handler.NewSeedHandler(engine, logger.With("component", "seed")),
		rateLimiter:   middleware.NewRateLimiter(retryLimit, retryWindow),
		logger:        logger,
	}
}

// RateLimiter returns the limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	mux.HandleFunc("GET /api/leaderboard", s.dashboardH.Leaderboard)
	mux.HandleFunc("GET /api/agenda", s.dashboardH.Agenda)

	mux.HandleFunc("GET /api/connectivity", s.connectivityH.Status)
	mux.HandleFunc("POST /api/connectivity/retry", s.rateLimitedHandler(s.connectivityH.Retry))

	mux.HandleFunc("POST /api/seed", s.rateLimitedHandler(s.seedH.Seed))

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP)(h).ServeHTTP
}
