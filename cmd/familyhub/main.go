package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/familyhub/internal/connectivity"
	"github.com/dukerupert/familyhub/internal/database"
	"github.com/dukerupert/familyhub/internal/logging"
	"github.com/dukerupert/familyhub/internal/seed"
	"github.com/dukerupert/familyhub/internal/server"
	"github.com/dukerupert/familyhub/internal/store"
	ws "github.com/dukerupert/familyhub/internal/websocket"
)

func main() {
	logger := logging.Setup(os.Getenv("FAMILYHUB_LOG_LEVEL"), os.Getenv("FAMILYHUB_LOG_FORMAT"))

	port := os.Getenv("FAMILYHUB_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("FAMILYHUB_DB_PATH")
	if dbPath == "" {
		dbPath = "familyhub.db"
	}

	probeInterval := 30 * time.Second
	if v := os.Getenv("FAMILYHUB_PROBE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			logger.Warn("invalid FAMILYHUB_PROBE_INTERVAL, using default", "value", v, "default", probeInterval)
		} else {
			probeInterval = d
		}
	}

	def := seed.DefaultDefinition()
	if path := os.Getenv("FAMILYHUB_SEED_FILE"); path != "" {
		d, err := seed.LoadFile(path)
		if err != nil {
			logger.Error("failed to load seed file", "path", path, "error", err)
			os.Exit(1)
		}
		def = d
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	docs := store.NewSQLiteStore(db)
	hub := ws.NewHub(logger.With("component", "websocket"))

	var prober connectivity.Prober = connectivity.PingProber{Target: docs, Timeout: 5 * time.Second}
	if url := os.Getenv("FAMILYHUB_PROBE_URL"); url != "" {
		prober = connectivity.NewHTTPProber(url)
	}
	monitor := connectivity.NewMonitor(prober, func(s connectivity.Status) {
		action := "offline"
		if s.Online {
			action = "online"
		}
		hub.Broadcast(ws.NewMessage("connectivity", action, "", map[string]any{
			"error": s.Error,
		}))
	}, logger.With("component", "connectivity"))

	engine := seed.NewEngine(docs, def,
		seed.WithLogger(logger.With("component", "seed")),
		seed.WithOnSeeded(func(familyID string) {
			hub.Broadcast(ws.NewMessage("seed", "completed", familyID, nil))
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed seed leaves the dashboard empty but serving.
	if outcome, err := engine.EnsureSeeded(ctx); err != nil {
		logger.Error("bootstrap failed", "error", err)
	} else {
		logger.Info("bootstrap finished", "outcome", outcome)
	}

	srv := server.New(docs, engine, monitor, hub, logger)

	go monitor.Run(ctx, probeInterval)
	go srv.RateLimiter().Run(ctx, 5*time.Minute)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("familyhub listening", "addr", "http://localhost:"+port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
