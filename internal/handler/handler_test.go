package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/familyhub/internal/connectivity"
	"github.com/dukerupert/familyhub/internal/dashboard"
	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/seed"
	"github.com/dukerupert/familyhub/internal/store"
)

var seedDay = time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(gw store.Gateway) *seed.Engine {
	return seed.NewEngine(gw, seed.DefaultDefinition(),
		seed.WithClock(func() time.Time { return seedDay }),
		seed.WithLogger(quietLogger()))
}

func setupDashboard(t *testing.T, seeded bool) *DashboardHandler {
	t.Helper()
	ms := store.NewMemoryStore()
	if seeded {
		if _, err := newEngine(ms).EnsureSeeded(context.Background()); err != nil {
			t.Fatalf("EnsureSeeded() error = %v", err)
		}
	}
	h := NewDashboardHandler(dashboard.NewService(ms, quietLogger()), quietLogger())
	h.now = func() time.Time { return seedDay }
	return h
}

func TestLeaderboardHandler(t *testing.T) {
	h := setupDashboard(t, true)

	rec := httptest.NewRecorder()
	h.Leaderboard(rec, httptest.NewRequest("GET", "/api/leaderboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var board []model.RankedMember
	if err := json.NewDecoder(rec.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(board) != 2 || board[0].ID != "emma" || board[0].Member.Name != "Emma" || board[0].Rank != 1 {
		t.Errorf("board = %+v, want Emma ranked first of 2", board)
	}
}

func TestLeaderboardHandlerUnseeded(t *testing.T) {
	h := setupDashboard(t, false)

	rec := httptest.NewRecorder()
	h.Leaderboard(rec, httptest.NewRequest("GET", "/api/leaderboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want %q", got, "[]\n")
	}
}

func TestAgendaHandler(t *testing.T) {
	h := setupDashboard(t, true)

	tests := []struct {
		name      string
		url       string
		wantDate  string
		wantCount int
	}{
		{"default today", "/api/agenda", "2024-03-01", 6},
		{"explicit tuesday", "/api/agenda?date=2024-03-05", "2024-03-05", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Agenda(rec, httptest.NewRequest("GET", tt.url, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			var got dashboard.Agenda
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Date != tt.wantDate {
				t.Errorf("date = %q, want %q", got.Date, tt.wantDate)
			}
			if len(got.Items) != tt.wantCount {
				t.Errorf("len(items) = %d, want %d", len(got.Items), tt.wantCount)
			}
		})
	}
}

func TestAgendaHandlerBadDate(t *testing.T) {
	h := setupDashboard(t, true)

	rec := httptest.NewRecorder()
	h.Agenda(rec, httptest.NewRequest("GET", "/api/agenda?date=03/01/2024", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestConnectivityHandlers(t *testing.T) {
	down := true
	probe := connectivity.ProberFunc(func(context.Context) error {
		if down {
			return errors.New("no route to host")
		}
		return nil
	})
	h := NewConnectivityHandler(connectivity.NewMonitor(probe, nil, quietLogger()))

	rec := httptest.NewRecorder()
	h.Retry(rec, httptest.NewRequest("POST", "/api/connectivity/retry", nil))
	var s connectivity.Status
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Online || s.Error == "" {
		t.Errorf("retry = %+v, want offline with error", s)
	}

	down = false
	rec = httptest.NewRecorder()
	h.Retry(rec, httptest.NewRequest("POST", "/api/connectivity/retry", nil))

	rec = httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest("GET", "/api/connectivity", nil))
	s = connectivity.Status{}
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !s.Online {
		t.Errorf("status = %+v, want online", s)
	}
}

// failingGateway fails every read.
type failingGateway struct{ store.Gateway }

func (failingGateway) Get(context.Context, string) (*store.Document, error) {
	return nil, errors.New("disk on fire")
}

func TestSeedHandler(t *testing.T) {
	h := NewSeedHandler(newEngine(store.NewMemoryStore()), quietLogger())

	for _, want := range []seed.Outcome{seed.OutcomeSeeded, seed.OutcomeAlreadySeeded} {
		rec := httptest.NewRecorder()
		h.Seed(rec, httptest.NewRequest("POST", "/api/seed", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var got seedResponse
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Outcome != want {
			t.Errorf("outcome = %q, want %q", got.Outcome, want)
		}
	}
}

func TestSeedHandlerFailure(t *testing.T) {
	h := NewSeedHandler(newEngine(failingGateway{store.NewMemoryStore()}), quietLogger())

	rec := httptest.NewRecorder()
	h.Seed(rec, httptest.NewRequest("POST", "/api/seed", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var got seedResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != seed.KindRead {
		t.Errorf("kind = %q, want %q", got.Kind, seed.KindRead)
	}
	if got.Outcome != seed.OutcomeFailed {
		t.Errorf("outcome = %q, want %q", got.Outcome, seed.OutcomeFailed)
	}
}
