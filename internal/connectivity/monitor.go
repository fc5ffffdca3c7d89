package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Status is the last known reachability.
type Status struct {
	Online    bool      `json:"online"`
	CheckedAt time.Time `json:"checkedAt,omitzero"`
	Error     string    `json:"error,omitempty"`
}

// TransitionCallback is called when Online flips, never on repeats.
type TransitionCallback func(Status)

// Monitor tracks whether the upstream is reachable. It starts online and
// changes only on probe results.
type Monitor struct {
	prober   Prober
	callback TransitionCallback
	logger   *slog.Logger
	now      func() time.Time

	probeMu sync.Mutex // serializes probes so transitions arrive in order

	mu     sync.RWMutex
	status Status
}

// NewMonitor creates a monitor. cb may be nil.
func NewMonitor(p Prober, cb TransitionCallback, logger *slog.Logger) *Monitor {
	return &Monitor{
		prober:   p,
		callback: cb,
		logger:   logger,
		now:      time.Now,
		status:   Status{Online: true},
	}
}

func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Retry runs one probe now and returns the resulting status.
func (m *Monitor) Retry(ctx context.Context) Status {
	m.probeMu.Lock()
	defer m.probeMu.Unlock()

	err := m.prober.Probe(ctx)
	s := Status{Online: err == nil, CheckedAt: m.now()}
	if err != nil {
		s.Error = err.Error()
	}

	m.mu.Lock()
	changed := s.Online != m.status.Online
	m.status = s
	m.mu.Unlock()

	if changed {
		if s.Online {
			m.logger.Info("connectivity restored")
		} else {
			m.logger.Warn("connectivity lost", "error", s.Error)
		}
		if m.callback != nil {
			m.callback(s)
		}
	}
	return s
}

// Run probes every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.Retry(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Retry(ctx)
		}
	}
}
