package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is any dependency that can report liveness.
type Pinger func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Services  map[string]bool `json:"services"`
	Healthy   bool            `json:"healthy"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthMonitor periodically pings registered dependencies and keeps the latest snapshot.
type HealthMonitor struct {
	mu       sync.RWMutex
	checks   map[string]Pinger
	current  HealthStatus
	interval time.Duration
	timeout  time.Duration
}

func NewHealthMonitor(interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &HealthMonitor{
		checks:   map[string]Pinger{},
		interval: interval,
		timeout:  3 * time.Second,
	}
}

// Register adds a named check. Call before Start.
func (h *HealthMonitor) Register(name string, p Pinger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = p
}

// Status returns the latest stored snapshot.
func (h *HealthMonitor) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Check runs every registered ping once and stores the result.
func (h *HealthMonitor) Check(ctx context.Context) HealthStatus {
	h.mu.RLock()
	checks := make(map[string]Pinger, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mu.RUnlock()

	status := HealthStatus{Services: map[string]bool{}, Healthy: true, CheckedAt: time.Now()}
	for name, ping := range checks {
		pctx, cancel := context.WithTimeout(ctx, h.timeout)
		ok := ping(pctx) == nil
		cancel()
		status.Services[name] = ok
		if !ok {
			status.Healthy = false
		}
	}

	h.mu.Lock()
	h.current = status
	h.mu.Unlock()
	return status
}

// Start checks immediately and then on every tick until ctx is done.
func (h *HealthMonitor) Start(ctx context.Context) {
	h.Check(ctx)
	go func() {
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Check(ctx)
			}
		}
	}()
}
