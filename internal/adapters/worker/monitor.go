package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
)

// supervisorControl is the monitor's narrow view of the supervisor. It is the
// only path through which a restart may be triggered autonomously.
type supervisorControl interface {
	State() domain.WorkerState
	markHealthy()
	markUnhealthy()
	requestRestart()
}

// Monitor periodically probes the worker's liveness and feeds the verdicts
// back into the supervisor. One Monitor serves one Running period; a fresh
// one is created after every (re)start.
type Monitor struct {
	cfg    domain.Config
	prober ports.Prober
	sup    supervisorControl
	logger ports.Logger

	mu     sync.Mutex
	record domain.HealthRecord
}

// NewMonitor creates a Monitor. It does nothing until Run is called.
func NewMonitor(cfg domain.Config, prober ports.Prober, sup supervisorControl, logger ports.Logger) *Monitor {
	return &Monitor{
		cfg:    cfg,
		prober: prober,
		sup:    sup,
		logger: logger,
	}
}

// Record returns a snapshot of the probe bookkeeping.
func (m *Monitor) Record() domain.HealthRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record
}

// Run executes the monitoring loop until the context is cancelled or the
// failure ceiling triggers a restart. It owns no resources beyond the ticker,
// so cancellation at any wait point leaks nothing.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !m.sup.State().Serving() {
			continue
		}

		if restart := m.check(ctx); restart {
			// The restart tears this monitor down and starts a fresh one,
			// so the loop must not outlive the trigger.
			m.sup.requestRestart()
			return
		}
	}
}

// check performs one probe cycle and reports whether the failure ceiling was
// reached. Probe timeouts count as failures: a worker that is consistently
// too slow to answer its health endpoint is restarted like an unreachable
// one, while slowness on the validation path never is.
func (m *Monitor) check(ctx context.Context) bool {
	start := time.Now()
	err := m.prober.Probe(ctx)

	if err == nil {
		m.mu.Lock()
		m.record.RecordSuccess(time.Since(start))
		m.mu.Unlock()
		m.sup.markHealthy()
		return false
	}

	m.mu.Lock()
	failures := m.record.RecordFailure()
	m.mu.Unlock()
	m.sup.markUnhealthy()
	m.logger.Warn(fmt.Sprintf("health probe failed (%d/%d): %v", failures, m.cfg.MaxConsecutiveFailures, err))

	if failures < m.cfg.MaxConsecutiveFailures {
		return false
	}

	m.logger.Warn("health probe failure ceiling reached, restarting worker")
	m.mu.Lock()
	m.record.ConsecutiveFailures = 0
	m.mu.Unlock()
	return true
}
