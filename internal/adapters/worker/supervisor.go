// Package worker supervises the external validation worker process: it owns
// the process handle, drives the lifecycle state machine and runs the
// background health monitor.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Supervisor = (*Supervisor)(nil)

// Supervisor drives the worker lifecycle. Operations (Start/Stop/Restart) are
// serialized by opMu; the state value itself sits behind its own lock so
// snapshot reads never wait behind a slow startup.
type Supervisor struct {
	cfg    domain.Config
	prober ports.Prober
	logger ports.Logger

	opMu sync.Mutex

	stateMu sync.RWMutex
	state   domain.WorkerState
	// epoch counts lifecycle operations. A detached restart request carries
	// the epoch it was issued in and is dropped once any start or stop
	// landed after it.
	epoch uint64

	handle      *Handle
	monitorStop context.CancelFunc
	monitorDone chan struct{}
	monitor     *Monitor
}

// NewSupervisor creates a Supervisor in the Stopped state.
func NewSupervisor(cfg domain.Config, prober ports.Prober, logger ports.Logger) *Supervisor {
	return &Supervisor{
		cfg:    cfg,
		prober: prober,
		logger: logger,
		state:  domain.WorkerStopped,
	}
}

// State implements ports.StateReader. The snapshot may be stale the moment it
// is returned.
func (s *Supervisor) State() domain.WorkerState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// IsRunning reports whether the worker is in the Running state.
func (s *Supervisor) IsRunning() bool {
	return s.State() == domain.WorkerRunning
}

// IsHealthy reports whether the worker is Running and passing probes.
func (s *Supervisor) IsHealthy() bool {
	return s.State() == domain.WorkerRunning
}

// Health returns the current probe bookkeeping, zero when no monitor ran yet.
func (s *Supervisor) Health() domain.HealthRecord {
	s.opMu.Lock()
	m := s.monitor
	s.opMu.Unlock()
	if m == nil {
		return domain.HealthRecord{}
	}
	return m.Record()
}

// Start implements ports.Supervisor.
func (s *Supervisor) Start(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.startLocked(ctx)
}

// Stop implements ports.Supervisor.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.stopLocked(ctx)
	return nil
}

// Restart implements ports.Supervisor. The pause between stop and start
// leaves the OS time to release the worker's port.
func (s *Supervisor) Restart(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.stopLocked(ctx)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.cfg.RestartDelay):
	}

	return s.startLocked(ctx)
}

// startLocked runs the startup sequence. Caller holds opMu.
func (s *Supervisor) startLocked(ctx context.Context) error {
	switch s.State() {
	case domain.WorkerStarting, domain.WorkerRunning, domain.WorkerUnhealthy:
		s.logger.Info("worker already started, ignoring start request")
		return nil
	case domain.WorkerStopped, domain.WorkerFailed, domain.WorkerStopping:
	}

	s.bumpEpoch()
	s.transition(domain.WorkerStarting)

	handle, err := StartProcess(s.cfg.WorkerCommand)
	if err != nil {
		s.transition(domain.WorkerFailed)
		return zerr.Wrap(domain.ErrStartupFailed, err.Error())
	}
	s.handle = handle
	s.logger.Info(fmt.Sprintf("worker spawned, pid %d", handle.PID()))
	go s.drainLogs(handle)

	if err := s.awaitLive(ctx, handle); err != nil {
		s.killLocked()
		s.transition(domain.WorkerFailed)
		return err
	}

	s.transition(domain.WorkerRunning)
	s.startMonitorLocked()
	return nil
}

// awaitLive polls the worker's liveness until it answers, exits, or the
// startup timeout elapses.
func (s *Supervisor) awaitLive(ctx context.Context, handle *Handle) error {
	deadline := time.Now().Add(s.cfg.StartupTimeout)

	for {
		if exited, code := handle.Exited(); exited {
			return zerr.With(zerr.Wrap(domain.ErrStartupFailed, "worker exited during startup"), "exit_code", code)
		}

		if err := s.prober.Probe(ctx); err == nil {
			return nil
		}

		if time.Now().After(deadline) {
			return zerr.With(zerr.Wrap(domain.ErrStartupFailed, "worker did not become live within timeout"), "timeout", s.cfg.StartupTimeout)
		}

		select {
		case <-ctx.Done():
			return zerr.Wrap(domain.ErrStartupFailed, ctx.Err().Error())
		case <-time.After(s.cfg.StartupPollInterval):
		}
	}
}

// stopLocked tears the worker down. It always lands in Stopped; shutdown
// problems are logged, never returned. Caller holds opMu.
func (s *Supervisor) stopLocked(ctx context.Context) {
	if s.State() == domain.WorkerStopped {
		return
	}

	s.bumpEpoch()
	s.transition(domain.WorkerStopping)
	s.stopMonitorLocked()

	if s.handle != nil {
		if err := s.handle.Terminate(); err != nil {
			s.logger.Error(err)
		}

		waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		code, err := s.handle.Wait(waitCtx)
		cancel()
		if err != nil {
			s.logger.Warn("worker did not exit gracefully, killing")
			s.killLocked()
		} else {
			s.logger.Info(fmt.Sprintf("worker exited with code %d", code))
		}
		s.handle = nil
	}

	s.transition(domain.WorkerStopped)
}

// killLocked force-kills the current process and waits briefly for the exit
// status to be reaped. Caller holds opMu.
func (s *Supervisor) killLocked() {
	if s.handle == nil {
		return
	}
	if err := s.handle.Kill(); err != nil {
		s.logger.Error(err)
	}
	waitCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	_, _ = s.handle.Wait(waitCtx)
	cancel()
	s.handle = nil
}

// startMonitorLocked launches a fresh health monitor loop for the current
// process. Caller holds opMu.
func (s *Supervisor) startMonitorLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.monitor = NewMonitor(s.cfg, s.prober, s, s.logger)
	s.monitorStop = cancel
	s.monitorDone = done

	go func() {
		defer close(done)
		s.monitor.Run(ctx)
	}()
}

// stopMonitorLocked cancels the monitor loop and waits for it to wind down.
// The monitor never blocks on this lock on its exit path, so the wait is
// deadlock-free. Caller holds opMu.
func (s *Supervisor) stopMonitorLocked() {
	if s.monitorStop == nil {
		return
	}
	s.monitorStop()
	<-s.monitorDone
	s.monitorStop = nil
	s.monitorDone = nil
}

// markUnhealthy flags a probe failure. Only effective while serving.
func (s *Supervisor) markUnhealthy() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state == domain.WorkerRunning {
		s.state = domain.WorkerUnhealthy
		s.logger.Warn("worker became unhealthy")
	}
}

// markHealthy flags a probe success. Only effective while serving.
func (s *Supervisor) markHealthy() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state == domain.WorkerUnhealthy {
		s.state = domain.WorkerRunning
		s.logger.Info("worker recovered")
	}
}

// requestRestart performs the monitor-initiated restart. It runs detached so
// the monitor loop can exit before the restart tears it down. The request is
// stamped with the current epoch: a Start or Stop that lands first makes it
// stale, so a deliberate Stop is never undone by a pending restart.
func (s *Supervisor) requestRestart() {
	epoch := s.currentEpoch()
	go func() {
		if err := s.restartIfCurrent(context.Background(), epoch); err != nil {
			s.logger.Error(zerr.Wrap(err, "automatic worker restart failed"))
		}
	}()
}

// restartIfCurrent restarts the worker unless a lifecycle operation landed
// after the request was issued.
func (s *Supervisor) restartIfCurrent(ctx context.Context, epoch uint64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.currentEpoch() != epoch {
		s.logger.Info("dropping stale restart request")
		return nil
	}

	s.stopLocked(ctx)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.cfg.RestartDelay):
	}

	return s.startLocked(ctx)
}

func (s *Supervisor) currentEpoch() uint64 {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.epoch
}

func (s *Supervisor) bumpEpoch() {
	s.stateMu.Lock()
	s.epoch++
	s.stateMu.Unlock()
}

// transition moves the state machine, logging any edge the lifecycle does not
// permit. Illegal edges indicate a supervisor bug, not a caller error.
func (s *Supervisor) transition(to domain.WorkerState) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.state == to {
		return
	}
	if !domain.CanTransition(s.state, to) {
		s.logger.Error(zerr.With(zerr.With(domain.ErrIllegalTransition, "from", s.state.String()), "to", to.String()))
		return
	}
	s.logger.Info(fmt.Sprintf("worker state: %s -> %s", s.state, to))
	s.state = to
}

// drainLogs forwards worker output to the logger until the process exits.
func (s *Supervisor) drainLogs(handle *Handle) {
	for line := range handle.Lines() {
		s.logger.Info("worker: " + line)
	}
}
