package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/warden/internal/adapters/worker"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// supervisorConfig returns a config tuned for fast tests: a long-lived dummy
// worker process and a health interval large enough that the monitor never
// fires on its own.
func supervisorConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.WorkerCommand = []string{"sh", "-c", "sleep 60"}
	cfg.StartupTimeout = 2 * time.Second
	cfg.StartupPollInterval = 10 * time.Millisecond
	cfg.ShutdownTimeout = 5 * time.Second
	cfg.RestartDelay = 10 * time.Millisecond
	cfg.HealthInterval = time.Hour
	return cfg
}

func supervisorLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()

	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	return logger
}

func liveProber(t *testing.T) *mocks.MockProber {
	t.Helper()

	prober := mocks.NewMockProber(gomock.NewController(t))
	prober.EXPECT().Probe(gomock.Any()).Return(nil).AnyTimes()
	return prober
}

func TestSupervisor_StartAndStop(t *testing.T) {
	sup := worker.NewSupervisor(supervisorConfig(), liveProber(t), supervisorLogger(t))
	assert.Equal(t, domain.WorkerStopped, sup.State())

	require.NoError(t, sup.Start(context.Background()))
	assert.Equal(t, domain.WorkerRunning, sup.State())
	assert.True(t, sup.IsRunning())
	assert.True(t, sup.IsHealthy())

	require.NoError(t, sup.Stop(context.Background()))
	assert.Equal(t, domain.WorkerStopped, sup.State())
	assert.False(t, sup.IsRunning())
}

func TestSupervisor_StartIsIdempotent(t *testing.T) {
	sup := worker.NewSupervisor(supervisorConfig(), liveProber(t), supervisorLogger(t))
	defer func() { _ = sup.Stop(context.Background()) }()

	require.NoError(t, sup.Start(context.Background()))
	require.NoError(t, sup.Start(context.Background()), "starting a running worker is a no-op")
	assert.Equal(t, domain.WorkerRunning, sup.State())
}

func TestSupervisor_StopWhenStoppedIsNoOp(t *testing.T) {
	sup := worker.NewSupervisor(supervisorConfig(), liveProber(t), supervisorLogger(t))

	require.NoError(t, sup.Stop(context.Background()))
	assert.Equal(t, domain.WorkerStopped, sup.State())
}

func TestSupervisor_StartupFailureThenRecovery(t *testing.T) {
	var live atomic.Bool
	prober := mocks.NewMockProber(gomock.NewController(t))
	prober.EXPECT().Probe(gomock.Any()).DoAndReturn(func(context.Context) error {
		if live.Load() {
			return nil
		}
		return domain.ErrUnavailable
	}).AnyTimes()

	cfg := supervisorConfig()
	cfg.StartupTimeout = 100 * time.Millisecond
	sup := worker.NewSupervisor(cfg, prober, supervisorLogger(t))
	defer func() { _ = sup.Stop(context.Background()) }()

	err := sup.Start(context.Background())
	require.ErrorIs(t, err, domain.ErrStartupFailed)
	assert.Equal(t, domain.WorkerFailed, sup.State())

	// A failed worker can be started again once the endpoint answers.
	live.Store(true)
	require.NoError(t, sup.Start(context.Background()))
	assert.Equal(t, domain.WorkerRunning, sup.State())
}

func TestSupervisor_WorkerExitsDuringStartup(t *testing.T) {
	prober := mocks.NewMockProber(gomock.NewController(t))
	prober.EXPECT().Probe(gomock.Any()).Return(domain.ErrUnavailable).AnyTimes()

	cfg := supervisorConfig()
	cfg.WorkerCommand = []string{"sh", "-c", "exit 7"}
	sup := worker.NewSupervisor(cfg, prober, supervisorLogger(t))

	err := sup.Start(context.Background())
	require.ErrorIs(t, err, domain.ErrStartupFailed)
	assert.Contains(t, err.Error(), "exited during startup")
	assert.Equal(t, domain.WorkerFailed, sup.State())
}

func TestSupervisor_StopFromFailed(t *testing.T) {
	prober := mocks.NewMockProber(gomock.NewController(t))
	prober.EXPECT().Probe(gomock.Any()).Return(domain.ErrUnavailable).AnyTimes()

	cfg := supervisorConfig()
	cfg.StartupTimeout = 50 * time.Millisecond
	sup := worker.NewSupervisor(cfg, prober, supervisorLogger(t))

	require.Error(t, sup.Start(context.Background()))
	require.Equal(t, domain.WorkerFailed, sup.State())

	require.NoError(t, sup.Stop(context.Background()))
	assert.Equal(t, domain.WorkerStopped, sup.State())
}

func TestSupervisor_Restart(t *testing.T) {
	sup := worker.NewSupervisor(supervisorConfig(), liveProber(t), supervisorLogger(t))
	defer func() { _ = sup.Stop(context.Background()) }()

	require.NoError(t, sup.Start(context.Background()))
	require.NoError(t, sup.Restart(context.Background()))
	assert.Equal(t, domain.WorkerRunning, sup.State())
}

func TestSupervisor_RestartFromStopped(t *testing.T) {
	sup := worker.NewSupervisor(supervisorConfig(), liveProber(t), supervisorLogger(t))
	defer func() { _ = sup.Stop(context.Background()) }()

	require.NoError(t, sup.Restart(context.Background()))
	assert.Equal(t, domain.WorkerRunning, sup.State())
}

func TestSupervisor_HealthBeforeFirstStart(t *testing.T) {
	sup := worker.NewSupervisor(supervisorConfig(), liveProber(t), supervisorLogger(t))
	assert.Equal(t, domain.HealthRecord{}, sup.Health())
}
