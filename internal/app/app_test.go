package app_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/warden/internal/adapters/telemetry"
	"go.trai.ch/warden/internal/adapters/telemetry/progrock"
	"go.trai.ch/warden/internal/adapters/worker"
	"go.trai.ch/warden/internal/app"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports/mocks"
	"go.trai.ch/warden/internal/engine/retry"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app       *app.App
	validator *mocks.MockValidator
	corrector *mocks.MockCorrector
}

func newFixture(t *testing.T, cfg domain.Config) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any()).Return(nil).AnyTimes()

	validator := mocks.NewMockValidator(ctrl)
	validator.EXPECT().Close().Return(nil).AnyTimes()
	corrector := mocks.NewMockCorrector(ctrl)

	tracer := telemetry.NewNoOpTracer()
	supervisor := worker.NewSupervisor(cfg, prober, logger)
	coordinator := retry.NewCoordinator(validator, corrector, cfg.MaxRetries, logger, tracer)

	a := app.New(cfg, logger, tracer, validator, supervisor, corrector, coordinator)
	t.Cleanup(func() { a.Shutdown(context.Background()) })

	return &fixture{app: a, validator: validator, corrector: corrector}
}

func testConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.WorkerCommand = []string{"sh", "-c", "sleep 60"}
	cfg.StartupTimeout = 2 * time.Second
	cfg.StartupPollInterval = 10 * time.Millisecond
	cfg.HealthInterval = time.Hour
	return cfg
}

func TestEnsureWorker(t *testing.T) {
	f := newFixture(t, testConfig())

	require.NoError(t, f.app.EnsureWorker(context.Background()))
	assert.Equal(t, domain.WorkerRunning, f.app.Status().State)

	require.NoError(t, f.app.StopWorker(context.Background()))
	assert.Equal(t, domain.WorkerStopped, f.app.Status().State)
}

func TestEnsureWorker_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	f := newFixture(t, cfg)

	err := f.app.EnsureWorker(context.Background())
	assert.ErrorIs(t, err, domain.ErrWorkerDisabled)
	assert.Equal(t, domain.WorkerStopped, f.app.Status().State)
}

func TestValidate_SingleAttempt(t *testing.T) {
	f := newFixture(t, testConfig())

	f.validator.EXPECT().Validate(gomock.Any(), "graph TD").
		Return(&domain.ValidationResult{Valid: true, Payload: "graph TD"}, nil)

	result, err := f.app.Validate(context.Background(), "graph TD")
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateWithRetry_UsesConfiguredCorrector(t *testing.T) {
	f := newFixture(t, testConfig())

	errs := []domain.ValidationError{{Message: "bad edge"}}
	gomock.InOrder(
		f.validator.EXPECT().Validate(gomock.Any(), "broken").
			Return(&domain.ValidationResult{Valid: false, Errors: errs}, nil),
		f.corrector.EXPECT().Correct(gomock.Any(), "broken", errs).
			Return("fixed", nil),
		f.validator.EXPECT().Validate(gomock.Any(), "fixed").
			Return(&domain.ValidationResult{Valid: true}, nil),
	)

	outcome, err := f.app.ValidateWithRetry(context.Background(), "broken", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusValid, outcome.Status)
	assert.Equal(t, "fixed", outcome.Payload)
}

func TestValidateWithRetry_CallerCorrectorOverrides(t *testing.T) {
	f := newFixture(t, testConfig())

	override := mocks.NewMockCorrector(gomock.NewController(t))
	errs := []domain.ValidationError{{Message: "bad edge"}}
	gomock.InOrder(
		f.validator.EXPECT().Validate(gomock.Any(), "broken").
			Return(&domain.ValidationResult{Valid: false, Errors: errs}, nil),
		override.EXPECT().Correct(gomock.Any(), "broken", errs).
			Return("fixed", nil),
		f.validator.EXPECT().Validate(gomock.Any(), "fixed").
			Return(&domain.ValidationResult{Valid: true}, nil),
	)

	outcome, err := f.app.ValidateWithRetry(context.Background(), "broken", override, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusValid, outcome.Status)
}

func TestValidateWithRetry_CallerTracerOverrides(t *testing.T) {
	f := newFixture(t, testConfig())

	f.validator.EXPECT().Validate(gomock.Any(), "graph TD").
		Return(&domain.ValidationResult{Valid: true, Payload: "graph TD"}, nil)

	var buf bytes.Buffer
	rec := progrock.NewConsole(&buf)
	defer func() { _ = rec.Close() }()

	outcome, err := f.app.ValidateWithRetry(context.Background(), "graph TD", nil, rec)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusValid, outcome.Status)
	assert.Contains(t, buf.String(), "validate", "attempts render on the caller's tracer")
}

func TestConfig(t *testing.T) {
	cfg := testConfig()
	f := newFixture(t, cfg)

	assert.Equal(t, cfg, f.app.Config())
}
