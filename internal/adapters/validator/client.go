// Package validator implements the HTTP client for the external validation
// worker. The client is a pure single-attempt request function: it never
// retries, and it fails fast when the in-flight ceiling is reached.
package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/warden/internal/core/domain"
	"go.trai.ch/warden/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

var (
	_ ports.Validator = (*Client)(nil)
	_ ports.Prober    = (*Client)(nil)
)

// Client talks to the worker's HTTP endpoint. It is independent of the
// worker's process lifecycle except for an advisory state snapshot consulted
// before each request.
type Client struct {
	cfg        domain.Config
	endpoint   string
	httpClient *http.Client
	inflight   *semaphore.Weighted
	cache      *Cache
	logger     ports.Logger

	mu    sync.RWMutex
	state ports.StateReader

	closeOnce sync.Once
}

// New creates a Client for the configured endpoint.
func New(cfg domain.Config, logger ports.Logger) *Client {
	return &Client{
		cfg:        cfg,
		endpoint:   cfg.Endpoint(),
		httpClient: &http.Client{},
		inflight:   semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		cache:      NewCache(cfg.CacheSize, cfg.CacheTTL),
		logger:     logger,
	}
}

// BindWorker attaches the supervisor's state snapshot. A worker known not to
// be serving short-circuits requests to ErrUnavailable without touching the
// network. Optional; an unbound client always attempts the request.
func (c *Client) BindWorker(state ports.StateReader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// Validate implements ports.Validator.
func (c *Client) Validate(ctx context.Context, payload string) (*domain.ValidationResult, error) {
	if !c.cfg.Enabled {
		return nil, domain.ErrWorkerDisabled
	}

	fingerprint := domain.Fingerprint(payload)
	if cached, ok := c.cache.Get(fingerprint); ok {
		cached.FromCache = true
		return &cached, nil
	}

	if state := c.stateSnapshot(); state != "" && !state.Serving() {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnavailable, "worker is not serving"), "state", state.String())
	}

	if !c.inflight.TryAcquire(1) {
		return nil, zerr.With(domain.ErrBusy, "max_concurrent", c.cfg.MaxConcurrent)
	}
	defer c.inflight.Release(1)

	requestID := uuid.NewString()
	start := time.Now()

	result, err := c.postValidate(ctx, payload)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("validation request %s failed: %v", requestID, err))
		return nil, err
	}
	result.Duration = time.Since(start)

	if result.Valid {
		c.cache.Put(fingerprint, *result)
	}
	return result, nil
}

// Probe implements ports.Prober. It never touches the cache and uses its own
// short timeout, distinct from the validation request timeout.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return zerr.Wrap(err, "failed to build health request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return zerr.With(zerr.Wrap(domain.ErrUnavailable, "health check failed"), "status", resp.StatusCode)
	}
	return nil
}

// Close implements ports.Validator. It releases the connection pool on every
// exit path; the client must not be used afterwards.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.httpClient.CloseIdleConnections()
	})
	return nil
}

func (c *Client) stateSnapshot() domain.WorkerState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == nil {
		return ""
	}
	return c.state.State()
}

type validateRequest struct {
	Code string `json:"code"`
}

type validateResponse struct {
	Valid       bool                     `json:"valid"`
	Code        string                   `json:"code"`
	Errors      []domain.ValidationError `json:"errors"`
	DiagramType string                   `json:"diagram_type"`
	DurationMs  int                      `json:"duration_ms"`
	Cached      bool                     `json:"cached"`
}

func (c *Client) postValidate(ctx context.Context, payload string) (*domain.ValidationResult, error) {
	body, err := json.Marshal(validateRequest{Code: payload})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode validation request")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/validate", bytes.NewReader(body))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build validation request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// Completed validation; the verdict is in the body.
	case http.StatusTooManyRequests:
		return nil, zerr.Wrap(domain.ErrBusy, "worker is overloaded")
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnavailable, "unexpected worker response"), "status", resp.StatusCode)
	}

	var decoded validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, zerr.Wrap(domain.ErrUnavailable, "failed to decode worker response: "+err.Error())
	}

	return &domain.ValidationResult{
		Valid:       decoded.Valid,
		Payload:     payload,
		Errors:      decoded.Errors,
		DiagramType: decoded.DiagramType,
	}, nil
}

// mapTransportError normalizes transport failures into the error taxonomy:
// exceeded deadlines become ErrTimeout, everything else ErrUnavailable.
func (c *Client) mapTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return zerr.Wrap(domain.ErrTimeout, err.Error())
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return zerr.Wrap(domain.ErrTimeout, err.Error())
	}
	return zerr.Wrap(domain.ErrUnavailable, err.Error())
}
