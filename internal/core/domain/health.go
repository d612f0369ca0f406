package domain

import "time"

// HealthRecord tracks the outcome of liveness probes for one worker process.
// It is owned by the health monitor; a single success resets the failure run.
type HealthRecord struct {
	ConsecutiveFailures int
	LastCheck           time.Time
	LastLatency         time.Duration
}

// RecordSuccess resets the failure counter and stores the probe latency.
func (r *HealthRecord) RecordSuccess(latency time.Duration) {
	r.ConsecutiveFailures = 0
	r.LastCheck = time.Now()
	r.LastLatency = latency
}

// RecordFailure increments the consecutive failure counter and returns the
// new count.
func (r *HealthRecord) RecordFailure() int {
	r.ConsecutiveFailures++
	r.LastCheck = time.Now()
	return r.ConsecutiveFailures
}

// Healthy reports whether the last observed probe succeeded.
func (r *HealthRecord) Healthy() bool {
	return r.ConsecutiveFailures == 0
}
