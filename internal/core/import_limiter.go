package core

// import_limiter.go bounds how many file imports run at once.
//
// Each import holds a slot for its whole parse, validate and insert cycle.
// When every slot is taken a new import queues for up to maxWait and then
// fails with ErrTooManyImports. The number of queued imports is reported on
// /health next to the running ones.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyImports is returned when all import slots are occupied and the
// wait timeout expires.
var ErrTooManyImports = errors.New("too many concurrent imports, please try again later")

const (
	// DefaultMaxConcurrentImports is the default limit for parallel imports.
	DefaultMaxConcurrentImports = 5
	// DefaultMaxWaitTime is how long an import queues before it is rejected.
	DefaultMaxWaitTime = 30 * time.Second

	drainPollInterval = 100 * time.Millisecond
)

// ImportLimiter is a counting semaphore over import slots. A slot is taken
// by sending into slots, so len(slots) is the number of running imports.
type ImportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	queued  atomic.Int64
}

// NewImportLimiter creates a limiter that allows at most maxConcurrent imports.
// Zero values fall back to the defaults.
func NewImportLimiter(maxConcurrent int, maxWait time.Duration) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &ImportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire queues for an import slot. It returns ErrTooManyImports once
// maxWait passes, or ctx's error if ctx ends first. Callers must Release
// on success.
func (l *ImportLimiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	default:
	}

	l.queued.Add(1)
	defer l.queued.Add(-1)

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrTooManyImports
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *ImportLimiter) Release() {
	<-l.slots
}

// ActiveCount returns the number of running imports.
func (l *ImportLimiter) ActiveCount() int {
	return len(l.slots)
}

// WaitForDrain blocks until no import is running or ctx ends. Used at
// shutdown so an import is not cut off halfway through its insert.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	if l.ActiveCount() == 0 {
		return nil
	}

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// ImportLimiterStatus is a snapshot of limiter occupancy, served by /health.
type ImportLimiterStatus struct {
	Active        int   `json:"active"`
	Queued        int64 `json:"queued"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *ImportLimiter) Status() ImportLimiterStatus {
	return ImportLimiterStatus{
		Active:        len(l.slots),
		Queued:        l.queued.Load(),
		MaxConcurrent: cap(l.slots),
	}
}
