// Package netmon tracks backend reachability. It exposes the current
// online/offline state and fires registered callbacks exactly once per
// offline-to-online transition, which is what drives sync queue drains.
//
// The signal is a heuristic: a successful probe does not guarantee the next
// request will succeed, so replay attempts still handle per-item failures
// on their own.
package netmon

import (
	"context"
	"sync"
	"time"

	"github.com/dukaanly/possync/internal/logging"
	"github.com/sethvargo/go-retry"
)

// Probe checks backend reachability, typically a GET against the health
// endpoint through the request gateway.
type Probe func(ctx context.Context) error

type Monitor struct {
	probe        Probe
	interval     time.Duration
	probeTimeout time.Duration
	maxBackoff   time.Duration
	log          logging.Logger

	mu        sync.Mutex
	online    bool
	callbacks []func(ctx context.Context)
}

// New returns a Monitor that starts in the offline state; the first
// successful probe (or an explicit SetOnline) brings it online.
func New(probe Probe, interval, probeTimeout time.Duration, log logging.Logger) *Monitor {
	return &Monitor{
		probe:        probe,
		interval:     interval,
		probeTimeout: probeTimeout,
		maxBackoff:   10 * interval,
		log:          log,
	}
}

// Online reports the current connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnOnline registers fn to run on every offline-to-online transition.
// Callbacks run synchronously, in registration order, once per transition.
func (m *Monitor) OnOnline(fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// SetOnline records a connectivity state, firing callbacks on the rising
// edge. Embedding apps with an authoritative platform signal can call this
// directly; the probe loop uses it too.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	var fns []func(ctx context.Context)
	if online && !wasOnline {
		fns = append(fns, m.callbacks...)
	}
	m.mu.Unlock()

	if online != wasOnline {
		m.log.Info(ctx, "connectivity changed", "online", online)
	}
	for _, fn := range fns {
		fn(ctx)
	}
}

func (m *Monitor) probeOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()
	return m.probe(ctx)
}

// Start runs the probe loop until ctx is canceled. While online it probes
// at the configured interval; while offline it retries with capped
// Fibonacci backoff so a dead backend is not hammered.
func (m *Monitor) Start(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if !m.Online() {
			backoff := retry.WithCappedDuration(m.maxBackoff, retry.NewFibonacci(m.interval))
			err := retry.Do(ctx, backoff, func(ctx context.Context) error {
				if err := m.probeOnce(ctx); err != nil {
					return retry.RetryableError(err)
				}
				return nil
			})
			if err != nil {
				// only non-retryable outcome here is ctx cancellation
				return
			}
			m.SetOnline(ctx, true)
			continue
		}

		ticker := time.NewTicker(m.interval)
		for m.Online() {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				if err := m.probeOnce(ctx); err != nil {
					m.log.Warn(ctx, "connectivity probe failed", "error", err)
					m.SetOnline(ctx, false)
				}
			}
		}
		ticker.Stop()
	}
}
