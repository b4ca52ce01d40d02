package arrivals

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tharanics/kiranakart-backend/pkg/logger"
	"github.com/tharanics/kiranakart-backend/pkg/metrics"
)

// PendingCounter reads the server-side count of orders awaiting delivery.
type PendingCounter interface {
	PendingCount(ctx context.Context) (int, error)
}

// Notifier receives badge updates when new orders arrive.
type Notifier interface {
	NewArrivals(badge int, playSound bool)
}

// Tracker polls the pending count and maintains the arrival badge against a
// watermark of what the operator last saw.
type Tracker struct {
	counter  PendingCounter
	notifier Notifier
	metrics  *metrics.ArrivalMetrics
	logg     *logger.Logger

	mu        sync.Mutex
	watermark Watermark
	badge     int
	sound     bool
	primed    bool

	inFlight atomic.Bool
}

// NewTracker builds a tracker. Notifier and metrics may be nil.
func NewTracker(counter PendingCounter, notifier Notifier, m *metrics.ArrivalMetrics, logg *logger.Logger) (*Tracker, error) {
	if counter == nil {
		return nil, fmt.Errorf("pending counter required")
	}
	return &Tracker{
		counter:  counter,
		notifier: notifier,
		metrics:  m,
		logg:     logg,
		sound:    true,
	}, nil
}

// Init primes the watermark from the current count so a fresh start shows no
// badge for orders that existed before the operator logged in.
func (t *Tracker) Init(ctx context.Context) error {
	count, err := t.counter.PendingCount(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watermark = Watermark{LastSeenPendingCount: count}
	t.badge = 0
	t.primed = true
	t.metrics.SetPendingCount(count)
	return nil
}

// Poll performs one badge refresh. Overlapping polls are skipped rather than
// queued so a slow backend cannot pile up requests.
func (t *Tracker) Poll(ctx context.Context) {
	if !t.inFlight.CompareAndSwap(false, true) {
		t.metrics.ObservePoll("skipped", 0)
		return
	}
	defer t.inFlight.Store(false)

	started := time.Now()
	count, err := t.counter.PendingCount(ctx)
	if err != nil {
		t.metrics.ObservePoll("error", time.Since(started))
		t.metrics.IncPollError("fetch")
		if t.logg != nil {
			t.logg.Warn(t.logg.WithField(ctx, "error", err.Error()), "pending count poll failed")
		}
		return
	}
	t.metrics.ObservePoll("ok", time.Since(started))
	t.metrics.SetPendingCount(count)

	t.mu.Lock()
	if !t.primed {
		// First successful poll doubles as the cold start.
		t.watermark = Watermark{LastSeenPendingCount: count}
		t.primed = true
		t.mu.Unlock()
		return
	}

	delta := t.watermark.Badge(count)
	increased := delta > t.badge
	if increased {
		t.badge = delta
	}
	badge := t.badge
	playSound := t.sound
	t.mu.Unlock()

	if increased {
		t.metrics.IncNotification()
		if t.notifier != nil {
			t.notifier.NewArrivals(badge, playSound)
		}
	}
}

// Run polls on every tick until the context is canceled. The tick channel is
// injected so callers own the cadence.
func (t *Tracker) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			t.Poll(ctx)
		}
	}
}

// Acknowledge re-reads the count and resets the badge, mirroring the
// operator opening the orders page.
func (t *Tracker) Acknowledge(ctx context.Context) error {
	count, err := t.counter.PendingCount(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watermark = t.watermark.Acknowledge(count)
	t.badge = 0
	t.primed = true
	t.metrics.SetPendingCount(count)
	return nil
}

// Badge returns the current displayed badge value.
func (t *Tracker) Badge() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.badge
}

// SetSound toggles the audible alert for future notifications.
func (t *Tracker) SetSound(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sound = enabled
}

// SoundEnabled reports whether the audible alert is on.
func (t *Tracker) SoundEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sound
}
