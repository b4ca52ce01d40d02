package arrivals

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type scriptedCounter struct {
	mu     sync.Mutex
	counts []int
	index  int
	err    error
	block  chan struct{}
}

func (s *scriptedCounter) PendingCount(ctx context.Context) (int, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if len(s.counts) == 0 {
		return 0, nil
	}
	count := s.counts[s.index]
	if s.index < len(s.counts)-1 {
		s.index++
	}
	return count, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	badges []int
	sounds []bool
}

func (r *recordingNotifier) NewArrivals(badge int, playSound bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.badges = append(r.badges, badge)
	r.sounds = append(r.sounds, playSound)
}

func newTestTracker(t *testing.T, counter PendingCounter, notifier Notifier) *Tracker {
	t.Helper()
	tracker, err := NewTracker(counter, notifier, nil, nil)
	if err != nil {
		t.Fatalf("tracker constructor failed: %v", err)
	}
	return tracker
}

func TestTrackerBadgeSequence(t *testing.T) {
	// Counts observed across polls after a watermark of 5. The badge must
	// hold its high-water value even when couriers clear orders in between.
	counter := &scriptedCounter{counts: []int{5, 5, 5, 8, 8, 3, 3, 6}}
	notifier := &recordingNotifier{}
	tracker := newTestTracker(t, counter, notifier)

	ctx := context.Background()
	if err := tracker.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if tracker.Badge() != 0 {
		t.Fatalf("expected badge 0 after init, got %d", tracker.Badge())
	}

	expected := []int{0, 0, 3, 3, 3, 3, 3}
	for i, want := range expected {
		tracker.Poll(ctx)
		if got := tracker.Badge(); got != want {
			t.Fatalf("poll %d: expected badge %d, got %d", i, want, got)
		}
	}

	// Only the 5->8 jump should have notified.
	if len(notifier.badges) != 1 || notifier.badges[0] != 3 {
		t.Fatalf("expected single notification with badge 3, got %v", notifier.badges)
	}
}

func TestTrackerAcknowledgeResetsBadge(t *testing.T) {
	counter := &scriptedCounter{counts: []int{5, 9, 9, 12}}
	notifier := &recordingNotifier{}
	tracker := newTestTracker(t, counter, notifier)

	ctx := context.Background()
	if err := tracker.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tracker.Poll(ctx)
	if tracker.Badge() != 4 {
		t.Fatalf("expected badge 4, got %d", tracker.Badge())
	}

	// Acknowledge reads fresh, so the mark lands on 9 and new arrivals on
	// top of it badge from zero again.
	if err := tracker.Acknowledge(ctx); err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}
	if tracker.Badge() != 0 {
		t.Fatalf("expected badge 0 after acknowledge, got %d", tracker.Badge())
	}

	tracker.Poll(ctx)
	if tracker.Badge() != 3 {
		t.Fatalf("expected badge 3 after new arrivals, got %d", tracker.Badge())
	}
}

func TestTrackerColdStartViaFirstPoll(t *testing.T) {
	counter := &scriptedCounter{counts: []int{7, 9}}
	notifier := &recordingNotifier{}
	tracker := newTestTracker(t, counter, notifier)

	ctx := context.Background()
	tracker.Poll(ctx)
	if tracker.Badge() != 0 {
		t.Fatalf("first poll must prime, not badge; got %d", tracker.Badge())
	}

	tracker.Poll(ctx)
	if tracker.Badge() != 2 {
		t.Fatalf("expected badge 2, got %d", tracker.Badge())
	}
}

func TestTrackerPollErrorKeepsBadge(t *testing.T) {
	counter := &scriptedCounter{counts: []int{5, 8}}
	tracker := newTestTracker(t, counter, nil)

	ctx := context.Background()
	if err := tracker.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	tracker.Poll(ctx)
	if tracker.Badge() != 3 {
		t.Fatalf("expected badge 3, got %d", tracker.Badge())
	}

	counter.mu.Lock()
	counter.err = errors.New("backend down")
	counter.mu.Unlock()

	tracker.Poll(ctx)
	if tracker.Badge() != 3 {
		t.Fatalf("failed poll must not move the badge, got %d", tracker.Badge())
	}
}

func TestTrackerSkipsOverlappingPolls(t *testing.T) {
	block := make(chan struct{})
	counter := &scriptedCounter{counts: []int{5}, block: block}
	tracker := newTestTracker(t, counter, nil)

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		tracker.Poll(ctx)
		close(done)
	}()

	// Wait for the first poll to grab the in-flight flag.
	for !tracker.inFlight.Load() {
		time.Sleep(time.Millisecond)
	}

	// This poll must return immediately without touching the counter.
	tracker.Poll(ctx)

	close(block)
	<-done
}

func TestTrackerSoundToggle(t *testing.T) {
	counter := &scriptedCounter{counts: []int{5, 8}}
	notifier := &recordingNotifier{}
	tracker := newTestTracker(t, counter, notifier)

	ctx := context.Background()
	if err := tracker.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	tracker.SetSound(false)

	tracker.Poll(ctx)
	if len(notifier.sounds) != 1 || notifier.sounds[0] {
		t.Fatalf("expected silent notification, got %v", notifier.sounds)
	}
}

func TestTrackerRunStopsOnContextCancel(t *testing.T) {
	counter := &scriptedCounter{counts: []int{5}}
	tracker := newTestTracker(t, counter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Time)
	stopped := make(chan struct{})
	go func() {
		tracker.Run(ctx, ticks)
		close(stopped)
	}()

	ticks <- time.Now()
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("run loop did not stop after cancel")
	}
}
