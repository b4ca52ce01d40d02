package arrivals

import "testing"

func TestWatermarkBadgeClampsAtZero(t *testing.T) {
	wm := Watermark{LastSeenPendingCount: 5}

	if got := wm.Badge(8); got != 3 {
		t.Fatalf("expected badge 3, got %d", got)
	}
	if got := wm.Badge(5); got != 0 {
		t.Fatalf("expected badge 0, got %d", got)
	}
	// Deliveries elsewhere can drop the count below the mark.
	if got := wm.Badge(2); got != 0 {
		t.Fatalf("expected badge 0 for shrunk count, got %d", got)
	}
}

func TestWatermarkAcknowledge(t *testing.T) {
	wm := Watermark{LastSeenPendingCount: 5}
	wm = wm.Acknowledge(9)

	if wm.LastSeenPendingCount != 9 {
		t.Fatalf("expected watermark 9, got %d", wm.LastSeenPendingCount)
	}
	if got := wm.Badge(9); got != 0 {
		t.Fatalf("expected badge 0 after acknowledge, got %d", got)
	}
	if got := wm.Badge(11); got != 2 {
		t.Fatalf("expected badge 2 after two more arrivals, got %d", got)
	}
}
