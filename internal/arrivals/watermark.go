package arrivals

// Watermark records the pending-order count the operator has already seen.
// The badge shown on the orders tab is always relative to this mark, so a
// courier clearing orders elsewhere can never push the badge negative.
type Watermark struct {
	LastSeenPendingCount int
}

// Badge returns how many pending orders arrived beyond the watermark,
// clamped at zero.
func (w Watermark) Badge(currentCount int) int {
	delta := currentCount - w.LastSeenPendingCount
	if delta < 0 {
		return 0
	}
	return delta
}

// Acknowledge moves the watermark up to the freshly observed count. The
// caller must pass a count read after the operator viewed the orders page,
// not a cached one.
func (w Watermark) Acknowledge(currentCount int) Watermark {
	return Watermark{LastSeenPendingCount: currentCount}
}
