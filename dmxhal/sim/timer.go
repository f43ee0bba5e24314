package sim

// Timer is a one-shot interval timer running on a virtual Clock.
type Timer struct {
	clock   *Clock
	cancel  func()
	pending bool

	// Unavailable makes Begin fail, like a chip with all timers in use.
	Unavailable bool

	Priority int
	Started  int
}

func NewTimer(clock *Clock) *Timer {
	return &Timer{clock: clock}
}

func (t *Timer) Begin(fn func(), us uint32) bool {
	if t.Unavailable {
		return false
	}

	t.End()
	t.Started++
	t.pending = true
	t.cancel = t.clock.After(uint64(us)*1000, func() {
		t.cancel = nil
		t.pending = false
		fn()
	})
	return true
}

func (t *Timer) End() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.pending = false
}

func (t *Timer) Pending() bool {
	return t.pending
}

func (t *Timer) SetPriority(priority int) {
	t.Priority = priority
}
