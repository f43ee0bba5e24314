package dmxhal

import (
	"sync"
	"time"
)

// IntervalTimer fires a function once after a delay. Begin replaces any
// pending expiry. It reports false if no timer could be allocated.
type IntervalTimer interface {
	Begin(fn func(), us uint32) bool
	End()
	SetPriority(priority int)
}

type Clock interface {
	Micros() uint32
}

type hostClock struct {
	start time.Time
}

func NewHostClock() Clock {
	return hostClock{start: time.Now()}
}

func (c hostClock) Micros() uint32 {
	return uint32(time.Since(c.start) / time.Microsecond)
}

type hostTimer struct {
	sync.Mutex
	t   *time.Timer
	gen uint64
}

func NewHostTimer() IntervalTimer {
	return &hostTimer{}
}

func (h *hostTimer) Begin(fn func(), us uint32) bool {
	h.Lock()
	defer h.Unlock()

	h.stopLocked()
	gen := h.gen
	h.t = time.AfterFunc(time.Duration(us)*time.Microsecond, func() {
		h.Lock()
		defer h.Unlock()

		/* fn runs under the lock so it cannot fire once End returned. It must
		 * not call back into the timer. */
		if h.gen == gen {
			h.t = nil
			fn()
		}
	})
	return true
}

func (h *hostTimer) stopLocked() {
	h.gen++
	if h.t != nil {
		h.t.Stop()
		h.t = nil
	}
}

func (h *hostTimer) End() {
	h.Lock()
	defer h.Unlock()

	h.stopLocked()
}

func (h *hostTimer) SetPriority(priority int) {}
