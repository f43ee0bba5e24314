package dmxhal

import (
	"sync"
	"sync/atomic"

	"github.com/BertoldVdb/dmx-tools/ttyio"
)

/* A host serial adapter has no interrupts. A service goroutine stands in
 * for the interrupt: it calls the vector whenever the transmitter would
 * have raised one. Masking the interrupt takes mu, which the goroutine
 * holds while it runs the handler. */
type ttyHandler struct {
	s        *Sender
	port     ttyio.Port
	priority int

	mu      sync.Mutex
	started atomic.Bool
	mode    atomic.Int32
	drained atomic.Bool
	pending []byte

	kick chan struct{}
	quit chan struct{}
	done chan struct{}

	breakBaud   uint32
	breakFormat Format
}

func newTTYHandler(s *Sender, p Peripheral) (Handler, error) {
	if p.TTY == nil {
		return nil, ErrorMissingPort
	}

	return &ttyHandler{
		s:        s,
		port:     p.TTY,
		priority: p.Priority,
		pending:  make([]byte, 0, MaxPacketSize),
	}, nil
}

func ttyParity(p Parity) ttyio.Parity {
	switch p {
	case ParityEven:
		return ttyio.ParityEven
	case ParityOdd:
		return ttyio.ParityOdd
	}
	return ttyio.ParityNone
}

func (h *ttyHandler) setLine(baud uint32, format Format) {
	h.flush()
	err := h.port.SetLine(int(baud), format.DataBits(), ttyParity(format.Parity()), format.StopBits())
	if err != nil {
		h.s.logf(1, "Failed to set line to %d %s: %v", baud, format, err)
	}
}

func (h *ttyHandler) Start() {
	h.mode.Store(int32(TxInactive))
	h.drained.Store(true)
	h.kick = make(chan struct{}, 1)
	h.quit = make(chan struct{})
	h.done = make(chan struct{})

	h.setLine(SlotBaud, SlotFormat)

	h.started.Store(true)
	go h.service(h.s.registry.Vector(h.s.index))
}

func (h *ttyHandler) End() {
	if h.quit == nil {
		return
	}

	h.started.Store(false)
	close(h.quit)
	<-h.done
	h.quit = nil

	h.mu.Lock()
	h.mode.Store(int32(TxInactive))
	h.pending = h.pending[:0]
	h.mu.Unlock()

	if err := h.port.SetBreak(false); err != nil && err != ttyio.ErrorNotSupported {
		h.s.logf(1, "Failed to release BREAK: %v", err)
	}
}

func (h *ttyHandler) service(vector func()) {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			return
		default:
		}

		/* Once another sender claimed the peripheral only End is left */
		if h.s.registry.Owner(h.s.index) != h.s {
			<-h.quit
			return
		}

		switch TxMode(h.mode.Load()) {
		case TxActive:
			vector()
			continue

		case TxCompleting:
			if !h.drained.Load() {
				if err := h.port.Drain(); err != nil {
					h.s.logf(1, "Drain failed: %v", err)
				}
				h.drained.Store(true)
			}
			vector()
			continue
		}

		select {
		case <-h.quit:
			return
		case <-h.kick:
		}
	}
}

func (h *ttyHandler) SetActive() {
	h.SetTxMode(TxActive)
}

func (h *ttyHandler) SetIRQsEnabled(enabled bool) {
	if enabled {
		h.mu.Unlock()
	} else {
		h.mu.Lock()
	}
}

func (h *ttyHandler) Priority() int {
	return h.priority
}

func (h *ttyHandler) BreakSerialParamsChanged() {
	h.breakBaud = h.s.breakBaud
	h.breakFormat = h.s.breakFormat
}

func (h *ttyHandler) CanHoldBreak() bool {
	return h.port.SetBreak(false) == nil
}

func (h *ttyHandler) IRQHandler() {
	var done func()

	h.mu.Lock()
	if !h.started.Load() {
		h.mu.Unlock()
		return
	}

	switch TxMode(h.mode.Load()) {
	case TxActive:
		h.s.transmitReady(h)
	case TxCompleting:
		if h.drained.Load() {
			done = h.s.transmitComplete(h)
		}
	}
	h.flush()
	h.mu.Unlock()

	if done != nil {
		done()
	}
}

func (h *ttyHandler) flush() {
	if len(h.pending) == 0 {
		return
	}
	if _, err := h.port.Write(h.pending); err != nil {
		h.s.logf(1, "Write failed: %v", err)
	}
	h.pending = h.pending[:0]
}

func (h *ttyHandler) ConfigureBreak() {
	h.setLine(h.breakBaud, h.breakFormat)
}

func (h *ttyHandler) ConfigureSlots() {
	h.setLine(SlotBaud, SlotFormat)
}

func (h *ttyHandler) SetBreak(on bool) {
	h.flush()
	if err := h.port.SetBreak(on); err != nil {
		h.s.logf(1, "Failed to set BREAK: %v", err)
	}
}

func (h *ttyHandler) WriteSlot(b byte) bool {
	if len(h.pending) >= MaxPacketSize {
		return false
	}
	h.pending = append(h.pending, b)
	h.drained.Store(false)
	return true
}

func (h *ttyHandler) SetTxMode(mode TxMode) {
	if !h.started.Load() {
		return
	}
	h.mode.Store(int32(mode))
	if mode == TxInactive {
		return
	}

	select {
	case h.kick <- struct{}{}:
	default:
	}
}
