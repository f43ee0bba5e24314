package sim

import (
	"fmt"
	"math/bits"
)

// Frame is one character on the wire.
type Frame struct {
	Value uint16
	Bits  int
	Ns    uint64
	LowNs uint64
}

type lineShape struct {
	dataBits int
	parity   int
	stopBits int
}

const (
	parityNone = iota
	parityEven
	parityOdd
)

/* bitNum/bitDen is the length of one bit in nanoseconds */
func makeFrame(value uint16, shape lineShape, bitNum uint64, bitDen uint64) Frame {
	data := uint32(value) & (1<<uint(shape.dataBits) - 1)

	/* LSB first after the start bit */
	seq := data << 1
	n := 1 + shape.dataBits
	switch shape.parity {
	case parityEven:
		seq |= uint32(bits.OnesCount32(data)&1) << uint(n)
		n++
	case parityOdd:
		seq |= uint32(^bits.OnesCount32(data)&1) << uint(n)
		n++
	}
	for i := 0; i < shape.stopBits; i++ {
		seq |= 1 << uint(n)
		n++
	}

	low := bits.TrailingZeros32(seq)
	if low > n {
		low = n
	}

	return Frame{
		Value: uint16(data),
		Bits:  n,
		Ns:    uint64(n) * bitNum / bitDen,
		LowNs: uint64(low) * bitNum / bitDen,
	}
}

const maxDeliveriesPerInstant = 100000

// Line is the transmit side of a serial peripheral: a FIFO feeding a shift
// register, and the interrupt line of the peripheral.
type Line struct {
	clock *Clock
	trace *Trace

	queue []Frame
	busy  bool
	held  bool

	enabled   bool
	inISR     bool
	scheduled bool
	asserted  func() bool
	vector    func()

	stormAt    uint64
	stormCount int
}

func newLine(clock *Clock, asserted func() bool) *Line {
	return &Line{
		clock:    clock,
		trace:    NewTrace(),
		asserted: asserted,
	}
}

func (l *Line) SetVector(fn func()) {
	l.vector = fn
}

func (l *Line) Trace() *Trace {
	return l.trace
}

// SetEnabled masks or unmasks the interrupt. A masked interrupt stays
// pending until it is unmasked.
func (l *Line) SetEnabled(enabled bool) {
	l.enabled = enabled
	l.update()
}

func (l *Line) Enabled() bool {
	return l.enabled
}

func (l *Line) Queued() int {
	return len(l.queue)
}

func (l *Line) Idle() bool {
	return !l.busy && len(l.queue) == 0
}

func (l *Line) Held() bool {
	return l.held
}

func (l *Line) push(f Frame, capacity int) bool {
	if len(l.queue) >= capacity {
		return false
	}
	l.queue = append(l.queue, f)
	l.shift()
	return true
}

func (l *Line) shift() {
	if l.busy || l.held || len(l.queue) == 0 {
		return
	}

	f := l.queue[0]
	l.queue = l.queue[1:]
	l.busy = true
	l.trace.frame(l.clock.Now(), f)

	l.clock.After(f.Ns, func() {
		l.busy = false
		l.shift()
		l.update()
	})
}

func (l *Line) setHeld(on bool) {
	if on == l.held {
		return
	}
	l.held = on
	if on {
		l.trace.holdLow(l.clock.Now())
	} else {
		l.trace.release(l.clock.Now())
		l.shift()
	}
}

func (l *Line) flush() {
	l.queue = l.queue[:0]
}

func (l *Line) update() {
	if l.scheduled || l.inISR || !l.enabled || !l.asserted() {
		return
	}
	l.scheduled = true
	l.clock.After(0, l.deliver)
}

func (l *Line) deliver() {
	l.scheduled = false
	if !l.enabled || !l.asserted() {
		return
	}

	if l.stormAt != l.clock.Now() {
		l.stormAt = l.clock.Now()
		l.stormCount = 0
	}
	l.stormCount++
	if l.stormCount > maxDeliveriesPerInstant {
		panic(fmt.Sprintf("sim: interrupt storm at %dns", l.clock.Now()))
	}

	l.inISR = true
	if l.vector != nil {
		l.vector()
	}
	l.inISR = false
	l.update()
}

// Preempt delivers a pending interrupt right now, as if it arrived between
// two instructions of the caller. It reports whether the handler ran.
func (l *Line) Preempt() bool {
	if l.inISR || !l.enabled || !l.asserted() {
		return false
	}
	l.deliver()
	return true
}
