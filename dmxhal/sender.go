package dmxhal

import (
	"sync/atomic"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBreak
	PhaseMAB
	PhaseData
	PhaseCompleting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseBreak:
		return "Break"
	case PhaseMAB:
		return "MAB"
	case PhaseData:
		return "Data"
	case PhaseCompleting:
		return "Completing"
	}
	return "Unknown"
}

// Sender transmits DMX512 packets on one peripheral.
type Sender struct {
	index    int
	bound    bool
	began    atomic.Bool
	config   Config
	handler  Handler
	registry *Registry
	timer    IntervalTimer
	clock    Clock

	buf        [MaxPacketSize]byte
	packetSize int

	/* Owned by the interrupt handler while a packet is in flight */
	phase        Phase
	cursor       int
	transmitting bool
	timedBreak   bool
	oncePending  bool

	breakTime         uint32
	mabTime           uint32
	adjustedBreakTime uint32
	adjustedMABTime   uint32
	breakBaud         uint32
	breakFormat       Format
	breakUseTimer     bool

	pacing       Pacing
	breakToBreak uint32
	finitePeriod bool
	breakStart   uint32
	haveBreak    bool

	paused      bool
	resumeCount int
	doneFunc    func(s *Sender)

	packetCount atomic.Uint32
}

func newSender(index int, config Config) *Sender {
	s := &Sender{
		index:       index,
		config:      config,
		handler:     nopHandler{},
		registry:    config.Registry,
		timer:       config.Timer,
		clock:       config.Clock,
		packetSize:  MaxPacketSize,
		breakBaud:   DefaultBreakBaud,
		breakFormat: DefaultBreakFormat,
	}

	s.SetBreakTime(DefaultBreakTime)
	s.SetMABTime(DefaultMABTime)
	s.applyPacing(Continuous())

	return s
}

func (s *Sender) Index() int {
	return s.index
}

// Bound reports whether the sender is attached to a real peripheral.
func (s *Sender) Bound() bool {
	return s.bound
}

func (s *Sender) Began() bool {
	return s.began.Load()
}

// Begin claims the peripheral and starts transmitting. A sender that owned
// the peripheral before is shut down.
func (s *Sender) Begin() {
	if s.began.Swap(true) {
		return
	}
	if !s.bound {
		return
	}

	if prev := s.registry.claim(s.index, s); prev != nil && prev != s {
		s.logf(1, "Peripheral %d taken over from another sender", s.index)
		prev.End()
	}

	/* The previous owner is quiet now, and our handler ignores interrupts
	 * until it is started */
	s.ResetPacketCount()
	s.transmitting = false
	s.cursor = 0
	s.phase = PhaseIdle
	s.haveBreak = false
	s.timedBreak = false
	s.oncePending = true

	s.handler.Start()
	s.timer.SetPriority(s.handler.Priority())
	s.logf(2, "Started: %d slots, %s, BREAK %dus MAB %dus", s.packetSize, s.pacing, s.BreakTime(), s.MABTime())

	s.handler.SetActive()
}

// End stops transmitting and releases the peripheral. Interrupts are
// disabled before anything else is torn down.
func (s *Sender) End() {
	if !s.began.Swap(false) {
		return
	}
	if !s.bound {
		return
	}

	s.handler.End()
	s.timer.End()

	if !s.registry.release(s.index, s) {
		s.logf(2, "Peripheral %d was already owned by another sender", s.index)
	}
	s.logf(2, "Stopped after %d packets", s.PacketCount())
}

type irqGuard struct {
	s      *Sender
	masked bool
}

// lock masks the completion interrupt of this sender's peripheral until
// unlock is called.
func (s *Sender) lock() irqGuard {
	if !s.bound || !s.began.Load() {
		return irqGuard{s: s}
	}
	s.handler.SetIRQsEnabled(false)
	return irqGuard{s: s, masked: true}
}

func (g irqGuard) unlock() {
	if g.masked {
		g.s.handler.SetIRQsEnabled(true)
	}
}

func (s *Sender) Phase() Phase {
	g := s.lock()
	defer g.unlock()

	return s.phase
}

func (s *Sender) setPhase(phase Phase) {
	s.phase = phase
	if s.config.PhaseHook != nil {
		s.config.PhaseHook(phase, s.clock.Micros())
	}
}

func (s *Sender) SetPacketSize(n int) error {
	if n < 1 || n > MaxPacketSize {
		return ErrorInvalidSize
	}

	g := s.lock()
	defer g.unlock()

	s.packetSize = n
	return nil
}

func (s *Sender) PacketSize() int {
	g := s.lock()
	defer g.unlock()

	return s.packetSize
}

func (s *Sender) PacketCount() uint32 {
	return s.packetCount.Load()
}

func (s *Sender) ResetPacketCount() {
	s.packetCount.Store(0)
}

// SetRefreshRate sets the packets per second. Zero sends a single packet,
// +Inf sends packets back to back.
func (s *Sender) SetRefreshRate(hz float64) error {
	p, err := PacingFromRate(hz)
	if err != nil {
		return err
	}
	return s.SetPacing(p)
}

func (s *Sender) SetPacing(p Pacing) error {
	if !p.valid() {
		return ErrorInvalidRate
	}

	wasOnce := s.pacing.IsOnce()
	s.applyPacing(p)

	/* Leaving send-once needs a fresh start to get the timing right */
	if wasOnce && !p.IsOnce() && s.Began() {
		s.End()
		s.Begin()
	}
	return nil
}

func (s *Sender) applyPacing(p Pacing) {
	g := s.lock()
	defer g.unlock()

	s.pacing = p
	s.breakToBreak, s.finitePeriod = p.Period()
}

func (s *Sender) Pacing() Pacing {
	g := s.lock()
	defer g.unlock()

	return s.pacing
}

func (s *Sender) RefreshRate() float64 {
	return s.Pacing().Hz()
}

// BreakToBreak returns the time between BREAK starts in microseconds, or
// false if only one packet is sent.
func (s *Sender) BreakToBreak() (uint32, bool) {
	g := s.lock()
	defer g.unlock()

	return s.breakToBreak, s.finitePeriod
}

// Pause stops transmission after the packet in flight.
func (s *Sender) Pause() {
	g := s.lock()
	defer g.unlock()

	s.paused = true
}

func (s *Sender) IsPaused() bool {
	g := s.lock()
	defer g.unlock()

	return s.paused
}

func (s *Sender) Resume() error {
	return s.ResumeFor(0)
}

// ResumeFor resumes for n packets, or forever if n is zero. The callback
// set by an earlier ResumeForFunc is kept.
func (s *Sender) ResumeFor(n int) error {
	if n < 0 {
		return ErrorInvalidCount
	}

	g := s.lock()
	defer g.unlock()

	s.resumeLocked(n)
	return nil
}

// ResumeForFunc is ResumeFor with a callback that runs in interrupt context
// after every packet sent while pausing or counting down.
func (s *Sender) ResumeForFunc(n int, fn func(s *Sender)) error {
	if n < 0 {
		return ErrorInvalidCount
	}

	g := s.lock()
	defer g.unlock()

	s.resumeLocked(n)
	s.doneFunc = fn
	return nil
}

func (s *Sender) resumeLocked(n int) {
	s.resumeCount = n
	if s.paused {
		s.paused = false
		if s.bound && s.began.Load() && !s.transmitting {
			s.oncePending = true
			s.handler.SetActive()
		}
	}
}

// IsTransmitting is false only when paused with no packet in flight.
func (s *Sender) IsTransmitting() bool {
	g := s.lock()
	defer g.unlock()

	return !s.paused || s.transmitting
}
