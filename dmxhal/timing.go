package dmxhal

const (
	MaxPacketSize = 513

	DefaultBreakBaud   = 50000
	DefaultBreakFormat = Format8N1
	DefaultBreakTime   = 180
	DefaultMABTime     = 20

	SlotBaud   = 250000
	SlotFormat = Format8N2
)

func (s *Sender) SetBreakTime(us uint32) {
	g := s.lock()
	defer g.unlock()

	s.breakTime = us
	s.adjustedBreakTime = us + s.config.Chip.info().breakAdjust
}

func (s *Sender) SetMABTime(us uint32) {
	g := s.lock()
	defer g.unlock()

	s.mabTime = us
	adjust := s.config.Chip.info().mabAdjust
	if us < adjust {
		s.adjustedMABTime = 0
	} else {
		s.adjustedMABTime = us - adjust
	}
}

// BreakTime returns the BREAK duration in microseconds. With a serial
// generated BREAK it follows from the BREAK baud rate and format.
func (s *Sender) BreakTime() uint32 {
	if s.breakUseTimer {
		return s.breakTime
	}
	bits, ok := s.breakFormat.breakBits()
	if !ok {
		return DefaultBreakTime
	}
	return bitsToMicros(bits, s.breakBaud)
}

func (s *Sender) MABTime() uint32 {
	if s.breakUseTimer {
		return s.mabTime
	}
	bits, ok := s.breakFormat.mabBits()
	if !ok {
		return DefaultMABTime
	}
	return bitsToMicros(bits, s.breakBaud)
}

func bitsToMicros(bits int, baud uint32) uint32 {
	if baud == 0 {
		return 0
	}
	return uint32(uint64(bits) * 1000000 / uint64(baud))
}

// SerialBreakTimes returns the BREAK and MAB durations a zero byte produces
// at the given baud rate and format.
func SerialBreakTimes(baud uint32, format Format) (uint32, uint32, error) {
	if baud == 0 {
		return 0, 0, ErrorInvalidBaud
	}
	b, ok := format.breakBits()
	if !ok {
		return 0, 0, ErrorInvalidFormat
	}
	m, _ := format.mabBits()
	return bitsToMicros(b, baud), bitsToMicros(m, baud), nil
}

func (s *Sender) SetBreakSerialParams(baud uint32, format Format) error {
	if baud == 0 {
		return ErrorInvalidBaud
	}
	if format&FormatTXInv != 0 {
		return ErrorInvalidFormat
	}
	if !format.Valid() || !s.formatSupported(format) {
		return ErrorInvalidFormat
	}

	g := s.lock()
	defer g.unlock()

	s.breakBaud = baud
	s.breakFormat = format
	s.handler.BreakSerialParamsChanged()
	return nil
}

func (s *Sender) formatSupported(format Format) bool {
	switch format.Base() {
	case Format8E2, Format8O2:
		return s.config.Chip.info().twoStopParity
	case Format9N1, Format9E1, Format9O1:
		return s.config.NineBitFormats
	}
	return true
}

func (s *Sender) BreakSerialBaud() uint32 {
	return s.breakBaud
}

func (s *Sender) BreakSerialFormat() Format {
	return s.breakFormat
}

// SetBreakUseTimer selects between a BREAK produced by holding the line low
// for BreakTime and one produced by sending a zero byte at the BREAK baud rate.
func (s *Sender) SetBreakUseTimer(flag bool) error {
	if flag {
		if h, ok := s.handler.(interface{ CanHoldBreak() bool }); ok && !h.CanHoldBreak() {
			return ErrorMissingFunction
		}
	}

	g := s.lock()
	defer g.unlock()

	s.breakUseTimer = flag
	return nil
}

func (s *Sender) IsBreakUseTimer() bool {
	return s.breakUseTimer
}
