package dmxhal

/* Everything in this file runs in interrupt context, called by the handler
 * of the peripheral. It must never block and never take the IRQ lock. */

// transmitReady is called when the transmitter can accept data.
func (s *Sender) transmitReady(p Port) {
	switch s.phase {
	case PhaseIdle:
		s.startPacket(p)

	case PhaseBreak:
		/* Only a timed BREAK waits for this, it means the BREAK timer expired */
		if !s.timedBreak {
			return
		}
		p.SetBreak(false)
		s.setPhase(PhaseMAB)
		if s.adjustedMABTime > 0 {
			p.SetTxMode(TxInactive)
			if s.timer.Begin(func() { p.SetTxMode(TxActive) }, s.adjustedMABTime) {
				return
			}
		}
		s.startData(p)

	case PhaseMAB:
		s.startData(p)

	case PhaseData:
		s.fill(p)
	}
}

// transmitComplete is called when the shift register is empty. The returned
// function, if any, must be called once the handler is done with the
// interrupt.
func (s *Sender) transmitComplete(p Port) func() {
	switch s.phase {
	case PhaseBreak:
		if s.timedBreak {
			return nil
		}
		/* The stop bits of the BREAK character are the MAB */
		s.setPhase(PhaseMAB)
		p.ConfigureSlots()
		p.SetTxMode(TxActive)

	case PhaseCompleting:
		done := s.completePacket()
		p.SetTxMode(TxActive)
		return done
	}
	return nil
}

func (s *Sender) startPacket(p Port) {
	if s.paused || (s.pacing.IsOnce() && !s.oncePending) {
		p.SetTxMode(TxInactive)
		return
	}

	now := s.clock.Micros()
	if s.haveBreak && s.finitePeriod {
		if elapsed := now - s.breakStart; elapsed < s.breakToBreak {
			p.SetTxMode(TxInactive)
			if s.timer.Begin(func() { p.SetTxMode(TxActive) }, s.breakToBreak-elapsed) {
				return
			}
		}
	}

	if s.resumeCount > 0 {
		s.resumeCount--
		if s.resumeCount == 0 {
			s.paused = true
		}
	}

	s.oncePending = false
	s.transmitting = true
	s.cursor = 0
	s.breakStart = now
	s.haveBreak = true
	s.setPhase(PhaseBreak)

	if s.breakUseTimer {
		p.SetTxMode(TxInactive)
		p.ConfigureSlots()
		if s.timer.Begin(func() { p.SetTxMode(TxActive) }, s.adjustedBreakTime) {
			p.SetBreak(true)
			s.timedBreak = true
			return
		}
	}

	/* Fall back to a BREAK character when there is no timer */
	s.timedBreak = false
	p.ConfigureBreak()
	p.WriteSlot(0)
	p.SetTxMode(TxCompleting)
}

func (s *Sender) startData(p Port) {
	s.setPhase(PhaseData)
	p.SetTxMode(TxActive)
	s.fill(p)
}

func (s *Sender) fill(p Port) {
	for s.cursor < s.packetSize {
		if !p.WriteSlot(s.buf[s.cursor]) {
			return
		}
		s.cursor++
	}

	s.setPhase(PhaseCompleting)
	p.SetTxMode(TxCompleting)
}

func (s *Sender) completePacket() func() {
	s.packetCount.Add(1)
	s.cursor = 0
	s.transmitting = false
	s.setPhase(PhaseIdle)

	if fn := s.doneFunc; fn != nil && (s.paused || s.resumeCount > 0) {
		return func() { fn(s) }
	}
	return nil
}
