package dmxhal

import "github.com/BertoldVdb/dmx-tools/dmxhal/regs"

const defaultUARTClock = 48000000

type uartLine struct {
	bdh, bdl, c1, c4 uint32
}

/* Kinetis UART baud = clock / (16 * (SBR + BRFA/32)). The divisor is
 * computed in 1/32 steps so SBR and BRFA come out of one division. */
func uartLineFor(clockHz uint32, baud uint32, format Format) uartLine {
	divisor := (uint64(clockHz)*2 + uint64(baud)/2) / uint64(baud)
	if divisor < 32 {
		divisor = 32
	} else if divisor > 0x1FFF<<5|0x1F {
		divisor = 0x1FFF<<5 | 0x1F
	}

	sbr := divisor >> 5
	l := uartLine{
		bdh: uint32(sbr>>8) & regs.UART_BDH_SBR_MASK,
		bdl: uint32(sbr & 0xFF),
		c4:  uint32(divisor) & regs.UART_C4_BRFA_MASK,
	}

	/* With parity enabled the parity bit is the MSB of the character */
	switch format.Base() {
	case Format7E1:
		l.c1 = regs.UART_C1_PE
	case Format7O1:
		l.c1 = regs.UART_C1_PE | regs.UART_C1_PT
	case Format8N2:
		l.bdh |= regs.UART_BDH_SBNS
	case Format8E1:
		l.c1 = regs.UART_C1_M | regs.UART_C1_PE
	case Format8O1:
		l.c1 = regs.UART_C1_M | regs.UART_C1_PE | regs.UART_C1_PT
	case Format8E2:
		l.c1 = regs.UART_C1_M | regs.UART_C1_PE
		l.bdh |= regs.UART_BDH_SBNS
	case Format8O2:
		l.c1 = regs.UART_C1_M | regs.UART_C1_PE | regs.UART_C1_PT
		l.bdh |= regs.UART_BDH_SBNS
	case Format9N1:
		l.c1 = regs.UART_C1_M
	case Format9E1:
		l.c1 = regs.UART_C1_M | regs.UART_C1_PE
		l.c4 |= regs.UART_C4_M10
	case Format9O1:
		l.c1 = regs.UART_C1_M | regs.UART_C1_PE | regs.UART_C1_PT
		l.c4 |= regs.UART_C4_M10
	}
	return l
}

type uartHandler struct {
	s         *Sender
	region    RegisterRegion
	irq       IRQController
	priority  int
	clockHz   uint32
	fifoDepth int

	slots uartLine
	brk   uartLine
}

func newUARTHandler(s *Sender, p Peripheral) (Handler, error) {
	if p.Regs == nil {
		return nil, ErrorMissingRegisters
	}
	if p.IRQ == nil {
		return nil, ErrorMissingIRQ
	}

	h := &uartHandler{
		s:         s,
		region:    p.Regs,
		irq:       p.IRQ,
		priority:  p.Priority,
		clockHz:   p.ClockHz,
		fifoDepth: p.FIFODepth,
	}
	if h.clockHz == 0 {
		h.clockHz = defaultUARTClock
	}
	if h.fifoDepth < 1 {
		h.fifoDepth = 1
	}
	h.slots = uartLineFor(h.clockHz, SlotBaud, SlotFormat)
	return h, nil
}

func (h *uartHandler) Start() {
	h.irq.SetEnabled(false)
	h.region.Store(regs.UART_C2, 0)

	if h.fifoDepth > 1 {
		setBits(h.region, regs.UART_PFIFO, regs.UART_PFIFO_TXFE)
		h.region.Store(regs.UART_TWFIFO, 0)
		setBits(h.region, regs.UART_CFIFO, regs.UART_CFIFO_TXFLUSH)
	}

	h.apply(h.slots)
	h.region.Store(regs.UART_C2, regs.UART_C2_TE)
	h.irq.SetEnabled(true)
}

func (h *uartHandler) End() {
	h.irq.SetEnabled(false)
	h.region.Store(regs.UART_C2, 0)
}

func (h *uartHandler) SetActive() {
	h.SetTxMode(TxActive)
}

func (h *uartHandler) SetIRQsEnabled(enabled bool) {
	h.irq.SetEnabled(enabled)
}

func (h *uartHandler) Priority() int {
	return h.priority
}

func (h *uartHandler) BreakSerialParamsChanged() {
	h.brk = uartLineFor(h.clockHz, h.s.breakBaud, h.s.breakFormat)
}

func (h *uartHandler) CanHoldBreak() bool {
	return true
}

func (h *uartHandler) IRQHandler() {
	c2 := h.region.Load(regs.UART_C2)
	if c2&regs.UART_C2_TIE != 0 && h.region.Load(regs.UART_S1)&regs.UART_S1_TDRE != 0 {
		h.s.transmitReady(h)
	}

	c2 = h.region.Load(regs.UART_C2)
	if c2&regs.UART_C2_TCIE != 0 && h.region.Load(regs.UART_S1)&regs.UART_S1_TC != 0 {
		if done := h.s.transmitComplete(h); done != nil {
			done()
		}
	}
}

func (h *uartHandler) apply(l uartLine) {
	/* SBR is latched when BDL is written */
	modifyBits(h.region, regs.UART_BDH, regs.UART_BDH_SBR_MASK|regs.UART_BDH_SBNS, l.bdh)
	h.region.Store(regs.UART_BDL, l.bdl)
	modifyBits(h.region, regs.UART_C4, regs.UART_C4_BRFA_MASK|regs.UART_C4_M10, l.c4)
	modifyBits(h.region, regs.UART_C1, regs.UART_C1_M|regs.UART_C1_PE|regs.UART_C1_PT, l.c1)
	clearBits(h.region, regs.UART_C3, regs.UART_C3_T8)
}

func (h *uartHandler) ConfigureBreak() {
	h.apply(h.brk)
}

func (h *uartHandler) ConfigureSlots() {
	h.apply(h.slots)
}

func (h *uartHandler) SetBreak(on bool) {
	if on {
		setBits(h.region, regs.UART_C2, regs.UART_C2_SBK)
	} else {
		clearBits(h.region, regs.UART_C2, regs.UART_C2_SBK)
	}
}

func (h *uartHandler) WriteSlot(b byte) bool {
	if h.fifoDepth > 1 {
		if int(h.region.Load(regs.UART_TCFIFO)) >= h.fifoDepth {
			return false
		}
	} else if h.region.Load(regs.UART_S1)&regs.UART_S1_TDRE == 0 {
		return false
	}

	h.region.Store(regs.UART_D, uint32(b))
	return true
}

func (h *uartHandler) SetTxMode(mode TxMode) {
	var bits uint32
	switch mode {
	case TxActive:
		bits = regs.UART_C2_TIE
	case TxCompleting:
		bits = regs.UART_C2_TCIE
	}
	modifyBits(h.region, regs.UART_C2, regs.UART_C2_TIE|regs.UART_C2_TCIE, bits)
}
