package dmxhal

import "github.com/BertoldVdb/dmx-tools/dmxhal/regs"

const defaultLPUARTClock = 24000000

type lpuartLine struct {
	baud uint32
	ctrl uint32
}

const lpuartFormatBits = regs.LPUART_CTRL_M | regs.LPUART_CTRL_M7 | regs.LPUART_CTRL_PE | regs.LPUART_CTRL_PT

/* LPUART baud = clock / (OSR * SBR). Try every oversampling ratio and keep
 * the closest match, preferring the higher ratio on a tie. */
func lpuartLineFor(clockHz uint32, baud uint32, format Format) lpuartLine {
	clock := uint64(clockHz)
	target := uint64(baud)

	bestOSR, bestSBR := uint64(16), uint64(1)
	bestErr := ^uint64(0)
	for osr := uint64(4); osr <= 32; osr++ {
		sbr := (clock + target*osr/2) / (target * osr)
		if sbr == 0 {
			sbr = 1
		}
		if sbr > regs.LPUART_BAUD_SBR_MASK {
			continue
		}

		actual := clock / (osr * sbr)
		diff := actual - target
		if actual < target {
			diff = target - actual
		}
		if diff <= bestErr {
			bestErr = diff
			bestOSR, bestSBR = osr, sbr
		}
	}

	l := lpuartLine{
		baud: uint32(bestOSR-1)<<regs.LPUART_BAUD_OSR_SHIFT | uint32(bestSBR),
	}
	if bestOSR < 8 {
		l.baud |= regs.LPUART_BAUD_BOTHEDGE
	}

	switch format.Base() {
	case Format7E1:
		l.ctrl = regs.LPUART_CTRL_PE
	case Format7O1:
		l.ctrl = regs.LPUART_CTRL_PE | regs.LPUART_CTRL_PT
	case Format8N2:
		l.baud |= regs.LPUART_BAUD_SBNS
	case Format8E1:
		l.ctrl = regs.LPUART_CTRL_M | regs.LPUART_CTRL_PE
	case Format8O1:
		l.ctrl = regs.LPUART_CTRL_M | regs.LPUART_CTRL_PE | regs.LPUART_CTRL_PT
	case Format8E2:
		l.ctrl = regs.LPUART_CTRL_M | regs.LPUART_CTRL_PE
		l.baud |= regs.LPUART_BAUD_SBNS
	case Format8O2:
		l.ctrl = regs.LPUART_CTRL_M | regs.LPUART_CTRL_PE | regs.LPUART_CTRL_PT
		l.baud |= regs.LPUART_BAUD_SBNS
	case Format9N1:
		l.ctrl = regs.LPUART_CTRL_M
	case Format9E1:
		l.ctrl = regs.LPUART_CTRL_PE
		l.baud |= regs.LPUART_BAUD_M10
	case Format9O1:
		l.ctrl = regs.LPUART_CTRL_PE | regs.LPUART_CTRL_PT
		l.baud |= regs.LPUART_BAUD_M10
	}
	return l
}

type lpuartHandler struct {
	s         *Sender
	region    RegisterRegion
	irq       IRQController
	priority  int
	clockHz   uint32
	fifoDepth int

	slots lpuartLine
	brk   lpuartLine
}

func newLPUARTHandler(s *Sender, p Peripheral) (Handler, error) {
	if p.Regs == nil {
		return nil, ErrorMissingRegisters
	}
	if p.IRQ == nil {
		return nil, ErrorMissingIRQ
	}

	h := &lpuartHandler{
		s:         s,
		region:    p.Regs,
		irq:       p.IRQ,
		priority:  p.Priority,
		clockHz:   p.ClockHz,
		fifoDepth: p.FIFODepth,
	}
	if h.clockHz == 0 {
		h.clockHz = defaultLPUARTClock
	}
	if h.fifoDepth < 1 {
		h.fifoDepth = 1
	}
	h.slots = lpuartLineFor(h.clockHz, SlotBaud, SlotFormat)
	return h, nil
}

func (h *lpuartHandler) Start() {
	h.irq.SetEnabled(false)
	h.region.Store(regs.LPUART_CTRL, 0)

	if h.fifoDepth > 1 {
		setBits(h.region, regs.LPUART_FIFO, regs.LPUART_FIFO_TXFE)
	}
	h.region.Store(regs.LPUART_WATER, 0)

	h.apply(h.slots)
	setBits(h.region, regs.LPUART_CTRL, regs.LPUART_CTRL_TE)
	h.irq.SetEnabled(true)
}

func (h *lpuartHandler) End() {
	h.irq.SetEnabled(false)
	h.region.Store(regs.LPUART_CTRL, 0)
}

func (h *lpuartHandler) SetActive() {
	h.SetTxMode(TxActive)
}

func (h *lpuartHandler) SetIRQsEnabled(enabled bool) {
	h.irq.SetEnabled(enabled)
}

func (h *lpuartHandler) Priority() int {
	return h.priority
}

func (h *lpuartHandler) BreakSerialParamsChanged() {
	h.brk = lpuartLineFor(h.clockHz, h.s.breakBaud, h.s.breakFormat)
}

func (h *lpuartHandler) CanHoldBreak() bool {
	return true
}

func (h *lpuartHandler) IRQHandler() {
	ctrl := h.region.Load(regs.LPUART_CTRL)
	if ctrl&regs.LPUART_CTRL_TIE != 0 && h.region.Load(regs.LPUART_STAT)&regs.LPUART_STAT_TDRE != 0 {
		h.s.transmitReady(h)
	}

	ctrl = h.region.Load(regs.LPUART_CTRL)
	if ctrl&regs.LPUART_CTRL_TCIE != 0 && h.region.Load(regs.LPUART_STAT)&regs.LPUART_STAT_TC != 0 {
		if done := h.s.transmitComplete(h); done != nil {
			done()
		}
	}
}

/* BAUD may only change while the transmitter is disabled */
func (h *lpuartHandler) apply(l lpuartLine) {
	ctrl := h.region.Load(regs.LPUART_CTRL)
	h.region.Store(regs.LPUART_CTRL, ctrl&^regs.LPUART_CTRL_TE)
	h.region.Store(regs.LPUART_BAUD, l.baud)
	h.region.Store(regs.LPUART_CTRL, (ctrl&^lpuartFormatBits)|l.ctrl)
}

func (h *lpuartHandler) ConfigureBreak() {
	h.apply(h.brk)
}

func (h *lpuartHandler) ConfigureSlots() {
	h.apply(h.slots)
}

/* An inverted idle line is a BREAK for as long as it lasts */
func (h *lpuartHandler) SetBreak(on bool) {
	if on {
		setBits(h.region, regs.LPUART_CTRL, regs.LPUART_CTRL_TXINV)
	} else {
		clearBits(h.region, regs.LPUART_CTRL, regs.LPUART_CTRL_TXINV)
	}
}

func (h *lpuartHandler) WriteSlot(b byte) bool {
	if h.fifoDepth > 1 {
		count := (h.region.Load(regs.LPUART_WATER) & regs.LPUART_WATER_TXCOUNT_MASK) >> regs.LPUART_WATER_TXCOUNT_SHIFT
		if int(count) >= h.fifoDepth {
			return false
		}
	} else if h.region.Load(regs.LPUART_STAT)&regs.LPUART_STAT_TDRE == 0 {
		return false
	}

	h.region.Store(regs.LPUART_DATA, uint32(b))
	return true
}

func (h *lpuartHandler) SetTxMode(mode TxMode) {
	var bits uint32
	switch mode {
	case TxActive:
		bits = regs.LPUART_CTRL_TIE
	case TxCompleting:
		bits = regs.LPUART_CTRL_TCIE
	}
	modifyBits(h.region, regs.LPUART_CTRL, regs.LPUART_CTRL_TIE|regs.LPUART_CTRL_TCIE, bits)
}
