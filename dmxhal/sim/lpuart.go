package sim

import (
	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/BertoldVdb/dmx-tools/dmxhal/regs"
)

// LPUART models the transmitter of an i.MX RT / Kinetis L LPUART.
type LPUART struct {
	regs      *dmxhal.RegisterFile
	line      *Line
	clockHz   uint32
	fifoDepth int
}

func NewLPUART(clock *Clock, clockHz uint32, fifoDepth int) *LPUART {
	u := &LPUART{
		regs:      dmxhal.NewRegisterFile("LPUART", 4, regs.LPUART_SIZE),
		clockHz:   clockHz,
		fifoDepth: fifoDepth,
	}
	u.regs.Store(regs.LPUART_BAUD, 15<<regs.LPUART_BAUD_OSR_SHIFT|4)
	u.line = newLine(clock, u.irqAsserted)
	return u
}

func (u *LPUART) GetName() string {
	return "LPUART"
}

func (u *LPUART) GetWidth() int {
	return 4
}

func (u *LPUART) Line() *Line {
	return u.line
}

func (u *LPUART) Peripheral(index int) dmxhal.Peripheral {
	return dmxhal.Peripheral{
		Index:     index,
		Family:    dmxhal.FamilyLPUART,
		Regs:      u,
		IRQ:       u.line,
		ClockHz:   u.clockHz,
		FIFODepth: u.fifoDepth,
	}
}

func (u *LPUART) fifoEnabled() bool {
	return u.fifoDepth > 1 && u.regs.Load(regs.LPUART_FIFO)&regs.LPUART_FIFO_TXFE != 0
}

func (u *LPUART) status() uint32 {
	watermark := 0
	if u.fifoEnabled() {
		watermark = int(u.regs.Load(regs.LPUART_WATER) & regs.LPUART_WATER_TXWATER_MASK)
	}

	var s uint32
	if u.line.Queued() <= watermark {
		s |= regs.LPUART_STAT_TDRE
	}
	if u.line.Idle() && !u.line.Held() {
		s |= regs.LPUART_STAT_TC
	}
	return s
}

func (u *LPUART) irqAsserted() bool {
	ctrl := u.regs.Load(regs.LPUART_CTRL)
	stat := u.status()
	return (ctrl&regs.LPUART_CTRL_TIE != 0 && stat&regs.LPUART_STAT_TDRE != 0) ||
		(ctrl&regs.LPUART_CTRL_TCIE != 0 && stat&regs.LPUART_STAT_TC != 0)
}

func (u *LPUART) Load(offset int) uint32 {
	switch offset {
	case regs.LPUART_STAT:
		return u.status()
	case regs.LPUART_WATER:
		water := u.regs.Load(offset) &^ regs.LPUART_WATER_TXCOUNT_MASK
		return water | uint32(u.line.Queued())<<regs.LPUART_WATER_TXCOUNT_SHIFT
	}
	return u.regs.Load(offset)
}

func (u *LPUART) Store(offset int, value uint32) {
	switch offset {
	case regs.LPUART_DATA:
		if u.regs.Load(regs.LPUART_CTRL)&regs.LPUART_CTRL_TE != 0 {
			capacity := 1
			if u.fifoEnabled() {
				capacity = u.fifoDepth
			}
			u.line.push(u.frame(uint16(value&0x3FF)), capacity)
		}

	case regs.LPUART_CTRL:
		old := u.regs.Load(regs.LPUART_CTRL)
		u.regs.Store(offset, value)
		if (old^value)&regs.LPUART_CTRL_TXINV != 0 {
			u.line.setHeld(value&regs.LPUART_CTRL_TXINV != 0)
		}

	case regs.LPUART_WATER:
		u.regs.Store(offset, value&^regs.LPUART_WATER_TXCOUNT_MASK)

	case regs.LPUART_STAT:

	default:
		u.regs.Store(offset, value)
	}

	u.line.update()
}

func (u *LPUART) frame(value uint16) Frame {
	baud := u.regs.Load(regs.LPUART_BAUD)
	ctrl := u.regs.Load(regs.LPUART_CTRL)

	osr := uint64((baud&regs.LPUART_BAUD_OSR_MASK)>>regs.LPUART_BAUD_OSR_SHIFT) + 1
	sbr := uint64(baud & regs.LPUART_BAUD_SBR_MASK)
	if sbr == 0 {
		sbr = 1
	}

	shape := lineShape{dataBits: 8, stopBits: 1}
	switch {
	case baud&regs.LPUART_BAUD_M10 != 0:
		shape.dataBits = 10
	case ctrl&regs.LPUART_CTRL_M != 0:
		shape.dataBits = 9
	case ctrl&regs.LPUART_CTRL_M7 != 0:
		shape.dataBits = 7
	}
	if ctrl&regs.LPUART_CTRL_PE != 0 {
		shape.dataBits--
		shape.parity = parityEven
		if ctrl&regs.LPUART_CTRL_PT != 0 {
			shape.parity = parityOdd
		}
	}
	if baud&regs.LPUART_BAUD_SBNS != 0 {
		shape.stopBits = 2
	}

	return makeFrame(value, shape, 1000000000*osr*sbr, uint64(u.clockHz))
}
