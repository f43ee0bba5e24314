package sim

import (
	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/BertoldVdb/dmx-tools/dmxhal/regs"
)

// UART models a Kinetis UART transmitter.
type UART struct {
	regs      *dmxhal.RegisterFile
	line      *Line
	clockHz   uint32
	fifoDepth int
}

func NewUART(clock *Clock, clockHz uint32, fifoDepth int) *UART {
	u := &UART{
		regs:      dmxhal.NewRegisterFile("UART", 1, regs.UART_SIZE),
		clockHz:   clockHz,
		fifoDepth: fifoDepth,
	}
	u.line = newLine(clock, u.irqAsserted)
	return u
}

func (u *UART) GetName() string {
	return "UART"
}

func (u *UART) GetWidth() int {
	return 1
}

func (u *UART) Line() *Line {
	return u.line
}

func (u *UART) Peripheral(index int) dmxhal.Peripheral {
	return dmxhal.Peripheral{
		Index:     index,
		Family:    dmxhal.FamilyUART,
		Regs:      u,
		IRQ:       u.line,
		ClockHz:   u.clockHz,
		FIFODepth: u.fifoDepth,
	}
}

func (u *UART) fifoEnabled() bool {
	return u.fifoDepth > 1 && u.regs.Load(regs.UART_PFIFO)&regs.UART_PFIFO_TXFE != 0
}

func (u *UART) status() uint32 {
	watermark := 0
	if u.fifoEnabled() {
		watermark = int(u.regs.Load(regs.UART_TWFIFO))
	}

	var s uint32
	if u.line.Queued() <= watermark {
		s |= regs.UART_S1_TDRE
	}
	if u.line.Idle() && !u.line.Held() {
		s |= regs.UART_S1_TC
	}
	return s
}

func (u *UART) irqAsserted() bool {
	c2 := u.regs.Load(regs.UART_C2)
	s1 := u.status()
	return (c2&regs.UART_C2_TIE != 0 && s1&regs.UART_S1_TDRE != 0) ||
		(c2&regs.UART_C2_TCIE != 0 && s1&regs.UART_S1_TC != 0)
}

func (u *UART) Load(offset int) uint32 {
	switch offset {
	case regs.UART_S1:
		return u.status()
	case regs.UART_TCFIFO:
		return uint32(u.line.Queued())
	}
	return u.regs.Load(offset)
}

func (u *UART) Store(offset int, value uint32) {
	value &= 0xFF

	switch offset {
	case regs.UART_D:
		if u.regs.Load(regs.UART_C2)&regs.UART_C2_TE != 0 {
			capacity := 1
			if u.fifoEnabled() {
				capacity = u.fifoDepth
			}
			if u.regs.Load(regs.UART_C3)&regs.UART_C3_T8 != 0 {
				value |= 0x100
			}
			u.line.push(u.frame(uint16(value)), capacity)
		}

	case regs.UART_C2:
		old := u.regs.Load(regs.UART_C2)
		u.regs.Store(offset, value)
		if (old^value)&regs.UART_C2_SBK != 0 {
			u.line.setHeld(value&regs.UART_C2_SBK != 0)
		}

	case regs.UART_CFIFO:
		if value&regs.UART_CFIFO_TXFLUSH != 0 {
			u.line.flush()
		}
		u.regs.Store(offset, value&^regs.UART_CFIFO_TXFLUSH)

	case regs.UART_S1, regs.UART_TCFIFO:

	default:
		u.regs.Store(offset, value)
	}

	u.line.update()
}

func (u *UART) frame(value uint16) Frame {
	bdh := u.regs.Load(regs.UART_BDH)
	c1 := u.regs.Load(regs.UART_C1)
	c4 := u.regs.Load(regs.UART_C4)

	sbr := uint64(bdh&regs.UART_BDH_SBR_MASK)<<8 | uint64(u.regs.Load(regs.UART_BDL))
	divisor := sbr<<5 | uint64(c4&regs.UART_C4_BRFA_MASK)
	if divisor == 0 {
		divisor = 32
	}

	shape := lineShape{dataBits: 8, stopBits: 1}
	if c4&regs.UART_C4_M10 != 0 {
		shape.dataBits = 10
	} else if c1&regs.UART_C1_M != 0 {
		shape.dataBits = 9
	}
	if c1&regs.UART_C1_PE != 0 {
		shape.dataBits--
		shape.parity = parityEven
		if c1&regs.UART_C1_PT != 0 {
			shape.parity = parityOdd
		}
	}
	if bdh&regs.UART_BDH_SBNS != 0 {
		shape.stopBits = 2
	}

	return makeFrame(value, shape, 1000000000*divisor, 2*uint64(u.clockHz))
}
