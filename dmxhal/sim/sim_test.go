package sim

import (
	"testing"
	"time"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/BertoldVdb/dmx-tools/dmxhal/regs"
)

func TestClockOrder(t *testing.T) {
	c := NewClock()

	var order []int
	c.After(20, func() { order = append(order, 3) })
	c.After(10, func() { order = append(order, 1) })
	c.After(10, func() { order = append(order, 2) })
	cancel := c.After(15, func() { order = append(order, 99) })
	cancel()
	cancel()

	c.Run(100 * time.Nanosecond)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("Order %v", order)
	}
	if c.Now() != 100 {
		t.Fatalf("Now is %d", c.Now())
	}

	fired := false
	c.After(2000, func() { fired = true })
	if c.RunWhile(func() bool { return !fired }, time.Microsecond) {
		t.Fatal("RunWhile did not time out")
	}
	if !c.RunWhile(func() bool { return !fired }, time.Microsecond) || c.Micros() != 2 {
		t.Fatalf("RunWhile stopped at %dns", c.Now())
	}
}

func TestMakeFrame(t *testing.T) {
	eightN2 := lineShape{dataBits: 8, stopBits: 2}
	eightE1 := lineShape{dataBits: 8, parity: parityEven, stopBits: 1}
	eightO1 := lineShape{dataBits: 8, parity: parityOdd, stopBits: 1}

	tests := []struct {
		value uint16
		shape lineShape
		bits  int
		low   int
	}{
		{0x00, eightN2, 11, 9},
		{0x01, eightN2, 11, 1},
		{0x80, eightN2, 11, 8},
		{0xFF, eightN2, 11, 1},
		{0x00, eightE1, 11, 10},
		{0x00, eightO1, 11, 9},
		{0x01, eightE1, 11, 1},
	}

	for _, tc := range tests {
		f := makeFrame(tc.value, tc.shape, 4000, 1)
		if f.Bits != tc.bits || f.Ns != uint64(tc.bits)*4000 || f.LowNs != uint64(tc.low)*4000 {
			t.Errorf("%#x %+v: %d bits %dns low %dns", tc.value, tc.shape, f.Bits, f.Ns, f.LowNs)
		}
	}
}

func TestUARTRegisters(t *testing.T) {
	c := NewClock()
	u := NewUART(c, DefaultUARTClock, 8)

	/* 250000 baud 8N2 */
	u.Store(regs.UART_BDH, regs.UART_BDH_SBNS)
	u.Store(regs.UART_BDL, 12)
	u.Store(regs.UART_PFIFO, regs.UART_PFIFO_TXFE)

	/* Writes are ignored while the transmitter is off */
	u.Store(regs.UART_D, 0x11)
	if len(u.Line().Trace().Events) != 0 {
		t.Fatal("Data sent with TE clear")
	}

	u.Store(regs.UART_C2, regs.UART_C2_TE)
	if u.Load(regs.UART_S1)&regs.UART_S1_TC == 0 {
		t.Fatal("Idle transmitter does not report TC")
	}

	for i := 0; i < 10; i++ {
		u.Store(regs.UART_D, uint32(i))
	}
	/* One in the shift register, eight queued, one dropped */
	if n := u.Load(regs.UART_TCFIFO); n != 8 {
		t.Fatalf("TCFIFO is %d", n)
	}
	if u.Load(regs.UART_S1)&(regs.UART_S1_TDRE|regs.UART_S1_TC) != 0 {
		t.Fatal("Busy transmitter reports empty")
	}

	c.Run(time.Millisecond)
	if u.Load(regs.UART_S1)&regs.UART_S1_TC == 0 {
		t.Fatal("Transmitter did not finish")
	}

	slots := 0
	for _, e := range u.Line().Trace().Events {
		if e.Kind != EventSlot {
			t.Fatalf("Unexpected %s", e.Kind)
		}
		if e.Ns != 44000 || e.Value != uint16(slots) {
			t.Errorf("Slot %d: %#x %dns", slots, e.Value, e.Ns)
		}
		slots++
	}
	if slots != 9 {
		t.Fatalf("%d slots sent", slots)
	}

	/* SBK holds the line low */
	u.Store(regs.UART_C2, regs.UART_C2_TE|regs.UART_C2_SBK)
	c.Run(100 * time.Microsecond)
	u.Store(regs.UART_C2, regs.UART_C2_TE)

	breaks := u.Line().Trace().Breaks()
	if len(breaks) != 1 || breaks[0].Ns != 100000 {
		t.Fatalf("BREAK %+v", breaks)
	}
}

func TestLPUARTRegisters(t *testing.T) {
	c := NewClock()
	u := NewLPUART(c, DefaultLPUARTClock, 4)

	/* 250000 baud: OSR 32, SBR 3 */
	u.Store(regs.LPUART_BAUD, 31<<regs.LPUART_BAUD_OSR_SHIFT|regs.LPUART_BAUD_SBNS|3)
	u.Store(regs.LPUART_FIFO, regs.LPUART_FIFO_TXFE)
	u.Store(regs.LPUART_CTRL, regs.LPUART_CTRL_TE)

	for i := 0; i < 6; i++ {
		u.Store(regs.LPUART_DATA, 0xA0)
	}
	water := u.Load(regs.LPUART_WATER)
	if count := (water & regs.LPUART_WATER_TXCOUNT_MASK) >> regs.LPUART_WATER_TXCOUNT_SHIFT; count != 4 {
		t.Fatalf("TXCOUNT is %d", count)
	}

	c.Run(time.Millisecond)
	events := u.Line().Trace().Events
	if len(events) != 5 || events[0].Ns != 44000 {
		t.Fatalf("Events %+v", events)
	}
	if u.Load(regs.LPUART_STAT)&regs.LPUART_STAT_TC == 0 {
		t.Fatal("Transmitter did not finish")
	}
}

func TestInterruptDelivery(t *testing.T) {
	c := NewClock()
	u := NewUART(c, DefaultUARTClock, 1)

	calls := 0
	u.Line().SetVector(func() {
		calls++
		/* Acknowledge by disabling the interrupt source */
		u.Store(regs.UART_C2, regs.UART_C2_TE)
	})

	u.Store(regs.UART_C2, regs.UART_C2_TE|regs.UART_C2_TCIE)
	c.Run(time.Microsecond)
	if calls != 0 {
		t.Fatal("Masked interrupt delivered")
	}

	u.Line().SetEnabled(true)
	c.Run(time.Microsecond)
	if calls != 1 {
		t.Fatalf("%d deliveries", calls)
	}
}

func TestRig(t *testing.T) {
	if _, err := NewRig(dmxhal.FamilyTTY, 0); err == nil {
		t.Fatal("Rig for TTY")
	}

	rig, err := NewRig(dmxhal.FamilyUART, 2)
	if err != nil {
		t.Fatal(err)
	}
	s, err := rig.NewSender(dmxhal.Config{Chip: dmxhal.ChipMK20DX})
	if err != nil {
		t.Fatal(err)
	}
	s.SetPacketSize(1)
	s.Begin()
	rig.Clock.Run(time.Millisecond)
	s.End()

	if s.PacketCount() == 0 {
		t.Fatal("No packets sent on peripheral 2")
	}
	if rig.Timer.Priority != rig.Device.Peripheral(2).Priority {
		t.Errorf("Timer priority %d", rig.Timer.Priority)
	}
}
