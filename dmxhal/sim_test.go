package dmxhal_test

import (
	"testing"
	"time"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/BertoldVdb/dmx-tools/dmxhal/sim"
)

const slotNs = 44000

func newRig(t *testing.T, family dmxhal.Family, chip dmxhal.Chip) (*sim.Rig, *dmxhal.Sender) {
	t.Helper()

	rig, err := sim.NewRig(family, 0)
	if err != nil {
		t.Fatal(err)
	}
	s, err := rig.NewSender(dmxhal.Config{Chip: chip})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Bound() {
		t.Fatal("Sender is not bound")
	}
	return rig, s
}

func runPackets(t *testing.T, rig *sim.Rig, s *dmxhal.Sender, n uint32) {
	t.Helper()

	ok := rig.Clock.RunWhile(func() bool { return s.PacketCount() < n }, 10*time.Second)
	if !ok {
		t.Fatalf("Only %d of %d packets after %s", s.PacketCount(), n, rig.Clock.Elapsed())
	}
}

func TestContinuous(t *testing.T) {
	for _, family := range []dmxhal.Family{dmxhal.FamilyUART, dmxhal.FamilyLPUART} {
		t.Run(family.String(), func(t *testing.T) {
			rig, s := newRig(t, family, dmxhal.ChipGeneric)
			s.Set(1, 0xAA)
			s.Set(512, 0x55)

			s.Begin()
			runPackets(t, rig, s, 3)
			s.End()

			trace := rig.Trace()
			breaks := trace.Breaks()
			if len(breaks) < 3 {
				t.Fatalf("%d BREAKs", len(breaks))
			}
			for i, b := range breaks[:3] {
				if b.Ns != 180000 {
					t.Errorf("BREAK %d is %dns", i, b.Ns)
				}
			}

			for i, mab := range trace.MABs()[:3] {
				if mab != 20000 {
					t.Errorf("MAB %d is %dns", i, mab)
				}
			}

			packets := trace.Packets()
			for i, p := range packets[:3] {
				if len(p) != dmxhal.MaxPacketSize {
					t.Fatalf("Packet %d has %d slots", i, len(p))
				}
				if p[0] != 0 || p[1] != 0xAA || p[2] != 0 || p[512] != 0x55 {
					t.Errorf("Packet %d has wrong content", i)
				}
			}

			/* Back to back: a BREAK character and 513 slots */
			want := uint64(200000 + dmxhal.MaxPacketSize*slotNs)
			for i := 1; i < 3; i++ {
				if d := breaks[i].At - breaks[i-1].At; d != want {
					t.Errorf("Period %d is %dns, want %d", i, d, want)
				}
			}
		})
	}
}

func TestRefreshRate30Hz(t *testing.T) {
	rig, s := newRig(t, dmxhal.FamilyUART, dmxhal.ChipMK66FX1M0)
	if err := s.SetRefreshRate(30); err != nil {
		t.Fatal(err)
	}
	s.SetPacketSize(4)
	s.Set(0, 0)
	s.SetRange(1, []uint8{10, 20, 30})

	s.Begin()
	for n := uint32(1); n <= 4; n++ {
		runPackets(t, rig, s, n)
		if s.PacketCount() != n {
			t.Fatalf("Packet count %d, want %d", s.PacketCount(), n)
		}
	}
	s.End()

	breaks := rig.Trace().Breaks()
	if len(breaks) < 4 {
		t.Fatalf("%d BREAKs", len(breaks))
	}
	for i := 1; i < 4; i++ {
		if d := breaks[i].At - breaks[i-1].At; d != 33333000 {
			t.Errorf("Period %d is %dns", i, d)
		}
	}

	for i, p := range rig.Trace().Packets()[:4] {
		if string(p) != string([]byte{0, 10, 20, 30}) {
			t.Errorf("Packet %d is %v", i, p)
		}
	}
}

func TestPhases(t *testing.T) {
	rig, err := sim.NewRig(dmxhal.FamilyUART, 0)
	if err != nil {
		t.Fatal(err)
	}

	var phases []dmxhal.Phase
	s, err := rig.NewSender(dmxhal.Config{
		PhaseHook: func(phase dmxhal.Phase, micros uint32) {
			phases = append(phases, phase)
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.SetPacketSize(10)

	s.Begin()
	runPackets(t, rig, s, 2)
	s.End()

	want := []dmxhal.Phase{
		dmxhal.PhaseBreak, dmxhal.PhaseMAB, dmxhal.PhaseData, dmxhal.PhaseCompleting, dmxhal.PhaseIdle,
		dmxhal.PhaseBreak, dmxhal.PhaseMAB, dmxhal.PhaseData, dmxhal.PhaseCompleting, dmxhal.PhaseIdle,
	}
	if len(phases) < len(want) {
		t.Fatalf("Phases %v", phases)
	}
	for i, p := range want {
		if phases[i] != p {
			t.Fatalf("Phase %d is %s, want %s (%v)", i, phases[i], p, phases)
		}
	}
}

func TestPacketSize(t *testing.T) {
	rig, s := newRig(t, dmxhal.FamilyLPUART, dmxhal.ChipIMXRT1062)
	s.SetPacketSize(24)

	s.Begin()
	runPackets(t, rig, s, 2)
	s.End()

	trace := rig.Trace()
	for i, p := range trace.Packets()[:2] {
		if len(p) != 24 {
			t.Errorf("Packet %d has %d slots", i, len(p))
		}
	}

	breaks := trace.Breaks()
	if d := breaks[1].At - breaks[0].At; d != 200000+24*slotNs {
		t.Errorf("Period is %dns", d)
	}
}

func TestSendOnce(t *testing.T) {
	rig, s := newRig(t, dmxhal.FamilyUART, dmxhal.ChipGeneric)
	s.SetRefreshRate(0)
	s.SetPacketSize(5)

	s.Begin()
	rig.Clock.Run(100 * time.Millisecond)
	if s.PacketCount() != 1 {
		t.Fatalf("Sent %d packets", s.PacketCount())
	}

	/* Resume asks for one more */
	s.Pause()
	s.Resume()
	rig.Clock.Run(100 * time.Millisecond)
	if s.PacketCount() != 2 {
		t.Fatalf("Sent %d packets after Resume", s.PacketCount())
	}

	/* Leaving send-once restarts and starts counting from zero */
	s.SetRefreshRate(100)
	runPackets(t, rig, s, 3)
	s.End()
}

func TestResumeForFunc(t *testing.T) {
	rig, s := newRig(t, dmxhal.FamilyUART, dmxhal.ChipGeneric)
	s.SetPacketSize(8)

	calls := 0
	s.Pause()
	s.ResumeForFunc(3, func(cb *dmxhal.Sender) {
		if cb != s {
			t.Error("Callback for another sender")
		}
		calls++
	})

	s.Begin()
	rig.Clock.Run(50 * time.Millisecond)

	if s.PacketCount() != 3 || calls != 3 {
		t.Fatalf("%d packets, %d callbacks", s.PacketCount(), calls)
	}
	if !s.IsPaused() || s.IsTransmitting() {
		t.Fatal("Sender still running")
	}
	if len(rig.Trace().Breaks()) != 3 {
		t.Fatalf("%d BREAKs on the line", len(rig.Trace().Breaks()))
	}

	/* Unbounded resume does not call back */
	s.Resume()
	runPackets(t, rig, s, 6)
	if calls != 3 {
		t.Fatalf("%d callbacks while running freely", calls)
	}
	s.End()
}

func TestPauseFinishesPacket(t *testing.T) {
	rig, s := newRig(t, dmxhal.FamilyUART, dmxhal.ChipGeneric)

	s.Begin()
	rig.Clock.RunWhile(func() bool { return s.Phase() != dmxhal.PhaseData }, time.Second)
	s.Pause()
	if !s.IsTransmitting() {
		t.Fatal("Packet in flight not reported")
	}

	rig.Clock.Run(100 * time.Millisecond)
	s.End()

	if s.PacketCount() != 1 || s.IsTransmitting() {
		t.Fatalf("%d packets", s.PacketCount())
	}
	packets := rig.Trace().Packets()
	if len(packets) != 1 || len(packets[0]) != dmxhal.MaxPacketSize {
		t.Fatal("Packet was cut short")
	}
}

func TestTimedBreak(t *testing.T) {
	tests := []struct {
		family dmxhal.Family
		chip   dmxhal.Chip
		brk    uint64
		mab    uint64
	}{
		{dmxhal.FamilyLPUART, dmxhal.ChipIMXRT1062, 180000, 19000},
		{dmxhal.FamilyUART, dmxhal.ChipMK20DX, 181000, 13000},
		{dmxhal.FamilyUART, dmxhal.ChipGeneric, 180000, 20000},
	}

	for _, tc := range tests {
		t.Run(tc.chip.String(), func(t *testing.T) {
			rig, s := newRig(t, tc.family, tc.chip)
			if err := s.SetBreakUseTimer(true); err != nil {
				t.Fatal(err)
			}
			s.SetPacketSize(4)

			s.Begin()
			runPackets(t, rig, s, 2)
			s.End()

			trace := rig.Trace()
			breaks := trace.Breaks()
			mabs := trace.MABs()
			if len(breaks) < 2 || len(mabs) < 2 {
				t.Fatalf("%d BREAKs %d MABs", len(breaks), len(mabs))
			}
			for i := 0; i < 2; i++ {
				if breaks[i].Ns != tc.brk || mabs[i] != tc.mab {
					t.Errorf("Packet %d: BREAK %dns MAB %dns", i, breaks[i].Ns, mabs[i])
				}
			}
			if len(trace.Packets()[0]) != 4 {
				t.Errorf("Packet has %d slots", len(trace.Packets()[0]))
			}
		})
	}
}

func TestTimerUnavailable(t *testing.T) {
	rig, s := newRig(t, dmxhal.FamilyUART, dmxhal.ChipGeneric)
	rig.Timer.Unavailable = true

	s.SetBreakUseTimer(true)
	s.SetRefreshRate(30)
	s.SetPacketSize(4)

	s.Begin()
	runPackets(t, rig, s, 3)
	s.End()

	/* Without a timer the BREAK is a character and packets are not paced */
	trace := rig.Trace()
	breaks := trace.Breaks()
	if breaks[0].Ns != 180000 || trace.MABs()[0] != 20000 {
		t.Errorf("BREAK %dns MAB %dns", breaks[0].Ns, trace.MABs()[0])
	}
	if d := breaks[1].At - breaks[0].At; d != 200000+4*slotNs {
		t.Errorf("Period is %dns", d)
	}
}

func TestBreakSerialParams(t *testing.T) {
	rig, s := newRig(t, dmxhal.FamilyLPUART, dmxhal.ChipIMXRT1062)
	if err := s.SetBreakSerialParams(100000, dmxhal.Format8E1); err != nil {
		t.Fatal(err)
	}
	s.SetPacketSize(2)

	s.Begin()
	runPackets(t, rig, s, 1)
	s.End()

	/* Start, eight zero data bits and a zero even parity bit */
	trace := rig.Trace()
	if b := trace.Breaks()[0].Ns; b != 100000 {
		t.Errorf("BREAK is %dns", b)
	}
	if m := trace.MABs()[0]; m != 10000 {
		t.Errorf("MAB is %dns", m)
	}
}

func TestSet16NotTorn(t *testing.T) {
	rig, s := newRig(t, dmxhal.FamilyUART, dmxhal.ChipGeneric)
	s.SetPacketSize(3)

	s.Begin()
	rig.Clock.RunWhile(func() bool { return s.Phase() != dmxhal.PhaseData }, time.Second)

	line := rig.Device.Line()
	ran := 0
	restore := dmxhal.SetTestHookPreempt(func() {
		if line.Enabled() {
			t.Error("Interrupt enabled in the middle of Set16")
		}
		if line.Preempt() {
			ran++
		}
	})
	defer restore()

	for v := uint16(0); v < 200; v++ {
		s.Set16(1, v<<8|v)
		rig.Clock.Run(20 * time.Microsecond)
	}
	s.End()

	if ran != 0 {
		t.Fatalf("Handler ran %d times inside Set16", ran)
	}
	for i, p := range rig.Trace().Packets() {
		if len(p) == 3 && p[1] != p[2] {
			t.Fatalf("Packet %d carries a torn value %02x%02x", i, p[1], p[2])
		}
	}
}

func TestEviction(t *testing.T) {
	rig, a := newRig(t, dmxhal.FamilyUART, dmxhal.ChipGeneric)
	b, err := rig.NewSender(dmxhal.Config{})
	if err != nil {
		t.Fatal(err)
	}
	a.SetPacketSize(2)
	b.SetPacketSize(3)

	a.Begin()
	runPackets(t, rig, a, 1)

	b.Begin()
	if a.Began() || rig.Registry.Owner(0) != b {
		t.Fatal("Second sender did not take over")
	}
	aCount := a.PacketCount()

	runPackets(t, rig, b, 2)
	if a.PacketCount() != aCount {
		t.Fatal("Evicted sender still receives interrupts")
	}
	b.End()

	if rig.Registry.Owner(0) != nil {
		t.Fatal("Peripheral still owned")
	}
}
