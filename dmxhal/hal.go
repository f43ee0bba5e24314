package dmxhal

import (
	"fmt"
	"strings"

	"github.com/BertoldVdb/dmx-tools/ttyio"
)

type LogFunc func(level int, format string, param ...interface{})

type Chip int

const (
	ChipGeneric Chip = iota
	ChipMK20DX
	ChipMKL26Z64
	ChipMK64FX512
	ChipMK66FX1M0
	ChipIMXRT1062
	ChipIMXRT1062Teensy41
	ChipIMXRT1052
)

type chipInfo struct {
	name          string
	peripherals   int
	breakAdjust   uint32
	mabAdjust     uint32
	twoStopParity bool
}

/* The adjustments are measured on real boards at 180us BREAK and 20us MAB.
 * They are added to the BREAK and subtracted from the MAB. */
var chips = map[Chip]chipInfo{
	ChipGeneric:           {"Generic", MaxPeripherals, 0, 0, true},
	ChipMK20DX:            {"MK20DX", 3, 1, 7, false},
	ChipMKL26Z64:          {"MKL26Z64", 3, 5, 12, true},
	ChipMK64FX512:         {"MK64FX512", 6, 1, 5, true},
	ChipMK66FX1M0:         {"MK66FX1M0", 6, 1, 4, true},
	ChipIMXRT1062:         {"IMXRT1062", 7, 0, 1, true},
	ChipIMXRT1062Teensy41: {"IMXRT1062-T41", 8, 0, 1, true},
	ChipIMXRT1052:         {"IMXRT1052", 8, 0, 1, true},
}

func (c Chip) info() chipInfo {
	if i, ok := chips[c]; ok {
		return i
	}
	return chips[ChipGeneric]
}

func (c Chip) String() string {
	return c.info().name
}

// Peripherals is the number of serial transmitters the chip exposes.
func (c Chip) Peripherals() int {
	return c.info().peripherals
}

func (c Chip) Adjustments() (breakAdjust uint32, mabAdjust uint32) {
	i := c.info()
	return i.breakAdjust, i.mabAdjust
}

func ParseChip(name string) (Chip, error) {
	for c, i := range chips {
		if strings.EqualFold(i.name, name) {
			return c, nil
		}
	}
	return ChipGeneric, fmt.Errorf("unknown chip %q", name)
}

type Family int

const (
	FamilyNone Family = iota
	FamilyUART
	FamilyLPUART
	FamilyTTY
)

func (f Family) String() string {
	switch f {
	case FamilyUART:
		return "UART"
	case FamilyLPUART:
		return "LPUART"
	case FamilyTTY:
		return "TTY"
	}
	return "None"
}

func ParseFamily(name string) (Family, error) {
	for _, f := range []Family{FamilyUART, FamilyLPUART, FamilyTTY} {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return FamilyNone, fmt.Errorf("unknown peripheral family %q", name)
}

// Peripheral describes one physical serial transmitter.
type Peripheral struct {
	Index  int
	Family Family

	/* UART and LPUART families */
	Regs      RegisterRegion
	IRQ       IRQController
	ClockHz   uint32
	FIFODepth int

	/* TTY family */
	TTY ttyio.Port

	Priority int
}

type Config struct {
	Chip Chip

	/* 9-bit BREAK formats need 9-bit support in the serial driver */
	NineBitFormats bool

	Registry *Registry
	Timer    IntervalTimer
	Clock    Clock

	/* Called from interrupt context on every phase change */
	PhaseHook func(phase Phase, micros uint32)

	LogFunc LogFunc
}

func New(p Peripheral, config Config) (*Sender, error) {
	if config.Registry == nil {
		config.Registry = DefaultRegistry
	}
	if config.Clock == nil {
		config.Clock = NewHostClock()
	}
	if config.Timer == nil {
		config.Timer = NewHostTimer()
	}

	s := newSender(p.Index, config)

	if p.Index < 0 || p.Index >= config.Chip.Peripherals() || p.Index >= MaxPeripherals {
		s.logf(1, "Peripheral %d is not available on %s, sender is unbound", p.Index, config.Chip)
		return s, nil
	}

	var err error
	switch p.Family {
	case FamilyUART:
		s.handler, err = newUARTHandler(s, p)
	case FamilyLPUART:
		s.handler, err = newLPUARTHandler(s, p)
	case FamilyTTY:
		s.handler, err = newTTYHandler(s, p)
	default:
		return nil, ErrorUnknownFamily
	}
	if err != nil {
		return nil, err
	}

	s.bound = true
	s.handler.BreakSerialParamsChanged()
	s.logf(1, "Sender on %s %d (%s)", p.Family, p.Index, config.Chip)

	return s, nil
}

func (s *Sender) logf(level int, format string, param ...interface{}) {
	if s.config.LogFunc != nil {
		s.config.LogFunc(level, format, param...)
	}
}
