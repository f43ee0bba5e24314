package sim

import (
	"fmt"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
)

// Device is a simulated serial peripheral.
type Device interface {
	dmxhal.RegisterRegion
	Line() *Line
	Peripheral(index int) dmxhal.Peripheral
}

const (
	DefaultUARTClock   = 48000000
	DefaultUARTFIFO    = 8
	DefaultLPUARTClock = 24000000
	DefaultLPUARTFIFO  = 4
)

// Rig connects a simulated peripheral, its interrupt vector and a timer
// to one clock.
type Rig struct {
	Clock    *Clock
	Timer    *Timer
	Registry *dmxhal.Registry
	Device   Device
	Index    int
}

func NewRig(family dmxhal.Family, index int) (*Rig, error) {
	clock := NewClock()
	registry := dmxhal.NewRegistry()

	var dev Device
	switch family {
	case dmxhal.FamilyUART:
		dev = NewUART(clock, DefaultUARTClock, DefaultUARTFIFO)
	case dmxhal.FamilyLPUART:
		dev = NewLPUART(clock, DefaultLPUARTClock, DefaultLPUARTFIFO)
	default:
		return nil, fmt.Errorf("No simulation model for %s", family)
	}
	dev.Line().SetVector(registry.Vector(index))

	return &Rig{
		Clock:    clock,
		Timer:    NewTimer(clock),
		Registry: registry,
		Device:   dev,
		Index:    index,
	}, nil
}

func (r *Rig) Trace() *Trace {
	return r.Device.Line().Trace()
}

// NewSender creates a sender for the simulated peripheral. Registry, timer
// and clock are taken from the rig unless set in config.
func (r *Rig) NewSender(config dmxhal.Config) (*dmxhal.Sender, error) {
	if config.Registry == nil {
		config.Registry = r.Registry
	}
	if config.Timer == nil {
		config.Timer = r.Timer
	}
	if config.Clock == nil {
		config.Clock = r.Clock
	}
	return dmxhal.New(r.Device.Peripheral(r.Index), config)
}
