package main

import (
	"fmt"
	"time"

	"github.com/BertoldVdb/dmx-tools/config"
	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/fatih/color"
)

type SimCmd struct {
	Scene   string        `arg:"" optional:"" name:"scene" help:"Scene to send, the first one if omitted."`
	Packets int           `optional:"" help:"Number of packets to simulate." default:"3"`
	Timeout time.Duration `optional:"" help:"Virtual time limit." default:"10s"`
	Phases  bool          `optional:"" help:"Print every phase change."`
}

var phaseColors = map[dmxhal.Phase]*color.Color{
	dmxhal.PhaseIdle:       color.New(color.Faint),
	dmxhal.PhaseBreak:      color.New(color.FgYellow),
	dmxhal.PhaseMAB:        color.New(color.FgCyan),
	dmxhal.PhaseData:       color.New(color.FgGreen),
	dmxhal.PhaseCompleting: color.New(color.FgMagenta),
}

func (l *SimCmd) Run(c *Context) error {
	t := &c.show.Transmitter
	if t.Port != config.SimPort {
		t.Port = config.SimPort
		t.Family = dmxhal.FamilyUART.String()
	}

	scene, err := c.scene(l.Scene)
	if err != nil {
		return err
	}

	var hook func(phase dmxhal.Phase, micros uint32)
	if l.Phases {
		hook = func(phase dmxhal.Phase, micros uint32) {
			fmt.Printf("%10dus  %s\n", micros, phaseColors[phase].Sprint(phase))
		}
	}
	if err := c.open(hook); err != nil {
		return err
	}
	if err := scene.Apply(c.sender); err != nil {
		return err
	}

	want := uint32(l.Packets)
	c.sender.Begin()
	finished := c.run(l.Timeout, func() bool {
		return c.sender.PacketCount() >= want
	})
	c.sender.End()

	trace := c.rig.Trace()
	breaks := trace.Breaks()
	mabs := trace.MABs()
	packets := trace.Packets()

	fmt.Printf("%s %d on %s, %s, BREAK by %s\n", t.FamilyType(), t.Index, t.ChipType(), c.sender.Pacing(), breakSource(c.sender))
	for i, b := range breaks {
		fmt.Printf("#%-3d at %10.1fus  BREAK %6.1fus", i, nsToUs(b.At), nsToUs(b.Ns))
		if i < len(mabs) {
			fmt.Printf("  MAB %5.1fus", nsToUs(mabs[i]))
		}
		if i < len(packets) {
			fmt.Printf("  %3d slots", len(packets[i]))
		}
		if i > 0 {
			fmt.Printf("  period %8.1fus", nsToUs(b.At-breaks[i-1].At))
		}
		fmt.Println()
	}

	if !finished {
		return fmt.Errorf("Only %d of %d packets completed in %s", c.sender.PacketCount(), want, l.Timeout)
	}
	return nil
}

func breakSource(s *dmxhal.Sender) string {
	if s.IsBreakUseTimer() {
		return "timer"
	}
	return fmt.Sprintf("%d baud %s", s.BreakSerialBaud(), s.BreakSerialFormat())
}

func nsToUs(ns uint64) float64 {
	return float64(ns) / 1000
}
