package main

import (
	"fmt"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/fatih/color"
)

/* Shortest BREAK and MAB a transmitter may produce */
const (
	minBreakUs = 92
	minMABUs   = 12
)

type TimingCmd struct {
	Baud   uint32        `arg:"" optional:"" name:"baud" help:"BREAK baud rate." default:"50000"`
	Format dmxhal.Format `arg:"" optional:"" name:"format" type:"format" help:"BREAK serial format, for example 8N1." default:"8N1"`

	Chip string `optional:"" help:"Also show the timer values used on this chip."`
}

func (l *TimingCmd) Run(c *Context) error {
	breakUs, mabUs, err := dmxhal.SerialBreakTimes(l.Baud, l.Format)
	if err != nil {
		return err
	}

	warn := color.New(color.FgRed)
	fmt.Printf("%d baud %s: %d bits per frame\n", l.Baud, l.Format, l.Format.FrameBits())

	fmt.Printf("  BREAK %4dus", breakUs)
	if breakUs < minBreakUs {
		warn.Printf("  shorter than %dus", minBreakUs)
	}
	fmt.Println()

	fmt.Printf("  MAB   %4dus", mabUs)
	if mabUs < minMABUs {
		warn.Printf("  shorter than %dus", minMABUs)
	}
	fmt.Println()

	if l.Chip != "" {
		chip, err := dmxhal.ParseChip(l.Chip)
		if err != nil {
			return err
		}

		breakAdjust, mabAdjust := chip.Adjustments()
		fmt.Printf("Timer BREAK on %s: BREAK timer +%dus, MAB timer -%dus\n", chip, breakAdjust, mabAdjust)
	}
	return nil
}
