package main

import (
	"errors"
	"fmt"
	"time"
)

type SendCmd struct {
	Scene    string        `arg:"" optional:"" name:"scene" help:"Scene to send, the first one if omitted."`
	Count    int           `optional:"" help:"Number of packets to send, 0 sends until the duration is over."`
	Duration time.Duration `optional:"" help:"How long to send, 0 is forever." default:"1s"`

	StartCode int `optional:"" type:"hex" help:"Start code (hex) to send instead of the one of the scene." default:"-1"`
}

func (l *SendCmd) Run(c *Context) error {
	if l.Count < 0 {
		return errors.New("Count must not be negative")
	}
	if l.StartCode > 0xFF {
		return fmt.Errorf("Start code %x does not fit in a slot", l.StartCode)
	}

	scene, err := c.scene(l.Scene)
	if err != nil {
		return err
	}
	if l.StartCode >= 0 {
		override := *scene
		override.StartCode = uint8(l.StartCode)
		scene = &override
	}
	if err := c.open(nil); err != nil {
		return err
	}
	if err := scene.Apply(c.sender); err != nil {
		return err
	}

	if l.Count > 0 {
		c.sender.Pause()
		if err := c.sender.ResumeFor(l.Count); err != nil {
			return err
		}
	}

	start := time.Now()
	c.sender.Begin()

	finished := c.run(l.Duration, func() bool {
		return l.Count > 0 && !c.sender.IsTransmitting()
	})

	elapsed := c.elapsed(start)
	count := c.sender.PacketCount()
	c.sender.End()

	fmt.Printf("Sent %d packets of scene %s in %s (CRC %04x)", count, scene.Name, elapsed.Round(time.Millisecond), c.sender.Checksum())
	if elapsed > 0 {
		fmt.Printf(", %.1f packets/s", float64(count)/elapsed.Seconds())
	}
	fmt.Println()

	if l.Count > 0 && !finished {
		return fmt.Errorf("Only %d of %d packets were sent", count, l.Count)
	}
	return nil
}
