package main

import (
	"fmt"
	"time"

	"github.com/BertoldVdb/dmx-tools/config"
	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/inancgumus/screen"
)

type MonitorCmd struct {
	Scenes []string      `arg:"" optional:"" name:"scenes" help:"Scenes to cycle through, all if omitted."`
	Hold   time.Duration `optional:"" help:"How long every scene is shown." default:"2s"`
	Loop   int           `optional:"" help:"0=Mark changes since start, 1=Mark changes since previous refresh."`
}

func (l *MonitorCmd) Run(c *Context) error {
	var scenes []*config.SceneConfig
	for _, name := range l.Scenes {
		scene, err := c.show.Scene(name)
		if err != nil {
			return err
		}
		scenes = append(scenes, scene)
	}
	if len(scenes) == 0 {
		for i := range c.show.Scenes {
			scenes = append(scenes, &c.show.Scenes[i])
		}
	}
	if len(scenes) == 0 {
		scene, _ := c.scene("")
		scenes = append(scenes, scene)
	}

	if err := c.open(nil); err != nil {
		return err
	}
	if err := scenes[0].Apply(c.sender); err != nil {
		return err
	}

	start := time.Now()
	c.sender.Begin()

	size := c.sender.PacketSize()
	buf := make([]byte, dmxhal.MaxPacketSize)
	var oldBuf []byte
	var mark []bool

	current := 0
	shown := time.Duration(0)
	for {
		refreshStart := time.Now()

		if len(scenes) > 1 && shown >= l.Hold {
			current = (current + 1) % len(scenes)
			if err := scenes[current].Apply(c.sender); err != nil {
				return err
			}
			shown = 0
		}

		c.sender.Buffer(buf)
		if l.Loop == 1 || mark == nil {
			mark = make([]bool, len(buf))
		}
		if oldBuf != nil {
			for i := range buf {
				if buf[i] != oldBuf[i] {
					mark[i] = true
				}
			}
		}

		elapsed := c.elapsed(start)
		count := c.sender.PacketCount()

		screen.Clear()
		screen.MoveTopLeft()
		fmt.Printf("%s  scene %s  %s  %d packets", c.show.Transmitter.Port, scenes[current].Name, c.sender.Phase(), count)
		if elapsed > 0 {
			fmt.Printf("  %.1f packets/s", float64(count)/elapsed.Seconds())
		}
		fmt.Printf("  CRC %04x\n\n", c.sender.Checksum())
		fmt.Println(slotdump(buf, size, mark))

		oldBuf = append(oldBuf[:0], buf...)

		td := 200 * time.Millisecond
		if c.rig != nil {
			c.run(td, func() bool { return false })
		}
		d := time.Now().Sub(refreshStart)
		if d < td {
			time.Sleep(td - d)
		}
		shown += td
	}
}
