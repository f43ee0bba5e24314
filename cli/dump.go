package main

import (
	"fmt"
	"io/ioutil"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
)

type DumpCmd struct {
	Scene    string `arg:"" optional:"" name:"scene" help:"Scene to show, the first one if omitted."`
	Filename string `optional:"" help:"File to write the packet to."`
	All      bool   `optional:"" help:"Show all scenes."`
}

func (l *DumpCmd) Run(c *Context) error {
	size := c.show.Transmitter.PacketSize

	if !l.All {
		scene, err := c.scene(l.Scene)
		if err != nil {
			return err
		}

		frame := scene.Frame()
		if l.Filename != "" {
			return ioutil.WriteFile(l.Filename, frame[:size], 0644)
		}
		printScene(scene.Name, frame, size, nil)
		return nil
	}

	/* Mark what changes from one scene to the next */
	var prev []byte
	for i := range c.show.Scenes {
		scene := &c.show.Scenes[i]
		frame := scene.Frame()

		var mark []bool
		if prev != nil {
			mark = make([]bool, len(frame))
			for j := range frame {
				mark[j] = frame[j] != prev[j]
			}
		}
		printScene(scene.Name, frame, size, mark)
		prev = frame
	}
	return nil
}

func printScene(name string, frame []byte, size int, mark []bool) {
	fmt.Printf("Scene %s: start code %#02x, %d slots, CRC %04x\n",
		name, frame[0], size, dmxhal.Checksum(frame))
	fmt.Println(slotdump(frame, size, mark))
}
