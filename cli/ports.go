package main

import (
	"fmt"

	"github.com/BertoldVdb/dmx-tools/ttyio"
)

type ListPortsCmd struct {
	USB bool `optional:"" name:"usb" help:"Only show USB adapters."`
}

func (l *ListPortsCmd) Run(c *Context) error {
	ports, err := ttyio.List()
	if err != nil {
		return err
	}

	for _, p := range ports {
		if l.USB && !p.IsUSB {
			continue
		}

		fmt.Printf("%s\n", p.Name)
		if p.IsUSB {
			fmt.Printf("\tID           %s:%s\n", p.VID, p.PID)
			fmt.Printf("\tSerialNbr    %s\n", p.SerialNumber)
		}
	}
	return nil
}
