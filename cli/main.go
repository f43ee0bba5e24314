package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BertoldVdb/dmx-tools/config"
	"github.com/BertoldVdb/dmx-tools/dmxhal"
	"github.com/BertoldVdb/dmx-tools/dmxhal/sim"
	"github.com/BertoldVdb/dmx-tools/ttyio"
	"github.com/alecthomas/kong"
)

type Context struct {
	show   *config.Config
	sender *dmxhal.Sender
	rig    *sim.Rig
	port   ttyio.Port
}

var CLI struct {
	Show     string `optional:"" type:"path" help:"Show file with transmitter settings and scenes."`
	Port     string `optional:"" help:"Serial port, or \"sim\" for the simulated peripheral. Ignored with --show." default:"sim"`
	Family   string `optional:"" help:"Peripheral family (uart, lpuart, tty). Ignored with --show."`
	Chip     string `optional:"" help:"Chip type, selects timing adjustments. Ignored with --show."`
	Index    int    `optional:"" type:"int" help:"Peripheral index. Ignored with --show."`
	Refresh  string `optional:"" help:"Packets per second, once or max. Ignored with --show."`
	LogLevel int    `optional:"" help:"Higher values give more output."`

	ListPorts ListPortsCmd `cmd:"" help:"List serial ports."`
	Timing    TimingCmd    `cmd:"" help:"Show the BREAK and MAB produced by a BREAK baud rate and format."`
	Dump      DumpCmd      `cmd:"" help:"Show the packet of a scene."`
	Send      SendCmd      `cmd:"" help:"Transmit a scene."`
	Sim       SimCmd       `cmd:"" help:"Transmit on the simulated peripheral and print what the line does."`
	Monitor   MonitorCmd   `cmd:"" help:"Transmit scenes and show the packet buffer live."`
}

func logFunc(level int, format string, param ...interface{}) {
	if level > CLI.LogLevel {
		return
	}
	str := fmt.Sprintf(format, param...)
	fmt.Printf("DMX(%d): %s\n", level, str)
}

func loadShow() (*config.Config, error) {
	if CLI.Show != "" {
		return config.Load(CLI.Show)
	}

	cfg := &config.Config{
		Transmitter: config.TransmitterConfig{
			Port:    CLI.Port,
			Family:  CLI.Family,
			Chip:    CLI.Chip,
			Index:   CLI.Index,
			Refresh: CLI.Refresh,
		},
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

// open creates the sender described by the show. hook may be nil.
func (c *Context) open(hook func(phase dmxhal.Phase, micros uint32)) error {
	t := &c.show.Transmitter
	dmxConfig := dmxhal.Config{
		Chip:           t.ChipType(),
		NineBitFormats: t.NineBitFormats,
		PhaseHook:      hook,
		LogFunc:        logFunc,
	}

	var err error
	if t.Port == config.SimPort {
		c.rig, err = sim.NewRig(t.FamilyType(), t.Index)
		if err != nil {
			return err
		}
		c.sender, err = c.rig.NewSender(dmxConfig)
	} else {
		c.port, err = ttyio.Open(t.Port)
		if err != nil {
			return fmt.Errorf("Failed to open %s: %w", t.Port, err)
		}
		c.sender, err = dmxhal.New(dmxhal.Peripheral{
			Index:  t.Index,
			Family: dmxhal.FamilyTTY,
			TTY:    c.port,
		}, dmxConfig)
	}
	if err != nil {
		return err
	}
	if !c.sender.Bound() {
		return fmt.Errorf("Peripheral %d is not available", t.Index)
	}

	return t.Setup(c.sender)
}

func (c *Context) close() {
	if c.sender != nil {
		c.sender.End()
	}
	if c.port != nil {
		c.port.Close()
	}
}

// scene returns the named scene, the first one if name is empty, or an
// all zero scene if the show has none.
func (c *Context) scene(name string) (*config.SceneConfig, error) {
	if name != "" {
		return c.show.Scene(name)
	}
	if len(c.show.Scenes) > 0 {
		return &c.show.Scenes[0], nil
	}
	return &config.SceneConfig{Name: "blackout"}, nil
}

// run lets the sender work until done returns true or d has passed. On the
// simulator d is virtual time and zero means one hour. A zero d on real
// hardware waits forever.
func (c *Context) run(d time.Duration, done func() bool) bool {
	if c.rig != nil {
		if d == 0 {
			d = time.Hour
		}
		return c.rig.Clock.RunWhile(func() bool { return !done() }, d)
	}

	deadline := time.Now().Add(d)
	for !done() {
		if d > 0 && time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
	return true
}

func (c *Context) elapsed(start time.Time) time.Duration {
	if c.rig != nil {
		return c.rig.Clock.Elapsed()
	}
	return time.Since(start)
}

func main() {
	k, err := kong.New(&CLI, mappers()...)
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		return
	}

	c := &Context{}
	defer c.close()

	switch strings.Fields(ctx.Command())[0] {
	case "list-ports", "timing":
	default:
		c.show, err = loadShow()
		if err != nil {
			fmt.Println("Failed to load show", err)
			return
		}
	}

	err = ctx.Run(c)
	ctx.FatalIfErrorf(err)
}
