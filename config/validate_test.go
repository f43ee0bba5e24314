package config

import (
	"strings"
	"testing"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
)

const showFile = `
transmitter:
  port: sim
  family: lpuart
  chip: IMXRT1062
  index: 2
  refresh: "40"
  packet_size: 65
  break:
    use_timer: true
    time_us: 176
    mab_us: 12
scenes:
  - name: warm
    channels:
      1: 255
      5: 128
    wide:
      10: 4660
    ranges:
      - start: 20
        values: [1, 2, 3]
  - name: dark
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(showFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tx := cfg.Transmitter
	if tx.FamilyType() != dmxhal.FamilyLPUART {
		t.Errorf("Family is %s", tx.FamilyType())
	}
	if tx.ChipType() != dmxhal.ChipIMXRT1062 {
		t.Errorf("Chip is %s", tx.ChipType())
	}
	if tx.Pacing() != dmxhal.RateHz(40) {
		t.Errorf("Pacing is %s", tx.Pacing())
	}
	if tx.Break.Baud != dmxhal.DefaultBreakBaud || tx.BreakFormat() != dmxhal.Format8N1 {
		t.Errorf("BREAK defaults not applied: %d %s", tx.Break.Baud, tx.BreakFormat())
	}

	warm, err := cfg.Scene("warm")
	if err != nil {
		t.Fatal(err)
	}
	frame := warm.Frame()
	if len(frame) != dmxhal.MaxPacketSize {
		t.Fatalf("Frame has %d slots", len(frame))
	}
	want := map[int]byte{0: 0, 1: 255, 5: 128, 10: 0x12, 11: 0x34, 20: 1, 21: 2, 22: 3, 23: 0}
	for ch, v := range want {
		if frame[ch] != v {
			t.Errorf("Slot %d is %d, want %d", ch, frame[ch], v)
		}
	}

	if _, err := cfg.Scene("missing"); err == nil {
		t.Error("expected error for unknown scene")
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("transmitter:\n  port: /dev/ttyUSB0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tx := cfg.Transmitter
	if tx.FamilyType() != dmxhal.FamilyTTY {
		t.Errorf("Family is %s", tx.FamilyType())
	}
	if tx.ChipType() != dmxhal.ChipGeneric {
		t.Errorf("Chip is %s", tx.ChipType())
	}
	if !tx.Pacing().IsContinuous() {
		t.Errorf("Pacing is %s", tx.Pacing())
	}
	if tx.PacketSize != dmxhal.MaxPacketSize {
		t.Errorf("Packet size is %d", tx.PacketSize)
	}
	if tx.Break.TimeUs != dmxhal.DefaultBreakTime || tx.Break.MABUs != dmxhal.DefaultMABTime {
		t.Errorf("BREAK timing is %d/%d", tx.Break.TimeUs, tx.Break.MABUs)
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("transmitter:\n  port: sim\n  baud: 250000\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Transmitter: TransmitterConfig{Port: SimPort},
		}
	}

	tests := []struct {
		name   string
		modify func(c *Config)
		field  string
	}{
		{"ok", func(c *Config) {}, ""},
		{"no port", func(c *Config) { c.Transmitter.Port = "" }, "transmitter.port"},
		{"bad family", func(c *Config) { c.Transmitter.Family = "spi" }, "transmitter.family"},
		{"tty on sim", func(c *Config) { c.Transmitter.Family = "tty" }, "transmitter.family"},
		{"uart on tty", func(c *Config) {
			c.Transmitter.Port = "/dev/ttyUSB0"
			c.Transmitter.Family = "uart"
		}, "transmitter.family"},
		{"bad chip", func(c *Config) { c.Transmitter.Chip = "Z80" }, "transmitter.chip"},
		{"index", func(c *Config) {
			c.Transmitter.Chip = "MK20DX"
			c.Transmitter.Index = 3
		}, "transmitter.index"},
		{"refresh", func(c *Config) { c.Transmitter.Refresh = "-5" }, "transmitter.refresh"},
		{"packet size", func(c *Config) { c.Transmitter.PacketSize = 514 }, "transmitter.packet_size"},
		{"txinv", func(c *Config) { c.Transmitter.Break.Format = "8N1+TXINV" }, "transmitter.break.format"},
		{"nine bit", func(c *Config) { c.Transmitter.Break.Format = "9N1" }, "transmitter.break.format"},
		{"nine bit enabled", func(c *Config) {
			c.Transmitter.Break.Format = "9N1"
			c.Transmitter.NineBitFormats = true
		}, ""},
		{"scene name", func(c *Config) { c.Scenes = []SceneConfig{{}} }, "scenes[0].name"},
		{"duplicate scene", func(c *Config) {
			c.Scenes = []SceneConfig{{Name: "a"}, {Name: "a"}}
		}, "scenes[1].name"},
		{"channel 0", func(c *Config) {
			c.Scenes = []SceneConfig{{Name: "a", Channels: map[int]uint8{0: 1}}}
		}, "scenes[0].channels"},
		{"channel 513", func(c *Config) {
			c.Scenes = []SceneConfig{{Name: "a", Channels: map[int]uint8{513: 1}}}
		}, "scenes[0].channels"},
		{"wide 512", func(c *Config) {
			c.Scenes = []SceneConfig{{Name: "a", Wide: map[int]uint16{512: 1}}}
		}, "scenes[0].wide"},
		{"range overflow", func(c *Config) {
			c.Scenes = []SceneConfig{{Name: "a", Ranges: []RangeConfig{{Start: 511, Values: []uint8{1, 2, 3}}}}}
		}, "scenes[0].ranges[0].values"},
		{"range fits", func(c *Config) {
			c.Scenes = []SceneConfig{{Name: "a", Ranges: []RangeConfig{{Start: 510, Values: []uint8{1, 2, 3}}}}}
		}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.modify(c)

			err := Validate(c)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error on %s", tc.field)
			}
			if !strings.HasPrefix(err.Error(), tc.field+":") {
				t.Fatalf("error %q does not name %s", err, tc.field)
			}
		})
	}
}
