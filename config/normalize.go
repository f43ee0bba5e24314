package config

import (
	"github.com/BertoldVdb/dmx-tools/dmxhal"
)

// Normalize fills in defaults. It must be called after Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	t := &cfg.Transmitter
	if t.Family == "" {
		if t.Port == SimPort {
			t.Family = dmxhal.FamilyUART.String()
		} else {
			t.Family = dmxhal.FamilyTTY.String()
		}
	}
	if t.Chip == "" {
		t.Chip = dmxhal.ChipGeneric.String()
	}
	if t.Refresh == "" {
		t.Refresh = "max"
	}
	if t.PacketSize == 0 {
		t.PacketSize = dmxhal.MaxPacketSize
	}

	b := &t.Break
	if b.TimeUs == 0 {
		b.TimeUs = dmxhal.DefaultBreakTime
	}
	if b.MABUs == 0 {
		b.MABUs = dmxhal.DefaultMABTime
	}
	if b.Baud == 0 {
		b.Baud = dmxhal.DefaultBreakBaud
	}
	if b.Format == "" {
		b.Format = dmxhal.DefaultBreakFormat.String()
	}
}
