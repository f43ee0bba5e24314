package config

import (
	"fmt"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
)

const maxChannel = dmxhal.MaxPacketSize - 1

// Validate checks a configuration without changing it.
func Validate(cfg *Config) error {
	t := cfg.Transmitter

	if t.Port == "" {
		return fmt.Errorf("transmitter.port: must be set")
	}

	if t.Family != "" {
		f, err := dmxhal.ParseFamily(t.Family)
		if err != nil {
			return fmt.Errorf("transmitter.family: %w", err)
		}
		if t.Port == SimPort && f == dmxhal.FamilyTTY {
			return fmt.Errorf("transmitter.family: the simulator has no %s model", f)
		}
		if t.Port != SimPort && f != dmxhal.FamilyTTY {
			return fmt.Errorf("transmitter.family: %s needs port %q", f, SimPort)
		}
	}

	chip := dmxhal.ChipGeneric
	if t.Chip != "" {
		c, err := dmxhal.ParseChip(t.Chip)
		if err != nil {
			return fmt.Errorf("transmitter.chip: %w", err)
		}
		chip = c
	}

	if t.Index < 0 || t.Index >= chip.Peripherals() {
		return fmt.Errorf("transmitter.index: %d out of range 0..%d for %s", t.Index, chip.Peripherals()-1, chip)
	}

	if t.Refresh != "" {
		if _, err := dmxhal.ParsePacing(t.Refresh); err != nil {
			return fmt.Errorf("transmitter.refresh: %w", err)
		}
	}

	if t.PacketSize < 0 || t.PacketSize > dmxhal.MaxPacketSize {
		return fmt.Errorf("transmitter.packet_size: %d out of range 1..%d", t.PacketSize, dmxhal.MaxPacketSize)
	}

	if t.Break.Format != "" {
		f, err := dmxhal.ParseFormat(t.Break.Format)
		if err != nil {
			return fmt.Errorf("transmitter.break.format: %w", err)
		}
		if f&dmxhal.FormatTXInv != 0 {
			return fmt.Errorf("transmitter.break.format: TXINV cannot be used for BREAK")
		}
		if f.NineBit() && !t.NineBitFormats {
			return fmt.Errorf("transmitter.break.format: %s needs nine_bit_formats", f)
		}
	}

	names := make(map[string]bool)
	for i, s := range cfg.Scenes {
		if s.Name == "" {
			return fmt.Errorf("scenes[%d].name: must be set", i)
		}
		if names[s.Name] {
			return fmt.Errorf("scenes[%d].name: duplicate scene %q", i, s.Name)
		}
		names[s.Name] = true

		for ch := range s.Channels {
			if ch < 1 || ch > maxChannel {
				return fmt.Errorf("scenes[%d].channels: channel %d out of range 1..%d", i, ch, maxChannel)
			}
		}
		for ch := range s.Wide {
			if ch < 1 || ch > maxChannel-1 {
				return fmt.Errorf("scenes[%d].wide: channel %d out of range 1..%d", i, ch, maxChannel-1)
			}
		}
		for j, r := range s.Ranges {
			if r.Start < 1 || r.Start > maxChannel {
				return fmt.Errorf("scenes[%d].ranges[%d].start: channel %d out of range 1..%d", i, j, r.Start, maxChannel)
			}
			if r.Start+len(r.Values)-1 > maxChannel {
				return fmt.Errorf("scenes[%d].ranges[%d].values: %d values do not fit after channel %d", i, j, len(r.Values), r.Start)
			}
		}
	}

	return nil
}
