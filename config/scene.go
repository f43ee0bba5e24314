package config

import (
	"sort"

	"github.com/BertoldVdb/dmx-tools/dmxhal"
)

func sortedKeys(m map[int]uint8) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedWideKeys(m map[int]uint16) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Frame renders the scene as a complete packet, start code first. Ranges
// are applied first, then single channels, then 16-bit channels.
func (s *SceneConfig) Frame() []byte {
	frame := make([]byte, dmxhal.MaxPacketSize)
	frame[0] = s.StartCode

	for _, r := range s.Ranges {
		copy(frame[r.Start:], r.Values)
	}
	for _, ch := range sortedKeys(s.Channels) {
		frame[ch] = s.Channels[ch]
	}
	for _, ch := range sortedWideKeys(s.Wide) {
		frame[ch] = uint8(s.Wide[ch] >> 8)
		frame[ch+1] = uint8(s.Wide[ch])
	}
	return frame
}

// SlotWriter is the part of a sender a scene is written to.
type SlotWriter interface {
	SetRange(start int, values []uint8) error
}

// Apply replaces the whole packet buffer of a sender with the scene in one
// write, so a packet on the wire is either the old or the new scene.
func (s *SceneConfig) Apply(w SlotWriter) error {
	return w.SetRange(0, s.Frame())
}

/* ChipType, FamilyType, Pacing and BreakFormat expect a validated and
 * normalized transmitter */
func (t *TransmitterConfig) ChipType() dmxhal.Chip {
	c, _ := dmxhal.ParseChip(t.Chip)
	return c
}

func (t *TransmitterConfig) FamilyType() dmxhal.Family {
	f, _ := dmxhal.ParseFamily(t.Family)
	return f
}

func (t *TransmitterConfig) Pacing() dmxhal.Pacing {
	p, _ := dmxhal.ParsePacing(t.Refresh)
	return p
}

func (t *TransmitterConfig) BreakFormat() dmxhal.Format {
	f, _ := dmxhal.ParseFormat(t.Break.Format)
	return f
}

// Setup applies the transmitter settings to a sender.
func (t *TransmitterConfig) Setup(sender *dmxhal.Sender) error {
	if err := sender.SetPacketSize(t.PacketSize); err != nil {
		return err
	}
	if err := sender.SetPacing(t.Pacing()); err != nil {
		return err
	}
	if err := sender.SetBreakSerialParams(t.Break.Baud, t.BreakFormat()); err != nil {
		return err
	}
	sender.SetBreakTime(t.Break.TimeUs)
	sender.SetMABTime(t.Break.MABUs)
	return sender.SetBreakUseTimer(t.Break.UseTimer)
}
