package dmxhal

import (
	"github.com/sigurn/crc16"
)

var crcTab = crc16.MakeTable(crc16.CRC16_XMODEM)

// Set writes one slot. Slot 0 is the start code.
func (s *Sender) Set(channel int, value uint8) error {
	if channel < 0 || channel >= MaxPacketSize {
		return ErrorInvalidChannel
	}

	g := s.lock()
	defer g.unlock()

	s.buf[channel] = value
	return nil
}

// Set16 writes a big-endian 16-bit value to channel and channel+1.
func (s *Sender) Set16(channel int, value uint16) error {
	if channel < 0 || channel >= MaxPacketSize-1 {
		return ErrorInvalidChannel
	}

	g := s.lock()
	defer g.unlock()

	s.buf[channel] = uint8(value >> 8)
	testHookPreempt()
	s.buf[channel+1] = uint8(value)
	return nil
}

func (s *Sender) SetRange(start int, values []uint8) error {
	if start < 0 || start >= MaxPacketSize {
		return ErrorInvalidChannel
	}
	if len(values) == 0 {
		return nil
	}
	if len(values) > MaxPacketSize-start {
		return ErrorInvalidLength
	}

	g := s.lock()
	defer g.unlock()

	copy(s.buf[start:], values)
	return nil
}

func (s *Sender) SetRange16(start int, values []uint16) error {
	if start < 0 || start >= MaxPacketSize {
		return ErrorInvalidChannel
	}
	if len(values) == 0 {
		return nil
	}
	if len(values) > (MaxPacketSize-start)/2 {
		return ErrorInvalidLength
	}

	g := s.lock()
	defer g.unlock()

	for _, v := range values {
		s.buf[start] = uint8(v >> 8)
		testHookPreempt()
		s.buf[start+1] = uint8(v)
		start += 2
	}
	return nil
}

func (s *Sender) Get(channel int) (uint8, error) {
	if channel < 0 || channel >= MaxPacketSize {
		return 0, ErrorInvalidChannel
	}

	g := s.lock()
	defer g.unlock()

	return s.buf[channel], nil
}

// Buffer copies the packet buffer into dst and returns the number of bytes
// copied.
func (s *Sender) Buffer(dst []byte) int {
	g := s.lock()
	defer g.unlock()

	return copy(dst, s.buf[:])
}

func (s *Sender) Clear() {
	g := s.lock()
	defer g.unlock()

	s.buf = [MaxPacketSize]byte{}
}

// Checksum is the CRC-16/XMODEM of the complete packet buffer.
func (s *Sender) Checksum() uint16 {
	g := s.lock()
	defer g.unlock()

	return crc16.Checksum(s.buf[:], crcTab)
}

// Checksum of a packet as returned by Sender.Checksum.
func Checksum(packet []byte) uint16 {
	return crc16.Checksum(packet, crcTab)
}

var testHookPreempt = func() {}
