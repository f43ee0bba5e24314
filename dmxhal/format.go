package dmxhal

import (
	"fmt"
	"strings"
)

/* Serial line format. The low nibble selects the character shape, the
 * modifier bits above it select line inversion. */
type Format uint32

const (
	Format8N1 Format = iota
	Format8N2
	Format8E1
	Format8O1
	Format8E2
	Format8O2
	Format7E1
	Format7O1
	Format9N1
	Format9E1
	Format9O1
	formatCount
)

const (
	FormatRXInv Format = 0x10
	FormatTXInv Format = 0x20

	formatModifiers = FormatRXInv | FormatTXInv
)

type Parity int

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

type frameShape struct {
	name     string
	dataBits int
	parity   Parity
	stopBits int
}

var frameShapes = [formatCount]frameShape{
	Format8N1: {"8N1", 8, ParityNone, 1},
	Format8N2: {"8N2", 8, ParityNone, 2},
	Format8E1: {"8E1", 8, ParityEven, 1},
	Format8O1: {"8O1", 8, ParityOdd, 1},
	Format8E2: {"8E2", 8, ParityEven, 2},
	Format8O2: {"8O2", 8, ParityOdd, 2},
	Format7E1: {"7E1", 7, ParityEven, 1},
	Format7O1: {"7O1", 7, ParityOdd, 1},
	Format9N1: {"9N1", 9, ParityNone, 1},
	Format9E1: {"9E1", 9, ParityEven, 1},
	Format9O1: {"9O1", 9, ParityOdd, 1},
}

func (f Format) Base() Format {
	return f &^ formatModifiers
}

func (f Format) shape() (frameShape, bool) {
	b := f.Base()
	if b >= formatCount {
		return frameShape{}, false
	}
	return frameShapes[b], true
}

func (f Format) Valid() bool {
	_, ok := f.shape()
	return ok && f&^(formatModifiers|0xf) == 0
}

func (f Format) DataBits() int {
	s, _ := f.shape()
	return s.dataBits
}

func (f Format) Parity() Parity {
	s, _ := f.shape()
	return s.parity
}

func (f Format) StopBits() int {
	s, _ := f.shape()
	return s.stopBits
}

func (f Format) NineBit() bool {
	return f.DataBits() == 9
}

// FrameBits is the length of one character including start, parity and stop bits.
func (f Format) FrameBits() int {
	s, ok := f.shape()
	if !ok {
		return 0
	}
	n := 1 + s.dataBits + s.stopBits
	if s.parity != ParityNone {
		n++
	}
	return n
}

/* A zero byte keeps the line low for the start bit, every data bit and an
 * even parity bit. Odd parity and the stop bits are the mark that follows. */
func (f Format) breakBits() (int, bool) {
	s, ok := f.shape()
	if !ok {
		return 0, false
	}
	n := 1 + s.dataBits
	if s.parity == ParityEven {
		n++
	}
	return n, true
}

func (f Format) mabBits() (int, bool) {
	s, ok := f.shape()
	if !ok {
		return 0, false
	}
	n := s.stopBits
	if s.parity == ParityOdd {
		n++
	}
	return n, true
}

func (f Format) String() string {
	s, ok := f.shape()
	if !ok {
		return fmt.Sprintf("Format(%#x)", uint32(f))
	}
	str := s.name
	if f&FormatRXInv != 0 {
		str += "+RXINV"
	}
	if f&FormatTXInv != 0 {
		str += "+TXINV"
	}
	return str
}

// ParseFormat accepts names like "8N1", "8e2" or "8N1+RXINV".
func ParseFormat(str string) (Format, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(str)), "+")

	var f Format
	found := false
	for i, s := range frameShapes {
		if s.name == parts[0] {
			f = Format(i)
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("unknown serial format %q", str)
	}

	for _, m := range parts[1:] {
		switch m {
		case "RXINV":
			f |= FormatRXInv
		case "TXINV":
			f |= FormatTXInv
		default:
			return 0, fmt.Errorf("unknown serial format modifier %q", m)
		}
	}
	return f, nil
}
