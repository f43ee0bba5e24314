//go:build !linux
// +build !linux

package ttyio

import (
	"sync"

	"go.bug.st/serial"
)

type ttySerial struct {
	sync.Mutex
	port serial.Port
}

func openInternal(path string) (Port, error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: 250000,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.TwoStopBits,
	})
	if err != nil {
		return nil, err
	}

	return &ttySerial{
		port: port,
	}, nil
}

func (t *ttySerial) SetLine(baud int, dataBits int, parity Parity, stopBits int) error {
	if err := checkLine(baud, dataBits, parity, stopBits); err != nil {
		return err
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: dataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	switch parity {
	case ParityEven:
		mode.Parity = serial.EvenParity
	case ParityOdd:
		mode.Parity = serial.OddParity
	}
	if stopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	t.Lock()
	defer t.Unlock()

	if t.port == nil {
		return ErrorClosed
	}
	return t.port.SetMode(mode)
}

func (t *ttySerial) Write(b []byte) (int, error) {
	t.Lock()
	port := t.port
	t.Unlock()

	if port == nil {
		return 0, ErrorClosed
	}
	return port.Write(b)
}

func (t *ttySerial) Drain() error {
	t.Lock()
	defer t.Unlock()

	if t.port == nil {
		return ErrorClosed
	}
	return t.port.Drain()
}

/* The portable driver can only send a timed break, not hold one */
func (t *ttySerial) SetBreak(on bool) error {
	return ErrorNotSupported
}

func (t *ttySerial) Close() error {
	t.Lock()
	defer t.Unlock()

	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}
