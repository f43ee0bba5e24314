// Package ttyio drives a host serial adapter for DMX output.
package ttyio

import (
	"errors"

	"go.bug.st/serial/enumerator"
)

type Parity int

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "E"
	case ParityOdd:
		return "O"
	}
	return "N"
}

var (
	ErrorNotSupported = errors.New("Operation is not supported on this platform")
	ErrorInvalidLine  = errors.New("Line settings are not supported")
	ErrorClosed       = errors.New("Port is closed")
)

type Port interface {
	SetLine(baud int, dataBits int, parity Parity, stopBits int) error
	Write(b []byte) (int, error)
	// Drain blocks until everything written has left the transmitter.
	Drain() error
	// SetBreak holds the line low until it is called with false.
	SetBreak(on bool) error
	Close() error
}

func Open(path string) (Port, error) {
	return openInternal(path)
}

func checkLine(baud int, dataBits int, parity Parity, stopBits int) error {
	if baud <= 0 {
		return ErrorInvalidLine
	}
	if dataBits < 5 || dataBits > 8 {
		return ErrorInvalidLine
	}
	if parity < ParityNone || parity > ParityOdd {
		return ErrorInvalidLine
	}
	if stopBits != 1 && stopBits != 2 {
		return ErrorInvalidLine
	}
	return nil
}

type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
}

func List() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	result := make([]PortInfo, 0, len(ports))
	for _, p := range ports {
		result = append(result, PortInfo{
			Name:         p.Name,
			IsUSB:        p.IsUSB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
		})
	}
	return result, nil
}
