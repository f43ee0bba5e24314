package dmxhal

import "errors"

var (
	ErrorUnknownFamily    = errors.New("Unsupported peripheral family")
	ErrorMissingRegisters = errors.New("Peripheral has no register block")
	ErrorMissingIRQ       = errors.New("Peripheral has no interrupt controller")
	ErrorMissingPort      = errors.New("Peripheral has no serial port")
	ErrorInvalidChannel   = errors.New("Channel out of range")
	ErrorInvalidLength    = errors.New("Channel range exceeds the packet buffer")
	ErrorInvalidRate      = errors.New("Refresh rate must be a non-negative number")
	ErrorInvalidBaud      = errors.New("Baud rate must be non-zero")
	ErrorInvalidFormat    = errors.New("Serial format can't be used for BREAK")
	ErrorInvalidCount     = errors.New("Resume count must not be negative")
	ErrorInvalidSize      = errors.New("Packet size out of range")
	ErrorMissingFunction  = errors.New("This function is not supported by the peripheral")
)
