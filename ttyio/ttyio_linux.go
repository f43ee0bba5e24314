//go:build linux
// +build linux

package ttyio

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

/* termios2 with BOTHER takes any integer baud rate, which 250000 needs */
type ttyLinux struct {
	sync.Mutex
	dev *os.File
	fd  int
}

func openInternal(path string) (Port, error) {
	dev, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, err
	}

	t := &ttyLinux{
		dev: dev,
		fd:  int(dev.Fd()),
	}

	if err := t.SetLine(250000, 8, ParityNone, 2); err != nil {
		dev.Close()
		return nil, err
	}
	return t, nil
}

func (t *ttyLinux) SetLine(baud int, dataBits int, parity Parity, stopBits int) error {
	if err := checkLine(baud, dataBits, parity, stopBits); err != nil {
		return err
	}

	t.Lock()
	defer t.Unlock()

	if t.dev == nil {
		return ErrorClosed
	}

	tio, err := unix.IoctlGetTermios(t.fd, unix.TCGETS2)
	if err != nil {
		return os.NewSyscallError("TCGETS2", err)
	}

	tio.Iflag = 0
	tio.Oflag = 0
	tio.Lflag = 0
	tio.Cflag &^= unix.CBAUD | unix.CSIZE | unix.CSTOPB | unix.PARENB | unix.PARODD
	tio.Cflag |= unix.BOTHER | unix.CLOCAL | unix.CREAD

	switch dataBits {
	case 5:
		tio.Cflag |= unix.CS5
	case 6:
		tio.Cflag |= unix.CS6
	case 7:
		tio.Cflag |= unix.CS7
	default:
		tio.Cflag |= unix.CS8
	}
	switch parity {
	case ParityEven:
		tio.Cflag |= unix.PARENB
	case ParityOdd:
		tio.Cflag |= unix.PARENB | unix.PARODD
	}
	if stopBits == 2 {
		tio.Cflag |= unix.CSTOPB
	}

	tio.Ispeed = uint32(baud)
	tio.Ospeed = uint32(baud)
	tio.Cc[unix.VMIN] = 1
	tio.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(t.fd, unix.TCSETS2, tio); err != nil {
		return os.NewSyscallError("TCSETS2", err)
	}
	return nil
}

func (t *ttyLinux) Write(b []byte) (int, error) {
	t.Lock()
	dev := t.dev
	t.Unlock()

	if dev == nil {
		return 0, ErrorClosed
	}
	return dev.Write(b)
}

/* TCSBRK with a non-zero argument is tcdrain() */
func (t *ttyLinux) Drain() error {
	t.Lock()
	defer t.Unlock()

	if t.dev == nil {
		return ErrorClosed
	}
	if err := unix.IoctlSetInt(t.fd, unix.TCSBRK, 1); err != nil {
		return os.NewSyscallError("TCSBRK", err)
	}
	return nil
}

func (t *ttyLinux) SetBreak(on bool) error {
	t.Lock()
	defer t.Unlock()

	if t.dev == nil {
		return ErrorClosed
	}

	req, name := uint(unix.TIOCCBRK), "TIOCCBRK"
	if on {
		req, name = unix.TIOCSBRK, "TIOCSBRK"
	}
	if err := unix.IoctlSetInt(t.fd, req, 0); err != nil {
		return os.NewSyscallError(name, err)
	}
	return nil
}

func (t *ttyLinux) Close() error {
	t.Lock()
	defer t.Unlock()

	if t.dev == nil {
		return nil
	}
	err := t.dev.Close()
	t.dev = nil
	return err
}
