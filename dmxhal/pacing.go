package dmxhal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type pacingKind int

const (
	pacingContinuous pacingKind = iota
	pacingOnce
	pacingRate
)

// Pacing is the refresh behaviour of a sender: one packet, back to back
// packets, or a fixed number of packets per second.
type Pacing struct {
	kind pacingKind
	hz   float64
}

func Continuous() Pacing {
	return Pacing{kind: pacingContinuous}
}

func Once() Pacing {
	return Pacing{kind: pacingOnce}
}

func RateHz(hz float64) Pacing {
	return Pacing{kind: pacingRate, hz: hz}
}

// PacingFromRate maps a refresh rate in Hz onto a Pacing. Zero sends a
// single packet and +Inf sends as fast as possible.
func PacingFromRate(hz float64) (Pacing, error) {
	switch {
	case math.IsNaN(hz) || hz < 0:
		return Pacing{}, ErrorInvalidRate
	case hz == 0:
		return Once(), nil
	case math.IsInf(hz, 1):
		return Continuous(), nil
	}
	return RateHz(hz), nil
}

func (p Pacing) valid() bool {
	if p.kind != pacingRate {
		return true
	}
	return !math.IsNaN(p.hz) && !math.IsInf(p.hz, 0) && p.hz > 0
}

func (p Pacing) IsOnce() bool {
	return p.kind == pacingOnce
}

func (p Pacing) IsContinuous() bool {
	return p.kind == pacingContinuous
}

func (p Pacing) Hz() float64 {
	switch p.kind {
	case pacingOnce:
		return 0
	case pacingContinuous:
		return math.Inf(1)
	}
	return p.hz
}

// Period returns the BREAK to BREAK time in microseconds. It reports false
// when the period is infinite.
func (p Pacing) Period() (uint32, bool) {
	switch p.kind {
	case pacingOnce:
		return 0, false
	case pacingContinuous:
		return 0, true
	}

	us := 1000000 / p.hz
	if us >= math.MaxUint32 {
		return math.MaxUint32, true
	}
	return uint32(us), true
}

func (p Pacing) String() string {
	switch p.kind {
	case pacingOnce:
		return "once"
	case pacingContinuous:
		return "continuous"
	}
	return strconv.FormatFloat(p.hz, 'g', -1, 64) + "Hz"
}

func ParsePacing(str string) (Pacing, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "once":
		return Once(), nil
	case "", "max", "continuous", "inf":
		return Continuous(), nil
	}

	hz, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(str), "Hz"), 64)
	if err != nil {
		return Pacing{}, fmt.Errorf("invalid refresh rate %q", str)
	}
	return PacingFromRate(hz)
}
