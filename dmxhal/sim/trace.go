package sim

type EventKind int

const (
	EventBreak EventKind = iota
	EventMark
	EventSlot
)

func (k EventKind) String() string {
	switch k {
	case EventBreak:
		return "BREAK"
	case EventMark:
		return "MARK"
	}
	return "SLOT"
}

// Event is a change on the wire. For a BREAK, Ns is how long the line
// stayed low.
type Event struct {
	Kind  EventKind
	At    uint64
	Value uint16
	Ns    uint64
}

/* A receiver accepts anything from 88us as a BREAK */
const DefaultBreakMinNs = 88000

// Trace records what a receiver on the line would see.
type Trace struct {
	Events     []Event
	BreakMinNs uint64

	holding int
}

func NewTrace() *Trace {
	return &Trace{
		BreakMinNs: DefaultBreakMinNs,
		holding:    -1,
	}
}

func (t *Trace) Reset() {
	t.Events = t.Events[:0]
	t.holding = -1
}

func (t *Trace) frame(at uint64, f Frame) {
	if f.LowNs >= t.BreakMinNs {
		t.Events = append(t.Events,
			Event{Kind: EventBreak, At: at, Ns: f.LowNs},
			Event{Kind: EventMark, At: at + f.LowNs})
		return
	}
	t.Events = append(t.Events, Event{Kind: EventSlot, At: at, Value: f.Value, Ns: f.Ns})
}

func (t *Trace) holdLow(at uint64) {
	t.holding = len(t.Events)
	t.Events = append(t.Events, Event{Kind: EventBreak, At: at})
}

func (t *Trace) release(at uint64) {
	if t.holding >= 0 {
		t.Events[t.holding].Ns = at - t.Events[t.holding].At
		t.holding = -1
	}
	t.Events = append(t.Events, Event{Kind: EventMark, At: at})
}

func (t *Trace) Breaks() []Event {
	var result []Event
	for _, e := range t.Events {
		if e.Kind == EventBreak {
			result = append(result, e)
		}
	}
	return result
}

// Packets returns the slots seen after every BREAK, start code first.
func (t *Trace) Packets() [][]byte {
	var result [][]byte
	for _, e := range t.Events {
		switch e.Kind {
		case EventBreak:
			result = append(result, []byte{})
		case EventSlot:
			if len(result) > 0 {
				result[len(result)-1] = append(result[len(result)-1], byte(e.Value))
			}
		}
	}
	return result
}

// MABs returns the time from the end of every BREAK to the first slot
// after it.
func (t *Trace) MABs() []uint64 {
	var result []uint64
	markAt := uint64(0)
	inMark := false
	for _, e := range t.Events {
		switch e.Kind {
		case EventMark:
			markAt = e.At
			inMark = true
		case EventSlot:
			if inMark {
				result = append(result, e.At-markAt)
				inMark = false
			}
		case EventBreak:
			inMark = false
		}
	}
	return result
}
