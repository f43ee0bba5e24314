// Package sim runs the transmit engine against models of the serial
// peripherals in virtual time.
package sim

import (
	"container/heap"
	"time"
)

type event struct {
	at    uint64
	seq   uint64
	fn    func()
	index int
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x interface{}) {
	e := x.(*event)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *eventQueue) Pop() interface{} {
	old := *q
	e := old[len(old)-1]
	old[len(old)-1] = nil
	e.index = -1
	*q = old[:len(old)-1]
	return e
}

// Clock is a virtual nanosecond clock. Events scheduled for the same
// instant run in the order they were scheduled.
type Clock struct {
	now   uint64
	seq   uint64
	queue eventQueue
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Now() uint64 {
	return c.now
}

func (c *Clock) Micros() uint32 {
	return uint32(c.now / 1000)
}

func (c *Clock) Elapsed() time.Duration {
	return time.Duration(c.now)
}

// After schedules fn and returns a function that cancels it.
func (c *Clock) After(ns uint64, fn func()) func() {
	e := &event{
		at:  c.now + ns,
		seq: c.seq,
		fn:  fn,
	}
	c.seq++
	heap.Push(&c.queue, e)

	return func() {
		if e.index >= 0 {
			heap.Remove(&c.queue, e.index)
		}
	}
}

// Step runs the next event. It returns false if nothing is scheduled.
func (c *Clock) Step() bool {
	if len(c.queue) == 0 {
		return false
	}
	e := heap.Pop(&c.queue).(*event)
	c.now = e.at
	e.fn()
	return true
}

// RunUntil runs all events up to and including the absolute time at.
func (c *Clock) RunUntil(at uint64) {
	for len(c.queue) > 0 && c.queue[0].at <= at {
		c.Step()
	}
	if at > c.now {
		c.now = at
	}
}

func (c *Clock) Run(d time.Duration) {
	c.RunUntil(c.now + uint64(d))
}

// RunWhile runs events while cond holds, up to d of virtual time. It
// returns false if the time ran out first.
func (c *Clock) RunWhile(cond func() bool, d time.Duration) bool {
	limit := c.now + uint64(d)
	for cond() {
		if len(c.queue) == 0 || c.queue[0].at > limit {
			c.now = limit
			return false
		}
		c.Step()
	}
	return true
}
