package dmxhal

import "sync/atomic"

const MaxPeripherals = 8

// Registry maps each peripheral index to the sender that currently owns
// it. Entries are borrowed, the registry never keeps a sender alive on
// its own behalf.
type Registry struct {
	slots   [MaxPeripherals]atomic.Pointer[Sender]
	vectors [MaxPeripherals]func()
}

var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.vectors {
		index := i
		r.vectors[i] = func() {
			r.Dispatch(index)
		}
	}
	return r
}

// claim installs s as the owner of index and returns the previous owner.
func (r *Registry) claim(index int, s *Sender) *Sender {
	return r.slots[index].Swap(s)
}

func (r *Registry) release(index int, s *Sender) bool {
	return r.slots[index].CompareAndSwap(s, nil)
}

func (r *Registry) Owner(index int) *Sender {
	if index < 0 || index >= MaxPeripherals {
		return nil
	}
	return r.slots[index].Load()
}

// Dispatch forwards an interrupt of a peripheral to its owner. Interrupts
// for a peripheral without owner are dropped.
func (r *Registry) Dispatch(index int) {
	if index < 0 || index >= MaxPeripherals {
		return
	}
	if s := r.slots[index].Load(); s != nil {
		s.handler.IRQHandler()
	}
}

// Vector returns the function to install in the interrupt table for a
// peripheral.
func (r *Registry) Vector(index int) func() {
	if index < 0 || index >= MaxPeripherals {
		return func() {}
	}
	return r.vectors[index]
}
