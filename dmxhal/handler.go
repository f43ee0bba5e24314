package dmxhal

// Handler drives the registers of one physical transmitter.
type Handler interface {
	Start()
	End()
	// SetActive arms the transmitter so the next interrupt starts a cycle.
	SetActive()
	SetIRQsEnabled(enabled bool)
	Priority() int
	BreakSerialParamsChanged()
	// IRQHandler is called from the interrupt vector of the peripheral.
	IRQHandler()
}

type TxMode int

const (
	TxInactive TxMode = iota
	/* Interrupt when the transmitter can take data */
	TxActive
	/* Interrupt when the last stop bit has left the shift register */
	TxCompleting
)

// Port is what the sender needs from a handler while in interrupt context.
type Port interface {
	ConfigureBreak()
	ConfigureSlots()
	SetBreak(on bool)
	WriteSlot(b byte) bool
	SetTxMode(mode TxMode)
}

// IRQController masks the interrupt line of one peripheral.
type IRQController interface {
	SetEnabled(enabled bool)
}

type nopHandler struct{}

func (nopHandler) Start()                    {}
func (nopHandler) End()                      {}
func (nopHandler) SetActive()                {}
func (nopHandler) SetIRQsEnabled(bool)       {}
func (nopHandler) Priority() int             { return 0 }
func (nopHandler) BreakSerialParamsChanged() {}
func (nopHandler) IRQHandler()               {}
