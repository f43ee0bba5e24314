// Package regs holds the register layouts of the supported serial
// peripherals.
package regs

/* Kinetis UART, 8 bit registers */
const (
	UART_BDH    = 0x00
	UART_BDL    = 0x01
	UART_C1     = 0x02
	UART_C2     = 0x03
	UART_S1     = 0x04
	UART_S2     = 0x05
	UART_C3     = 0x06
	UART_D      = 0x07
	UART_C4     = 0x0A
	UART_PFIFO  = 0x10
	UART_CFIFO  = 0x11
	UART_SFIFO  = 0x12
	UART_TWFIFO = 0x13
	UART_TCFIFO = 0x14
	UART_SIZE   = 0x20
)

const (
	UART_BDH_SBNS     = 0x20
	UART_BDH_SBR_MASK = 0x1F

	UART_C1_M  = 0x10
	UART_C1_PE = 0x02
	UART_C1_PT = 0x01

	UART_C2_TIE  = 0x80
	UART_C2_TCIE = 0x40
	UART_C2_RIE  = 0x20
	UART_C2_TE   = 0x08
	UART_C2_RE   = 0x04
	UART_C2_SBK  = 0x01

	UART_S1_TDRE = 0x80
	UART_S1_TC   = 0x40

	UART_C3_T8    = 0x40
	UART_C3_TXINV = 0x10

	UART_C4_M10       = 0x20
	UART_C4_BRFA_MASK = 0x1F

	UART_PFIFO_TXFE = 0x80

	UART_CFIFO_TXFLUSH = 0x80
)
