package regs

/* LPUART, 32 bit registers */
const (
	LPUART_BAUD  = 0x10
	LPUART_STAT  = 0x14
	LPUART_CTRL  = 0x18
	LPUART_DATA  = 0x1C
	LPUART_FIFO  = 0x28
	LPUART_WATER = 0x2C
	LPUART_SIZE  = 0x30
)

const (
	LPUART_BAUD_M10       = 1 << 29
	LPUART_BAUD_OSR_SHIFT = 24
	LPUART_BAUD_OSR_MASK  = 0x1F << LPUART_BAUD_OSR_SHIFT
	LPUART_BAUD_BOTHEDGE  = 1 << 17
	LPUART_BAUD_SBNS      = 1 << 13
	LPUART_BAUD_SBR_MASK  = 0x1FFF

	LPUART_STAT_TDRE = 1 << 23
	LPUART_STAT_TC   = 1 << 22

	LPUART_CTRL_TXINV = 1 << 28
	LPUART_CTRL_TIE   = 1 << 23
	LPUART_CTRL_TCIE  = 1 << 22
	LPUART_CTRL_TE    = 1 << 19
	LPUART_CTRL_RE    = 1 << 18
	LPUART_CTRL_SBK   = 1 << 16
	LPUART_CTRL_M7    = 1 << 11
	LPUART_CTRL_M     = 1 << 4
	LPUART_CTRL_PE    = 1 << 1
	LPUART_CTRL_PT    = 1 << 0

	LPUART_FIFO_TXFE = 1 << 7

	LPUART_WATER_TXCOUNT_SHIFT = 8
	LPUART_WATER_TXCOUNT_MASK  = 0x7 << LPUART_WATER_TXCOUNT_SHIFT
	LPUART_WATER_TXWATER_MASK  = 0x3
)
