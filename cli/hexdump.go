package main

import (
	"fmt"

	"github.com/fatih/color"
)

const slotsPerRow = 32

/* Rows are labelled with the first slot number, slot 0 being the start
 * code. Slots past size are shown dimmed since they are not sent. */
func slotdump(data []byte, size int, mark []bool) string {
	var result string
	red := color.New(color.FgRed)
	faint := color.New(color.Faint)

	for offset := 0; offset < len(data); offset += slotsPerRow {
		var row string
		for i := offset; i < offset+slotsPerRow; i++ {
			if i >= len(data) {
				break
			}

			cell := fmt.Sprintf("%02x ", data[i])
			switch {
			case mark != nil && mark[i]:
				cell = red.Sprint(cell)
			case i >= size:
				cell = faint.Sprint(cell)
			}
			row += cell

			if i%8 == 7 {
				row += " "
			}
		}

		result += fmt.Sprintf("%3d  %s\n", offset, row)
	}

	return result
}
