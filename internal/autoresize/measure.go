package autoresize

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TextWidth is the widest line of s in cells.
func TextWidth(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}

// TextHeight is the number of rows s occupies when soft-wrapped at width
// cells. A non-positive width disables wrapping.
func TextHeight(s string, width int) int {
	rows := 0
	for _, line := range strings.Split(s, "\n") {
		lw := runewidth.StringWidth(line)
		if width <= 0 || lw <= width {
			rows++
			continue
		}
		rows += (lw + width - 1) / width
	}
	return rows
}
