package tui

import (
	"fmt"

	tm "github.com/buger/goterm"
)

// Redraw replaces the screen with frame, cut to the terminal height. Without
// a terminal frames are appended, separated by a blank line.
func Redraw(frame string) {
	if !HasTTY {
		fmt.Println(frame)
		fmt.Println()
		return
	}
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Print(frame)
	tm.Flush()
}
