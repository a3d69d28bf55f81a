// Package terminal writes the cursor control sequences used for in-place
// redraws.
package terminal

import (
	"io"

	"github.com/charmbracelet/x/ansi"
)

// Terminal wraps an output stream.
type Terminal struct {
	out io.Writer
}

// New creates a Terminal writing to out.
func New(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Write passes p through unchanged.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

func (t *Terminal) HideCursor() {
	io.WriteString(t.out, ansi.HideCursor)
}

func (t *Terminal) ShowCursor() {
	io.WriteString(t.out, ansi.ShowCursor)
}

// ClearLines moves the cursor up n lines and erases everything below it.
func (t *Terminal) ClearLines(n int) {
	if n > 0 {
		io.WriteString(t.out, ansi.CursorUp(n))
	}
	t.EraseBelow()
}

// EraseBelow clears from the cursor to the end of the screen.
func (t *Terminal) EraseBelow() {
	io.WriteString(t.out, ansi.EraseScreenBelow)
}
