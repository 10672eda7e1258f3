package render

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TextOutput serializes cursor moves into newlines and padding for a plain stream
// Only forward moves are representable; a move up or left writes at the current position
type TextOutput struct {
	w    io.Writer
	x, y int
	err  error
}

// NewTextOutput returns an Output writing to w
func NewTextOutput(w io.Writer) *TextOutput {
	return &TextOutput{w: w}
}

func (t *TextOutput) MoveCursor(x, y int) {
	if y > t.y {
		t.write(strings.Repeat("\n", y-t.y))
		t.y = y
		t.x = 0
	}
	if x > t.x {
		t.write(strings.Repeat(" ", x-t.x))
		t.x = x
	}
}

func (t *TextOutput) WriteText(s string) {
	t.write(s)
	t.x += runewidth.StringWidth(s)
}

// Finish moves to the line at y, terminating the last written line
func (t *TextOutput) Finish(y int) {
	t.MoveCursor(0, y)
}

// Err returns the first write error
func (t *TextOutput) Err() error {
	return t.err
}

func (t *TextOutput) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}
