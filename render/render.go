// Package render draws tables from the world and records what it drew into a hit-test canvas.
package render

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/ecstable/canvas"
	"github.com/lixenwraith/ecstable/component"
	"github.com/lixenwraith/ecstable/core"
	"github.com/lixenwraith/ecstable/engine"
)

// Output is the cursor and text surface the renderer writes through
// terminal.Terminal satisfies it
type Output interface {
	MoveCursor(x, y int)
	WriteText(s string)
}

const separator = ", "

// pen walks the layout and hands every span to emit with its position and display width
type pen struct {
	emit func(e core.Entity, text string, x, y, width int)
	left int
	x, y int
}

func (p *pen) span(e core.Entity, text string) {
	text = printable(text)
	width := runewidth.StringWidth(text)
	p.emit(e, text, p.x, p.y, width)
	p.x += width
}

func (p *pen) newline() {
	p.x = p.left
	p.y++
}

// printable replaces control characters with spaces so measured width matches what a terminal shows
func printable(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// Label formats one header or cell span
func Label(text string, highlighted bool) string {
	if highlighted {
		return "[" + text + "]" + separator
	}
	return text + separator
}

// Render draws table starting at origin and returns the position below its trailing blank line
// Layout: blank line, header line, one line per row, blank line
// Spans starting outside the canvas are neither painted nor written, so the screen never shows
// glyphs the canvas cannot resolve
func Render(w *engine.World, table core.Entity, c *canvas.Canvas, out Output, origin core.Point) core.Point {
	width, height := c.Size()
	return layout(w, table, origin, func(e core.Entity, text string, x, y, n int) {
		if y < 0 || y >= height || x >= width {
			return
		}
		c.Paint(e, x, y, n)
		out.MoveCursor(x, y)
		out.WriteText(text)
	})
}

// Extent returns the columns and lines RenderWorld needs to draw every table from the origin
func Extent(w *engine.World) (width, height int) {
	var pos core.Point
	for _, table := range w.Tables.All() {
		pos = layout(w, table, pos, func(_ core.Entity, _ string, x, _, n int) {
			width = max(width, x+n)
		})
	}
	return width, pos.Y
}

func layout(w *engine.World, table core.Entity, origin core.Point, emit func(core.Entity, string, int, int, int)) core.Point {
	p := &pen{emit: emit, left: origin.X, x: origin.X, y: origin.Y}

	tc, ok := w.Tables.Get(table)
	if !ok {
		return origin
	}

	p.newline()

	for _, h := range tc.Headers {
		hc, _ := w.Headers.Get(h)
		p.span(h, Label(hc.Text, w.HasMarker(h, component.MarkerSelected)))
	}
	p.newline()

	for _, row := range tc.Rows {
		rc, _ := w.Rows.Get(row)
		for _, cell := range rc.Cells {
			cc, _ := w.Cells.Get(cell)
			p.span(cell, Label(cc.Text, w.Markers(cell).Highlighted()))
		}
		p.newline()
	}

	p.newline()
	return core.Point{X: p.left, Y: p.y}
}

// RenderWorld draws every table in creation order, stacked vertically from origin
func RenderWorld(w *engine.World, c *canvas.Canvas, out Output, origin core.Point) core.Point {
	pos := origin
	for _, table := range w.Tables.All() {
		pos = Render(w, table, c, out, pos)
	}
	return pos
}
