// Package canvas records which entity last drew each terminal cell, so pointer
// coordinates can be resolved back to table elements.
package canvas

import (
	"bufio"
	"io"

	"github.com/lixenwraith/ecstable/core"
)

// Canvas is a screen-sized grid of non-owning entity references
// A slot holding core.EntityNone is empty
type Canvas struct {
	width  int
	height int
	lines  [][]core.Entity
}

// New creates an empty canvas; negative dimensions are treated as zero
func New(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Size returns the current dimensions
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Resize reallocates the grid, discarding all provenance
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	lines := make([][]core.Entity, height)
	for y := range lines {
		lines[y] = make([]core.Entity, width)
	}
	c.width = width
	c.height = height
	c.lines = lines
}

// Clear empties every slot without reallocating
func (c *Canvas) Clear() {
	for _, line := range c.lines {
		clear(line)
	}
}

// Paint marks length slots starting at (x, y) as owned by e
// Slots past the right edge are dropped; rows outside the grid are ignored
func (c *Canvas) Paint(e core.Entity, x, y, length int) {
	if y < 0 || y >= c.height || length <= 0 {
		return
	}
	start := max(x, 0)
	end := min(x+length, c.width)
	line := c.lines[y]
	for i := start; i < end; i++ {
		line[i] = e
	}
}

// Lookup returns the entity last painted at (x, y)
func (c *Canvas) Lookup(x, y int) (core.Entity, bool) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return core.EntityNone, false
	}
	e := c.lines[y][x]
	return e, e != core.EntityNone
}

// Dump writes an occupancy map, one line per row, '1' for owned slots and '0' for empty ones
func (c *Canvas) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, line := range c.lines {
		for _, e := range line {
			if e != core.EntityNone {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
