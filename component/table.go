package component

import "github.com/lixenwraith/ecstable/core"

// TableComponent owns the display order of a table's headers and rows
// Both sequences are fixed in length once the table is built
type TableComponent struct {
	Headers []core.Entity
	Rows    []core.Entity
}

// RowComponent holds the row's cells; a cell's index in Cells is its column
type RowComponent struct {
	Cells []core.Entity
}
