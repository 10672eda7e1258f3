package engine

import (
	"fmt"

	"github.com/lixenwraith/ecstable/component"
	"github.com/lixenwraith/ecstable/core"
)

// DefaultSelectedColumn is the column highlighted when no option overrides it
const DefaultSelectedColumn = 1

type buildConfig struct {
	selectedColumn int
}

// BuildOption configures Build
type BuildOption func(*buildConfig)

// WithSelectedColumn marks header i and cell i of every row as Selected; negative disables the highlight
func WithSelectedColumn(i int) BuildOption {
	return func(c *buildConfig) {
		c.selectedColumn = i
	}
}

// Build creates a table from ordered column names and rows of cell text
// Headers are created in column order, then each row followed by its cells
func Build(w *World, columns []string, rows [][]string, opts ...BuildOption) (core.Entity, error) {
	cfg := buildConfig{selectedColumn: DefaultSelectedColumn}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(columns) == 0 {
		return core.EntityNone, fmt.Errorf("no columns: %w", ErrShape)
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return core.EntityNone, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(r), len(columns), ErrShape)
		}
	}

	selected := func(i int) component.Marker {
		if i == cfg.selectedColumn {
			return component.MarkerSelected
		}
		return component.MarkerNone
	}

	table := w.NewEntity(KindTable, core.EntityNone).Build()
	tc := component.TableComponent{
		Headers: make([]core.Entity, 0, len(columns)),
		Rows:    make([]core.Entity, 0, len(rows)),
	}

	for i, name := range columns {
		h := With(w.NewEntity(KindHeader, table), w.Headers, component.HeaderComponent{Text: name}).
			WithMarker(selected(i)).
			Build()
		tc.Headers = append(tc.Headers, h)
	}

	for _, r := range rows {
		row := w.NewEntity(KindRow, table).Build()
		rc := component.RowComponent{Cells: make([]core.Entity, 0, len(r))}
		for i, text := range r {
			cell := With(w.NewEntity(KindCell, row), w.Cells, component.CellComponent{Text: text}).
				WithMarker(selected(i)).
				Build()
			rc.Cells = append(rc.Cells, cell)
		}
		w.Rows.Set(row, rc)
		tc.Rows = append(tc.Rows, row)
	}

	w.Tables.Set(table, tc)
	return table, nil
}

// SwapCellsInRow exchanges the cells at positions i and j of row
// Only the row's own sequence changes; cells keep their parent
func (w *World) SwapCellsInRow(row core.Entity, i, j int) error {
	if w.Kind(row) != KindRow {
		return fmt.Errorf("entity %d is not a row: %w", row, ErrInvalidIndex)
	}
	rc, ok := w.Rows.Get(row)
	if !ok {
		return fmt.Errorf("row %d has no cells: %w: %w", row, ErrInvalidIndex, ErrInvariant)
	}
	n := len(rc.Cells)
	if i < 0 || i >= n || j < 0 || j >= n {
		return fmt.Errorf("swap %d<->%d in row of %d cells: %w", i, j, n, ErrInvalidIndex)
	}
	a, b := rc.Cells[i], rc.Cells[j]
	if w.Parent(a) != row || w.Parent(b) != row {
		return fmt.Errorf("cells %d and %d are not both children of row %d: %w: %w", a, b, row, ErrInvalidIndex, ErrInvariant)
	}
	if i == j {
		return nil
	}
	rc.Cells[i], rc.Cells[j] = b, a
	w.Rows.Set(row, rc)
	return nil
}

// CellIndex returns the column position of cell within row, -1 if absent
func (w *World) CellIndex(row, cell core.Entity) int {
	rc, ok := w.Rows.Get(row)
	if !ok {
		return -1
	}
	for i, c := range rc.Cells {
		if c == cell {
			return i
		}
	}
	return -1
}

// Text returns the display text of a header or cell
func (w *World) Text(e core.Entity) (string, bool) {
	switch w.Kind(e) {
	case KindHeader:
		h, ok := w.Headers.Get(e)
		return h.Text, ok
	case KindCell:
		c, ok := w.Cells.Get(e)
		return c.Text, ok
	}
	return "", false
}

// HeaderTexts returns the column names of table in display order
func (w *World) HeaderTexts(table core.Entity) []string {
	tc, ok := w.Tables.Get(table)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(tc.Headers))
	for _, h := range tc.Headers {
		text, _ := w.Text(h)
		out = append(out, text)
	}
	return out
}

// RowTexts returns the cell text of every row of table in display order
func (w *World) RowTexts(table core.Entity) [][]string {
	tc, ok := w.Tables.Get(table)
	if !ok {
		return nil
	}
	out := make([][]string, 0, len(tc.Rows))
	for _, row := range tc.Rows {
		rc, _ := w.Rows.Get(row)
		texts := make([]string, 0, len(rc.Cells))
		for _, c := range rc.Cells {
			text, _ := w.Text(c)
			texts = append(texts, text)
		}
		out = append(out, texts)
	}
	return out
}

// CheckTable verifies parent links and that every row has one cell per header
func (w *World) CheckTable(table core.Entity) error {
	tc, ok := w.Tables.Get(table)
	if !ok || w.Kind(table) != KindTable {
		return fmt.Errorf("entity %d is not a table: %w", table, ErrInvariant)
	}
	for _, h := range tc.Headers {
		if w.Kind(h) != KindHeader || w.Parent(h) != table {
			return fmt.Errorf("header %d not owned by table %d: %w", h, table, ErrInvariant)
		}
	}
	for _, row := range tc.Rows {
		if w.Kind(row) != KindRow || w.Parent(row) != table {
			return fmt.Errorf("row %d not owned by table %d: %w", row, table, ErrInvariant)
		}
		rc, _ := w.Rows.Get(row)
		if len(rc.Cells) != len(tc.Headers) {
			return fmt.Errorf("row %d has %d cells, table has %d headers: %w", row, len(rc.Cells), len(tc.Headers), ErrInvariant)
		}
		for _, c := range rc.Cells {
			if w.Kind(c) != KindCell || w.Parent(c) != row {
				return fmt.Errorf("cell %d not owned by row %d: %w", c, row, ErrInvariant)
			}
		}
	}
	return nil
}
