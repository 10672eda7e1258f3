package engine

import (
	"github.com/lixenwraith/ecstable/component"
	"github.com/lixenwraith/ecstable/core"
)

// Kind is the logical element an entity stands for
type Kind uint8

const (
	KindNone Kind = iota
	KindTable
	KindHeader
	KindRow
	KindCell
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindHeader:
		return "header"
	case KindRow:
		return "row"
	case KindCell:
		return "cell"
	default:
		return "none"
	}
}

// record is the arena slot for one entity
type record struct {
	kind    Kind
	parent  core.Entity
	markers component.Marker
}

// World is the table store: an arena of entity records plus one typed store per component
// Entities are never destroyed while the world lives
type World struct {
	records []record // index is the entity handle, slot 0 is reserved

	Tables  *Store[component.TableComponent]
	Headers *Store[component.HeaderComponent]
	Rows    *Store[component.RowComponent]
	Cells   *Store[component.CellComponent]
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		records: make([]record, 1, 64),
		Tables:  NewStore[component.TableComponent](),
		Headers: NewStore[component.HeaderComponent](),
		Rows:    NewStore[component.RowComponent](),
		Cells:   NewStore[component.CellComponent](),
	}
}

// createEntity allocates the next handle
func (w *World) createEntity(kind Kind, parent core.Entity) core.Entity {
	e := core.Entity(len(w.records))
	w.records = append(w.records, record{kind: kind, parent: parent})
	return e
}

// Alive reports whether e was issued by this world
func (w *World) Alive(e core.Entity) bool {
	return e != core.EntityNone && int(e) < len(w.records)
}

// Kind returns the element kind, KindNone for unknown handles
func (w *World) Kind(e core.Entity) Kind {
	if !w.Alive(e) {
		return KindNone
	}
	return w.records[e].kind
}

// Parent returns the owning entity: Table for headers and rows, Row for cells
func (w *World) Parent(e core.Entity) core.Entity {
	if !w.Alive(e) {
		return core.EntityNone
	}
	return w.records[e].parent
}

// Markers returns all flags set on e
func (w *World) Markers(e core.Entity) component.Marker {
	if !w.Alive(e) {
		return component.MarkerNone
	}
	return w.records[e].markers
}

// HasMarker reports whether every flag in m is set on e
func (w *World) HasMarker(e core.Entity, m component.Marker) bool {
	return w.Markers(e)&m == m && m != component.MarkerNone
}

// AddMarker sets m on e; false for unknown handles
func (w *World) AddMarker(e core.Entity, m component.Marker) bool {
	if !w.Alive(e) {
		return false
	}
	w.records[e].markers |= m
	return true
}

// RemoveMarker clears m on e
func (w *World) RemoveMarker(e core.Entity, m component.Marker) {
	if !w.Alive(e) {
		return
	}
	w.records[e].markers &^= m
}

// Marked returns every entity carrying any flag in m, in creation order
func (w *World) Marked(m component.Marker) []core.Entity {
	var out []core.Entity
	for i := 1; i < len(w.records); i++ {
		if w.records[i].markers&m != 0 {
			out = append(out, core.Entity(i))
		}
	}
	return out
}

// EntityCount returns the number of issued handles
func (w *World) EntityCount() int {
	return len(w.records) - 1
}
