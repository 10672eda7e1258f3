package engine

import (
	"github.com/lixenwraith/ecstable/component"
	"github.com/lixenwraith/ecstable/core"
)

// EntityBuilder provides a fluent, type-safe interface for constructing entities with components.
// The handle is allocated upfront; components and markers are attached before Build() commits it.
//
// Example usage:
//
//	cell := With(world.NewEntity(KindCell, row), world.Cells, component.CellComponent{Text: "Ann"}).
//	    WithMarker(component.MarkerSelected).
//	    Build()
type EntityBuilder struct {
	world  *World
	entity core.Entity
	built  bool
}

// NewEntity allocates a handle of the given kind owned by parent
func (w *World) NewEntity(kind Kind, parent core.Entity) *EntityBuilder {
	return &EntityBuilder{
		world:  w,
		entity: w.createEntity(kind, parent),
	}
}

// With adds a component of type T to the entity being built.
// Panics if called after Build().
func With[T any](eb *EntityBuilder, store *Store[T], comp T) *EntityBuilder {
	if eb.built {
		panic("entity already built - cannot add components after Build()")
	}
	store.Set(eb.entity, comp)
	return eb
}

// WithMarker attaches marker flags to the entity being built
func (eb *EntityBuilder) WithMarker(m component.Marker) *EntityBuilder {
	if eb.built {
		panic("entity already built - cannot add markers after Build()")
	}
	eb.world.AddMarker(eb.entity, m)
	return eb
}

// Build finalizes construction and returns the handle reserved by NewEntity
func (eb *EntityBuilder) Build() core.Entity {
	eb.built = true
	return eb.entity
}
