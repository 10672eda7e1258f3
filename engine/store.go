package engine

import (
	"github.com/lixenwraith/ecstable/core"
)

// Store is a generic container for a specific component type T
// Sparse set: components are dense in insertion order, index maps entity to slot
// Not synchronized; the world is owned by the frame loop
type Store[T any] struct {
	index      map[core.Entity]int
	entities   []core.Entity
	components []T
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		index:      make(map[core.Entity]int),
		entities:   make([]core.Entity, 0, 64),
		components: make([]T, 0, 64),
	}
}

// Set inserts or replaces the component for an entity
func (s *Store[T]) Set(e core.Entity, val T) {
	if i, ok := s.index[e]; ok {
		s.components[i] = val
		return
	}
	s.index[e] = len(s.entities)
	s.entities = append(s.entities, e)
	s.components = append(s.components, val)
}

// Get retrieves the component for an entity
func (s *Store[T]) Get(e core.Entity) (T, bool) {
	i, ok := s.index[e]
	if !ok {
		var zero T
		return zero, false
	}
	return s.components[i], true
}

// Has checks if entity has this component
func (s *Store[T]) Has(e core.Entity) bool {
	_, ok := s.index[e]
	return ok
}

// All returns entities with this component in insertion order
func (s *Store[T]) All() []core.Entity {
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// Count returns number of entities with this component
func (s *Store[T]) Count() int {
	return len(s.entities)
}
