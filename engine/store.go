package engine

import (
	"reflect"

	"github.com/lixenwraith/vi-ecs/core"
)

// Store is a dense container for components of type T
// Components live behind stable pointers; iteration follows insertion order and removal preserves it
// Not synchronized: the registry is driven from the game loop only
type Store[T any] struct {
	items    []*T
	entities []core.Entity
	sparse   map[uint32]int // entity index -> dense position
}

func newStore[T any]() *Store[T] {
	return &Store[T]{
		items:    make([]*T, 0, 64),
		entities: make([]core.Entity, 0, 64),
		sparse:   make(map[uint32]int),
	}
}

// Get returns the component for e, nil when absent or when e is a stale handle
func (s *Store[T]) Get(e core.Entity) *T {
	i, ok := s.sparse[e.Index]
	if !ok || s.entities[i] != e {
		return nil
	}
	return s.items[i]
}

func (s *Store[T]) Has(e core.Entity) bool {
	return s.Get(e) != nil
}

func (s *Store[T]) Count() int {
	return len(s.entities)
}

// All returns a copy of the owning entities in insertion order
func (s *Store[T]) All() []core.Entity {
	out := make([]core.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

func (s *Store[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

func (s *Store[T]) Component(e core.Entity) any {
	if p := s.Get(e); p != nil {
		return p
	}
	return nil
}

// insert appends a new component; the caller guarantees e has none
func (s *Store[T]) insert(e core.Entity, v T) *T {
	p := new(T)
	*p = v
	s.sparse[e.Index] = len(s.items)
	s.items = append(s.items, p)
	s.entities = append(s.entities, e)
	return p
}

func (s *Store[T]) remove(e core.Entity) (*T, bool) {
	i, ok := s.sparse[e.Index]
	if !ok || s.entities[i] != e {
		return nil, false
	}
	p := s.items[i]

	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	copy(s.entities[i:], s.entities[i+1:])
	s.entities = s.entities[:len(s.entities)-1]

	delete(s.sparse, e.Index)
	for j := i; j < len(s.entities); j++ {
		s.sparse[s.entities[j].Index] = j
	}
	return p, true
}

func (s *Store[T]) detach(e core.Entity) (any, bool) {
	p, ok := s.remove(e)
	if !ok {
		return nil, false
	}
	return p, true
}
