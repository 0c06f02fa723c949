package engine

import (
	"reflect"

	"github.com/lixenwraith/vi-ecs/core"
)

// AnyStore provides type-erased operations for lifecycle management
// This interface allows the Registry to manage all stores uniformly
// for operations like entity destruction without knowing the concrete type
type AnyStore interface {
	// Has checks if an entity has this component
	Has(e core.Entity) bool

	// Count returns the number of entities with this component
	Count() int

	// All returns entities with this component in insertion order
	All() []core.Entity

	// Type returns the component type held by the store
	Type() reflect.Type

	// Component returns the attached component pointer as any, nil when absent
	Component(e core.Entity) any

	// detach removes the component without lifecycle notification
	detach(e core.Entity) (any, bool)
}
