package core

import (
	"fmt"
	"math"
)

// Entity is an opaque generation-checked handle into the registry arena
// Index selects the slot, Generation must match the slot's current generation for the handle to be alive
type Entity struct {
	Index      uint32
	Generation uint32
}

// Null is the reserved handle that never compares alive
// Slots start at generation 1, so no allocated handle can equal Null
var Null = Entity{Index: math.MaxUint32, Generation: 0}

// IsNull reports whether e is the reserved null handle
func (e Entity) IsNull() bool {
	return e == Null
}

// String renders the handle as index:generation for logs and panics
func (e Entity) String() string {
	if e.IsNull() {
		return "Entity(null)"
	}
	return fmt.Sprintf("Entity(%d:%d)", e.Index, e.Generation)
}
