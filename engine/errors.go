package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/vi-ecs/core"
)

var (
	// ErrNullEntity is the panic cause when a mutating operation receives core.Null
	ErrNullEntity = errors.New("null entity")

	// ErrDeadEntity is the panic cause when an operation that requires a live entity receives a destroyed one
	ErrDeadEntity = errors.New("dead entity")

	// ErrHierarchyCycle is returned by SetParent when the link would make an entity its own ancestor
	ErrHierarchyCycle = errors.New("hierarchy cycle")
)

func mustNotNull(e core.Entity, op string) {
	if e.IsNull() {
		panic(fmt.Errorf("%s: %w", op, ErrNullEntity))
	}
}

func (r *Registry) mustLive(e core.Entity, op string) {
	mustNotNull(e, op)
	if !r.IsAlive(e) {
		panic(fmt.Errorf("%s %s: %w", op, e, ErrDeadEntity))
	}
}
