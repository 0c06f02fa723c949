package engine

import "github.com/lixenwraith/vi-ecs/core"

type command func(r *Registry, e core.Entity)

// CommandBuffer holds deferred structural changes keyed by entity handle
// Entities flush in the order of their first queued command, each entity's commands in enqueue order
type CommandBuffer struct {
	order   []core.Entity
	pending map[core.Entity][]command
}

func newCommandBuffer() *CommandBuffer {
	return &CommandBuffer{pending: make(map[core.Entity][]command)}
}

func (cb *CommandBuffer) push(e core.Entity, c command) {
	list, ok := cb.pending[e]
	if !ok {
		cb.order = append(cb.order, e)
	}
	cb.pending[e] = append(list, c)
}

func (cb *CommandBuffer) drain() ([]core.Entity, map[core.Entity][]command) {
	order, pending := cb.order, cb.pending
	cb.reset()
	return order, pending
}

func (cb *CommandBuffer) reset() {
	cb.order = nil
	cb.pending = make(map[core.Entity][]command)
}

// Len returns the number of queued commands
func (cb *CommandBuffer) Len() int {
	n := 0
	for _, list := range cb.pending {
		n += len(list)
	}
	return n
}

// Commands exposes the deferred command queue
func (r *Registry) Commands() *CommandBuffer {
	return r.commands
}

// enqueue panics on core.Null and drops commands for entities already dead
func (r *Registry) enqueue(e core.Entity, op string, c command) {
	mustNotNull(e, op)
	if !r.IsAlive(e) {
		return
	}
	r.commands.push(e, c)
}

// QueueAdd defers Add; the last queued add or remove of T for e wins
func QueueAdd[T any](r *Registry, e core.Entity, v T) {
	r.enqueue(e, "queue add", func(r *Registry, e core.Entity) {
		Add[T](r, e, v)
	})
}

// QueueRemove defers Remove
func QueueRemove[T any](r *Registry, e core.Entity) {
	r.enqueue(e, "queue remove", func(r *Registry, e core.Entity) {
		Remove[T](r, e)
	})
}

// QueueDestroy defers DestroyEntity; commands queued after it for the same entity are discarded at flush
func (r *Registry) QueueDestroy(e core.Entity) {
	r.enqueue(e, "queue destroy", func(r *Registry, e core.Entity) {
		r.DestroyEntity(e)
	})
}

// FlushCommandBuffer applies the commands queued so far
// An entity's remaining commands are dropped once it is dead, whether by its own destroy or an ancestor's cascade
// Commands queued while flushing wait for the next flush
func (r *Registry) FlushCommandBuffer() {
	order, pending := r.commands.drain()
	for _, e := range order {
		for _, c := range pending[e] {
			if !r.IsAlive(e) {
				break
			}
			c(r, e)
		}
	}
}
