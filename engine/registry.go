package engine

import (
	"math"
	"reflect"
	"time"

	"github.com/lixenwraith/vi-ecs/core"
)

// Attacher is notified after its component is attached to an entity
type Attacher interface {
	OnAttach(e core.Entity)
}

// Detacher is notified before its component leaves an entity, by removal, replacement or destruction
type Detacher interface {
	OnDetach(e core.Entity)
}

// Updatable components are advanced by ComponentManager.UpdateAll while active
type Updatable interface {
	Update(dt time.Duration)
}

// Registry owns the entity arena, one dense store per component type, the hierarchy and the command buffer
//
// Mutating operations panic on core.Null and on destroyed entities, those calls are programming errors.
// Queries (Has, TryGet) are total. Add on a destroyed entity is tolerated and returns nil.
type Registry struct {
	generations []uint32
	used        []bool
	free        []uint32 // LIFO reuse of destroyed slots

	parents  []core.Entity
	children [][]core.Entity

	stores map[reflect.Type]AnyStore
	order  []AnyStore // store registration order

	commands *CommandBuffer
	manager  *ComponentManager
	alive    int
}

// NewRegistry creates an empty registry tracking components in manager
// A nil manager gets a private one with no interesting view
func NewRegistry(manager *ComponentManager) *Registry {
	if manager == nil {
		manager = NewComponentManager(nil)
	}
	return &Registry{
		stores:   make(map[reflect.Type]AnyStore),
		commands: newCommandBuffer(),
		manager:  manager,
	}
}

// Manager returns the activation tracker fed by this registry
func (r *Registry) Manager() *ComponentManager {
	return r.manager
}

// CreateEntity allocates a slot, reusing the most recently destroyed index first
func (r *Registry) CreateEntity() core.Entity {
	r.alive++
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		r.used[idx] = true
		r.parents[idx] = core.Null
		r.children[idx] = nil
		return core.Entity{Index: idx, Generation: r.generations[idx]}
	}

	idx := uint32(len(r.generations))
	if idx == math.MaxUint32 {
		panic("entity arena exhausted")
	}
	r.generations = append(r.generations, 1)
	r.used = append(r.used, true)
	r.parents = append(r.parents, core.Null)
	r.children = append(r.children, nil)
	return core.Entity{Index: idx, Generation: 1}
}

// IsAlive reports whether e refers to a live slot generation
func (r *Registry) IsAlive(e core.Entity) bool {
	return !e.IsNull() && int(e.Index) < len(r.generations) &&
		r.used[e.Index] && r.generations[e.Index] == e.Generation
}

// Alive returns the number of live entities
func (r *Registry) Alive() int {
	return r.alive
}

// Entities returns live entities in slot order
func (r *Registry) Entities() []core.Entity {
	out := make([]core.Entity, 0, r.alive)
	for idx, gen := range r.generations {
		e := core.Entity{Index: uint32(idx), Generation: gen}
		if r.used[idx] {
			out = append(out, e)
		}
	}
	return out
}

// DestroyEntity destroys e and its descendants depth-first, children before parents
// Each destroyed entity is detached from its parent, loses all components and has its generation bumped
func (r *Registry) DestroyEntity(e core.Entity) {
	r.mustLive(e, "destroy entity")
	r.destroy(e)
}

func (r *Registry) destroy(e core.Entity) {
	for _, c := range r.Children(e) {
		if r.IsAlive(c) {
			r.destroy(c)
		}
	}

	if p := r.parents[e.Index]; r.IsAlive(p) {
		r.RemoveChild(p, e)
	}
	r.parents[e.Index] = core.Null
	r.children[e.Index] = nil

	for _, s := range r.order {
		if comp, ok := s.detach(e); ok {
			r.notifyDetach(e, comp)
			r.manager.Unregister(Ref{e, comp})
		}
	}

	gen := r.generations[e.Index] + 1
	if gen == 0 {
		gen = 1
	}
	r.generations[e.Index] = gen
	r.used[e.Index] = false
	r.free = append(r.free, e.Index)
	r.alive--
}

// Clear destroys every live entity and drops queued commands
func (r *Registry) Clear() {
	r.commands.reset()
	for _, e := range r.Entities() {
		if r.IsAlive(e) {
			r.destroy(e)
		}
	}
}

// Components lists the component pointers attached to e in store registration order
func (r *Registry) Components(e core.Entity) []any {
	if !r.IsAlive(e) {
		return nil
	}
	var out []any
	for _, s := range r.order {
		if c := s.Component(e); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Stores returns every registered store in registration order
func (r *Registry) Stores() []AnyStore {
	out := make([]AnyStore, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) notifyAttach(e core.Entity, comp any) {
	if a, ok := comp.(Attacher); ok {
		a.OnAttach(e)
	}
}

func (r *Registry) notifyDetach(e core.Entity, comp any) {
	if d, ok := comp.(Detacher); ok {
		d.OnDetach(e)
	}
}

// StoreOf returns the store for T, creating and registering it on first use
func StoreOf[T any](r *Registry) *Store[T] {
	t := reflect.TypeFor[T]()
	if s, ok := r.stores[t]; ok {
		return s.(*Store[T])
	}
	s := newStore[T]()
	r.stores[t] = s
	r.order = append(r.order, s)
	return s
}

func lookupStore[T any](r *Registry) *Store[T] {
	if s, ok := r.stores[reflect.TypeFor[T]()]; ok {
		return s.(*Store[T])
	}
	return nil
}

// Add attaches v to e and returns the stored pointer
// An existing T is replaced in place: the old value is detached, the pointer stays stable
// Panics on core.Null; returns nil without mutation when e is dead
func Add[T any](r *Registry, e core.Entity, v T) *T {
	mustNotNull(e, "add component")
	if !r.IsAlive(e) {
		return nil
	}
	s := StoreOf[T](r)
	if p := s.Get(e); p != nil {
		r.notifyDetach(e, p)
		*p = v
		r.notifyAttach(e, p)
		return p
	}
	p := s.insert(e, v)
	r.manager.Register(Ref{e, p})
	r.notifyAttach(e, p)
	return p
}

// Get returns e's T or nil when absent; panics when e is null or dead
func Get[T any](r *Registry, e core.Entity) *T {
	r.mustLive(e, "get component")
	if s := lookupStore[T](r); s != nil {
		return s.Get(e)
	}
	return nil
}

// TryGet returns e's T or nil for any invalid case
func TryGet[T any](r *Registry, e core.Entity) *T {
	if !r.IsAlive(e) {
		return nil
	}
	if s := lookupStore[T](r); s != nil {
		return s.Get(e)
	}
	return nil
}

// Has is total: false for null, dead or absent
func Has[T any](r *Registry, e core.Entity) bool {
	return TryGet[T](r, e) != nil
}

// Remove detaches e's T; panics when e is null or dead, no-op when absent
func Remove[T any](r *Registry, e core.Entity) {
	r.mustLive(e, "remove component")
	s := lookupStore[T](r)
	if s == nil {
		return
	}
	if p, ok := s.remove(e); ok {
		r.notifyDetach(e, p)
		r.manager.Unregister(Ref{e, p})
	}
}

// View returns the entities holding T in insertion order
func View[T any](r *Registry) []core.Entity {
	if s := lookupStore[T](r); s != nil {
		return s.All()
	}
	return nil
}

// Each calls fn for every entity holding T, over a snapshot taken before the first call
// Entities that lose T or die during iteration are skipped; entities gaining T are not visited
func Each[T any](r *Registry, fn func(e core.Entity, c *T)) {
	for _, e := range View[T](r) {
		if c := TryGet[T](r, e); c != nil {
			fn(e, c)
		}
	}
}
