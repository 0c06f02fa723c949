package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/lixenwraith/vi-ecs/core"
)

// Ref names one tracked component by its owning entity and pointer
// Zero-size components share a pointer, so the entity keeps their refs distinct
type Ref struct {
	Entity    core.Entity
	Component any
}

// ComponentManager tracks every registered component as active or inactive
// One component kind may be marked interesting at construction; active components of that kind
// are mirrored into a filtered view for hot systems
//
// Safe for concurrent use. UpdateAll runs component updates outside the lock so an update may
// register, unregister or toggle components, including itself
type ComponentManager struct {
	mu          sync.Mutex
	active      []Ref
	inactive    []Ref
	state       map[Ref]bool // tracked component -> active
	interesting func(any) bool
	view        []Ref
}

// NewComponentManager creates a manager; interesting may be nil
func NewComponentManager(interesting func(any) bool) *ComponentManager {
	return &ComponentManager{
		state:       make(map[Ref]bool),
		interesting: interesting,
	}
}

// InterestedIn builds a predicate matching *T components
func InterestedIn[T any]() func(any) bool {
	return func(c any) bool {
		_, ok := c.(*T)
		return ok
	}
}

func (m *ComponentManager) isInteresting(ref Ref) bool {
	return m.interesting != nil && m.interesting(ref.Component)
}

// Register tracks ref as active; already tracked refs are ignored
func (m *ComponentManager) Register(ref Ref) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state[ref]; ok {
		return
	}
	m.state[ref] = true
	m.active = append(m.active, ref)
	if m.isInteresting(ref) {
		m.view = append(m.view, ref)
	}
}

// Unregister stops tracking ref; unknown refs are ignored
func (m *ComponentManager) Unregister(ref Ref) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active, ok := m.state[ref]
	if !ok {
		return
	}
	delete(m.state, ref)
	if active {
		m.active = removeItem(m.active, ref)
		m.view = removeItem(m.view, ref)
	} else {
		m.inactive = removeItem(m.inactive, ref)
	}
}

// SetActive moves ref between lists; no-op when untracked or already in the requested state
func (m *ComponentManager) SetActive(ref Ref, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.state[ref]
	if !ok || cur == active {
		return
	}
	m.state[ref] = active
	if active {
		m.inactive = removeItem(m.inactive, ref)
		m.active = append(m.active, ref)
		if m.isInteresting(ref) {
			m.view = append(m.view, ref)
		}
		return
	}
	m.active = removeItem(m.active, ref)
	m.view = removeItem(m.view, ref)
	m.inactive = append(m.inactive, ref)
}

// IsActive reports false for untracked components
func (m *ComponentManager) IsActive(ref Ref) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state[ref]
}

// IsTracked reports whether ref is registered
func (m *ComponentManager) IsTracked(ref Ref) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.state[ref]
	return ok
}

func (m *ComponentManager) Active() []Ref {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.active)
}

func (m *ComponentManager) Inactive() []Ref {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.inactive)
}

// Interesting returns the active refs matching the construction predicate, in activation order
func (m *ComponentManager) Interesting() []Ref {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.view)
}

// Counts returns active and inactive totals
func (m *ComponentManager) Counts() (active, inactive int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active), len(m.inactive)
}

// UpdateAll calls Update on every active Updatable, iterating a snapshot copied under the lock
// Components deactivated by an earlier update in the same pass are skipped
func (m *ComponentManager) UpdateAll(dt time.Duration) {
	snapshot := m.Active()
	for _, ref := range snapshot {
		u, ok := ref.Component.(Updatable)
		if !ok || !m.IsActive(ref) {
			continue
		}
		u.Update(dt)
	}
}

func removeItem(list []Ref, item Ref) []Ref {
	if i := slices.Index(list, item); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

// SetComponentActive toggles e's T in the registry's manager; no-op when absent
func SetComponentActive[T any](r *Registry, e core.Entity, active bool) {
	if c := TryGet[T](r, e); c != nil {
		r.manager.SetActive(Ref{e, c}, active)
	}
}

// IsComponentActive reports whether e's T exists and is active
func IsComponentActive[T any](r *Registry, e core.Entity) bool {
	c := TryGet[T](r, e)
	return c != nil && r.manager.IsActive(Ref{e, c})
}
