package engine

import (
	"slices"

	"github.com/lixenwraith/vi-ecs/core"
)

// SetParent links child under parent, or detaches it when parent is core.Null
// Returns ErrHierarchyCycle without mutation when parent is child or one of its descendants
func (r *Registry) SetParent(child, parent core.Entity) error {
	r.mustLive(child, "set parent")
	if !parent.IsNull() {
		r.mustLive(parent, "set parent")
	}
	if parent == child {
		return ErrHierarchyCycle
	}
	for p := parent; r.IsAlive(p); p = r.parents[p.Index] {
		if p == child {
			return ErrHierarchyCycle
		}
	}

	if old := r.parents[child.Index]; r.IsAlive(old) {
		r.RemoveChild(old, child)
	}
	if parent.IsNull() {
		r.parents[child.Index] = core.Null
		return nil
	}
	r.parents[child.Index] = parent
	r.children[parent.Index] = append(r.children[parent.Index], child)
	return nil
}

// Parent returns e's parent, core.Null for roots and invalid handles
func (r *Registry) Parent(e core.Entity) core.Entity {
	if !r.IsAlive(e) {
		return core.Null
	}
	if p := r.parents[e.Index]; r.IsAlive(p) {
		return p
	}
	return core.Null
}

// Children returns a copy of e's ordered child list
func (r *Registry) Children(e core.Entity) []core.Entity {
	if !r.IsAlive(e) {
		return nil
	}
	return slices.Clone(r.children[e.Index])
}

// RemoveChild drops child from parent's list without touching the child's parent pointer
// Use SetParent(child, core.Null) for a consistent detach
func (r *Registry) RemoveChild(parent, child core.Entity) {
	if !r.IsAlive(parent) {
		return
	}
	list := r.children[parent.Index]
	if i := slices.Index(list, child); i >= 0 {
		r.children[parent.Index] = slices.Delete(list, i, i+1)
	}
}

// Ancestors returns e's parent chain, nearest first
func (r *Registry) Ancestors(e core.Entity) []core.Entity {
	var out []core.Entity
	for p := r.Parent(e); !p.IsNull(); p = r.Parent(p) {
		out = append(out, p)
	}
	return out
}

// Root returns the topmost ancestor of e, or e itself
func (r *Registry) Root(e core.Entity) core.Entity {
	root := e
	for p := r.Parent(e); !p.IsNull(); p = r.Parent(p) {
		root = p
	}
	return root
}

// Descendants returns every entity below e in depth-first pre-order
func (r *Registry) Descendants(e core.Entity) []core.Entity {
	var out []core.Entity
	stack := slices.Clone(r.Children(e))
	slices.Reverse(stack)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		kids := r.Children(n)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}
