package engine

import (
	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
)

// WorldTransform folds local transforms from the root down to e
// Entities without a TransformComponent contribute identity
//
//	scale = local ⊗ parentScale
//	rot   = local + parentRot
//	pos   = parentPos + rotate(local ⊗ parentScale, parentRot)
func WorldTransform(r *Registry, e core.Entity) (pos, scale core.Vec2, rot float64) {
	scale = core.One
	if !r.IsAlive(e) {
		return
	}
	chain := r.Ancestors(e)
	for i := len(chain) - 1; i >= 0; i-- {
		pos, scale, rot = applyLocal(r, chain[i], pos, scale, rot)
	}
	return applyLocal(r, e, pos, scale, rot)
}

func applyLocal(r *Registry, e core.Entity, pos, scale core.Vec2, rot float64) (core.Vec2, core.Vec2, float64) {
	t := TryGet[component.TransformComponent](r, e)
	if t == nil {
		return pos, scale, rot
	}
	return pos.Add(t.Position.Mul(scale).Rotate(rot)), t.Scale.Mul(scale), t.Rotation + rot
}

// parentTransform is the world transform e's local values are relative to
func parentTransform(r *Registry, e core.Entity) (core.Vec2, core.Vec2, float64) {
	if p := r.Parent(e); !p.IsNull() {
		return WorldTransform(r, p)
	}
	return core.Vec2{}, core.One, 0
}

func WorldPosition(r *Registry, e core.Entity) core.Vec2 {
	pos, _, _ := WorldTransform(r, e)
	return pos
}

func WorldScale(r *Registry, e core.Entity) core.Vec2 {
	_, scale, _ := WorldTransform(r, e)
	return scale
}

func WorldRotation(r *Registry, e core.Entity) float64 {
	_, _, rot := WorldTransform(r, e)
	return rot
}

// transformOf returns e's transform, attaching an identity one when missing
func transformOf(r *Registry, e core.Entity) *component.TransformComponent {
	if t := TryGet[component.TransformComponent](r, e); t != nil {
		return t
	}
	return Add(r, e, component.NewTransform(core.Vec2{}))
}

// SetWorldPosition stores the local position that places e at p under its current ancestors
// Nothing is cached: moving an ancestor later moves e. An axis collapsed by a zero parent scale
// cannot be solved and keeps its local value
func SetWorldPosition(r *Registry, e core.Entity, p core.Vec2) {
	r.mustLive(e, "set world position")
	ppos, pscale, prot := parentTransform(r, e)
	t := transformOf(r, e)
	local := p.Sub(ppos).Rotate(-prot)
	if pscale.X != 0 {
		t.Position.X = local.X / pscale.X
	}
	if pscale.Y != 0 {
		t.Position.Y = local.Y / pscale.Y
	}
}

// SetWorldRotation stores the local rotation that yields rot under current ancestors
func SetWorldRotation(r *Registry, e core.Entity, rot float64) {
	r.mustLive(e, "set world rotation")
	_, _, prot := parentTransform(r, e)
	t := transformOf(r, e)
	t.Rotation = rot - prot
}
