package physics

import (
	"sort"
	"time"

	"github.com/lixenwraith/vi-ecs/core"
)

// Collaborator is the narrow contract the ECS core consumes
type Collaborator interface {
	CreateBody(e core.Entity, def BodyDef) *Body
	DestroyBody(e core.Entity)
	Body(e core.Entity) (*Body, bool)
	EntityOf(b *Body) (core.Entity, bool)
	SetGravity(g core.Vec2)
	Gravity() core.Vec2
	QueryAABB(box AABB, fn func(f *Fixture) bool)
	RayCast(from, to core.Vec2, fn func(hit RayHit) bool)
	Step(dt time.Duration)
}

// RayHit is one fixture crossed by a ray cast
type RayHit struct {
	Fixture  *Fixture
	Point    core.Vec2
	Normal   core.Vec2
	Fraction float64 // 0 at from, 1 at to
}

var _ Collaborator = (*World)(nil)

// World is a minimal rigid-body simulation: explicit Euler integration, no contact solving
type World struct {
	gravity core.Vec2
	bodies  map[core.Entity]*Body
	order   []*Body // creation order for deterministic stepping and queries
}

// NewWorld creates an empty world with the given gravity
func NewWorld(gravity core.Vec2) *World {
	return &World{
		gravity: gravity,
		bodies:  make(map[core.Entity]*Body),
	}
}

// CreateBody creates the body for e, replacing any existing one
func (w *World) CreateBody(e core.Entity, def BodyDef) *Body {
	if old, ok := w.bodies[e]; ok {
		w.removeBody(old)
	}
	b := &Body{
		Type:            def.Type,
		Position:        def.Position,
		Angle:           def.Angle,
		Velocity:        def.Velocity,
		AngularVelocity: def.AngularVelocity,
		GravityScale:    def.GravityScale,
		Mass:            def.Mass,
		FixedRotation:   def.FixedRotation,
		UserData:        e,
		world:           w,
	}
	w.bodies[e] = b
	w.order = append(w.order, b)
	return b
}

func (w *World) DestroyBody(e core.Entity) {
	if b, ok := w.bodies[e]; ok {
		w.removeBody(b)
	}
}

func (w *World) removeBody(b *Body) {
	if e, ok := b.UserData.(core.Entity); ok && w.bodies[e] == b {
		delete(w.bodies, e)
	}
	for i, x := range w.order {
		if x == b {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	b.destroyed = true
}

func (w *World) Body(e core.Entity) (*Body, bool) {
	b, ok := w.bodies[e]
	return b, ok
}

// EntityOf resolves a body's user data back to its entity
func (w *World) EntityOf(b *Body) (core.Entity, bool) {
	if b == nil {
		return core.Null, false
	}
	e, ok := b.UserData.(core.Entity)
	return e, ok
}

func (w *World) SetGravity(g core.Vec2) {
	w.gravity = g
}

func (w *World) Gravity() core.Vec2 {
	return w.gravity
}

// BodyCount returns the number of live bodies
func (w *World) BodyCount() int {
	return len(w.order)
}

// Step advances every non-static body by dt
func (w *World) Step(dt time.Duration) {
	sec := dt.Seconds()
	if sec <= 0 {
		return
	}
	for _, b := range w.order {
		switch b.Type {
		case BodyDynamic:
			b.Velocity = b.Velocity.Add(w.gravity.Scale(b.GravityScale * sec))
			fallthrough
		case BodyKinematic:
			b.Position = b.Position.Add(b.Velocity.Scale(sec))
			if !b.FixedRotation {
				b.Angle += b.AngularVelocity * sec
			}
		}
	}
}

// QueryAABB reports every fixture whose bounds overlap box; fn returns false to stop
func (w *World) QueryAABB(box AABB, fn func(f *Fixture) bool) {
	for _, b := range w.snapshot() {
		for _, f := range b.fixtures {
			if f.AABB().Overlaps(box) && !fn(f) {
				return
			}
		}
	}
}

// RayCast reports fixtures crossed by the segment, nearest first; fn returns false to stop
func (w *World) RayCast(from, to core.Vec2, fn func(hit RayHit) bool) {
	var hits []RayHit
	d := to.Sub(from)
	for _, b := range w.order {
		for _, f := range b.fixtures {
			frac, normal, ok := f.AABB().segment(from, to)
			if !ok {
				continue
			}
			hits = append(hits, RayHit{
				Fixture:  f,
				Point:    from.Add(d.Scale(frac)),
				Normal:   normal,
				Fraction: frac,
			})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Fraction < hits[j].Fraction })
	for _, h := range hits {
		if !fn(h) {
			return
		}
	}
}

// snapshot lets query callbacks destroy bodies without skipping entries
func (w *World) snapshot() []*Body {
	out := make([]*Body, len(w.order))
	copy(out, w.order)
	return out
}
