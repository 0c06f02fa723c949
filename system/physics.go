package system

import (
	"time"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/parameter"
	"github.com/lixenwraith/vi-ecs/physics"
)

// PhysicsSystem steps the physics world at a fixed rate and writes body poses back to transforms
// Only physics roots are driven by their bodies; bodies under another body follow the hierarchy
type PhysicsSystem struct {
	world physics.Collaborator
	step  *engine.FixedStep
}

func NewPhysicsSystem(world physics.Collaborator, step time.Duration, maxSteps int) *PhysicsSystem {
	if step <= 0 {
		step = parameter.PhysicsStep
	}
	if maxSteps <= 0 {
		maxSteps = parameter.MaxPhysicsSteps
	}
	return &PhysicsSystem{world: world, step: engine.NewFixedStep(step, maxSteps)}
}

func (s *PhysicsSystem) Name() string {
	return "physics"
}

func (s *PhysicsSystem) Priority() int {
	return parameter.PriorityPhysics
}

func (s *PhysicsSystem) Update(w *engine.World, dt time.Duration) {
	n := s.step.Advance(dt)
	for i := 0; i < n; i++ {
		s.followHierarchy(w.Registry)
		s.world.Step(s.step.Step)
		s.syncRoots(w.Registry)
	}
}

// Alpha exposes the fixed-step remainder for render interpolation
func (s *PhysicsSystem) Alpha() float64 {
	return s.step.Alpha()
}

func (s *PhysicsSystem) followHierarchy(r *engine.Registry) {
	engine.Each[component.RigidBodyComponent](r, func(e core.Entity, rb *component.RigidBodyComponent) {
		if !bodyLive(rb) || PhysicsRoot(r, e) == e {
			return
		}
		pos, _, rot := engine.WorldTransform(r, e)
		rb.Body.SetTransform(pos, rot)
	})
}

func (s *PhysicsSystem) syncRoots(r *engine.Registry) {
	engine.Each[component.RigidBodyComponent](r, func(e core.Entity, rb *component.RigidBodyComponent) {
		if !bodyLive(rb) || !engine.IsComponentActive[component.RigidBodyComponent](r, e) || PhysicsRoot(r, e) != e {
			return
		}
		SyncToTransform(r, e, rb.Body)
	})
}

func bodyLive(rb *component.RigidBodyComponent) bool {
	return rb.Body != nil && !rb.Body.Destroyed()
}

// PhysicsRoot returns the highest ancestor of e, e included, that owns a rigid body
// core.Null when no entity on the chain has one
func PhysicsRoot(r *engine.Registry, e core.Entity) core.Entity {
	root := core.Null
	for p := e; r.IsAlive(p); p = r.Parent(p) {
		if engine.Has[component.RigidBodyComponent](r, p) {
			root = p
		}
	}
	return root
}

// SyncToTransform writes the body's world pose into e's transform, converting through the hierarchy
func SyncToTransform(r *engine.Registry, e core.Entity, body *physics.Body) {
	engine.SetWorldPosition(r, e, body.Position)
	engine.SetWorldRotation(r, e, body.Angle)
}
