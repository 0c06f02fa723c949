package script

import (
	"time"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
)

// PlayerSpeed is the velocity in cells per second applied by the player behavior
const PlayerSpeed = 12.0

// RegisterBuiltins adds the behaviors the demo scene refers to
func RegisterBuiltins(r *Registry) {
	r.Register("player", func() Behavior { return &playerBehavior{} })
	r.Register("spin", func() Behavior { return &spinBehavior{Speed: 2} })
}

// playerBehavior steers its rigid body from the held direction actions
type playerBehavior struct{}

func (p *playerBehavior) OnCreate(*Context) error { return nil }

func (p *playerBehavior) OnUpdate(ctx *Context, _ time.Duration) error {
	reg := ctx.World.Registry
	in := engine.TryGet[component.InputComponent](reg, ctx.Entity)
	rb := engine.TryGet[component.RigidBodyComponent](reg, ctx.Entity)
	if in == nil || rb == nil || rb.Body == nil {
		return nil
	}

	var dir core.Vec2
	if in.IsActionDown("left") {
		dir.X--
	}
	if in.IsActionDown("right") {
		dir.X++
	}
	if in.IsActionDown("up") {
		dir.Y--
	}
	if in.IsActionDown("down") {
		dir.Y++
	}
	rb.Body.SetImpulse(dir.Scale(PlayerSpeed))
	return nil
}

// spinBehavior orbits its local position around the parent at Speed radians per second
type spinBehavior struct {
	Speed float64
}

func (s *spinBehavior) OnCreate(*Context) error { return nil }

func (s *spinBehavior) OnUpdate(ctx *Context, dt time.Duration) error {
	if t := engine.TryGet[component.TransformComponent](ctx.World.Registry, ctx.Entity); t != nil {
		angle := s.Speed * dt.Seconds()
		t.Position = t.Position.Rotate(angle)
		t.Rotation += angle
	}
	return nil
}
