package physics

import (
	"fmt"
	"math"

	"github.com/lixenwraith/vi-ecs/core"
)

// BodyType selects how the world integrates a body
type BodyType uint8

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

var bodyTypeNames = map[BodyType]string{
	BodyStatic:    "static",
	BodyKinematic: "kinematic",
	BodyDynamic:   "dynamic",
}

func (t BodyType) String() string {
	if s, ok := bodyTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("BodyType(%d)", uint8(t))
}

// ParseBodyType resolves a persisted type name
func ParseBodyType(s string) (BodyType, error) {
	for t, name := range bodyTypeNames {
		if name == s {
			return t, nil
		}
	}
	return BodyStatic, fmt.Errorf("unknown body type %q", s)
}

// BodyDef carries the initial state of a body
type BodyDef struct {
	Type            BodyType
	Position        core.Vec2
	Angle           float64
	Velocity        core.Vec2
	AngularVelocity float64
	GravityScale    float64
	Mass            float64
	FixedRotation   bool
}

// Fixture is an axis-aligned box shape attached to a body, offset in body space
type Fixture struct {
	Offset      core.Vec2
	HalfExtents core.Vec2
	Sensor      bool
	body        *Body
}

// Body returns the owning body
func (f *Fixture) Body() *Body {
	return f.body
}

// AABB returns the world bounds of the fixture, enclosing it under the body's rotation
func (f *Fixture) AABB() AABB {
	b := f.body
	center := b.Position.Add(f.Offset.Rotate(b.Angle))
	half := f.HalfExtents
	if b.Angle != 0 {
		sin, cos := math.Sincos(b.Angle)
		sin, cos = math.Abs(sin), math.Abs(cos)
		half = core.V2(half.X*cos+half.Y*sin, half.X*sin+half.Y*cos)
	}
	return BoxAt(center, half)
}

// Body is a rigid body owned by a World
// UserData holds the owning core.Entity and is how callbacks resolve back into the ECS
type Body struct {
	Type            BodyType
	Position        core.Vec2
	Angle           float64
	Velocity        core.Vec2
	AngularVelocity float64
	GravityScale    float64
	Mass            float64
	FixedRotation   bool
	UserData        any

	fixtures  []*Fixture
	world     *World
	destroyed bool
}

// AddFixture attaches a box shape
func (b *Body) AddFixture(offset, halfExtents core.Vec2, sensor bool) *Fixture {
	f := &Fixture{Offset: offset, HalfExtents: halfExtents, Sensor: sensor, body: b}
	b.fixtures = append(b.fixtures, f)
	return f
}

// RemoveFixture detaches a shape; unknown fixtures are ignored
func (b *Body) RemoveFixture(f *Fixture) {
	for i, x := range b.fixtures {
		if x == f {
			b.fixtures = append(b.fixtures[:i], b.fixtures[i+1:]...)
			f.body = nil
			return
		}
	}
}

func (b *Body) Fixtures() []*Fixture {
	out := make([]*Fixture, len(b.fixtures))
	copy(out, b.fixtures)
	return out
}

// ApplyImpulse adds impulse/mass to velocity; static and massless bodies ignore it
func (b *Body) ApplyImpulse(impulse core.Vec2) {
	if b.Type != BodyDynamic || b.Mass <= 0 {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Scale(1 / b.Mass))
}

// SetImpulse replaces velocity outright
func (b *Body) SetImpulse(velocity core.Vec2) {
	if b.Type == BodyStatic {
		return
	}
	b.Velocity = velocity
}

// SetTransform teleports the body
func (b *Body) SetTransform(pos core.Vec2, angle float64) {
	b.Position = pos
	b.Angle = angle
}

// Destroy removes the body from its world; safe to call twice
func (b *Body) Destroy() {
	if b.destroyed || b.world == nil {
		return
	}
	b.world.removeBody(b)
}

// Destroyed reports whether the body left its world
func (b *Body) Destroyed() bool {
	return b.destroyed
}
