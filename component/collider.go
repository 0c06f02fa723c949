package component

import (
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/jsonx"
	"github.com/lixenwraith/vi-ecs/physics"
)

// ColliderComponent is a box shape attached to the entity's rigid body
type ColliderComponent struct {
	Offset      core.Vec2
	HalfExtents core.Vec2
	Sensor      bool

	Fixture *physics.Fixture
}

func NewBoxCollider(halfExtents core.Vec2) ColliderComponent {
	return ColliderComponent{HalfExtents: halfExtents}
}

// Attach adds the shape to body; a nil body leaves the collider inert
func (c *ColliderComponent) Attach(body *physics.Body) *physics.Fixture {
	c.release()
	if body == nil {
		return nil
	}
	c.Fixture = body.AddFixture(c.Offset, c.HalfExtents, c.Sensor)
	return c.Fixture
}

func (c *ColliderComponent) OnDetach(core.Entity) {
	c.release()
}

func (c *ColliderComponent) release() {
	if c.Fixture == nil {
		return
	}
	if b := c.Fixture.Body(); b != nil {
		b.RemoveFixture(c.Fixture)
	}
	c.Fixture = nil
}

func (c *ColliderComponent) Encode(b *jsonx.Builder) {
	b.BeginObject()
	encodeVec(b, "offset", c.Offset)
	encodeVec(b, "halfExtents", c.HalfExtents)
	b.AddKey("sensor")
	b.AddBool(c.Sensor)
	b.EndObject()
}

func (c *ColliderComponent) Decode(v *jsonx.Value) error {
	if err := requireObject(v, "collider"); err != nil {
		return err
	}
	off, err := decodeVec(v.Key("offset"), core.Vec2{})
	if err != nil {
		return err
	}
	half, err := decodeVec(v.Key("halfExtents"), core.V2(0.5, 0.5))
	if err != nil {
		return err
	}
	c.Offset = off
	c.HalfExtents = half
	c.Sensor = v.Key("sensor").Bool(false)
	return nil
}
