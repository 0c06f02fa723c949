package component

import (
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/jsonx"
	"github.com/lixenwraith/vi-ecs/physics"
)

// RigidBodyComponent binds an entity to a physics body
// Body is nil until Create runs during scene initialization or by hand
type RigidBodyComponent struct {
	Type            physics.BodyType
	Velocity        core.Vec2
	AngularVelocity float64
	GravityScale    float64
	Mass            float64
	FixedRotation   bool

	Body *physics.Body
}

// NewRigidBody returns a dynamic body definition with unit mass and gravity
func NewRigidBody(t physics.BodyType) RigidBodyComponent {
	return RigidBodyComponent{Type: t, GravityScale: 1, Mass: 1}
}

// Create builds the physics body at the given world pose, replacing any previous one
func (rb *RigidBodyComponent) Create(w physics.Collaborator, e core.Entity, pos core.Vec2, angle float64) *physics.Body {
	if rb.Body != nil {
		rb.Body.Destroy()
	}
	rb.Body = w.CreateBody(e, physics.BodyDef{
		Type:            rb.Type,
		Position:        pos,
		Angle:           angle,
		Velocity:        rb.Velocity,
		AngularVelocity: rb.AngularVelocity,
		GravityScale:    rb.GravityScale,
		Mass:            rb.Mass,
		FixedRotation:   rb.FixedRotation,
	})
	return rb.Body
}

// OnDetach releases the physics body with the component
func (rb *RigidBodyComponent) OnDetach(core.Entity) {
	if rb.Body != nil {
		rb.Body.Destroy()
		rb.Body = nil
	}
}

func (rb *RigidBodyComponent) Encode(b *jsonx.Builder) {
	vel, angVel := rb.Velocity, rb.AngularVelocity
	if rb.Body != nil {
		vel, angVel = rb.Body.Velocity, rb.Body.AngularVelocity
	}
	b.BeginObject()
	b.AddKey("type")
	b.AddString(rb.Type.String())
	encodeVec(b, "velocity", vel)
	b.AddKey("angularVelocity")
	b.AddNumber(angVel)
	b.AddKey("gravityScale")
	b.AddNumber(rb.GravityScale)
	b.AddKey("mass")
	b.AddNumber(rb.Mass)
	b.AddKey("fixedRotation")
	b.AddBool(rb.FixedRotation)
	b.EndObject()
}

func (rb *RigidBodyComponent) Decode(v *jsonx.Value) error {
	if err := requireObject(v, "rigidbody"); err != nil {
		return err
	}
	t, err := physics.ParseBodyType(v.Key("type").String("dynamic"))
	if err != nil {
		return err
	}
	vel, err := decodeVec(v.Key("velocity"), core.Vec2{})
	if err != nil {
		return err
	}
	rb.Type = t
	rb.Velocity = vel
	rb.AngularVelocity = v.Key("angularVelocity").Float(0)
	rb.GravityScale = v.Key("gravityScale").Float(1)
	rb.Mass = v.Key("mass").Float(1)
	rb.FixedRotation = v.Key("fixedRotation").Bool(false)
	return nil
}
