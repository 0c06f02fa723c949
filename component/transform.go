package component

import (
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/jsonx"
)

// TransformComponent holds local placement relative to the parent entity
// World values are derived by engine.WorldTransform and never stored
type TransformComponent struct {
	Position core.Vec2
	Scale    core.Vec2
	Rotation float64 // radians, unbounded
}

// NewTransform returns a transform at pos with unit scale
func NewTransform(pos core.Vec2) TransformComponent {
	return TransformComponent{Position: pos, Scale: core.One}
}

func (t *TransformComponent) Encode(b *jsonx.Builder) {
	b.BeginObject()
	encodeVec(b, "position", t.Position)
	encodeVec(b, "scale", t.Scale)
	b.AddKey("rotation")
	b.AddNumber(t.Rotation)
	b.EndObject()
}

func (t *TransformComponent) Decode(v *jsonx.Value) error {
	if err := requireObject(v, "transform"); err != nil {
		return err
	}
	pos, err := decodeVec(v.Key("position"), core.Vec2{})
	if err != nil {
		return err
	}
	scale, err := decodeVec(v.Key("scale"), core.One)
	if err != nil {
		return err
	}
	t.Position = pos
	t.Scale = scale
	t.Rotation = v.Key("rotation").Float(0)
	return nil
}
