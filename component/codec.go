package component

import (
	"fmt"

	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/jsonx"
)

// Codec is implemented by every persisted component
// Encode writes the field object only; the caller writes the type key
type Codec interface {
	Encode(b *jsonx.Builder)
	Decode(v *jsonx.Value) error
}

func encodeVec(b *jsonx.Builder, key string, v core.Vec2) {
	b.AddKey(key)
	b.BeginObject()
	b.AddKey("x")
	b.AddNumber(v.X)
	b.AddKey("y")
	b.AddNumber(v.Y)
	b.EndObject()
}

// decodeVec reads {"x","y"}; a missing field keeps its default
func decodeVec(v *jsonx.Value, def core.Vec2) (core.Vec2, error) {
	if v.IsNull() {
		return def, nil
	}
	if !v.IsObject() {
		return def, fmt.Errorf("expected vector object, got %s", v.Kind())
	}
	return core.V2(v.Key("x").Float(def.X), v.Key("y").Float(def.Y)), nil
}

func requireObject(v *jsonx.Value, name string) error {
	if !v.IsObject() {
		return fmt.Errorf("%s: expected object, got %s", name, v.Kind())
	}
	return nil
}
