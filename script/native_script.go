package script

import (
	"fmt"

	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/jsonx"
)

// NativeScriptComponent owns a behavior resolved by name through a Registry
// Only the name is persisted
type NativeScriptComponent struct {
	Name     string
	Behavior Behavior

	created bool
}

// NewNativeScript wraps an already constructed behavior
func NewNativeScript(name string, b Behavior) NativeScriptComponent {
	return NativeScriptComponent{Name: name, Behavior: b}
}

// Created reports whether OnCreate has run
func (s *NativeScriptComponent) Created() bool {
	return s.created
}

// MarkCreated records that OnCreate has run
func (s *NativeScriptComponent) MarkCreated() {
	s.created = true
}

func (s *NativeScriptComponent) OnDetach(core.Entity) {
	if d, ok := s.Behavior.(Destroyer); ok {
		d.OnDestroy()
	}
	s.Behavior = nil
	s.created = false
}

func (s *NativeScriptComponent) Encode(b *jsonx.Builder) {
	b.BeginObject()
	b.AddKey("name")
	b.AddString(s.Name)
	b.EndObject()
}

func (s *NativeScriptComponent) Decode(v *jsonx.Value) error {
	if !v.IsObject() {
		return fmt.Errorf("script: expected object, got %s", v.Kind())
	}
	name := v.Key("name").String("")
	if name == "" {
		return fmt.Errorf("script: name is required")
	}
	s.Name = name
	s.Behavior = nil
	s.created = false
	return nil
}
