package scene

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/input"
	"github.com/lixenwraith/vi-ecs/jsonx"
	"github.com/lixenwraith/vi-ecs/logging"
	"github.com/lixenwraith/vi-ecs/physics"
	"github.com/lixenwraith/vi-ecs/script"
)

// ErrDuplicateType is the panic cause for registering a name, legacy key or Go type twice
var ErrDuplicateType = errors.New("duplicate component type")

// Pass orders component initialization after a load: bodies, then colliders, then everything else
type Pass uint8

const (
	PassBody Pass = iota
	PassCollider
	PassOther
	passCount
)

// Env carries the collaborators component initialization needs
// Nil collaborators skip the matching initialization
type Env struct {
	World   *engine.World
	Physics physics.Collaborator
	Input   *input.Manager
	Audio   component.SoundPlayer
	Scripts *script.Registry
	Log     *logging.Logger
}

// entry is the type-erased registration of one component type
type entry struct {
	name   string
	legacy string
	pass   Pass
	typ    reflect.Type

	attach func(env *Env, e core.Entity, v *jsonx.Value) (any, error)
	init   func(env *Env, e core.Entity, c any) error
	encode func(c any, b *jsonx.Builder)
}

// Factory maps persisted component keys to Go component types
// Registrations are stored under the TypeID of their canonical name; every other index resolves to that id
type Factory struct {
	entries  map[uint64]*entry
	byLegacy map[string]uint64
	byType   map[reflect.Type]uint64
	order    []uint64
}

func NewFactory() *Factory {
	return &Factory{
		entries:  make(map[uint64]*entry),
		byLegacy: make(map[string]uint64),
		byType:   make(map[reflect.Type]uint64),
	}
}

// TypeID is the stable hash of a canonical component name
func TypeID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Register adds component type T under a canonical name and legacy key
// init may be nil; it runs in its pass after every entity of a load exists and parents are linked
// Panics with ErrDuplicateType on any repeated name, key, type or hash
func Register[T any, P interface {
	*T
	component.Codec
}](f *Factory, name, legacyKey string, pass Pass, init func(env *Env, e core.Entity, c P) error) {
	typ := reflect.TypeFor[T]()
	id := TypeID(name)
	if en, ok := f.entries[id]; ok {
		if en.name == name {
			panic(fmt.Errorf("register %q: name: %w", name, ErrDuplicateType))
		}
		panic(fmt.Errorf("register %q: type id collides with %q: %w", name, en.name, ErrDuplicateType))
	}
	if _, ok := f.byLegacy[legacyKey]; ok {
		panic(fmt.Errorf("register %q: legacy key %q: %w", name, legacyKey, ErrDuplicateType))
	}
	if _, ok := f.byType[typ]; ok {
		panic(fmt.Errorf("register %q: type %s: %w", name, typ, ErrDuplicateType))
	}

	en := &entry{
		name:   name,
		legacy: legacyKey,
		pass:   pass,
		typ:    typ,
		attach: func(env *Env, e core.Entity, v *jsonx.Value) (any, error) {
			var c T
			if err := P(&c).Decode(v); err != nil {
				return nil, err
			}
			p := engine.Add(env.World.Registry, e, c)
			if p == nil {
				return nil, fmt.Errorf("%s: entity %s is dead", name, e)
			}
			return p, nil
		},
		encode: func(c any, b *jsonx.Builder) {
			c.(P).Encode(b)
		},
	}
	if init != nil {
		en.init = func(env *Env, e core.Entity, c any) error {
			return init(env, e, c.(P))
		}
	}

	f.entries[id] = en
	f.byLegacy[legacyKey] = id
	f.byType[typ] = id
	f.order = append(f.order, id)
}

// Canonical maps a legacy key, or a canonical name, to the canonical name
func (f *Factory) Canonical(key string) (string, bool) {
	if en := f.lookup(key); en != nil {
		return en.name, true
	}
	return "", false
}

// LegacyKey returns the persisted key for a canonical name
func (f *Factory) LegacyKey(name string) (string, bool) {
	if en := f.byName(name); en != nil {
		return en.legacy, true
	}
	return "", false
}

// Names returns canonical names in registration order
func (f *Factory) Names() []string {
	out := make([]string, len(f.order))
	for i, id := range f.order {
		out[i] = f.entries[id].name
	}
	return out
}

// ByID resolves a type id produced by TypeID
func (f *Factory) ByID(id uint64) (string, bool) {
	if en, ok := f.entries[id]; ok {
		return en.name, true
	}
	return "", false
}

// byName resolves a canonical name; the name check rejects an unregistered name hashing to a registered id
func (f *Factory) byName(name string) *entry {
	if en, ok := f.entries[TypeID(name)]; ok && en.name == name {
		return en
	}
	return nil
}

func (f *Factory) lookup(key string) *entry {
	if id, ok := f.byLegacy[key]; ok {
		return f.entries[id]
	}
	return f.byName(key)
}

// forComponent finds the registration for a component pointer
func (f *Factory) forComponent(c any) *entry {
	t := reflect.TypeOf(c)
	if t == nil || t.Kind() != reflect.Pointer {
		return nil
	}
	if id, ok := f.byType[t.Elem()]; ok {
		return f.entries[id]
	}
	return nil
}

// DefaultFactory registers every engine component under its legacy key
func DefaultFactory() *Factory {
	f := NewFactory()
	Register[component.TransformComponent](f, "Transform", "cTransform", PassOther, nil)
	Register(f, "RigidBody", "cRigidBody", PassBody, initRigidBody)
	Register(f, "Collider", "cCollider", PassCollider, initCollider)
	Register[component.SpriteComponent](f, "Sprite", "cSprite", PassOther, nil)
	Register(f, "NativeScript", "cScript", PassOther, initScript)
	Register(f, "Input", "cInput", PassOther, initInput)
	Register(f, "AudioSource", "cAudioSource", PassOther, initAudio)
	return f
}

func initRigidBody(env *Env, e core.Entity, rb *component.RigidBodyComponent) error {
	if env.Physics == nil {
		return nil
	}
	pos, _, rot := engine.WorldTransform(env.World.Registry, e)
	rb.Create(env.Physics, e, pos, rot)
	return nil
}

func initCollider(env *Env, e core.Entity, c *component.ColliderComponent) error {
	if rb := engine.TryGet[component.RigidBodyComponent](env.World.Registry, e); rb != nil {
		c.Attach(rb.Body)
	}
	return nil
}

func initScript(env *Env, _ core.Entity, s *script.NativeScriptComponent) error {
	if env.Scripts == nil {
		return nil
	}
	return env.Scripts.Bind(s)
}

func initInput(env *Env, _ core.Entity, c *component.InputComponent) error {
	if env.Input == nil {
		return nil
	}
	return c.Attach(env.Input)
}

func initAudio(env *Env, _ core.Entity, a *component.AudioSourceComponent) error {
	if env.Audio == nil {
		return nil
	}
	return a.Attach(env.Audio)
}
