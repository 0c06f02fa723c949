package scene

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/jsonx"
)

var (
	ErrRootNotObject  = errors.New("root must be object")
	ErrNoIdentity     = errors.New("entity has no identity")
	ErrDuplicateGUID  = errors.New("duplicate guid")
	ErrUnknownParent  = errors.New("unknown parent guid")
	ErrUnknownKey     = errors.New("unknown component key")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Settings is the scene-wide configuration block
type Settings struct {
	Music string
}

// Scene is the result of a successful DecodeScene
type Scene struct {
	Settings Settings
	Entities []core.Entity
}

// Serializer converts between the live entity graph and the scene JSON format
type Serializer struct {
	factory *Factory
	env     *Env
}

func NewSerializer(f *Factory, env *Env) *Serializer {
	return &Serializer{factory: f, env: env}
}

func (s *Serializer) Factory() *Factory {
	return s.factory
}

func (s *Serializer) Env() *Env {
	return s.env
}

// EncodeEntity writes e as a scene entity object
// Components without a registration, such as the identity itself, are skipped
func (s *Serializer) EncodeEntity(b *jsonx.Builder, e core.Entity) error {
	r := s.env.World.Registry
	id := engine.TryGet[component.IdentityComponent](r, e)
	if id == nil {
		return fmt.Errorf("encode %s: %w", e, ErrNoIdentity)
	}

	b.BeginObject()
	b.AddKey("guid")
	b.AddString(id.GUID.String())
	b.AddKey("tag")
	b.AddString(id.Tag)
	b.AddKey("id")
	b.AddInt(int64(e.Index))
	if p := r.Parent(e); !p.IsNull() {
		if pid := engine.TryGet[component.IdentityComponent](r, p); pid != nil {
			b.AddKey("parentGuid")
			b.AddString(pid.GUID.String())
		}
	}

	b.AddKey("components")
	b.BeginArray()
	for _, c := range r.Components(e) {
		en := s.factory.forComponent(c)
		if en == nil {
			continue
		}
		b.BeginObject()
		b.AddKey(en.legacy)
		en.encode(c, b)
		b.EndObject()
	}
	b.EndArray()
	b.EndObject()
	return nil
}

// EncodeScene writes every entity that carries an identity, in registry slot order
func (s *Serializer) EncodeScene(settings Settings) ([]byte, error) {
	r := s.env.World.Registry
	b := jsonx.NewBuilder()

	b.BeginObject()
	b.AddKey("settings")
	b.BeginObject()
	if settings.Music != "" {
		b.AddKey("music")
		b.AddString(settings.Music)
	}
	b.EndObject()

	b.AddKey("entities")
	b.BeginArray()
	for _, e := range r.Entities() {
		if !engine.Has[component.IdentityComponent](r, e) {
			continue
		}
		if err := s.EncodeEntity(b, e); err != nil {
			return nil, err
		}
	}
	b.EndArray()
	b.EndObject()
	return b.Bytes(), nil
}

// DecodeEntity creates one entity from an entity object and initializes it immediately
// A parentGuid must name a live entity, including one spawned since the last update
func (s *Serializer) DecodeEntity(data []byte) (core.Entity, error) {
	v, err := jsonx.Parse(data)
	if err != nil {
		return core.Null, err
	}
	p, err := s.planEntity(v)
	if err != nil {
		return core.Null, err
	}
	if err := s.checkGUIDs([]entityPlan{p}); err != nil {
		return core.Null, err
	}
	created, err := s.build([]entityPlan{p})
	if err != nil {
		return core.Null, err
	}
	return created[0], nil
}

// DecodeScene validates the whole document, then builds it
// Nothing is created when validation fails; a failure while building destroys every entity created so far
func (s *Serializer) DecodeScene(data []byte) (*Scene, error) {
	p, err := s.planScene(data)
	if err != nil {
		return nil, err
	}
	return s.buildScene(p)
}

type scenePlan struct {
	settings Settings
	entities []entityPlan
}

// planScene checks everything that does not depend on world contents
func (s *Serializer) planScene(data []byte) (*scenePlan, error) {
	root, err := jsonx.Parse(data)
	if err != nil {
		return nil, err
	}
	if !root.IsObject() {
		return nil, ErrRootNotObject
	}

	p := &scenePlan{}
	if sv := root.Key("settings"); !sv.IsNull() {
		if !sv.IsObject() {
			return nil, fmt.Errorf("settings: %w: expected object, got %s", ErrInvalidPayload, sv.Kind())
		}
		p.settings.Music = sv.Key("music").String("")
	}

	ents := root.Key("entities")
	if !ents.IsNull() && !ents.IsArray() {
		return nil, fmt.Errorf("entities: %w: expected array, got %s", ErrInvalidPayload, ents.Kind())
	}

	p.entities = make([]entityPlan, 0, ents.Len())
	seen := make(map[uuid.UUID]bool, ents.Len())
	for i, ev := range ents.Items() {
		ep, err := s.planEntity(ev)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		if seen[ep.guid] {
			return nil, fmt.Errorf("entity %d: %w %s", i, ErrDuplicateGUID, ep.guid)
		}
		seen[ep.guid] = true
		p.entities = append(p.entities, ep)
	}
	return p, nil
}

func (s *Serializer) buildScene(p *scenePlan) (*Scene, error) {
	if err := s.checkGUIDs(p.entities); err != nil {
		return nil, err
	}
	created, err := s.build(p.entities)
	if err != nil {
		return nil, err
	}
	return &Scene{Settings: p.settings, Entities: created}, nil
}

type componentPlan struct {
	en      *entry
	payload *jsonx.Value
}

type entityPlan struct {
	guid      uuid.UUID
	tag       string
	parent    uuid.UUID
	hasParent bool
	comps     []componentPlan
}

func (s *Serializer) planEntity(v *jsonx.Value) (entityPlan, error) {
	var p entityPlan
	if !v.IsObject() {
		return p, fmt.Errorf("%w: entity must be object, got %s", ErrInvalidPayload, v.Kind())
	}

	p.guid = uuid.New()
	if gv := v.Key("guid"); !gv.IsNull() {
		g, err := uuid.Parse(gv.String(""))
		if err != nil {
			return p, fmt.Errorf("guid: %w", err)
		}
		p.guid = g
	}
	p.tag = v.Key("tag").String("")

	if pv := v.Key("parentGuid"); !pv.IsNull() {
		g, err := uuid.Parse(pv.String(""))
		if err != nil {
			return p, fmt.Errorf("parentGuid: %w", err)
		}
		p.parent = g
		p.hasParent = true
	}

	cv := v.Key("components")
	if !cv.IsNull() && !cv.IsArray() {
		return p, fmt.Errorf("components: %w: expected array, got %s", ErrInvalidPayload, cv.Kind())
	}
	for i, item := range cv.Items() {
		if !item.IsObject() || item.Len() != 1 {
			return p, fmt.Errorf("component %d: %w: expected single-key object", i, ErrInvalidPayload)
		}
		key := item.Keys()[0]
		en := s.factory.lookup(key)
		if en == nil {
			return p, fmt.Errorf("component %d: %w %q", i, ErrUnknownKey, key)
		}
		payload := item.Key(key)
		if !payload.IsObject() {
			return p, fmt.Errorf("component %d (%s): %w: expected object, got %s", i, key, ErrInvalidPayload, payload.Kind())
		}
		p.comps = append(p.comps, componentPlan{en: en, payload: payload})
	}
	return p, nil
}

// checkGUIDs rejects duplicates within the batch, against the world, and dangling parents
func (s *Serializer) checkGUIDs(plans []entityPlan) error {
	w := s.env.World
	seen := make(map[uuid.UUID]bool, len(plans))
	for _, p := range plans {
		if seen[p.guid] {
			return fmt.Errorf("%w %s", ErrDuplicateGUID, p.guid)
		}
		if _, ok := w.LookupGUID(p.guid); ok {
			return fmt.Errorf("%w %s: already in world", ErrDuplicateGUID, p.guid)
		}
		seen[p.guid] = true
	}
	for _, p := range plans {
		if !p.hasParent || seen[p.parent] {
			continue
		}
		if _, ok := w.LookupGUID(p.parent); !ok {
			return fmt.Errorf("%w %s", ErrUnknownParent, p.parent)
		}
	}
	return nil
}

type pendingInit struct {
	e    core.Entity
	en   *entry
	comp any
}

// build creates entities, links parents, then runs initializers pass by pass
func (s *Serializer) build(plans []entityPlan) (created []core.Entity, err error) {
	w := s.env.World
	defer func() {
		if err != nil {
			s.rollback(created)
			created = nil
		}
	}()

	local := make(map[uuid.UUID]core.Entity, len(plans))
	var inits []pendingInit
	for _, p := range plans {
		e := w.SpawnWithGUID(p.tag, p.guid)
		created = append(created, e)
		local[p.guid] = e
		for _, cp := range p.comps {
			c, err := cp.en.attach(s.env, e, cp.payload)
			if err != nil {
				return created, fmt.Errorf("entity %s: %s: %w", p.guid, cp.en.name, err)
			}
			inits = append(inits, pendingInit{e: e, en: cp.en, comp: c})
		}
	}

	for i, p := range plans {
		if !p.hasParent {
			continue
		}
		parent, ok := local[p.parent]
		if !ok {
			parent, _ = w.LookupGUID(p.parent)
		}
		if err := w.SetParent(created[i], parent); err != nil {
			return created, fmt.Errorf("entity %s: parent %s: %w", p.guid, p.parent, err)
		}
	}

	for pass := PassBody; pass < passCount; pass++ {
		for _, in := range inits {
			if in.en.pass != pass || in.en.init == nil {
				continue
			}
			if err := in.en.init(s.env, in.e, in.comp); err != nil {
				return created, fmt.Errorf("entity %s: init %s: %w", in.e, in.en.name, err)
			}
		}
	}
	return created, nil
}

func (s *Serializer) rollback(created []core.Entity) {
	r := s.env.World.Registry
	for i := len(created) - 1; i >= 0; i-- {
		if r.IsAlive(created[i]) {
			r.DestroyEntity(created[i])
		}
	}
}
