package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-ecs/asset"
	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/input"
	"github.com/lixenwraith/vi-ecs/jsonx"
	"github.com/lixenwraith/vi-ecs/physics"
	"github.com/lixenwraith/vi-ecs/script"
)

const (
	guidA = "00000000-0000-4000-8000-00000000000a"
	guidB = "00000000-0000-4000-8000-00000000000b"
	guidC = "00000000-0000-4000-8000-00000000000c"
)

func newEnv() *Env {
	return &Env{
		World:   engine.NewWorld(nil),
		Physics: physics.NewWorld(core.Vec2{}),
		Input:   input.NewManager(),
		Scripts: script.NewRegistry(nil, ""),
	}
}

func newSerializer() *Serializer {
	env := newEnv()
	script.RegisterBuiltins(env.Scripts)
	return NewSerializer(DefaultFactory(), env)
}

func encodeEntity(t *testing.T, s *Serializer, e core.Entity) string {
	t.Helper()
	b := jsonx.NewBuilder()
	require.NoError(t, s.EncodeEntity(b, e))
	return b.String()
}

func mustAction(t *testing.T, name string, keys []string, buttons []int, trigger string, repeat bool) input.Action {
	t.Helper()
	a, err := input.BuildAction(name, keys, buttons, trigger, repeat)
	require.NoError(t, err)
	return a
}

func TestFactoryKeys(t *testing.T) {
	f := DefaultFactory()

	name, ok := f.Canonical("cTransform")
	require.True(t, ok)
	assert.Equal(t, "Transform", name)

	name, ok = f.Canonical("Collider")
	require.True(t, ok)
	assert.Equal(t, "Collider", name)

	key, ok := f.LegacyKey("NativeScript")
	require.True(t, ok)
	assert.Equal(t, "cScript", key)

	_, ok = f.Canonical("cBogus")
	assert.False(t, ok)
	_, ok = f.LegacyKey("Bogus")
	assert.False(t, ok)

	name, ok = f.ByID(TypeID("Sprite"))
	require.True(t, ok)
	assert.Equal(t, "Sprite", name)

	assert.Equal(t, []string{"Transform", "RigidBody", "Collider", "Sprite", "NativeScript", "Input", "AudioSource"}, f.Names())
}

type marker struct{}

func (*marker) Encode(b *jsonx.Builder) {
	b.BeginObject()
	b.EndObject()
}

func (*marker) Decode(*jsonx.Value) error { return nil }

func TestFactoryDuplicatePanics(t *testing.T) {
	f := DefaultFactory()

	cases := map[string]func(){
		"name":   func() { Register[marker](f, "Transform", "cMarker", PassOther, nil) },
		"legacy": func() { Register[marker](f, "Marker", "cSprite", PassOther, nil) },
		"type":   func() { Register[component.TransformComponent](f, "Transform2", "cTransform2", PassOther, nil) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				err, ok := recover().(error)
				require.True(t, ok)
				assert.True(t, errors.Is(err, ErrDuplicateType))
			}()
			fn()
			t.Fatal("expected panic")
		})
	}
}

// Encoding, decoding into a fresh world and encoding again yields identical output
func TestInputRoundTripIdempotent(t *testing.T) {
	src := newSerializer()
	r := src.env.World.Registry
	e := src.env.World.Spawn("hero")

	in := component.NewInput()
	in.BindAction(mustAction(t, "jump", []string{"Space", "k"}, nil, "pressed", true))
	in.BindAction(mustAction(t, "fire", []string{"f"}, []int{1, 2}, "released", false))
	in.BindAction(mustAction(t, "crouch", []string{"Down"}, nil, "held", false))
	engine.Add(r, e, in)

	first := encodeEntity(t, src, e)

	dst := newSerializer()
	e2, err := dst.DecodeEntity([]byte(first))
	require.NoError(t, err)

	second := encodeEntity(t, dst, e2)
	assert.Equal(t, first, second)

	got := engine.Get[component.InputComponent](dst.env.World.Registry, e2)
	jump, ok := findAction(got.Actions(), "jump")
	require.True(t, ok)
	assert.True(t, jump.AllowRepeat)
	assert.Equal(t, input.TriggerPressed, jump.Trigger)
	assert.Len(t, jump.Keys, 2)

	fire, ok := findAction(got.Actions(), "fire")
	require.True(t, ok)
	assert.Equal(t, input.TriggerReleased, fire.Trigger)
	assert.Len(t, fire.Buttons, 2)
}

func findAction(actions []input.Action, name string) (input.Action, bool) {
	for _, a := range actions {
		if a.Name == name {
			return a, true
		}
	}
	return input.Action{}, false
}

func TestSceneRoundTrip(t *testing.T) {
	src := newSerializer()
	r := src.env.World.Registry
	parent := src.env.World.Spawn("parent")
	engine.Add(r, parent, component.NewTransform(core.V2(10, 5)))
	child := src.env.World.Spawn("child")
	engine.Add(r, child, component.NewTransform(core.V2(1, 0)))
	require.NoError(t, r.SetParent(child, parent))
	engine.Add(r, child, component.NewSprite('x', tcell.ColorDefault))

	data, err := src.EncodeScene(Settings{Music: "drone"})
	require.NoError(t, err)

	dst := newSerializer()
	sc, err := dst.DecodeScene(data)
	require.NoError(t, err)
	assert.Equal(t, "drone", sc.Settings.Music)
	require.Len(t, sc.Entities, 2)

	dr := dst.env.World.Registry
	assert.Equal(t, sc.Entities[0], dr.Parent(sc.Entities[1]))
	assert.Equal(t, core.V2(11, 5), engine.WorldPosition(dr, sc.Entities[1]))
	assert.Equal(t, 'x', engine.Get[component.SpriteComponent](dr, sc.Entities[1]).Glyph)

	again, err := dst.EncodeScene(sc.Settings)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestDecodeHierarchyOrderIndependent(t *testing.T) {
	s := newSerializer()
	doc := `{"entities": [
		{"guid": "` + guidC + `", "tag": "grandchild", "parentGuid": "` + guidB + `", "components": [{"cTransform": {"position": {"x": 1, "y": 1}}}]},
		{"guid": "` + guidB + `", "tag": "child", "parentGuid": "` + guidA + `", "components": [{"cTransform": {"position": {"x": 2, "y": 0}}}]},
		{"guid": "` + guidA + `", "tag": "root", "components": [{"cTransform": {"position": {"x": 100, "y": 0}}}]}
	]}`

	sc, err := s.DecodeScene([]byte(doc))
	require.NoError(t, err)
	r := s.env.World.Registry
	grandchild, child, root := sc.Entities[0], sc.Entities[1], sc.Entities[2]

	assert.Equal(t, child, r.Parent(grandchild))
	assert.Equal(t, root, r.Parent(child))
	assert.Equal(t, root, r.Root(grandchild))
	assert.Equal(t, core.V2(103, 1), engine.WorldPosition(r, grandchild))

	// visible after the next update
	_, ok := s.env.World.ByGUID(uuid.MustParse(guidA))
	assert.False(t, ok)
	found, ok := s.env.World.LookupGUID(uuid.MustParse(guidA))
	require.True(t, ok)
	assert.Equal(t, root, found)
}

func TestDecodeEntityRejectsPendingDuplicate(t *testing.T) {
	s := newSerializer()
	doc := `{"guid": "` + guidA + `", "tag": "a"}`

	_, err := s.DecodeEntity([]byte(doc))
	require.NoError(t, err)
	_, err = s.DecodeEntity([]byte(doc))
	require.ErrorIs(t, err, ErrDuplicateGUID)
	assert.Equal(t, 1, s.env.World.Alive())

	s.env.World.Refresh()
	assert.Len(t, s.env.World.ByTag("a"), 1)

	data, err := s.EncodeScene(Settings{})
	require.NoError(t, err)
	dst := newSerializer()
	sc, err := dst.DecodeScene(data)
	require.NoError(t, err)
	assert.Len(t, sc.Entities, 1)
}

func TestDecodeEntityParentSpawnedThisFrame(t *testing.T) {
	s := newSerializer()
	parent, err := s.DecodeEntity([]byte(`{"guid": "` + guidA + `", "components": [{"cTransform": {"position": {"x": 4, "y": 0}}}]}`))
	require.NoError(t, err)

	child, err := s.DecodeEntity([]byte(`{"guid": "` + guidB + `", "parentGuid": "` + guidA + `", "components": [{"cTransform": {"position": {"x": 1, "y": 0}}}]}`))
	require.NoError(t, err)

	r := s.env.World.Registry
	assert.Equal(t, parent, r.Parent(child))
	assert.Equal(t, core.V2(5, 0), engine.WorldPosition(r, child))
}

// Colliders listed before their body still attach because bodies initialize first
func TestDecodeInitOrder(t *testing.T) {
	s := newSerializer()
	doc := `{"entities": [
		{"guid": "` + guidA + `", "tag": "root", "components": [{"cTransform": {"position": {"x": 5, "y": 5}}}]},
		{"guid": "` + guidB + `", "tag": "box", "parentGuid": "` + guidA + `", "components": [
			{"cCollider": {"halfExtents": {"x": 1, "y": 2}}},
			{"cRigidBody": {"type": "dynamic", "mass": 2}},
			{"cTransform": {"position": {"x": 1, "y": 0}}}
		]}
	]}`

	sc, err := s.DecodeScene([]byte(doc))
	require.NoError(t, err)
	box := sc.Entities[1]
	r := s.env.World.Registry

	rb := engine.Get[component.RigidBodyComponent](r, box)
	require.NotNil(t, rb.Body)
	assert.Equal(t, core.V2(6, 5), rb.Body.Position)

	col := engine.Get[component.ColliderComponent](r, box)
	require.NotNil(t, col.Fixture)
	assert.Same(t, rb.Body, col.Fixture.Body())
	assert.Equal(t, core.V2(1, 2), col.Fixture.HalfExtents)
}

func TestDecodeValidationCreatesNothing(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		err  error
	}{
		{name: "root array", doc: `[]`, err: ErrRootNotObject},
		{name: "unknown key", doc: `{"entities": [{"guid": "` + guidA + `", "components": [{"cBogus": {}}]}]}`, err: ErrUnknownKey},
		{name: "duplicate guid", doc: `{"entities": [{"guid": "` + guidA + `"}, {"guid": "` + guidA + `"}]}`, err: ErrDuplicateGUID},
		{name: "dangling parent", doc: `{"entities": [{"guid": "` + guidA + `", "parentGuid": "` + guidB + `"}]}`, err: ErrUnknownParent},
		{name: "multi-key component", doc: `{"entities": [{"guid": "` + guidA + `", "components": [{"cTransform": {}, "cSprite": {}}]}]}`, err: ErrInvalidPayload},
		{name: "entities not array", doc: `{"entities": {}}`, err: ErrInvalidPayload},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSerializer()
			_, err := s.DecodeScene([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
			assert.Zero(t, s.env.World.Alive())
		})
	}

	s := newSerializer()
	_, err := s.DecodeScene([]byte(`{"entities": [`))
	var syn *jsonx.SyntaxError
	assert.ErrorAs(t, err, &syn)
}

func TestDecodeRollsBack(t *testing.T) {
	s := newSerializer()
	phys := s.env.Physics.(*physics.World)
	doc := `{"entities": [
		{"guid": "` + guidA + `", "tag": "ok", "components": [{"cRigidBody": {"type": "dynamic"}}, {"cScript": {"name": "player"}}]},
		{"guid": "` + guidB + `", "tag": "bad", "components": [{"cScript": {"name": "no-such-script"}}]}
	]}`

	_, err := s.DecodeScene([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, script.ErrUnknownBehavior)
	assert.Zero(t, s.env.World.Alive())
	assert.Zero(t, phys.BodyCount())
}

func TestDecodeCycleRollsBack(t *testing.T) {
	s := newSerializer()
	doc := `{"entities": [
		{"guid": "` + guidA + `", "parentGuid": "` + guidB + `"},
		{"guid": "` + guidB + `", "parentGuid": "` + guidA + `"}
	]}`
	_, err := s.DecodeScene([]byte(doc))
	assert.ErrorIs(t, err, engine.ErrHierarchyCycle)
	assert.Zero(t, s.env.World.Alive())
}

type fakeMusic struct {
	playing string
	stops   int
}

func (m *fakeMusic) PlayMusic(track string) error {
	m.playing = track
	return nil
}

func (m *fakeMusic) StopMusic() {
	m.playing = ""
	m.stops++
}

func TestManagerLoadSave(t *testing.T) {
	files := asset.NewMemFS(map[string][]byte{
		"demo.json":      []byte(asset.DemoScene),
		"broken.json":    []byte(`{"entities": [{"guid": "nope"}]}`),
		"badscript.json": []byte(`{"entities": [{"guid": "` + guidA + `", "components": [{"cScript": {"name": "no-such-script"}}]}]}`),
	})
	require.NoError(t, files.WriteFile("scripts/bounce.lua", []byte(asset.BounceScript)))

	env := newEnv()
	env.Scripts = script.NewRegistry(files, "scripts")
	script.RegisterBuiltins(env.Scripts)
	music := &fakeMusic{}
	m := NewManager(files, NewSerializer(DefaultFactory(), env), music, nil)

	require.NoError(t, m.Load("demo.json"))
	assert.Equal(t, "demo.json", m.Current())
	assert.Equal(t, "drone", music.playing)
	assert.Equal(t, 4, env.World.Alive())

	require.NoError(t, m.Save("saved.json"))
	assert.Equal(t, "saved.json", m.Current())

	require.NoError(t, m.Load("saved.json"))
	assert.Equal(t, 4, env.World.Alive())
	env.World.Refresh()
	player, ok := env.World.FirstByTag("player")
	require.True(t, ok)
	orbiter, ok := env.World.FirstByTag("orbiter")
	require.True(t, ok)
	assert.Equal(t, player, env.World.Parent(orbiter))

	// unreadable or invalid files keep the running scene
	err := m.Load("broken.json")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), `scene load "broken.json": `), err.Error())
	assert.Equal(t, "saved.json", m.Current())
	assert.Equal(t, 4, env.World.Alive())
	assert.Equal(t, "drone", music.playing)

	err = m.Load("missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scene load "missing.json"`)
	assert.Equal(t, "saved.json", m.Current())
	assert.Equal(t, 4, env.World.Alive())

	// a build failure leaves nothing behind
	err = m.Load("badscript.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, script.ErrUnknownBehavior)
	assert.Empty(t, m.Current())
	assert.Zero(t, env.World.Alive())
	assert.Empty(t, music.playing)
}

func TestManagerSaveFailure(t *testing.T) {
	files := asset.NewMemFS(nil)
	files.SetReadOnly(true)
	m := NewManager(files, newSerializer(), nil, nil)

	err := m.Save("out.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, asset.ErrReadOnly)
	assert.Contains(t, err.Error(), `scene save "out.json"`)
}
