package script

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/lixenwraith/vi-ecs/asset"
	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/jsonx"
)

const moverScript = `
created = 0

function on_create(e)
  created = created + 1
end

function on_update(e, dt)
  local x, y = e.position()
  e.set_position(x + dt, y + 1)
  e.set_rotation(e.rotation() + 0.5)
  if e.tag() == "doomed" then
    e.destroy()
  end
end
`

func TestRegistryResolvesNames(t *testing.T) {
	r := NewRegistry(nil, "")
	r.Register("noop", func() Behavior { return BehaviorFunc(func(*Context, time.Duration) error { return nil }) })

	assert.Panics(t, func() { r.Register("noop", nil) })
	assert.Equal(t, []string{"noop"}, r.Names())

	b, err := r.New("noop")
	require.NoError(t, err)
	assert.NotNil(t, b)

	_, err = r.New("missing")
	assert.ErrorIs(t, err, ErrUnknownBehavior)

	_, err = r.New("lua:x.lua")
	assert.Error(t, err)
}

func TestDuplicatePanicCause(t *testing.T) {
	r := NewRegistry(nil, "")
	r.Register("a", nil)
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrDuplicateBehavior))
	}()
	r.Register("a", nil)
}

func TestLuaBehaviorDrivesEntity(t *testing.T) {
	files := asset.NewMemFS(map[string][]byte{"scripts/mover.lua": []byte(moverScript)})
	r := NewRegistry(files, "scripts")

	w := engine.NewWorld(nil)
	e := w.Spawn("mover")
	engine.Add(w.Registry, e, component.NewTransform(core.V2(1, 1)))

	sc := NativeScriptComponent{Name: "lua:mover.lua"}
	require.NoError(t, r.Bind(&sc))
	ctx := &Context{World: w, Entity: e}

	require.NoError(t, sc.Behavior.OnCreate(ctx))
	require.NoError(t, sc.Behavior.OnUpdate(ctx, 2*time.Second))

	assert.Equal(t, core.V2(3, 2), engine.WorldPosition(w.Registry, e))
	assert.InDelta(t, 0.5, engine.WorldRotation(w.Registry, e), 1e-12)

	lb := sc.Behavior.(*LuaBehavior)
	assert.Equal(t, lua.LNumber(1), lb.vm.GetGlobal("created"))

	sc.OnDetach(e)
	assert.Nil(t, lb.vm)
	assert.Nil(t, sc.Behavior)
}

func TestLuaDestroyIsDeferred(t *testing.T) {
	b, err := NewLuaBehavior("mover", moverScript)
	require.NoError(t, err)
	defer b.OnDestroy()

	w := engine.NewWorld(nil)
	e := w.Spawn("doomed")
	ctx := &Context{World: w, Entity: e}
	require.NoError(t, b.OnUpdate(ctx, time.Second))

	assert.True(t, w.IsAlive(e))
	w.Update(0)
	assert.False(t, w.IsAlive(e))
}

func TestLuaRuntimeErrorIsReturned(t *testing.T) {
	b, err := NewLuaBehavior("broken", `function on_update(e, dt) error("boom") end`)
	require.NoError(t, err)
	defer b.OnDestroy()

	w := engine.NewWorld(nil)
	err = b.OnUpdate(&Context{World: w, Entity: w.Spawn("x")}, time.Second)
	assert.ErrorContains(t, err, "boom")
}

func TestLuaSyntaxError(t *testing.T) {
	_, err := NewLuaBehavior("bad", `function (`)
	assert.ErrorContains(t, err, `"bad"`)
}

func TestNativeScriptDecode(t *testing.T) {
	var s NativeScriptComponent
	v, err := jsonx.Parse([]byte(`{"name":"player"}`))
	require.NoError(t, err)
	require.NoError(t, s.Decode(v))
	assert.Equal(t, "player", s.Name)

	b := jsonx.NewBuilder()
	s.Encode(b)
	assert.Equal(t, `{"name":"player"}`, b.String())

	v, _ = jsonx.Parse([]byte(`{}`))
	assert.Error(t, s.Decode(v))
}

func TestBuiltinSpinOrbits(t *testing.T) {
	r := NewRegistry(nil, "")
	RegisterBuiltins(r)
	b, err := r.New("spin")
	require.NoError(t, err)

	w := engine.NewWorld(nil)
	e := w.Spawn("orbiter")
	engine.Add(w.Registry, e, component.NewTransform(core.V2(4, 0)))
	require.NoError(t, b.OnUpdate(&Context{World: w, Entity: e}, 785398163*time.Nanosecond))

	pos := engine.Get[component.TransformComponent](w.Registry, e).Position
	assert.True(t, pos.ApproxEqual(core.V2(0, 4), 1e-6), pos)
}
