package script

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
)

// LuaBehavior runs on_create(e) and on_update(e, dt) from a Lua chunk
// Each instance owns its VM; access is single-goroutine (game loop)
//
// The entity table e exposes:
//
//	e.position() -> x, y          e.set_position(x, y)
//	e.rotation() -> r             e.set_rotation(r)
//	e.velocity() -> x, y          e.set_velocity(x, y)
//	e.tag() -> string             e.destroy()
//	e.action_down(name) -> bool   e.action_pressed(name) -> bool
//	e.spawn(tag, x, y)            e.log(msg)
type LuaBehavior struct {
	name   string
	vm     *lua.LState
	entity *lua.LTable
	ctx    *Context
}

// NewLuaBehavior compiles and runs src once to define its callbacks
func NewLuaBehavior(name, src string) (*LuaBehavior, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load lua script %q: %w", name, err)
	}

	b := &LuaBehavior{name: name, vm: vm}
	b.entity = b.newEntityTable()
	return b, nil
}

func (b *LuaBehavior) OnCreate(ctx *Context) error {
	return b.call(ctx, "on_create")
}

func (b *LuaBehavior) OnUpdate(ctx *Context, dt time.Duration) error {
	return b.call(ctx, "on_update", lua.LNumber(dt.Seconds()))
}

// OnDestroy runs on_destroy(e) if defined and closes the VM
func (b *LuaBehavior) OnDestroy() {
	if b.vm == nil {
		return
	}
	if b.ctx != nil {
		_ = b.call(b.ctx, "on_destroy")
	}
	b.vm.Close()
	b.vm = nil
}

// call invokes a global callback; missing callbacks are not errors
func (b *LuaBehavior) call(ctx *Context, fnName string, args ...lua.LValue) error {
	if b.vm == nil {
		return fmt.Errorf("lua script %q: closed", b.name)
	}
	fn := b.vm.GetGlobal(fnName)
	if fn == lua.LNil {
		return nil
	}
	b.ctx = ctx

	params := append([]lua.LValue{b.entity}, args...)
	if err := b.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, params...); err != nil {
		return fmt.Errorf("lua script %q %s: %w", b.name, fnName, err)
	}
	return nil
}

func (b *LuaBehavior) newEntityTable() *lua.LTable {
	t := b.vm.NewTable()
	set := func(name string, fn lua.LGFunction) {
		t.RawSetString(name, b.vm.NewFunction(fn))
	}

	set("position", func(L *lua.LState) int {
		p := engine.WorldPosition(b.ctx.World.Registry, b.ctx.Entity)
		L.Push(lua.LNumber(p.X))
		L.Push(lua.LNumber(p.Y))
		return 2
	})
	set("set_position", func(L *lua.LState) int {
		x, y := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
		if b.alive() {
			engine.SetWorldPosition(b.ctx.World.Registry, b.ctx.Entity, core.V2(x, y))
			if rb := engine.TryGet[component.RigidBodyComponent](b.ctx.World.Registry, b.ctx.Entity); rb != nil && rb.Body != nil {
				rb.Body.SetTransform(core.V2(x, y), rb.Body.Angle)
			}
		}
		return 0
	})
	set("rotation", func(L *lua.LState) int {
		L.Push(lua.LNumber(engine.WorldRotation(b.ctx.World.Registry, b.ctx.Entity)))
		return 1
	})
	set("set_rotation", func(L *lua.LState) int {
		r := float64(L.CheckNumber(1))
		if b.alive() {
			engine.SetWorldRotation(b.ctx.World.Registry, b.ctx.Entity, r)
		}
		return 0
	})
	set("velocity", func(L *lua.LState) int {
		var v core.Vec2
		if rb := engine.TryGet[component.RigidBodyComponent](b.ctx.World.Registry, b.ctx.Entity); rb != nil && rb.Body != nil {
			v = rb.Body.Velocity
		}
		L.Push(lua.LNumber(v.X))
		L.Push(lua.LNumber(v.Y))
		return 2
	})
	set("set_velocity", func(L *lua.LState) int {
		v := core.V2(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
		if rb := engine.TryGet[component.RigidBodyComponent](b.ctx.World.Registry, b.ctx.Entity); rb != nil && rb.Body != nil {
			rb.Body.SetImpulse(v)
		}
		return 0
	})
	set("tag", func(L *lua.LState) int {
		tag := ""
		if id := engine.TryGet[component.IdentityComponent](b.ctx.World.Registry, b.ctx.Entity); id != nil {
			tag = id.Tag
		}
		L.Push(lua.LString(tag))
		return 1
	})
	set("destroy", func(L *lua.LState) int {
		if b.alive() {
			b.ctx.World.Destroy(b.ctx.Entity)
		}
		return 0
	})
	set("action_down", func(L *lua.LState) int {
		in := engine.TryGet[component.InputComponent](b.ctx.World.Registry, b.ctx.Entity)
		L.Push(lua.LBool(in != nil && in.IsActionDown(L.CheckString(1))))
		return 1
	})
	set("action_pressed", func(L *lua.LState) int {
		in := engine.TryGet[component.InputComponent](b.ctx.World.Registry, b.ctx.Entity)
		L.Push(lua.LBool(in != nil && in.WasActionPressed(L.CheckString(1))))
		return 1
	})
	set("spawn", func(L *lua.LState) int {
		tag := L.CheckString(1)
		x, y := float64(L.OptNumber(2, 0)), float64(L.OptNumber(3, 0))
		e := b.ctx.World.Spawn(tag)
		engine.Add(b.ctx.World.Registry, e, component.NewTransform(core.V2(x, y)))
		return 0
	})
	set("log", func(L *lua.LState) int {
		if b.ctx.Log != nil {
			b.ctx.Log.Info(L.CheckString(1), zap.String("script", b.name), zap.Stringer("entity", b.ctx.Entity))
		}
		return 0
	})
	return t
}

func (b *LuaBehavior) alive() bool {
	return b.ctx != nil && b.ctx.World.IsAlive(b.ctx.Entity)
}
