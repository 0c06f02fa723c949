package script

import (
	"time"

	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/logging"
)

// Context is handed to behaviors on every call
type Context struct {
	World  *engine.World
	Entity core.Entity
	Log    *logging.Logger
}

// Behavior is the polymorphic part of a scripted entity
// OnCreate runs once, on the first tick the script system sees the component
type Behavior interface {
	OnCreate(ctx *Context) error
	OnUpdate(ctx *Context, dt time.Duration) error
}

// Destroyer is notified when its component is removed or its entity destroyed
type Destroyer interface {
	OnDestroy()
}

// BehaviorFunc adapts an update function to a Behavior with no create step
type BehaviorFunc func(ctx *Context, dt time.Duration) error

func (f BehaviorFunc) OnCreate(*Context) error { return nil }

func (f BehaviorFunc) OnUpdate(ctx *Context, dt time.Duration) error { return f(ctx, dt) }
