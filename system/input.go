package system

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/event"
	"github.com/lixenwraith/vi-ecs/input"
	"github.com/lixenwraith/vi-ecs/parameter"
)

// InputSystem drains terminal events queued by the poller and dispatches them on the game loop
// Action edges from the previous tick are cleared first, so they stay readable for one full tick
type InputSystem struct {
	queue   *event.Queue[tcell.Event]
	adapter *input.Adapter
	manager *input.Manager
	now     func() time.Time
}

func NewInputSystem(queue *event.Queue[tcell.Event], adapter *input.Adapter, manager *input.Manager) *InputSystem {
	return &InputSystem{queue: queue, adapter: adapter, manager: manager, now: time.Now}
}

// SetClock overrides wall time used to expire held keys
func (s *InputSystem) SetClock(now func() time.Time) {
	s.now = now
}

func (s *InputSystem) Name() string {
	return "input"
}

func (s *InputSystem) Priority() int {
	return parameter.PriorityInput
}

func (s *InputSystem) Update(w *engine.World, _ time.Duration) {
	s.manager.EndFrame()
	engine.Each[component.InputComponent](w.Registry, func(_ core.Entity, c *component.InputComponent) {
		c.EndFrame()
	})

	for _, ev := range s.queue.Consume() {
		for _, out := range s.adapter.Translate(ev) {
			s.manager.Dispatch(out)
		}
	}
	for _, out := range s.adapter.Expire(s.now()) {
		s.manager.Dispatch(out)
	}
}
