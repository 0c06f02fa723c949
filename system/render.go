package system

import (
	"time"

	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/parameter"
	"github.com/lixenwraith/vi-ecs/render"
)

// RenderSystem draws the world after every other system has run
type RenderSystem struct {
	renderer *render.TerminalRenderer
	status   func() render.Status
}

// NewRenderSystem draws through renderer; status may be nil
func NewRenderSystem(renderer *render.TerminalRenderer, status func() render.Status) *RenderSystem {
	return &RenderSystem{renderer: renderer, status: status}
}

func (s *RenderSystem) Name() string {
	return "render"
}

func (s *RenderSystem) Priority() int {
	return parameter.PriorityRender
}

func (s *RenderSystem) Update(w *engine.World, _ time.Duration) {
	st := render.Status{Frame: w.Frame(), Entities: w.Alive()}
	if s.status != nil {
		st = s.status()
		st.Frame = w.Frame()
		st.Entities = w.Alive()
	}
	s.renderer.RenderFrame(w, st)
}
