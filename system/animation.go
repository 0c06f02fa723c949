package system

import (
	"time"

	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/parameter"
)

// AnimationSystem advances every active updatable component, sprites included
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (s *AnimationSystem) Name() string {
	return "animation"
}

func (s *AnimationSystem) Priority() int {
	return parameter.PriorityAnimation
}

func (s *AnimationSystem) Update(w *engine.World, dt time.Duration) {
	w.Manager().UpdateAll(dt)
}
