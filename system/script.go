package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/logging"
	"github.com/lixenwraith/vi-ecs/parameter"
	"github.com/lixenwraith/vi-ecs/script"
)

// ScriptSystem runs native and Lua behaviors
// Scripts attached during a tick first run on the next one; inactive scripts are skipped
type ScriptSystem struct {
	scripts *script.Registry
	log     *logging.Logger
}

// NewScriptSystem resolves unbound scripts through scripts, which may be nil
func NewScriptSystem(scripts *script.Registry, log *logging.Logger) *ScriptSystem {
	if log == nil {
		log = logging.Nop()
	}
	return &ScriptSystem{scripts: scripts, log: log}
}

func (s *ScriptSystem) Name() string {
	return "script"
}

func (s *ScriptSystem) Priority() int {
	return parameter.PriorityScript
}

func (s *ScriptSystem) Update(w *engine.World, dt time.Duration) {
	r := w.Registry
	for _, e := range engine.View[script.NativeScriptComponent](r) {
		sc := engine.TryGet[script.NativeScriptComponent](r, e)
		if sc == nil || !engine.IsComponentActive[script.NativeScriptComponent](r, e) {
			continue
		}
		if sc.Behavior == nil {
			if s.scripts == nil {
				continue
			}
			if err := s.scripts.Bind(sc); err != nil {
				s.log.Error("script bind failed", zap.String("script", sc.Name), zap.Stringer("entity", e), zap.Error(err))
				engine.SetComponentActive[script.NativeScriptComponent](r, e, false)
				continue
			}
		}

		ctx := &script.Context{World: w, Entity: e, Log: s.log}
		if !sc.Created() {
			sc.MarkCreated()
			if err := sc.Behavior.OnCreate(ctx); err != nil {
				s.log.Error("script create failed", zap.String("script", sc.Name), zap.Stringer("entity", e), zap.Error(err))
			}
			// OnCreate may destroy or detach
			if engine.TryGet[script.NativeScriptComponent](r, e) != sc || sc.Behavior == nil {
				continue
			}
		}
		if err := sc.Behavior.OnUpdate(ctx, dt); err != nil {
			s.log.Error("script update failed", zap.String("script", sc.Name), zap.Stringer("entity", e), zap.Error(err))
		}
	}
}
