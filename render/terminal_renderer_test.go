package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func glyphAt(s tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func spawnSprite(w *engine.World, pos core.Vec2, glyph rune, layer int) core.Entity {
	e := w.Spawn("")
	engine.Add(w.Registry, e, component.NewTransform(pos))
	sp := component.NewSprite(glyph, tcell.ColorWhite)
	sp.Layer = layer
	engine.Add(w.Registry, e, sp)
	return e
}

func TestRenderFrameLayersAndHierarchy(t *testing.T) {
	screen := newScreen(t, 20, 6)
	w := engine.NewWorld(nil)

	spawnSprite(w, core.V2(3, 2), 'T', 5)
	spawnSprite(w, core.V2(3, 2), 'b', 1)
	parent := spawnSprite(w, core.V2(5, 1), 'P', 0)
	child := spawnSprite(w, core.V2(2, 1), 'c', 0)
	require.NoError(t, w.SetParent(child, parent))

	r := NewTerminalRenderer(screen)
	r.RenderFrame(w, Status{Frame: 7, Entities: 4})

	assert.Equal(t, 'T', glyphAt(screen, 3, 2))
	assert.Equal(t, 'P', glyphAt(screen, 5, 1))
	assert.Equal(t, 'c', glyphAt(screen, 7, 2))
	assert.Equal(t, 'R', glyphAt(screen, 1, 5))
}

func TestRenderFrameSkipsHiddenInactiveAndOffscreen(t *testing.T) {
	screen := newScreen(t, 10, 4)
	w := engine.NewWorld(nil)

	hidden := spawnSprite(w, core.V2(1, 1), 'h', 0)
	engine.Get[component.SpriteComponent](w.Registry, hidden).Visible = false
	paused := spawnSprite(w, core.V2(2, 1), 'p', 0)
	engine.SetComponentActive[component.SpriteComponent](w.Registry, paused, false)
	spawnSprite(w, core.V2(-1, 1), 'o', 0)
	spawnSprite(w, core.V2(4, 3), 's', 0) // status row

	r := NewTerminalRenderer(screen)
	r.RenderFrame(w, Status{Paused: true})

	assert.Equal(t, ' ', glyphAt(screen, 1, 1))
	assert.Equal(t, ' ', glyphAt(screen, 2, 1))
	assert.NotEqual(t, 's', glyphAt(screen, 4, 3))
	assert.Equal(t, 'P', glyphAt(screen, 1, 3))

	r.ShowStatus = false
	r.RenderFrame(w, Status{})
	assert.Equal(t, 's', glyphAt(screen, 4, 3))
}

func TestRenderFrameCamera(t *testing.T) {
	screen := newScreen(t, 10, 5)
	w := engine.NewWorld(nil)
	spawnSprite(w, core.V2(12, 3), 'x', 0)

	r := NewTerminalRenderer(screen)
	r.Camera = core.V2(10, 1)
	r.RenderFrame(w, Status{})
	assert.Equal(t, 'x', glyphAt(screen, 2, 2))
}

func TestRenderFrameFollowsActivationOrder(t *testing.T) {
	screen := newScreen(t, 10, 4)
	w := engine.NewWorld(nil)

	first := spawnSprite(w, core.V2(1, 1), 'a', 0)
	spawnSprite(w, core.V2(1, 1), 'b', 0)

	r := NewTerminalRenderer(screen)
	r.RenderFrame(w, Status{})
	assert.Equal(t, 'b', glyphAt(screen, 1, 1))

	engine.SetComponentActive[component.SpriteComponent](w.Registry, first, false)
	engine.SetComponentActive[component.SpriteComponent](w.Registry, first, true)
	r.RenderFrame(w, Status{})
	assert.Equal(t, 'a', glyphAt(screen, 1, 1))
}

func TestRenderFrameNeedsSpriteView(t *testing.T) {
	screen := newScreen(t, 10, 4)
	w := engine.NewWorld(engine.NewComponentManager(nil))
	spawnSprite(w, core.V2(1, 1), 'a', 0)

	NewTerminalRenderer(screen).RenderFrame(w, Status{})
	assert.Equal(t, ' ', glyphAt(screen, 1, 1))
}
