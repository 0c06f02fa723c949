package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
)

var (
	statusRunningBg = tcell.NewRGBColor(0, 95, 135)
	statusPausedBg  = tcell.NewRGBColor(135, 95, 0)
	statusText      = tcell.ColorWhite
)

// Status is the state shown in the bottom row
type Status struct {
	Paused   bool
	Frame    int64
	Entities int
	Scene    string
}

// TerminalRenderer draws sprites at their world positions, one cell each
type TerminalRenderer struct {
	screen tcell.Screen

	// Camera is the world position drawn at the top-left cell
	Camera core.Vec2
	// ShowStatus reserves the last row for the status bar
	ShowStatus bool
}

func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	return &TerminalRenderer{screen: screen, ShowStatus: true}
}

type drawCall struct {
	x, y  int
	layer int
	glyph rune
	style tcell.Style
}

// RenderFrame clears the screen, draws visible sprites from the world's interesting view in ascending
// layer order and shows the result. The view only holds active components; sprites on the same layer
// keep activation order so later ones win
func (r *TerminalRenderer) RenderFrame(w *engine.World, st Status) {
	r.screen.Clear()
	width, height := r.screen.Size()
	playHeight := height
	if r.ShowStatus {
		playHeight--
	}

	reg := w.Registry
	var calls []drawCall
	for _, ref := range reg.Manager().Interesting() {
		s, ok := ref.Component.(*component.SpriteComponent)
		if !ok || !s.Visible || !reg.IsAlive(ref.Entity) {
			continue
		}
		p := engine.WorldPosition(reg, ref.Entity).Sub(r.Camera)
		x, y := int(math.Round(p.X)), int(math.Round(p.Y))
		if x < 0 || y < 0 || x >= width || y >= playHeight {
			continue
		}
		calls = append(calls, drawCall{x: x, y: y, layer: s.Layer, glyph: s.Glyph, style: s.Style()})
	}
	sort.SliceStable(calls, func(i, j int) bool {
		return calls[i].layer < calls[j].layer
	})
	for _, c := range calls {
		r.screen.SetContent(c.x, c.y, c.glyph, nil, c.style)
	}

	if r.ShowStatus && height > 0 {
		r.drawStatusBar(st, width, height-1)
	}
	r.screen.Show()
}

func (r *TerminalRenderer) drawStatusBar(st Status, width, statusY int) {
	defaultStyle := tcell.StyleDefault
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, statusY, ' ', nil, defaultStyle)
	}

	modeText, modeBg := " RUNNING ", statusRunningBg
	if st.Paused {
		modeText, modeBg = " PAUSED ", statusPausedBg
	}
	x := r.drawText(0, statusY, width, modeText, defaultStyle.Foreground(statusText).Background(modeBg))

	info := fmt.Sprintf(" frame %d  entities %d", st.Frame, st.Entities)
	if st.Scene != "" {
		info += "  " + st.Scene
	}
	r.drawText(x, statusY, width, info, defaultStyle.Foreground(tcell.ColorSilver))
}

// drawText returns the column after the last drawn rune
func (r *TerminalRenderer) drawText(x, y, width int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= width {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
