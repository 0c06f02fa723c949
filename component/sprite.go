package component

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-ecs/jsonx"
)

// SpriteComponent is a single terminal cell glyph, optionally animated through Frames
type SpriteComponent struct {
	Glyph     rune
	Fg        tcell.Color
	Bg        tcell.Color
	Layer     int // higher layers draw on top
	Visible   bool
	Frames    []rune
	FrameTime time.Duration

	frame   int
	elapsed time.Duration
}

// NewSprite returns a visible sprite with the default background
func NewSprite(glyph rune, fg tcell.Color) SpriteComponent {
	return SpriteComponent{Glyph: glyph, Fg: fg, Bg: tcell.ColorDefault, Visible: true}
}

// Update advances the animation; called through the component manager while active
func (s *SpriteComponent) Update(dt time.Duration) {
	if len(s.Frames) == 0 || s.FrameTime <= 0 {
		return
	}
	s.elapsed += dt
	for s.elapsed >= s.FrameTime {
		s.elapsed -= s.FrameTime
		s.frame = (s.frame + 1) % len(s.Frames)
	}
	s.Glyph = s.Frames[s.frame]
}

// Style returns the tcell style for drawing
func (s *SpriteComponent) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(s.Fg).Background(s.Bg)
}

func (s *SpriteComponent) Encode(b *jsonx.Builder) {
	b.BeginObject()
	b.AddKey("glyph")
	b.AddString(string(s.Glyph))
	b.AddKey("fg")
	b.AddString(colorName(s.Fg))
	b.AddKey("bg")
	b.AddString(colorName(s.Bg))
	b.AddKey("layer")
	b.AddInt(int64(s.Layer))
	b.AddKey("visible")
	b.AddBool(s.Visible)
	if len(s.Frames) > 0 {
		b.AddKey("frames")
		b.AddString(string(s.Frames))
		b.AddKey("frameMs")
		b.AddInt(s.FrameTime.Milliseconds())
	}
	b.EndObject()
}

func (s *SpriteComponent) Decode(v *jsonx.Value) error {
	if err := requireObject(v, "sprite"); err != nil {
		return err
	}
	glyph := v.Key("glyph").String("?")
	r, size := utf8.DecodeRuneInString(glyph)
	if size == 0 || size != len(glyph) {
		return fmt.Errorf("sprite: glyph %q must be a single character", glyph)
	}
	fg, err := parseColor(v.Key("fg").String("default"))
	if err != nil {
		return err
	}
	bg, err := parseColor(v.Key("bg").String("default"))
	if err != nil {
		return err
	}
	s.Glyph = r
	s.Fg = fg
	s.Bg = bg
	s.Layer = v.Key("layer").Int(0)
	s.Visible = v.Key("visible").Bool(true)
	s.Frames = []rune(v.Key("frames").String(""))
	s.FrameTime = time.Duration(v.Key("frameMs").Int(0)) * time.Millisecond
	s.frame = 0
	s.elapsed = 0
	return nil
}

func colorName(c tcell.Color) string {
	if c == tcell.ColorDefault {
		return "default"
	}
	return fmt.Sprintf("#%06x", c.Hex())
}

func parseColor(name string) (tcell.Color, error) {
	if name == "" || name == "default" {
		return tcell.ColorDefault, nil
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return c, fmt.Errorf("sprite: unknown color %q", name)
	}
	return c, nil
}
