package component

import (
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/jsonx"
)

// SoundPlayer is the audio collaborator a source plays through
type SoundPlayer interface {
	Play(track string, loop bool, volume float64) error
	Stop(track string)
}

// AudioSourceComponent plays a track on behalf of an entity
type AudioSourceComponent struct {
	Track    string
	Volume   float64
	Loop     bool
	AutoPlay bool

	player  SoundPlayer
	playing bool
}

func NewAudioSource(track string) AudioSourceComponent {
	return AudioSourceComponent{Track: track, Volume: 1}
}

// Attach binds the player and starts AutoPlay sources
func (a *AudioSourceComponent) Attach(p SoundPlayer) error {
	a.player = p
	if a.AutoPlay {
		return a.Play()
	}
	return nil
}

func (a *AudioSourceComponent) Play() error {
	if a.player == nil || a.Track == "" {
		return nil
	}
	if err := a.player.Play(a.Track, a.Loop, a.Volume); err != nil {
		return err
	}
	a.playing = true
	return nil
}

func (a *AudioSourceComponent) Stop() {
	if a.player != nil && a.playing {
		a.player.Stop(a.Track)
	}
	a.playing = false
}

func (a *AudioSourceComponent) Playing() bool {
	return a.playing
}

func (a *AudioSourceComponent) OnDetach(core.Entity) {
	a.Stop()
	a.player = nil
}

func (a *AudioSourceComponent) Encode(b *jsonx.Builder) {
	b.BeginObject()
	b.AddKey("track")
	b.AddString(a.Track)
	b.AddKey("volume")
	b.AddNumber(a.Volume)
	b.AddKey("loop")
	b.AddBool(a.Loop)
	b.AddKey("autoPlay")
	b.AddBool(a.AutoPlay)
	b.EndObject()
}

func (a *AudioSourceComponent) Decode(v *jsonx.Value) error {
	if err := requireObject(v, "audio source"); err != nil {
		return err
	}
	a.Track = v.Key("track").String("")
	a.Volume = v.Key("volume").Float(1)
	a.Loop = v.Key("loop").Bool(false)
	a.AutoPlay = v.Key("autoPlay").Bool(false)
	return nil
}
