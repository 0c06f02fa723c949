package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Track builds one pass of a named sound at the given rate
// Tracks are finite; looping playback rebuilds them end to end
type Track func(rate beep.SampleRate) beep.Streamer

// DefaultTracks are the synthesized sounds available without asset files
func DefaultTracks() map[string]Track {
	return map[string]Track{
		"chime":   chime,
		"buzz":    buzz,
		"drone":   drone,
		"whoosh":  whoosh,
		"crackle": crackle,
	}
}

// chime is a bright bell ping
func chime(rate beep.SampleRate) beep.Streamer {
	d := 400 * time.Millisecond
	return NewEnvelope(NewOscillator(880, d, WaveSine, rate), d, 5*time.Millisecond, 300*time.Millisecond, rate)
}

// buzz is a short low error tone
func buzz(rate beep.SampleRate) beep.Streamer {
	d := 150 * time.Millisecond
	return newVolume(NewEnvelope(NewOscillator(110, d, WaveSaw, rate), d, 10*time.Millisecond, 40*time.Millisecond, rate), 0.4)
}

// drone is one 600ms bar of a bass pulse, meant for looping as music
func drone(rate beep.SampleRate) beep.Streamer {
	d := 600 * time.Millisecond
	kick := NewEnvelope(NewOscillator(60, 100*time.Millisecond, WaveSine, rate), 100*time.Millisecond, 0, 90*time.Millisecond, rate)
	bass := newVolume(NewEnvelope(NewOscillator(110, d, WaveSine, rate), d, 20*time.Millisecond, 20*time.Millisecond, rate), 0.35)
	mix := &beep.Mixer{}
	mix.Add(kick, bass)
	return beep.Take(rate.N(d), mix)
}

// whoosh is filtered-sounding noise swelling in and out
func whoosh(rate beep.SampleRate) beep.Streamer {
	d := 500 * time.Millisecond
	return newVolume(NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 200*time.Millisecond, 250*time.Millisecond, rate), 0.25)
}

// crackle is a brief noise burst
func crackle(rate beep.SampleRate) beep.Streamer {
	d := 300 * time.Millisecond
	return newVolume(NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 0, 280*time.Millisecond, rate), 0.3)
}
