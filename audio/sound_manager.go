package audio

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-ecs/logging"
)

// MusicVolume is the gain applied to background music before the master volume
const MusicVolume = 0.5

var ErrUnknownTrack = errors.New("unknown track")

// voice is one playing track
type voice struct {
	ctrl *beep.Ctrl
	done atomic.Bool // set from the speaker goroutine when a one-shot ends
}

// SoundManager plays named tracks through a beep mixer
// Without an initialized speaker it runs silent: calls succeed and playback state is still tracked
type SoundManager struct {
	mu          sync.Mutex
	cfg         Config
	tracks      map[string]Track
	voices      map[string]*voice
	music       string
	mixer       *beep.Mixer
	initialized bool
	log         *logging.Logger
}

// NewSoundManager creates a manager with DefaultTracks; log may be nil
func NewSoundManager(cfg Config, log *logging.Logger) *SoundManager {
	if log == nil {
		log = logging.Nop()
	}
	return &SoundManager{
		cfg:    cfg.normalized(),
		tracks: DefaultTracks(),
		voices: make(map[string]*voice),
		mixer:  &beep.Mixer{},
		log:    log,
	}
}

// Initialize sets up the speaker; disabled configs stay silent without error
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and detaches from the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for name := range sm.voices {
		sm.stopLocked(name)
	}
	sm.music = ""
	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	sm.initialized = false
}

// Silent reports whether sound is not reaching a device
func (sm *SoundManager) Silent() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return !sm.initialized
}

// RegisterTrack adds or replaces a named track
func (sm *SoundManager) RegisterTrack(name string, t Track) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.tracks[name] = t
}

// Tracks lists registered track names in sorted order
func (sm *SoundManager) Tracks() []string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	out := make([]string, 0, len(sm.tracks))
	for name := range sm.tracks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Play starts track, restarting it if already playing
func (sm *SoundManager) Play(track string, loop bool, volume float64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	build, ok := sm.tracks[track]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTrack, track)
	}
	sm.stopLocked(track)

	v := &voice{}
	sm.voices[track] = v
	if !sm.initialized {
		if !loop {
			v.done.Store(true)
		}
		return nil
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	var s beep.Streamer
	if loop {
		s = newRepeat(func() beep.Streamer { return build(rate) })
	} else {
		s = beep.Seq(build(rate), beep.Callback(func() { v.done.Store(true) }))
	}
	v.ctrl = &beep.Ctrl{Streamer: newVolume(s, volume*sm.cfg.Volume)}

	speaker.Lock()
	sm.mixer.Add(v.ctrl)
	speaker.Unlock()
	sm.log.Debug("sound started", zap.String("track", track), zap.Bool("loop", loop))
	return nil
}

// Stop silences track; unknown or stopped tracks are ignored
func (sm *SoundManager) Stop(track string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.stopLocked(track)
}

func (sm *SoundManager) stopLocked(track string) {
	v, ok := sm.voices[track]
	if !ok {
		return
	}
	delete(sm.voices, track)
	if v.ctrl != nil {
		speaker.Lock()
		v.ctrl.Paused = true
		v.ctrl.Streamer = nil
		speaker.Unlock()
	}
}

// Playing reports whether track is looping or has an unfinished one-shot
func (sm *SoundManager) Playing(track string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	v, ok := sm.voices[track]
	return ok && !v.done.Load()
}

// PlayMusic replaces the background track
func (sm *SoundManager) PlayMusic(track string) error {
	sm.mu.Lock()
	prev := sm.music
	sm.mu.Unlock()
	if prev == track && sm.Playing(track) {
		return nil
	}
	if prev != "" {
		sm.Stop(prev)
	}
	if err := sm.Play(track, true, MusicVolume); err != nil {
		sm.mu.Lock()
		sm.music = ""
		sm.mu.Unlock()
		return err
	}
	sm.mu.Lock()
	sm.music = track
	sm.mu.Unlock()
	return nil
}

func (sm *SoundManager) StopMusic() {
	sm.mu.Lock()
	prev := sm.music
	sm.music = ""
	sm.mu.Unlock()
	if prev != "" {
		sm.Stop(prev)
	}
}

// Music returns the current background track
func (sm *SoundManager) Music() string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.music
}
