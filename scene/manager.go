package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/vi-ecs/asset"
	"github.com/lixenwraith/vi-ecs/logging"
)

// MusicPlayer receives the scene's background track
type MusicPlayer interface {
	PlayMusic(track string) error
	StopMusic()
}

// Manager owns the loaded scene: it replaces world contents on Load and snapshots them on Save
type Manager struct {
	files    asset.FS
	ser      *Serializer
	music    MusicPlayer
	log      *logging.Logger
	current  string
	settings Settings
}

// NewManager wires a scene manager; music and log may be nil
func NewManager(files asset.FS, ser *Serializer, music MusicPlayer, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{files: files, ser: ser, music: music, log: log}
}

// Load replaces the world contents with the scene at path
// A file that cannot be read or fails validation leaves the loaded scene untouched. A failure while
// building leaves the world empty and Current reports no scene
func (m *Manager) Load(path string) error {
	data, err := m.files.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scene load %q: %w", path, err)
	}
	return m.LoadData(path, data)
}

// LoadData is Load for an in-memory document; path names it for Current and errors
func (m *Manager) LoadData(path string, data []byte) error {
	p, err := m.ser.planScene(data)
	if err != nil {
		return fmt.Errorf("scene load %q: %w", path, err)
	}

	m.reset()
	sc, err := m.ser.buildScene(p)
	if err != nil {
		return fmt.Errorf("scene load %q: %w", path, err)
	}

	m.current = path
	m.settings = sc.Settings
	m.applyMusic()
	m.log.Info("scene loaded",
		zap.String("path", path),
		zap.Int("entities", len(sc.Entities)),
	)
	return nil
}

// Save writes every identified entity to path; Current becomes path on success
func (m *Manager) Save(path string) error {
	data, err := m.ser.EncodeScene(m.settings)
	if err != nil {
		return fmt.Errorf("scene save %q: %w", path, err)
	}
	if err := m.files.WriteFile(path, data); err != nil {
		return fmt.Errorf("scene save %q: %w", path, err)
	}
	m.current = path
	m.log.Info("scene saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// Current returns the path of the loaded scene, empty when none is loaded
func (m *Manager) Current() string {
	return m.current
}

func (m *Manager) Settings() Settings {
	return m.settings
}

// SetMusic changes the scene track, persisted by the next Save
func (m *Manager) SetMusic(track string) {
	m.settings.Music = track
	m.applyMusic()
}

func (m *Manager) reset() {
	m.ser.env.World.Clear()
	m.current = ""
	m.settings = Settings{}
	if m.music != nil {
		m.music.StopMusic()
	}
}

func (m *Manager) applyMusic() {
	if m.music == nil {
		return
	}
	if m.settings.Music == "" {
		m.music.StopMusic()
		return
	}
	if err := m.music.PlayMusic(m.settings.Music); err != nil {
		m.log.Warn("music unavailable", zap.String("track", m.settings.Music), zap.Error(err))
	}
}
