package audio

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-ecs/logging"
)

// AudioService wraps SoundManager as a service
// Handles graceful degradation when no audio backend is available
type AudioService struct {
	manager *SoundManager
	log     *logging.Logger
}

func NewService(log *logging.Logger) *AudioService {
	if log == nil {
		log = logging.Nop()
	}
	return &AudioService{log: log}
}

func (s *AudioService) Name() string {
	return "audio"
}

func (s *AudioService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: Config, DefaultConfig when absent
func (s *AudioService) Init(args ...any) error {
	cfg := DefaultConfig()
	if len(args) > 0 {
		if c, ok := args[0].(Config); ok {
			cfg = c
		}
	}
	s.manager = NewSoundManager(cfg, s.log)
	return nil
}

// Start opens the speaker; a missing device leaves the manager silent rather than failing
func (s *AudioService) Start() error {
	if err := s.manager.Initialize(); err != nil {
		s.log.Warn("audio unavailable, running silent", zap.Error(err))
	}
	return nil
}

func (s *AudioService) Stop() error {
	if s.manager != nil {
		s.manager.Cleanup()
	}
	return nil
}

// Player returns the sound manager, nil before Init
func (s *AudioService) Player() *SoundManager {
	return s.manager
}
