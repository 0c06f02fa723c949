package render

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-ecs/core"
)

// ScreenService owns the terminal screen lifecycle
type ScreenService struct {
	screen tcell.Screen
	once   sync.Once
}

func NewScreenService() *ScreenService {
	return &ScreenService{}
}

func (s *ScreenService) Name() string {
	return "screen"
}

func (s *ScreenService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: tcell.Screen to use instead of the real terminal
func (s *ScreenService) Init(args ...any) error {
	if len(args) > 0 {
		if sc, ok := args[0].(tcell.Screen); ok {
			s.screen = sc
			return nil
		}
	}
	sc, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	s.screen = sc
	return nil
}

// Start takes over the terminal and registers it for crash restoration
func (s *ScreenService) Start() error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	s.screen.EnableMouse()
	s.screen.HideCursor()
	core.SetCrashTerminal(s.screen)
	return nil
}

// Stop restores the terminal; later calls do nothing
func (s *ScreenService) Stop() error {
	if s.screen == nil {
		return nil
	}
	s.once.Do(s.screen.Fini)
	return nil
}

// Screen returns the managed screen, nil before Init
func (s *ScreenService) Screen() tcell.Screen {
	return s.screen
}
