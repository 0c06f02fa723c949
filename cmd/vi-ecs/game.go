package main

import (
	"context"
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/vi-ecs/asset"
	"github.com/lixenwraith/vi-ecs/audio"
	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/config"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/engine"
	"github.com/lixenwraith/vi-ecs/event"
	"github.com/lixenwraith/vi-ecs/input"
	"github.com/lixenwraith/vi-ecs/logging"
	"github.com/lixenwraith/vi-ecs/parameter"
	"github.com/lixenwraith/vi-ecs/physics"
	"github.com/lixenwraith/vi-ecs/render"
	"github.com/lixenwraith/vi-ecs/scene"
	"github.com/lixenwraith/vi-ecs/script"
	"github.com/lixenwraith/vi-ecs/system"
)

// Global actions handled by the game itself
const (
	actionQuit  = "quit"
	actionPause = "pause"
	actionSave  = "save"
)

// game owns the world and everything wired around it for one run
type game struct {
	cfg    *config.Config
	log    *logging.Logger
	screen tcell.Screen

	world   *engine.World
	physics *physics.World
	input   *input.Manager
	events  *event.Queue[tcell.Event]
	scenes  *scene.Manager
	clock   *engine.PausableClock
	loop    *engine.Loop

	quit     chan struct{}
	quitOnce sync.Once
}

func newGame(cfg *config.Config, log *logging.Logger, files asset.FS, screen tcell.Screen, sound *audio.SoundManager) (*game, error) {
	g := &game{
		cfg:     cfg,
		log:     log,
		screen:  screen,
		world:   engine.NewWorld(engine.NewComponentManager(engine.InterestedIn[component.SpriteComponent]())),
		physics: physics.NewWorld(cfg.Engine.Gravity()),
		input:   input.NewManager(),
		events:  event.NewQueue[tcell.Event](parameter.EventQueueSize),
		clock:   engine.NewPausableClock(engine.NewMonotonicTimeProvider()),
		quit:    make(chan struct{}),
	}

	actions, err := cfg.Actions()
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		g.input.BindAction(a)
	}
	if err := g.input.Subscribe(g); err != nil {
		return nil, err
	}

	scripts := script.NewRegistry(files, cfg.Scene.Scripts)
	script.RegisterBuiltins(scripts)

	env := &scene.Env{
		World:   g.world,
		Physics: g.physics,
		Input:   g.input,
		Scripts: scripts,
		Log:     log,
	}
	var music scene.MusicPlayer
	if sound != nil {
		env.Audio = sound
		music = sound
	}
	g.scenes = scene.NewManager(files, scene.NewSerializer(scene.DefaultFactory(), env), music, log)

	renderer := render.NewTerminalRenderer(screen)
	renderer.ShowStatus = true

	g.world.AddSystem(system.NewInputSystem(g.events, input.NewAdapter(cfg.Input.Hold()), g.input))
	g.world.AddSystem(system.NewScriptSystem(scripts, log))
	g.world.AddSystem(system.NewPhysicsSystem(g.physics, cfg.Engine.PhysicsStep(), cfg.Engine.MaxPhysicsSteps))
	g.world.AddSystem(system.NewAnimationSystem())
	g.world.AddSystem(system.NewRenderSystem(renderer, g.status))

	g.loop = &engine.Loop{World: g.world, Clock: g.clock, Tick: cfg.Engine.Tick()}
	return g, nil
}

func (g *game) status() render.Status {
	return render.Status{Paused: g.clock.IsPaused(), Scene: g.scenes.Current()}
}

// loadScene loads path, or the configured scene when path is empty
func (g *game) loadScene(path string) error {
	if path == "" {
		path = g.cfg.Scene.Path
	}
	return g.scenes.Load(path)
}

// OnAction runs on the game loop, inside the world update
func (g *game) OnAction(ev input.ActionEvent) {
	switch ev.Name {
	case actionQuit:
		g.requestQuit()
	case actionPause:
		paused := g.clock.Toggle()
		g.log.Info("pause toggled", zap.Bool("paused", paused))
	case actionSave:
		if err := g.scenes.Save(g.cfg.Scene.SavePath); err != nil {
			g.log.Error("save failed", zap.Error(err))
		}
	}
}

func (g *game) requestQuit() {
	g.quitOnce.Do(func() { close(g.quit) })
}

// run drives the input poller and the game loop until quit is requested or ctx is done
// fini finalizes the screen once the loop has stopped, which releases the blocked poller
func (g *game) run(ctx context.Context, fini func()) error {
	eg, ctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	loopDone := make(chan struct{})

	eg.Go(func() error {
		err := input.Poll(ctx, g.screen, func(ev tcell.Event) bool {
			g.events.Push(ev)
			return true
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	eg.Go(func() error {
		defer close(loopDone)
		err := g.runLoop(loopCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	eg.Go(func() error {
		select {
		case <-g.quit:
		case <-ctx.Done():
		}
		stopLoop()
		<-loopDone
		fini()
		return nil
	})

	return eg.Wait()
}

func (g *game) runLoop(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	return g.loop.Run(ctx)
}
