package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-ecs/asset"
	"github.com/lixenwraith/vi-ecs/audio"
	"github.com/lixenwraith/vi-ecs/config"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/logging"
	"github.com/lixenwraith/vi-ecs/render"
	"github.com/lixenwraith/vi-ecs/service"
)

var (
	configFlag     = flag.String("config", "vi-ecs.toml", "Config file, TOML or YAML by extension")
	initFlag       = flag.Bool("init-config", false, "Write the default config to -config and exit")
	sceneFlag      = flag.String("scene", "", "Scene file, overrides the config")
	profileFlag    = flag.String("profile", "", "Profile mode: cpu, mem or trace")
	profileDirFlag = flag.String("profile-dir", ".", "Directory profiles are written to")
	rootFlag       = flag.String("root", ".", "Directory scene and script paths are relative to")
)

func main() {
	flag.Parse()
	os.Exit(execute())
}

// execute returns the exit code; deferred cleanup such as the profile flush runs before main exits
func execute() int {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if *initFlag {
		if err := writeDefaultConfig(*configFlag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if stop := startProfile(*profileFlag, *profileDirFlag); stop != nil {
		defer stop()
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vi-ecs: %v\n", err)
		return 1
	}
	return 0
}

func run() error {
	cfg, err := loadConfig(*configFlag)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Shutdown()

	hub := service.NewHub(log)
	screenSvc := render.NewScreenService()
	audioSvc := audio.NewService(log)
	if err := hub.Register(screenSvc); err != nil {
		return err
	}
	if err := hub.Register(audioSvc, cfg.Audio.ToAudio()); err != nil {
		return err
	}
	if err := hub.InitAll(); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	files := asset.Layered{
		Primary:  asset.OS{Root: *rootFlag},
		Fallback: asset.Builtin(cfg.Scene.Path, cfg.Scene.Scripts),
	}
	g, err := newGame(cfg, log, files, screenSvc.Screen(), audioSvc.Player())
	if err != nil {
		return err
	}
	if err := g.loadScene(*sceneFlag); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("started", zap.String("scene", g.scenes.Current()), zap.Int("entities", g.world.Alive()))
	err = g.run(ctx, func() { _ = screenSvc.Stop() })
	log.Info("stopped", zap.Int64("frames", g.world.Frame()))
	return err
}

// loadConfig falls back to defaults when path does not exist
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// newLogger discards output unless a log file is configured; the terminal belongs to the screen
func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	if cfg.File == "" {
		return logging.Nop(), nil
	}
	return logging.New(cfg.ToLogging())
}

// writeDefaultConfig refuses to overwrite an existing file
func writeDefaultConfig(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(asset.DefaultConfig); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func startProfile(mode, dir string) func() {
	var opt func(*profile.Profile)
	switch mode {
	case "":
		return nil
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfile
	case "trace":
		opt = profile.TraceProfile
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q, profiling disabled\n", mode)
		return nil
	}
	return profile.Start(opt, profile.ProfilePath(dir), profile.Quiet).Stop
}
