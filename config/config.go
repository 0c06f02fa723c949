package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/vi-ecs/asset"
	"github.com/lixenwraith/vi-ecs/audio"
	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/input"
	"github.com/lixenwraith/vi-ecs/logging"
	"github.com/lixenwraith/vi-ecs/parameter"
)

type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Engine EngineConfig `toml:"engine" yaml:"engine"`
	Input  InputConfig  `toml:"input" yaml:"input"`
	Audio  AudioConfig  `toml:"audio" yaml:"audio"`
	Scene  SceneConfig  `toml:"scene" yaml:"scene"`
}

type LogConfig struct {
	Level     string `toml:"level" yaml:"level"`
	Encoding  string `toml:"encoding" yaml:"encoding"` // "console" or "json"
	File      string `toml:"file" yaml:"file"`         // empty disables file output
	QueueSize int    `toml:"queue_size" yaml:"queue_size"`
}

type EngineConfig struct {
	TickMs          int     `toml:"tick_ms" yaml:"tick_ms"`
	PhysicsStepMs   int     `toml:"physics_step_ms" yaml:"physics_step_ms"`
	MaxPhysicsSteps int     `toml:"max_physics_steps" yaml:"max_physics_steps"`
	GravityX        float64 `toml:"gravity_x" yaml:"gravity_x"`
	GravityY        float64 `toml:"gravity_y" yaml:"gravity_y"`
}

type InputConfig struct {
	HoldMs  int                     `toml:"hold_ms" yaml:"hold_ms"`
	Actions map[string]ActionConfig `toml:"actions" yaml:"actions"`
}

// ActionConfig binds a global action; names are the map keys
type ActionConfig struct {
	Keys        []string `toml:"keys" yaml:"keys"`
	Buttons     []int    `toml:"buttons" yaml:"buttons"`
	Trigger     string   `toml:"trigger" yaml:"trigger"`
	AllowRepeat bool     `toml:"allow_repeat" yaml:"allow_repeat"`
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled" yaml:"enabled"`
	SampleRate int     `toml:"sample_rate" yaml:"sample_rate"`
	Volume     float64 `toml:"volume" yaml:"volume"`
}

type SceneConfig struct {
	Path     string `toml:"path" yaml:"path"`
	SavePath string `toml:"save_path" yaml:"save_path"`
	Scripts  string `toml:"scripts" yaml:"scripts"`
}

// Default decodes the embedded default configuration
func Default() *Config {
	cfg := &Config{}
	if _, err := toml.Decode(asset.DefaultConfig, cfg); err != nil {
		panic(fmt.Errorf("embedded default config: %w", err))
	}
	return cfg
}

// Load reads path over the defaults; .yaml and .yml files are YAML, anything else TOML
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data, Format(path))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Format infers "yaml" or "toml" from a file extension
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "toml"
}

// Parse decodes data over the defaults and validates the result
// Action tables present in data replace the default action set
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	defaults := cfg.Input.Actions
	cfg.Input.Actions = nil

	switch format {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case "toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if cfg.Input.Actions == nil {
		cfg.Input.Actions = defaults
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and that every action binding parses
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("log.encoding: must be console or json, got %q", c.Log.Encoding)
	}
	if c.Engine.TickMs <= 0 {
		return fmt.Errorf("engine.tick_ms: must be positive, got %d", c.Engine.TickMs)
	}
	if c.Engine.PhysicsStepMs <= 0 {
		return fmt.Errorf("engine.physics_step_ms: must be positive, got %d", c.Engine.PhysicsStepMs)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume: must be within [0, 1], got %g", c.Audio.Volume)
	}
	if _, err := c.Actions(); err != nil {
		return err
	}
	return nil
}

// Tick falls back to parameter.GameUpdateInterval when unset
func (e EngineConfig) Tick() time.Duration {
	if e.TickMs <= 0 {
		return parameter.GameUpdateInterval
	}
	return time.Duration(e.TickMs) * time.Millisecond
}

func (e EngineConfig) PhysicsStep() time.Duration {
	if e.PhysicsStepMs <= 0 {
		return parameter.PhysicsStep
	}
	return time.Duration(e.PhysicsStepMs) * time.Millisecond
}

func (e EngineConfig) Gravity() core.Vec2 {
	return core.V2(e.GravityX, e.GravityY)
}

func (i InputConfig) Hold() time.Duration {
	return time.Duration(i.HoldMs) * time.Millisecond
}

// Actions builds the configured global actions sorted by name
func (c *Config) Actions() ([]input.Action, error) {
	names := make([]string, 0, len(c.Input.Actions))
	for name := range c.Input.Actions {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]input.Action, 0, len(names))
	for _, name := range names {
		ac := c.Input.Actions[name]
		trigger := ac.Trigger
		if trigger == "" {
			trigger = "pressed"
		}
		a, err := input.BuildAction(name, ac.Keys, ac.Buttons, trigger, ac.AllowRepeat)
		if err != nil {
			return nil, fmt.Errorf("input.actions.%s: %w", name, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (a AudioConfig) ToAudio() audio.Config {
	return audio.Config{Enabled: a.Enabled, SampleRate: a.SampleRate, Volume: a.Volume}
}

func (l LogConfig) ToLogging() logging.Config {
	var outputs []string
	if l.File != "" {
		outputs = append(outputs, l.File)
	}
	level, _ := logging.ParseLevel(l.Level)
	return logging.Config{Level: level, Encoding: l.Encoding, Outputs: outputs, QueueSize: l.QueueSize}
}
