package script

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/lixenwraith/vi-ecs/asset"
)

// LuaPrefix marks script names that load a Lua file from the registry's file system
const LuaPrefix = "lua:"

var (
	// ErrDuplicateBehavior is the panic cause for registering a name twice
	ErrDuplicateBehavior = errors.New("duplicate behavior")

	// ErrUnknownBehavior is returned when a name resolves to nothing
	ErrUnknownBehavior = errors.New("unknown behavior")
)

// Factory constructs a fresh behavior instance per component
type Factory func() Behavior

// Registry maps script names to behavior factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	files     asset.FS
	root      string
}

// NewRegistry creates a registry; files may be nil when Lua scripts are not used
func NewRegistry(files asset.FS, root string) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		files:     files,
		root:      root,
	}
}

// Register adds a named factory and panics on a duplicate name
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		panic(fmt.Errorf("register %q: %w", name, ErrDuplicateBehavior))
	}
	r.factories[name] = f
}

// Names returns registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the behavior for name
func (r *Registry) New(name string) (Behavior, error) {
	if file, ok := strings.CutPrefix(name, LuaPrefix); ok {
		return r.newLua(file)
	}

	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("script %q: %w", name, ErrUnknownBehavior)
	}
	return f(), nil
}

func (r *Registry) newLua(file string) (Behavior, error) {
	if r.files == nil {
		return nil, fmt.Errorf("script %q: no script file system", file)
	}
	p := file
	if r.root != "" {
		p = path.Join(r.root, file)
	}
	src, err := r.files.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", file, err)
	}
	return NewLuaBehavior(file, string(src))
}

// Bind resolves the component's behavior by name when it has none
func (r *Registry) Bind(s *NativeScriptComponent) error {
	if s.Behavior != nil {
		return nil
	}
	b, err := r.New(s.Name)
	if err != nil {
		return err
	}
	s.Behavior = b
	return nil
}
