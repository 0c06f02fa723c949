package engine

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
)

// System is run by World.Update in ascending priority order
type System interface {
	Update(w *World, dt time.Duration)
	Priority() int
}

// World layers entity bookkeeping and systems over a Registry
// Spawned entities exist in the registry immediately but join Entities, ByTag and ByGUID
// only after the next Update; dead entities leave those indices in the same pass.
// LookupGUID sees every live entity, pending ones included
type World struct {
	*Registry

	mu       sync.RWMutex // guards systems
	updateMu sync.Mutex   // serializes Update against RunSafe callers

	entities []core.Entity
	pending  []core.Entity
	byTag    map[string][]core.Entity
	byGUID   map[uuid.UUID]core.Entity
	guids    map[uuid.UUID]core.Entity // every spawned GUID, pruned on refresh

	systems []System
	frame   int64
}

// NewWorld creates a world whose registry tracks components in manager
// A nil manager gets one whose interesting view holds sprites
func NewWorld(manager *ComponentManager) *World {
	if manager == nil {
		manager = NewComponentManager(InterestedIn[component.SpriteComponent]())
	}
	return &World{
		Registry: NewRegistry(manager),
		byTag:    make(map[string][]core.Entity),
		byGUID:   make(map[uuid.UUID]core.Entity),
		guids:    make(map[uuid.UUID]core.Entity),
	}
}

// Spawn creates a tagged entity with a fresh GUID
func (w *World) Spawn(tag string) core.Entity {
	return w.SpawnWithGUID(tag, uuid.New())
}

// SpawnWithGUID creates a tagged entity with a known GUID, as scene loading does
func (w *World) SpawnWithGUID(tag string, guid uuid.UUID) core.Entity {
	e := w.CreateEntity()
	Add(w.Registry, e, component.IdentityComponent{GUID: guid, Tag: tag})
	w.pending = append(w.pending, e)
	w.guids[guid] = e
	return e
}

// Destroy queues e for destruction at the next Update; dead entities are ignored
func (w *World) Destroy(e core.Entity) {
	w.QueueDestroy(e)
}

// Update flushes deferred commands, refreshes indices, then runs systems over a snapshot
func (w *World) Update(dt time.Duration) {
	w.RunSafe(func() {
		w.UpdateLocked(dt)
	})
}

// UpdateLocked is Update for callers already inside RunSafe
func (w *World) UpdateLocked(dt time.Duration) {
	w.frame++
	w.FlushCommandBuffer()
	w.refresh()

	for _, s := range w.Systems() {
		s.Update(w, dt)
	}
}

// RunSafe executes fn while holding the update lock
func (w *World) RunSafe(fn func()) {
	w.updateMu.Lock()
	defer w.updateMu.Unlock()
	fn()
}

// Frame returns the number of completed Update calls
func (w *World) Frame() int64 {
	return w.frame
}

// Refresh promotes pending entities and drops dead ones without running systems
func (w *World) Refresh() {
	w.refresh()
}

func (w *World) refresh() {
	for _, e := range w.pending {
		if !w.IsAlive(e) {
			continue
		}
		w.entities = append(w.entities, e)
		if id := TryGet[component.IdentityComponent](w.Registry, e); id != nil {
			w.byTag[id.Tag] = append(w.byTag[id.Tag], e)
			w.byGUID[id.GUID] = e
		}
	}
	w.pending = w.pending[:0]

	w.entities = slices.DeleteFunc(w.entities, func(e core.Entity) bool { return !w.IsAlive(e) })
	for tag, list := range w.byTag {
		list = slices.DeleteFunc(list, func(e core.Entity) bool { return !w.IsAlive(e) })
		if len(list) == 0 {
			delete(w.byTag, tag)
			continue
		}
		w.byTag[tag] = list
	}
	for guid, e := range w.byGUID {
		if !w.IsAlive(e) {
			delete(w.byGUID, guid)
		}
	}
	for guid, e := range w.guids {
		if !w.IsAlive(e) {
			delete(w.guids, guid)
		}
	}
}

// Entities returns visible entities in spawn order
func (w *World) Entities() []core.Entity {
	return slices.Clone(w.entities)
}

// PendingCount returns entities spawned since the last Update
func (w *World) PendingCount() int {
	return len(w.pending)
}

// ByTag returns visible live entities with tag
func (w *World) ByTag(tag string) []core.Entity {
	var out []core.Entity
	for _, e := range w.byTag[tag] {
		if w.IsAlive(e) {
			out = append(out, e)
		}
	}
	return out
}

// FirstByTag returns the earliest visible entity with tag
func (w *World) FirstByTag(tag string) (core.Entity, bool) {
	for _, e := range w.byTag[tag] {
		if w.IsAlive(e) {
			return e, true
		}
	}
	return core.Null, false
}

// ByGUID resolves a visible live entity by persistent GUID
func (w *World) ByGUID(guid uuid.UUID) (core.Entity, bool) {
	e, ok := w.byGUID[guid]
	if !ok || !w.IsAlive(e) {
		return core.Null, false
	}
	return e, true
}

// LookupGUID resolves a live entity by GUID whether or not it is visible yet
func (w *World) LookupGUID(guid uuid.UUID) (core.Entity, bool) {
	e, ok := w.guids[guid]
	if !ok || !w.IsAlive(e) {
		return core.Null, false
	}
	return e, true
}

// SetTag changes e's tag, updating the index if e is already visible
func (w *World) SetTag(e core.Entity, tag string) {
	id := Get[component.IdentityComponent](w.Registry, e)
	if id == nil || id.Tag == tag {
		return
	}
	if list, ok := w.byTag[id.Tag]; ok {
		if i := slices.Index(list, e); i >= 0 {
			w.byTag[id.Tag] = slices.Delete(list, i, i+1)
			w.byTag[tag] = append(w.byTag[tag], e)
		}
	}
	id.Tag = tag
}

// Clear destroys every entity and resets indices; systems stay registered
func (w *World) Clear() {
	w.Registry.Clear()
	w.entities = nil
	w.pending = nil
	w.byTag = make(map[string][]core.Entity)
	w.byGUID = make(map[uuid.UUID]core.Entity)
	w.guids = make(map[uuid.UUID]core.Entity)
}

// AddSystem adds a system and keeps the list sorted by priority, insertion order breaking ties
func (w *World) AddSystem(s System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, s)
	sort.SliceStable(w.systems, func(i, j int) bool {
		return w.systems[i].Priority() < w.systems[j].Priority()
	})
}

// RemoveSystem unregisters s; unknown systems are ignored
func (w *World) RemoveSystem(s System) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := slices.Index(w.systems, s); i >= 0 {
		w.systems = slices.Delete(w.systems, i, i+1)
	}
}

// Systems returns a copy of all registered systems
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.systems)
}
