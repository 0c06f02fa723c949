package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-ecs/component"
	"github.com/lixenwraith/vi-ecs/core"
)

type recordingSystem struct {
	name     string
	priority int
	log      *[]string
	seen     []int
}

func (s *recordingSystem) Update(w *World, _ time.Duration) {
	*s.log = append(*s.log, s.name)
	s.seen = append(s.seen, len(w.Entities()))
}

func (s *recordingSystem) Priority() int { return s.priority }

func TestSpawnVisibleAfterUpdate(t *testing.T) {
	w := NewWorld(nil)
	e := w.Spawn("player")

	assert.True(t, w.IsAlive(e))
	assert.Empty(t, w.Entities())
	assert.Empty(t, w.ByTag("player"))
	assert.Equal(t, 1, w.PendingCount())

	w.Update(time.Millisecond)
	assert.Equal(t, []core.Entity{e}, w.Entities())
	assert.Equal(t, []core.Entity{e}, w.ByTag("player"))

	id := Get[component.IdentityComponent](w.Registry, e)
	got, ok := w.ByGUID(id.GUID)
	require.True(t, ok)
	assert.Equal(t, e, got)
}

func TestDeadEntitiesLeaveIndices(t *testing.T) {
	w := NewWorld(nil)
	guid := uuid.New()
	e := w.SpawnWithGUID("enemy", guid)
	w.Update(0)

	w.Destroy(e)
	assert.True(t, w.IsAlive(e), "destroy is deferred")
	w.Update(0)

	assert.Empty(t, w.Entities())
	assert.Empty(t, w.ByTag("enemy"))
	_, ok := w.ByGUID(guid)
	assert.False(t, ok)
}

func TestSpawnedAndDestroyedBeforeUpdateNeverVisible(t *testing.T) {
	w := NewWorld(nil)
	e := w.Spawn("ghost")
	w.Destroy(e)
	w.Update(0)
	assert.Empty(t, w.Entities())
	assert.Empty(t, w.ByTag("ghost"))
}

func TestSystemsRunInPriorityOrder(t *testing.T) {
	w := NewWorld(nil)
	var log []string
	late := &recordingSystem{name: "late", priority: 10, log: &log}
	early := &recordingSystem{name: "early", priority: -1, log: &log}
	mid := &recordingSystem{name: "mid", priority: 10, log: &log}
	w.AddSystem(late)
	w.AddSystem(early)
	w.AddSystem(mid)

	w.Spawn("a")
	w.Update(0)
	assert.Equal(t, []string{"early", "late", "mid"}, log)
	assert.Equal(t, []int{1}, early.seen, "systems see entities promoted this update")

	w.RemoveSystem(mid)
	assert.Len(t, w.Systems(), 2)
	assert.Equal(t, int64(1), w.Frame())
}

func TestSetTag(t *testing.T) {
	w := NewWorld(nil)
	e := w.Spawn("old")
	w.Update(0)

	w.SetTag(e, "new")
	assert.Empty(t, w.ByTag("old"))
	first, ok := w.FirstByTag("new")
	require.True(t, ok)
	assert.Equal(t, e, first)
}

func TestWorldClear(t *testing.T) {
	w := NewWorld(nil)
	w.Spawn("a")
	w.Update(0)
	w.Spawn("b")
	w.Clear()

	assert.Equal(t, 0, w.Alive())
	assert.Empty(t, w.Entities())
	assert.Equal(t, 0, w.PendingCount())
}

func TestLookupGUIDSeesPendingEntities(t *testing.T) {
	w := NewWorld(nil)
	guid := uuid.New()
	e := w.SpawnWithGUID("pending", guid)

	_, visible := w.ByGUID(guid)
	assert.False(t, visible)
	got, ok := w.LookupGUID(guid)
	require.True(t, ok)
	assert.Equal(t, e, got)

	w.DestroyEntity(e)
	_, ok = w.LookupGUID(guid)
	assert.False(t, ok)

	w.SpawnWithGUID("again", guid)
	w.Clear()
	_, ok = w.LookupGUID(guid)
	assert.False(t, ok)
}
