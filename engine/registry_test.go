package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-ecs/core"
)

type position struct{ X int }

type velocity struct{ DX int }

type hooked struct {
	attached, detached *[]core.Entity
}

func (h *hooked) OnAttach(e core.Entity) { *h.attached = append(*h.attached, e) }
func (h *hooked) OnDetach(e core.Entity) { *h.detached = append(*h.detached, e) }

func panicCause(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		e, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		err = e
	}()
	fn()
	return nil
}

func TestGenerationSafety(t *testing.T) {
	r := NewRegistry(nil)
	e1 := r.CreateEntity()
	r.DestroyEntity(e1)
	e2 := r.CreateEntity()

	assert.Equal(t, e1.Index, e2.Index)
	assert.NotEqual(t, e1.Generation, e2.Generation)
	assert.False(t, r.IsAlive(e1))
	assert.True(t, r.IsAlive(e2))
}

func TestFreeListIsLIFO(t *testing.T) {
	r := NewRegistry(nil)
	a, b := r.CreateEntity(), r.CreateEntity()
	r.DestroyEntity(a)
	r.DestroyEntity(b)

	assert.Equal(t, b.Index, r.CreateEntity().Index)
	assert.Equal(t, a.Index, r.CreateEntity().Index)
}

func TestNullIsNeverAlive(t *testing.T) {
	r := NewRegistry(nil)
	r.CreateEntity()
	assert.False(t, r.IsAlive(core.Null))
	assert.False(t, Has[position](r, core.Null))
	assert.Nil(t, TryGet[position](r, core.Null))
}

func TestAddRemove(t *testing.T) {
	r := NewRegistry(nil)
	e := r.CreateEntity()

	p := Add(r, e, position{1})
	require.NotNil(t, p)
	assert.Equal(t, 1, Get[position](r, e).X)

	Remove[position](r, e)
	assert.False(t, Has[position](r, e))
	assert.Nil(t, Get[position](r, e))

	// Absent removal is a no-op
	Remove[position](r, e)
	Remove[velocity](r, e)
}

func TestAddOnDestroyedEntityReturnsNil(t *testing.T) {
	r := NewRegistry(nil)
	e := r.CreateEntity()
	r.DestroyEntity(e)

	assert.Nil(t, Add(r, e, position{1}))
	assert.Equal(t, 0, StoreOf[position](r).Count())
}

func TestAddReplacesInPlace(t *testing.T) {
	r := NewRegistry(nil)
	e := r.CreateEntity()
	var attached, detached []core.Entity

	first := Add(r, e, hooked{&attached, &detached})
	second := Add(r, e, hooked{&attached, &detached})
	assert.Same(t, first, second)
	assert.Equal(t, []core.Entity{e, e}, attached)
	assert.Equal(t, []core.Entity{e}, detached)
	assert.Equal(t, 1, StoreOf[hooked](r).Count())
}

func TestMutatorsPanicOnInvalidEntities(t *testing.T) {
	r := NewRegistry(nil)
	dead := r.CreateEntity()
	r.DestroyEntity(dead)

	assert.ErrorIs(t, panicCause(t, func() { Add(r, core.Null, position{}) }), ErrNullEntity)
	assert.ErrorIs(t, panicCause(t, func() { Remove[position](r, core.Null) }), ErrNullEntity)
	assert.ErrorIs(t, panicCause(t, func() { Remove[position](r, dead) }), ErrDeadEntity)
	assert.ErrorIs(t, panicCause(t, func() { Get[position](r, dead) }), ErrDeadEntity)
	assert.ErrorIs(t, panicCause(t, func() { r.DestroyEntity(dead) }), ErrDeadEntity)
	assert.ErrorIs(t, panicCause(t, func() { r.DestroyEntity(core.Null) }), ErrNullEntity)
	assert.ErrorIs(t, panicCause(t, func() { QueueAdd(r, core.Null, position{}) }), ErrNullEntity)
	assert.ErrorIs(t, panicCause(t, func() { r.QueueDestroy(core.Null) }), ErrNullEntity)

	assert.Nil(t, TryGet[position](r, dead))
	assert.False(t, Has[position](r, dead))
}

func TestStaleHandleMissesReusedSlot(t *testing.T) {
	r := NewRegistry(nil)
	old := r.CreateEntity()
	r.DestroyEntity(old)
	fresh := r.CreateEntity()
	Add(r, fresh, position{7})

	assert.Nil(t, StoreOf[position](r).Get(old))
	assert.Equal(t, 7, StoreOf[position](r).Get(fresh).X)
}

func TestStoreIterationOrderSurvivesRemoval(t *testing.T) {
	r := NewRegistry(nil)
	es := make([]core.Entity, 5)
	for i := range es {
		es[i] = r.CreateEntity()
		Add(r, es[i], position{i})
	}
	Remove[position](r, es[1])
	Remove[position](r, es[3])

	assert.Equal(t, []core.Entity{es[0], es[2], es[4]}, View[position](r))

	var xs []int
	Each(r, func(_ core.Entity, p *position) { xs = append(xs, p.X) })
	assert.Equal(t, []int{0, 2, 4}, xs)
}

func TestEachToleratesMutation(t *testing.T) {
	r := NewRegistry(nil)
	a, b := r.CreateEntity(), r.CreateEntity()
	Add(r, a, position{1})
	Add(r, b, position{2})

	var visited []core.Entity
	Each(r, func(e core.Entity, _ *position) {
		visited = append(visited, e)
		if e == a {
			r.DestroyEntity(b)
			Add(r, r.CreateEntity(), position{3})
		}
	})
	assert.Equal(t, []core.Entity{a}, visited)
}

func TestDestroyRunsDetachHooksAndUnregisters(t *testing.T) {
	r := NewRegistry(nil)
	e := r.CreateEntity()
	var attached, detached []core.Entity
	h := Add(r, e, hooked{&attached, &detached})
	require.True(t, r.Manager().IsTracked(Ref{Entity: e, Component: h}))

	r.DestroyEntity(e)
	assert.Equal(t, []core.Entity{e}, detached)
	assert.False(t, r.Manager().IsTracked(Ref{Entity: e, Component: h}))
}

func TestComponentsListing(t *testing.T) {
	r := NewRegistry(nil)
	e := r.CreateEntity()
	p := Add(r, e, position{1})
	v := Add(r, e, velocity{2})

	assert.Equal(t, []any{p, v}, r.Components(e))
	assert.Nil(t, r.Components(core.Null))
}

func TestClear(t *testing.T) {
	r := NewRegistry(nil)
	parent, child := r.CreateEntity(), r.CreateEntity()
	require.NoError(t, r.SetParent(child, parent))
	Add(r, child, position{1})
	QueueAdd(r, parent, position{2})

	r.Clear()
	assert.Equal(t, 0, r.Alive())
	assert.Empty(t, r.Entities())
	assert.Equal(t, 0, r.Commands().Len())
	assert.Equal(t, 0, StoreOf[position](r).Count())
}
