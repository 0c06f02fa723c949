package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-ecs/core"
)

type ticker struct {
	ticks  int
	onTick func()
}

func (t *ticker) Update(time.Duration) {
	t.ticks++
	if t.onTick != nil {
		t.onTick()
	}
}

type body struct{}

func ref(c any) Ref {
	return Ref{Entity: core.Null, Component: c}
}

func TestActivationListsAreDisjoint(t *testing.T) {
	m := NewComponentManager(InterestedIn[body]())
	a, b := ref(&ticker{}), ref(&body{})
	m.Register(a)
	m.Register(b)
	m.Register(a)

	act, inact := m.Counts()
	assert.Equal(t, 2, act)
	assert.Equal(t, 0, inact)
	assert.Equal(t, []Ref{b}, m.Interesting())

	m.SetActive(b, false)
	m.SetActive(b, false)
	assert.Equal(t, []Ref{a}, m.Active())
	assert.Equal(t, []Ref{b}, m.Inactive())
	assert.Empty(t, m.Interesting())

	m.SetActive(b, true)
	assert.Equal(t, []Ref{b}, m.Interesting())
	assert.Empty(t, m.Inactive())

	m.Unregister(b)
	m.Unregister(b)
	assert.False(t, m.IsActive(b))
	assert.Empty(t, m.Interesting())
}

func TestSetActiveOnUntrackedIsNoop(t *testing.T) {
	m := NewComponentManager(nil)
	c := ref(&ticker{})
	m.SetActive(c, true)
	assert.False(t, m.IsActive(c))
	assert.False(t, m.IsTracked(c))
}

func TestUpdateAllSkipsInactive(t *testing.T) {
	m := NewComponentManager(nil)
	on, off := &ticker{}, &ticker{}
	m.Register(ref(on))
	m.Register(ref(off))
	m.SetActive(ref(off), false)

	m.UpdateAll(time.Millisecond)
	assert.Equal(t, 1, on.ticks)
	assert.Equal(t, 0, off.ticks)
}

func TestUpdateAllReentrantRegistration(t *testing.T) {
	m := NewComponentManager(nil)
	spawned := &ticker{}
	self := &ticker{}
	self.onTick = func() {
		m.Register(ref(spawned))
		m.SetActive(ref(self), false)
	}
	m.Register(ref(self))

	m.UpdateAll(time.Millisecond)
	assert.Equal(t, 1, self.ticks)
	assert.Equal(t, 0, spawned.ticks, "registered mid-pass, runs next pass")

	m.UpdateAll(time.Millisecond)
	assert.Equal(t, 1, self.ticks)
	assert.Equal(t, 1, spawned.ticks)
}

func TestComponentManagerConcurrentRegistration(t *testing.T) {
	m := NewComponentManager(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c := ref(&ticker{})
				m.Register(c)
				m.SetActive(c, false)
				m.Unregister(c)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		m.UpdateAll(time.Millisecond)
	}
	wg.Wait()

	act, inact := m.Counts()
	assert.Equal(t, 0, act)
	assert.Equal(t, 0, inact)
}

func TestRegistryFeedsManager(t *testing.T) {
	m := NewComponentManager(nil)
	r := NewRegistry(m)
	e := r.CreateEntity()
	tk := Add(r, e, ticker{})

	SetComponentActive[ticker](r, e, false)
	assert.False(t, IsComponentActive[ticker](r, e))
	m.UpdateAll(time.Millisecond)
	assert.Equal(t, 0, tk.ticks)

	SetComponentActive[ticker](r, e, true)
	m.UpdateAll(time.Millisecond)
	assert.Equal(t, 1, tk.ticks)

	Remove[ticker](r, e)
	assert.False(t, m.IsTracked(Ref{Entity: e, Component: tk}))
}

type marker struct{}

func TestZeroSizeComponentsTrackedPerEntity(t *testing.T) {
	m := NewComponentManager(InterestedIn[marker]())
	r := NewRegistry(m)
	a, b := r.CreateEntity(), r.CreateEntity()
	Add(r, a, marker{})
	Add(r, b, marker{})

	act, _ := m.Counts()
	require.Equal(t, 2, act)
	assert.Len(t, m.Interesting(), 2)

	SetComponentActive[marker](r, a, false)
	assert.False(t, IsComponentActive[marker](r, a))
	assert.True(t, IsComponentActive[marker](r, b))
	assert.Equal(t, []Ref{{Entity: b, Component: Get[marker](r, b)}}, m.Interesting())

	Remove[marker](r, a)
	assert.True(t, IsComponentActive[marker](r, b))
	act, inact := m.Counts()
	assert.Equal(t, 1, act)
	assert.Equal(t, 0, inact)

	r.DestroyEntity(b)
	act, _ = m.Counts()
	assert.Equal(t, 0, act)
}
