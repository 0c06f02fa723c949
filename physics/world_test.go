package physics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-ecs/core"
)

func TestStepIntegratesDynamicBodies(t *testing.T) {
	w := NewWorld(core.V2(0, 10))
	e := core.Entity{Index: 0, Generation: 1}
	b := w.CreateBody(e, BodyDef{Type: BodyDynamic, GravityScale: 1, Mass: 1, Velocity: core.V2(2, 0)})
	static := w.CreateBody(core.Entity{Index: 1, Generation: 1}, BodyDef{Type: BodyStatic, Position: core.V2(5, 5)})

	w.Step(time.Second)

	assert.Equal(t, core.V2(2, 10), b.Position)
	assert.Equal(t, core.V2(2, 10), b.Velocity)
	assert.Equal(t, core.V2(5, 5), static.Position)
}

func TestCreateBodyStoresEntityAsUserData(t *testing.T) {
	w := NewWorld(core.Vec2{})
	e := core.Entity{Index: 4, Generation: 2}
	b := w.CreateBody(e, BodyDef{})

	got, ok := w.EntityOf(b)
	require.True(t, ok)
	assert.Equal(t, e, got)

	found, ok := w.Body(e)
	require.True(t, ok)
	assert.Same(t, b, found)
}

func TestDestroyBody(t *testing.T) {
	w := NewWorld(core.Vec2{})
	e := core.Entity{Index: 0, Generation: 1}
	b := w.CreateBody(e, BodyDef{})
	b.Destroy()
	b.Destroy()

	_, ok := w.Body(e)
	assert.False(t, ok)
	assert.True(t, b.Destroyed())
	assert.Equal(t, 0, w.BodyCount())
}

func TestQueryAABB(t *testing.T) {
	w := NewWorld(core.Vec2{})
	a := w.CreateBody(core.Entity{Index: 0, Generation: 1}, BodyDef{Position: core.V2(0, 0)})
	a.AddFixture(core.Vec2{}, core.V2(1, 1), false)
	far := w.CreateBody(core.Entity{Index: 1, Generation: 1}, BodyDef{Position: core.V2(10, 10)})
	far.AddFixture(core.Vec2{}, core.V2(1, 1), false)

	var found []*Fixture
	w.QueryAABB(AABB{Min: core.V2(-0.5, -0.5), Max: core.V2(0.5, 0.5)}, func(f *Fixture) bool {
		found = append(found, f)
		return true
	})
	require.Len(t, found, 1)
	assert.Same(t, a, found[0].Body())
}

func TestRayCastNearestFirst(t *testing.T) {
	w := NewWorld(core.Vec2{})
	near := w.CreateBody(core.Entity{Index: 0, Generation: 1}, BodyDef{Position: core.V2(5, 0)})
	near.AddFixture(core.Vec2{}, core.V2(1, 1), false)
	far := w.CreateBody(core.Entity{Index: 1, Generation: 1}, BodyDef{Position: core.V2(9, 0)})
	far.AddFixture(core.Vec2{}, core.V2(1, 1), false)

	var hits []RayHit
	w.RayCast(core.V2(0, 0), core.V2(20, 0), func(h RayHit) bool {
		hits = append(hits, h)
		return true
	})
	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].Fixture.Body())
	assert.InDelta(t, 0.2, hits[0].Fraction, 1e-9)
	assert.Equal(t, core.V2(4, 0), hits[0].Point)
	assert.Equal(t, core.V2(-1, 0), hits[0].Normal)

	// Stop after the first hit
	count := 0
	w.RayCast(core.V2(0, 0), core.V2(20, 0), func(RayHit) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestParseBodyType(t *testing.T) {
	bt, err := ParseBodyType("dynamic")
	require.NoError(t, err)
	assert.Equal(t, BodyDynamic, bt)
	assert.Equal(t, "kinematic", BodyKinematic.String())

	_, err = ParseBodyType("bouncy")
	assert.Error(t, err)
}
