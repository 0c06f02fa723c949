package physics

import (
	"math"

	"github.com/lixenwraith/vi-ecs/core"
)

// AABB is an axis-aligned bounding box in world units
type AABB struct {
	Min, Max core.Vec2
}

// BoxAt builds an AABB from a center and half extents
func BoxAt(center, half core.Vec2) AABB {
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Overlaps reports whether two boxes intersect, touching edges included
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

func (a AABB) Contains(p core.Vec2) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X && p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

func (a AABB) Center() core.Vec2 {
	return a.Min.Add(a.Max).Scale(0.5)
}

// Union returns the smallest box containing both
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: core.V2(math.Min(a.Min.X, b.Min.X), math.Min(a.Min.Y, b.Min.Y)),
		Max: core.V2(math.Max(a.Max.X, b.Max.X), math.Max(a.Max.Y, b.Max.Y)),
	}
}

// segment computes the entry fraction and surface normal of segment from→to against the box
// Slab method; ok is false when the segment misses or starts inside
func (a AABB) segment(from, to core.Vec2) (fraction float64, normal core.Vec2, ok bool) {
	d := to.Sub(from)
	tMin, tMax := 0.0, 1.0

	axes := [2]struct {
		origin, dir, lo, hi float64
		n                   core.Vec2
	}{
		{from.X, d.X, a.Min.X, a.Max.X, core.V2(1, 0)},
		{from.Y, d.Y, a.Min.Y, a.Max.Y, core.V2(0, 1)},
	}

	for _, ax := range axes {
		if ax.dir == 0 {
			if ax.origin < ax.lo || ax.origin > ax.hi {
				return 0, core.Vec2{}, false
			}
			continue
		}
		inv := 1 / ax.dir
		t1 := (ax.lo - ax.origin) * inv
		t2 := (ax.hi - ax.origin) * inv
		n := ax.n.Scale(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n = ax.n
		}
		if t1 > tMin {
			tMin = t1
			normal = n
		}
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, core.Vec2{}, false
		}
	}

	if normal == (core.Vec2{}) {
		// Origin inside the box
		return 0, core.Vec2{}, false
	}
	return tMin, normal, true
}
