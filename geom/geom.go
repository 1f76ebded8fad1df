// Package geom holds the feature codec's plain geometry types — world
// points, rings/polygons with holes, and bounding rectangles — built as
// thin wrappers around github.com/paulmach/orb rather than hand-rolled
// point-in-polygon and bounding-box math.
package geom

import (
	"github.com/mapscodec/geofeature/coord"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Ring is a closed polyline used for an outer boundary or a hole.
type Ring []coord.PointD

// ToOrb converts Ring to an orb.Ring.
func (r Ring) ToOrb() orb.Ring {
	pts := make(orb.Ring, len(r))
	for i, p := range r {
		pts[i] = orb.Point{p.X, p.Y}
	}

	return pts
}

// Contains reports whether p lies inside the ring, using orb's
// even-odd point-in-polygon test. Used by the builder's hole-containment
// filter (§3): a hole is kept only if its first vertex lies inside the
// outer ring.
func (r Ring) Contains(p coord.PointD) bool {
	return planar.RingContains(r.ToOrb(), orb.Point{p.X, p.Y})
}

// Rect is an axis-aligned bounding rectangle, accumulated incrementally
// as geometry is added to a feature (the builder's limitRect invariant).
type Rect struct {
	bound orb.Bound
	empty bool
}

// NewEmptyRect creates a Rect with no points added yet.
func NewEmptyRect() Rect {
	return Rect{empty: true}
}

// Add extends the rectangle to include p.
func (r *Rect) Add(p coord.PointD) {
	op := orb.Point{p.X, p.Y}
	if r.empty {
		r.bound = orb.Bound{Min: op, Max: op}
		r.empty = false

		return
	}

	r.bound = r.bound.Union(orb.Bound{Min: op, Max: op})
}

// AddRing extends the rectangle to include every point of ring.
func (r *Rect) AddRing(ring Ring) {
	for _, p := range ring {
		r.Add(p)
	}
}

// IsEmpty reports whether no point has been added yet.
func (r Rect) IsEmpty() bool {
	return r.empty
}

// Min returns the rectangle's minimum corner. Zero value if empty.
func (r Rect) Min() coord.PointD {
	return coord.PointD{X: r.bound.Min[0], Y: r.bound.Min[1]}
}

// Max returns the rectangle's maximum corner. Zero value if empty.
func (r Rect) Max() coord.PointD {
	return coord.PointD{X: r.bound.Max[0], Y: r.bound.Max[1]}
}

// Equal reports whether two rectangles are equal within epsilon on every
// coordinate, mirroring the builder's epsilon-equality comparisons.
func (r Rect) Equal(other Rect, c *coord.Codec) bool {
	if r.empty != other.empty {
		return false
	}
	if r.empty {
		return true
	}

	return c.EqualPoint(r.Min(), other.Min()) && c.EqualPoint(r.Max(), other.Max())
}
