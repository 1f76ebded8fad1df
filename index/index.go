// Package index supplements the codec with the feature-lookup-by-region
// capability a real `.mwm`-style vector map store provides on top of it
// (the spec's Framework-level viewport query, outside the codec's three
// in-scope stages but a natural neighbor of it). It is grounded on
// beetlebugorg-s57's ChartIndex/indexedFeature pattern: an rtreego.Rtree
// over each entry's bounding rectangle, with an epsilon floor so
// zero-area point features still index correctly.
package index

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/geom"
)

// boundsEpsilon floors a degenerate (point-feature) rectangle's width or
// height so rtreego's non-zero-dimension requirement is always satisfied,
// matching s57.indexedFeature.Bounds.
const boundsEpsilon = 1e-4

// Record is one indexed feature: a caller-assigned ID, the decoded
// bounding rectangle, the type classifiers used by QueryTypes, and a
// TypeHash that the index stores but does not consult.
type Record struct {
	ID        uint64
	LimitRect geom.Rect
	Types     []uint32
	TypeHash  uint64
}

// Bounds implements rtreego.Spatial.
func (r Record) Bounds() rtreego.Rect {
	min, max := r.LimitRect.Min(), r.LimitRect.Max()

	width := max.X - min.X
	height := max.Y - min.Y

	if width < boundsEpsilon {
		width = boundsEpsilon
	}
	if height < boundsEpsilon {
		height = boundsEpsilon
	}

	rect, _ := rtreego.NewRect(rtreego.Point{min.X, min.Y}, []float64{width, height})

	return rect
}

// SpatialIndex is an R-tree over decoded features' limitRect, letting a
// caller ask "which features intersect this viewport" without a linear
// scan of every parsed Reader (§4.5 parse_geometry's limitRect output is
// exactly what this package consumes).
type SpatialIndex struct {
	tree    *rtreego.Rtree
	records []Record
	seen    map[uint64]struct{}
}

// New creates an empty SpatialIndex. minChildren/maxChildren tune the
// R-tree's branching factor, as in rtreego.NewTree; 25/50 mirrors the
// teacher's chart-scale defaults and suits feature-scale indexes equally
// well.
func New(minChildren, maxChildren int) *SpatialIndex {
	return &SpatialIndex{
		tree: rtreego.NewTree(2, minChildren, maxChildren),
		seen: make(map[uint64]struct{}),
	}
}

// Insert adds rec to the index, skipping the insertion when rec.ID was
// already seen (idempotent re-insertion). TypeHash plays no part in this:
// records with equal TypeHash values are all indexed, and no query
// deduplicates on it.
func (idx *SpatialIndex) Insert(rec Record) {
	if _, ok := idx.seen[rec.ID]; ok {
		return
	}

	idx.seen[rec.ID] = struct{}{}
	idx.records = append(idx.records, rec)
	idx.tree.Insert(rec)
}

// Query returns every record whose bounding rectangle intersects bound,
// in ascending ID order for deterministic test assertions.
func (idx *SpatialIndex) Query(bound geom.Rect) []Record {
	if bound.IsEmpty() {
		return nil
	}

	min, max := bound.Min(), bound.Max()
	width := max.X - min.X
	height := max.Y - min.Y

	if width < boundsEpsilon {
		width = boundsEpsilon
	}
	if height < boundsEpsilon {
		height = boundsEpsilon
	}

	queryRect, err := rtreego.NewRect(rtreego.Point{min.X, min.Y}, []float64{width, height})
	if err != nil {
		return nil
	}

	hits := idx.tree.SearchIntersect(queryRect)

	result := make([]Record, 0, len(hits))
	for _, h := range hits {
		result = append(result, h.(Record))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result
}

// QueryTypes is Query restricted to records carrying at least one type in
// wanted.
func (idx *SpatialIndex) QueryTypes(bound geom.Rect, wanted []uint32) []Record {
	base := idx.Query(bound)

	set := make(map[uint32]struct{}, len(wanted))
	for _, t := range wanted {
		set[t] = struct{}{}
	}

	result := base[:0:0]
	for _, r := range base {
		for _, t := range r.Types {
			if _, ok := set[t]; ok {
				result = append(result, r)
				break
			}
		}
	}

	return result
}

// Count returns the number of distinct records in the index.
func (idx *SpatialIndex) Count() int {
	return len(idx.records)
}

// Bounds returns the union of every indexed record's rectangle, the empty
// rectangle if the index is empty.
func (idx *SpatialIndex) Bounds() geom.Rect {
	out := geom.NewEmptyRect()

	for _, r := range idx.records {
		min, max := r.LimitRect.Min(), r.LimitRect.Max()
		out.Add(coord.PointD{X: min.X, Y: min.Y})
		out.Add(coord.PointD{X: max.X, Y: max.Y})
	}

	return out
}
