// Package feature implements the FeatureBuilder (Stage-1 and Stage-2) and
// FeatureReader components (§4.3-§4.5).
package feature

import (
	"github.com/mapscodec/geofeature/bytestream"
	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/errs"
	"github.com/mapscodec/geofeature/geom"
	"github.com/mapscodec/geofeature/internal/pool"
	"github.com/mapscodec/geofeature/section"
	"github.com/mapscodec/geofeature/varint"
)

// Origin is the zero quantized point, used as the base for Stage-1's
// always-self-contained serialization (§4.3 serialize).
var Origin = coord.PointU{}

const (
	minLayer = -10
	maxLayer = 10
)

// Builder accumulates a single feature's geometry and attributes and
// serializes it to the Stage-1 byte layout (§4.3). It owns its
// accumulated data exclusively; Serialize borrows it immutably.
type Builder struct {
	codec *coord.Codec

	types []uint32

	layer    int32
	hasLayer bool

	name    string
	hasName bool

	center   coord.PointD
	hasPoint bool

	isLine bool
	isArea bool

	geometry []coord.PointD
	holes    []geom.Ring

	limitRect geom.Rect
}

// NewBuilder creates an empty Builder using codec for coordinate
// quantization.
func NewBuilder(codec *coord.Codec) *Builder {
	return &Builder{codec: codec, limitRect: geom.NewEmptyRect()}
}

// SetCenter sets the feature's center point and the Point kind flag.
func (b *Builder) SetCenter(p coord.PointD) {
	b.center = p
	b.hasPoint = true
	b.limitRect.Add(p)
}

// AddPoint appends a vertex to the feature's line/area geometry.
func (b *Builder) AddPoint(p coord.PointD) {
	b.geometry = append(b.geometry, p)
	b.limitRect.Add(p)
}

// SetLinear marks the feature as a line. geometry must already hold at
// least 2 points by the time Validate runs.
func (b *Builder) SetLinear() {
	b.isLine = true
}

// SetArea marks the feature as an area with no holes.
func (b *Builder) SetArea() {
	b.isArea = true
}

// SetAreaWithHoles marks the feature as an area and attaches holes,
// filtering out any hole with fewer than 3 points and any hole whose first
// vertex does not lie inside the already-accumulated outer ring (§3: the
// minimum-vertex-count and hole-containment filters). Holes must be set
// after the outer ring's points have been added via AddPoint, since
// containment is tested against the current geometry.
func (b *Builder) SetAreaWithHoles(holes []geom.Ring) {
	b.isArea = true

	outer := geom.Ring(b.geometry)

	kept := make([]geom.Ring, 0, len(holes))
	for _, h := range holes {
		if len(h) < 3 {
			continue
		}
		if outer.Contains(h[0]) {
			kept = append(kept, h)
			b.limitRect.AddRing(h)
		}
	}

	b.holes = kept
}

// AddType appends a type classifier in insertion order.
func (b *Builder) AddType(t uint32) {
	b.types = append(b.types, t)
}

// SetLayer clamps l to [-10, 10] and stores it. A stored value of 0 is
// indistinguishable from "absent" (§8 property 5): HAS_LAYER is only set
// when the clamped value is non-zero.
func (b *Builder) SetLayer(l int32) {
	switch {
	case l < minLayer:
		l = minLayer
	case l > maxLayer:
		l = maxLayer
	}

	b.layer = l
	b.hasLayer = l != 0
}

// SetName sets the feature's display name. An empty string is stored as
// "no name" — HAS_NAME is never set for it, since the wire format cannot
// represent a zero-length name while the flag is set (§9 Open Questions).
func (b *Builder) SetName(s string) {
	b.name = s
	b.hasName = s != ""
}

// DiffTypes keeps only types not present in remove (remove must be sorted
// ascending) and reports whether any type remains.
func (b *Builder) DiffTypes(remove []uint32) bool {
	kept := b.types[:0:0]

	for _, t := range b.types {
		if !containsSorted(remove, t) {
			kept = append(kept, t)
		}
	}

	b.types = kept

	return len(b.types) > 0
}

func containsSorted(sorted []uint32, v uint32) bool {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if sorted[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo < len(sorted) && sorted[lo] == v
}

// Equal reports structural equality with other, up to the builder's
// coordinate codec epsilon (§4.3 equals).
func (b *Builder) Equal(other *Builder) bool {
	if len(b.types) != len(other.types) {
		return false
	}
	for i := range b.types {
		if b.types[i] != other.types[i] {
			return false
		}
	}

	if b.hasLayer != other.hasLayer || (b.hasLayer && b.layer != other.layer) {
		return false
	}
	if b.hasName != other.hasName || (b.hasName && b.name != other.name) {
		return false
	}
	if b.hasPoint != other.hasPoint {
		return false
	}
	if b.hasPoint && !b.codec.EqualPoint(b.center, other.center) {
		return false
	}
	if b.isLine != other.isLine || b.isArea != other.isArea {
		return false
	}
	if len(b.geometry) != len(other.geometry) {
		return false
	}
	for i := range b.geometry {
		if !b.codec.EqualPoint(b.geometry[i], other.geometry[i]) {
			return false
		}
	}
	if len(b.holes) != len(other.holes) {
		return false
	}
	for i := range b.holes {
		if len(b.holes[i]) != len(other.holes[i]) {
			return false
		}
		for j := range b.holes[i] {
			if !b.codec.EqualPoint(b.holes[i][j], other.holes[i][j]) {
				return false
			}
		}
	}

	return true
}

// Types returns the feature's type classifiers in insertion order.
func (b *Builder) Types() []uint32 {
	return b.types
}

// Layer returns the stored (already-clamped) layer value.
func (b *Builder) Layer() int32 {
	return b.layer
}

// HasLayer reports whether a non-zero layer is set.
func (b *Builder) HasLayer() bool {
	return b.hasLayer
}

// HasName reports whether a non-empty name is set.
func (b *Builder) HasName() bool {
	return b.hasName
}

// Name returns the stored name, empty if none is set.
func (b *Builder) Name() string {
	return b.name
}

// Center returns the stored center point and whether one is set.
func (b *Builder) Center() (coord.PointD, bool) {
	return b.center, b.hasPoint
}

// Geometry returns the accumulated line/area vertices.
func (b *Builder) Geometry() []coord.PointD {
	return b.geometry
}

// HoleCount returns the number of holes that survived the containment
// filter.
func (b *Builder) HoleCount() int {
	return len(b.holes)
}

// LimitRect returns the accumulated bounding rectangle.
func (b *Builder) LimitRect() geom.Rect {
	return b.limitRect
}

// flags derives the common header flags from the builder's current state.
func (b *Builder) flags() section.Flags {
	return section.Flags{
		TypesCount: uint8(len(b.types)),
		HasName:    b.hasName,
		HasLayer:   b.hasLayer,
		HasPoint:   b.hasPoint,
		IsLine:     b.isLine,
		IsArea:     b.isArea,
	}
}

// Validate enforces the invariants of §3. It is called internally by
// Serialize, and may also be called directly by callers that want to fail
// fast before committing geometry.
func (b *Builder) Validate() error {
	if !b.hasPoint && !b.isLine && !b.isArea {
		return errs.NewBuilderError("feature must be at least one of Point, Line, Area")
	}
	if len(b.types) < 1 || len(b.types) > section.MaxTypes {
		return errs.NewBuilderError("types count must be in [1, MaxTypes]")
	}
	if b.isLine && len(b.geometry) < 2 {
		return errs.NewBuilderError("line geometry must have at least 2 points")
	}
	if b.isArea && len(b.geometry) < 3 {
		return errs.NewBuilderError("area geometry must have at least 3 points")
	}
	if b.layer < minLayer || b.layer > maxLayer {
		return errs.NewBuilderError("layer out of range")
	}

	return nil
}

// SerializeBase writes the base block (§4.3, §6.1): the common header,
// types, optional layer, optional name, and optional center-point delta
// against base.
func (b *Builder) SerializeBase(sink *pool.ByteBuffer, base coord.PointU) error {
	if err := b.Validate(); err != nil {
		return err
	}

	header, err := section.EncodeHeader(b.flags())
	if err != nil {
		return err
	}

	sink.MustWriteByte(header)

	for _, t := range b.types {
		if err := varint.WriteUvarint(sink, uint64(t)); err != nil {
			return err
		}
	}

	if b.hasLayer {
		if err := varint.WriteVarint(sink, int64(b.layer)); err != nil {
			return err
		}
	}

	if b.hasName {
		nameBytes := []byte(b.name)
		if err := varint.WriteUvarint(sink, uint64(len(nameBytes)-1)); err != nil {
			return err
		}

		sink.MustWrite(nameBytes)
	}

	if b.hasPoint {
		centerU := b.codec.PointToPointU(b.center)
		delta := coord.EncodeDelta(centerU, base)

		if err := varint.WriteUvarint(sink, delta); err != nil {
			return err
		}
	}

	return nil
}

// Serialize writes the full Stage-1 byte layout: the base block (relative
// to Origin), followed by the outer geometry polyline and holes if any
// (§4.3, §6.1 "Stage-1 only").
func (b *Builder) Serialize(sink *pool.ByteBuffer) error {
	if err := b.SerializeBase(sink, Origin); err != nil {
		return err
	}

	if !b.isLine && !b.isArea {
		return nil
	}

	points := make([]coord.PointU, len(b.geometry))
	for i, p := range b.geometry {
		points[i] = b.codec.PointToPointU(p)
	}

	if err := geom.EncodeOuterPath(sink, points, Origin); err != nil {
		return err
	}

	if b.isArea {
		if err := varint.WriteUvarint(sink, uint64(len(b.holes))); err != nil {
			return err
		}

		for _, h := range b.holes {
			holeU := make([]coord.PointU, len(h))
			for i, p := range h {
				holeU[i] = b.codec.PointToPointU(p)
			}

			if err := geom.EncodeOuterPath(sink, holeU, Origin); err != nil {
				return err
			}
		}
	}

	return nil
}

// DecodeStage1 parses a buffer produced by Builder.Serialize, for use by
// the debug-only round-trip self-check recommended in §4.3 (kept as an
// opt-in test helper per §9 Design Notes, not production code).
func DecodeStage1(codec *coord.Codec, data []byte) (*Builder, error) {
	cur := bytestream.NewCursor(data)

	headerByte, err := cur.ReadByte()
	if err != nil {
		return nil, errs.NewMalformedError("stage1", "missing common header byte")
	}

	flags := section.DecodeHeader(headerByte)
	if flags.TypesCount == 0 {
		return nil, errs.NewMalformedError("stage1", "types_count must not be zero")
	}

	b := NewBuilder(codec)
	b.isLine = flags.IsLine
	b.isArea = flags.IsArea

	for i := uint8(0); i < flags.TypesCount; i++ {
		t, err := varint.ReadUvarint(cur)
		if err != nil {
			return nil, err
		}

		b.types = append(b.types, uint32(t))
	}

	if flags.HasLayer {
		l, err := varint.ReadVarint(cur)
		if err != nil {
			return nil, err
		}

		b.layer = int32(l)
		b.hasLayer = true
	}

	if flags.HasName {
		lenMinus1, err := varint.ReadUvarint(cur)
		if err != nil {
			return nil, err
		}

		raw, err := cur.ReadFull(int(lenMinus1) + 1)
		if err != nil {
			return nil, errs.NewMalformedError("stage1", "name bytes truncated")
		}

		b.name = string(raw)
		b.hasName = true
	}

	if flags.HasPoint {
		delta, err := varint.ReadUvarint(cur)
		if err != nil {
			return nil, err
		}

		centerU := coord.DecodeDelta(delta, Origin)
		b.center = codec.PointUToPoint(centerU)
		b.hasPoint = true
		b.limitRect.Add(b.center)
	}

	if !flags.IsLine && !flags.IsArea {
		return b, nil
	}

	pointsU, err := geom.DecodeOuterPath(cur, Origin)
	if err != nil {
		return nil, err
	}

	b.geometry = make([]coord.PointD, len(pointsU))
	for i, p := range pointsU {
		b.geometry[i] = codec.PointUToPoint(p)
		b.limitRect.Add(b.geometry[i])
	}

	if flags.IsArea {
		holeCount, err := varint.ReadUvarint(cur)
		if err != nil {
			return nil, err
		}

		b.holes = make([]geom.Ring, holeCount)
		for i := range b.holes {
			holeU, err := geom.DecodeOuterPath(cur, Origin)
			if err != nil {
				return nil, err
			}

			ring := make(geom.Ring, len(holeU))
			for j, p := range holeU {
				ring[j] = codec.PointUToPoint(p)
			}

			b.holes[i] = ring
			b.limitRect.AddRing(ring)
		}
	}

	return b, nil
}
