package feature

import (
	"io"

	"github.com/mapscodec/geofeature/bitpack"
	"github.com/mapscodec/geofeature/bytestream"
	"github.com/mapscodec/geofeature/container"
	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/errs"
	"github.com/mapscodec/geofeature/geom"
	"github.com/mapscodec/geofeature/section"
	"github.com/mapscodec/geofeature/varint"
)

// parseState models the reader's lazy-parse state machine explicitly
// (§9 Design Notes: "Lazy parse state machine vs. boolean flags"),
// replacing the source's four mutable booleans with a single ordered
// variant. PointsParsed and TrianglesParsed are tracked separately since
// either, both, or neither may apply to a given feature.
type parseState int

const (
	stateUninit parseState = iota
	stateTypesParsed
	stateCommonParsed
	stateHeader2Parsed
)

// Reader wraps a single feature's byte block plus a shared reference to
// the scale header and container, and parses it lazily in the four stages
// of §4.5. A Reader is not safe for concurrent use; lazy parsing mutates
// interior state.
type Reader struct {
	codec       *coord.Codec
	cur         *bytestream.Cursor
	scaleHeader *section.ScaleHeader
	container   container.Container

	state parseState
	flags section.Flags

	types []uint32

	layer    int32
	hasLayer bool

	name    string
	hasName bool

	center   coord.PointD
	hasPoint bool

	ptsCount, ptsMask, trgCount, trgMask uint8

	pointsParsed    bool
	trianglesParsed bool

	geometry      []coord.PointD
	emptyGeometry bool

	triangles      []coord.PointD
	emptyTriangles bool

	limitRect geom.Rect
}

// NewReader creates a Reader over data. container may be nil if the
// feature is known to carry no outer geometry; ScaleHeader must always be
// provided since it supplies the base point for delta decoding.
func NewReader(codec *coord.Codec, data []byte, scaleHeader *section.ScaleHeader, cont container.Container) *Reader {
	return &Reader{
		codec:       codec,
		cur:         bytestream.NewCursor(data),
		scaleHeader: scaleHeader,
		container:   cont,
		limitRect:   geom.NewEmptyRect(),
	}
}

// ParseTypes reads the common header byte and the types array (§4.5
// parse_types). Must be the first stage invoked.
func (r *Reader) ParseTypes() error {
	if r.state != stateUninit {
		return errs.ErrOutOfOrderParse
	}

	headerByte, err := r.cur.ReadByte()
	if err != nil {
		return errs.NewMalformedError("parse_types", "missing common header byte")
	}

	r.flags = section.DecodeHeader(headerByte)
	if r.flags.TypesCount == 0 {
		return errs.NewMalformedError("parse_types", "types_count must not be zero")
	}

	r.types = make([]uint32, r.flags.TypesCount)
	for i := range r.types {
		t, err := varint.ReadUvarint(r.cur)
		if err != nil {
			return err
		}

		r.types[i] = uint32(t)
	}

	r.state = stateTypesParsed

	return nil
}

// ParseCommon reads the optional layer, name, and center point (§4.5
// parse_common). Requires ParseTypes to have run.
func (r *Reader) ParseCommon() error {
	if r.state != stateTypesParsed {
		return errs.ErrOutOfOrderParse
	}

	if r.flags.HasLayer {
		l, err := varint.ReadVarint(r.cur)
		if err != nil {
			return err
		}

		r.layer = int32(l)
		r.hasLayer = true
	}

	if r.flags.HasName {
		lenMinus1, err := varint.ReadUvarint(r.cur)
		if err != nil {
			return err
		}

		raw, err := r.cur.ReadFull(int(lenMinus1) + 1)
		if err != nil {
			return errs.NewMalformedError("parse_common", "name bytes truncated")
		}

		r.name = string(raw)
		r.hasName = true
	}

	if r.flags.HasPoint {
		delta, err := varint.ReadUvarint(r.cur)
		if err != nil {
			return err
		}

		centerU := coord.DecodeDelta(delta, r.scaleHeader.BasePoint())
		r.center = r.codec.PointUToPoint(centerU)
		r.hasPoint = true
		r.limitRect.Add(r.center)
	}

	r.state = stateCommonParsed

	return nil
}

// ParseHeader2 reads the packed pts_count/pts_mask/trg_count/trg_mask
// byte (§4.5 parse_header2). Requires ParseCommon to have run. If the
// feature is neither IS_LINE nor IS_AREA, no byte was written and this is
// a no-op beyond advancing state.
func (r *Reader) ParseHeader2() error {
	if r.state != stateCommonParsed {
		return errs.ErrOutOfOrderParse
	}

	if !r.flags.IsLine && !r.flags.IsArea {
		r.state = stateHeader2Parsed

		return nil
	}

	br := bitpack.NewReader(r.cur)

	if r.flags.IsLine {
		v, err := br.Read(4)
		if err != nil {
			return err
		}

		r.ptsCount = v

		if r.ptsCount == 0 {
			v, err := br.Read(4)
			if err != nil {
				return err
			}

			r.ptsMask = v
		}
	}

	if r.flags.IsArea {
		v, err := br.Read(4)
		if err != nil {
			return err
		}

		r.trgCount = v

		if r.trgCount == 0 {
			v, err := br.Read(4)
			if err != nil {
				return err
			}

			r.trgMask = v
		}
	}

	br.RoundToByte()

	r.state = stateHeader2Parsed

	return nil
}

// Types returns the parsed type classifiers. Valid after ParseTypes.
func (r *Reader) Types() []uint32 { return r.types }

// Layer returns the parsed layer value and whether it was present.
func (r *Reader) Layer() (int32, bool) { return r.layer, r.hasLayer }

// Name returns the parsed name and whether it was present.
func (r *Reader) Name() (string, bool) { return r.name, r.hasName }

// Center returns the parsed center point and whether it was present.
func (r *Reader) Center() (coord.PointD, bool) { return r.center, r.hasPoint }

// LimitRect returns the bounding rectangle accumulated so far.
func (r *Reader) LimitRect() geom.Rect { return r.limitRect }

// ParsePoints parses the line/area inline or outer geometry at the
// requested scale index (-1 for maximum detail), per §4.5 parse_geometry.
// Idempotent: a second call returns the cached result. Must be called
// before ParseTriangles whenever both are present, since the two payloads
// are adjacent in the byte stream in that order.
func (r *Reader) ParsePoints(scale int32) ([]coord.PointD, error) {
	if r.state != stateHeader2Parsed {
		return nil, errs.ErrOutOfOrderParse
	}
	if !r.flags.IsLine {
		return nil, nil
	}
	if r.pointsParsed {
		return r.geometry, nil
	}

	base := r.scaleHeader.BasePoint()

	if r.ptsCount > 0 {
		pts, mask, err := r.parseInlineLine(base)
		if err != nil {
			return nil, err
		}

		kept := simplifyForScale(pts, mask, scale)
		r.geometry = kept
		r.pointsParsed = true

		for _, p := range kept {
			r.limitRect.Add(p)
		}

		return r.geometry, nil
	}

	pts, missing, err := r.parseOuter(container.GeometryTag, r.ptsMask, scale)
	if err != nil {
		return nil, err
	}

	r.geometry = pts
	r.emptyGeometry = missing
	r.pointsParsed = true

	for _, p := range pts {
		r.limitRect.Add(p)
	}

	return r.geometry, nil
}

// IsEmptyGeometry reports whether the requested scale resolved to a
// missing outer-geometry stream (§7 MissingGeometry: soft, empty result).
func (r *Reader) IsEmptyGeometry() bool { return r.emptyGeometry }

// ParseTriangles parses the area triangulation strip, symmetric to
// ParsePoints (§4.5 parse_triangles), and expands it into a flat
// per-triangle vertex list: a decoded strip of N points represents N-2
// triangles via a sliding 3-vertex window (glossary "Triangle strip";
// _examples/original_source/indexer/feature.cpp:811-816
// FeatureType::ParseHeader2's `points[i-2], points[i-1], points[i]` loop),
// so the returned slice has length 3*(N-2), not N.
func (r *Reader) ParseTriangles(scale int32) ([]coord.PointD, error) {
	if r.state != stateHeader2Parsed {
		return nil, errs.ErrOutOfOrderParse
	}
	if !r.flags.IsArea {
		return nil, nil
	}
	if r.trianglesParsed {
		return r.triangles, nil
	}

	base := r.scaleHeader.BasePoint()

	if r.trgCount > 0 {
		n := int(r.trgCount) + 2
		ptsU, err := geom.DecodeInnerTriangles(r.cur, n, base)
		if err != nil {
			return nil, err
		}

		pts := make([]coord.PointD, len(ptsU))
		for i, p := range ptsU {
			pts[i] = r.codec.PointUToPoint(p)
		}

		for _, p := range pts {
			r.limitRect.Add(p)
		}

		r.triangles = expandTriangleStrip(pts)
		r.trianglesParsed = true

		return r.triangles, nil
	}

	pts, missing, err := r.parseOuter(container.TriangleTag, r.trgMask, scale)
	if err != nil {
		return nil, err
	}

	for _, p := range pts {
		r.limitRect.Add(p)
	}

	r.triangles = expandTriangleStrip(pts)
	r.emptyTriangles = missing
	r.trianglesParsed = true

	return r.triangles, nil
}

// expandTriangleStrip slides a 3-vertex window across strip and emits a
// flat vertex list, 3 per triangle: strip[i-2], strip[i-1], strip[i] for
// each i in 2..len(strip)-1. A strip shorter than 3 points yields no
// triangles.
func expandTriangleStrip(strip []coord.PointD) []coord.PointD {
	if len(strip) < 3 {
		return nil
	}

	out := make([]coord.PointD, 0, 3*(len(strip)-2))
	for i := 2; i < len(strip); i++ {
		out = append(out, strip[i-2], strip[i-1], strip[i])
	}

	return out
}

// IsEmptyTriangles mirrors IsEmptyGeometry for the triangle strip.
func (r *Reader) IsEmptyTriangles() bool { return r.emptyTriangles }

// ParseAll forces both ParsePoints and ParseTriangles at scale, the
// terminal convenience operation of §4.5.
func (r *Reader) ParseAll(scale int32) error {
	if _, err := r.ParsePoints(scale); err != nil {
		return err
	}
	if _, err := r.ParseTriangles(scale); err != nil {
		return err
	}

	return nil
}

func (r *Reader) parseInlineLine(base coord.PointU) ([]coord.PointD, []uint8, error) {
	n := int(r.ptsCount)

	var simpMask []uint8

	if n > 2 {
		maskLen := (n - 2 + 3) / 4

		raw, err := r.cur.ReadFull(maskLen)
		if err != nil {
			return nil, nil, errs.NewMalformedError("parse_geometry", "simp_mask bytes truncated")
		}

		m, err := unpackSimpMask(raw, n-2)
		if err != nil {
			return nil, nil, err
		}

		simpMask = m
	}

	ptsU, err := geom.DecodeInnerPath(r.cur, n, base)
	if err != nil {
		return nil, nil, err
	}

	pts := make([]coord.PointD, len(ptsU))
	for i, p := range ptsU {
		pts[i] = r.codec.PointUToPoint(p)
	}

	return pts, simpMask, nil
}

// parseOuter reads a reversed offsets array (already laid out
// ascending-scale by the writer's load-bearing reversal, §4.4), resolves
// the scale index, and — if present — opens the container stream and
// decodes an outer path. A missing offset is the soft MissingGeometry
// condition: it returns an empty slice, missing=true, err=nil.
func (r *Reader) parseOuter(tag container.Tag, mask uint8, scale int32) ([]coord.PointD, bool, error) {
	offsets, err := varint.ReadUvarintArray(r.cur)
	if err != nil {
		return nil, false, err
	}

	var arr [section.ScalesCount]uint32
	for i := 0; i < section.ScalesCount && i < len(offsets); i++ {
		arr[i] = offsets[i]
	}

	idx, ok := r.scaleHeader.ResolveScaleIndex(scale, arr)
	if !ok {
		return nil, true, nil
	}

	if r.container == nil {
		return nil, true, nil
	}

	stream, err := r.container.Open(tag, idx)
	if err != nil {
		return nil, false, errs.NewContainerError(string(tag), idx, err)
	}
	defer stream.Close()

	if _, err := stream.Seek(int64(arr[idx]), io.SeekStart); err != nil {
		return nil, false, errs.NewContainerError(string(tag), idx, err)
	}

	streamBytes, err := io.ReadAll(stream)
	if err != nil {
		return nil, false, errs.NewContainerError(string(tag), idx, err)
	}

	streamCur := bytestream.NewCursor(streamBytes)

	ptsU, err := geom.DecodeOuterPath(streamCur, r.scaleHeader.BasePoint())
	if err != nil {
		return nil, false, err
	}

	pts := make([]coord.PointD, len(ptsU))
	for i, p := range ptsU {
		pts[i] = r.codec.PointUToPoint(p)
	}

	return pts, false, nil
}

// simplifyForScale applies the per-vertex simplification filter of §4.5
// (§8 property 3, scenario S4): the first and last vertices are always
// kept; intermediate vertex i (1-indexed within the stored slice, mask
// index i-1) is kept iff its simp_mask tag is <= scaleIndex. scale < 0
// means "keep everything" (maximum detail).
func simplifyForScale(pts []coord.PointD, simpMask []uint8, scale int32) []coord.PointD {
	if len(pts) <= 2 || scale < 0 {
		return pts
	}

	kept := make([]coord.PointD, 0, len(pts))
	kept = append(kept, pts[0])

	for i := 1; i < len(pts)-1; i++ {
		tag := uint8(0)
		if i-1 < len(simpMask) {
			tag = simpMask[i-1]
		}

		if int32(tag) <= scale {
			kept = append(kept, pts[i])
		}
	}

	kept = append(kept, pts[len(pts)-1])

	return kept
}
