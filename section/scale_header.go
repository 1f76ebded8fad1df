package section

import (
	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/endian"
	"github.com/mapscodec/geofeature/errs"
)

// ScaleHeaderSize is the fixed byte size of a serialized ScaleHeader:
// ScalesCount int32 breakpoints plus an 8-byte base point.
const ScaleHeaderSize = ScalesCount*4 + 8

// ScaleHeader is the container-supplied companion to every feature block
// (§6.2): the ascending-zoom breakpoints that a reader resolves a
// requested scale against, and the base point every feature's deltas are
// relative to.
//
// Grounded on the teacher's fixed-layout NumericHeader: a small value type
// with Parse/Bytes rather than a general-purpose unmarshaler, since the
// layout here is small and fixed like the teacher's own header section.
type ScaleHeader struct {
	breakpoints [ScalesCount]int32
	base        coord.PointU
}

// NewScaleHeader builds a ScaleHeader from ascending breakpoints and a
// base point. Panics if len(breakpoints) != ScalesCount or the
// breakpoints are not strictly ascending, both caller bugs.
func NewScaleHeader(breakpoints [ScalesCount]int32, base coord.PointU) *ScaleHeader {
	for i := 1; i < ScalesCount; i++ {
		if breakpoints[i] <= breakpoints[i-1] {
			panic(errs.NewBuilderError("scale header breakpoints must be strictly ascending"))
		}
	}

	return &ScaleHeader{breakpoints: breakpoints, base: base}
}

// ScalesCountValue returns the number of scale levels (always ScalesCount).
func (h *ScaleHeader) ScalesCountValue() int {
	return ScalesCount
}

// Scale returns the breakpoint for scale index i.
func (h *ScaleHeader) Scale(i int) int32 {
	return h.breakpoints[i]
}

// BasePoint returns the quantized base point every feature delta in this
// container is relative to.
func (h *ScaleHeader) BasePoint() coord.PointU {
	return h.base
}

// ResolveScaleIndex implements the outer-geometry scale resolution rule of
// §4.5 parse_geometry: the smallest index i such that requested <= scale(i)
// and offsets[i] is valid. requested == -1 means "pick the largest valid
// index" (most detail available).
func (h *ScaleHeader) ResolveScaleIndex(requested int32, offsets [ScalesCount]uint32) (int, bool) {
	const invalid = ^uint32(0)

	if requested < 0 {
		for i := ScalesCount - 1; i >= 0; i-- {
			if offsets[i] != invalid {
				return i, true
			}
		}

		return 0, false
	}

	for i := 0; i < ScalesCount; i++ {
		if requested <= h.breakpoints[i] && offsets[i] != invalid {
			return i, true
		}
	}

	return 0, false
}

// Bytes serializes the header: ScalesCount little-endian int32 breakpoints
// followed by the base point's X and Y as little-endian uint32s.
func (h *ScaleHeader) Bytes() []byte {
	e := endian.GetLittleEndianEngine()
	b := make([]byte, ScaleHeaderSize)

	for i := 0; i < ScalesCount; i++ {
		e.PutUint32(b[i*4:i*4+4], uint32(h.breakpoints[i]))
	}

	off := ScalesCount * 4
	e.PutUint32(b[off:off+4], h.base.X)
	e.PutUint32(b[off+4:off+8], h.base.Y)

	return b
}

// ParseScaleHeader parses a ScaleHeader from its fixed-size wire form.
func ParseScaleHeader(data []byte) (*ScaleHeader, error) {
	if len(data) < ScaleHeaderSize {
		return nil, errs.NewMalformedError("scale_header", "buffer shorter than ScaleHeaderSize")
	}

	e := endian.GetLittleEndianEngine()

	var h ScaleHeader
	for i := 0; i < ScalesCount; i++ {
		h.breakpoints[i] = int32(e.Uint32(data[i*4 : i*4+4]))
	}

	off := ScalesCount * 4
	h.base = coord.PointU{X: e.Uint32(data[off : off+4]), Y: e.Uint32(data[off+4 : off+8])}

	return &h, nil
}
