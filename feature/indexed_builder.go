package feature

import (
	"github.com/mapscodec/geofeature/bitpack"
	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/errs"
	"github.com/mapscodec/geofeature/geom"
	"github.com/mapscodec/geofeature/internal/pool"
	"github.com/mapscodec/geofeature/section"
	"github.com/mapscodec/geofeature/varint"
)

// invalidOffset marks an absent per-scale container offset (§4.4).
const invalidOffset = ^uint32(0)

// BuildBuffers is the record an external simplifier supplies to
// IndexedBuilder.Serialize: per-scale inline-vs-outer geometry and
// triangulation data (§4.4).
type BuildBuffers struct {
	// InnerPts holds polyline vertices kept as inline geometry.
	InnerPts []coord.PointU
	// PtsMask is a 4-bit mask: which zoom levels have outer geometry.
	PtsMask uint8
	// PtsSimpMask holds one 2-bit scale tag per intermediate vertex
	// (indices 1..len(InnerPts)-2), the smallest scale at which it's kept.
	PtsSimpMask []uint8
	// PtsOffsets are the per-scale container byte offsets, highest-detail
	// first, invalidOffset where absent.
	PtsOffsets [section.ScalesCount]uint32

	// InnerTrg holds the area triangulation strip's inline vertices.
	InnerTrg []coord.PointU
	// TrgMask is a 4-bit mask: which zoom levels have outer triangles.
	TrgMask uint8
	// TrgOffsets mirrors PtsOffsets for the triangle strip.
	TrgOffsets [section.ScalesCount]uint32
}

// IndexedBuilder is the Stage-2 builder: it consumes a Builder's
// attributes plus an externally computed BuildBuffers and emits the
// compact multi-scale layout of §4.4.
type IndexedBuilder struct {
	*Builder

	buffers BuildBuffers
}

// NewIndexedBuilder wraps base with the simplifier-supplied buffers.
func NewIndexedBuilder(base *Builder, buffers BuildBuffers) *IndexedBuilder {
	return &IndexedBuilder{Builder: base, buffers: buffers}
}

// PreSerialize clears the IS_LINE/IS_AREA flags when both the inline
// block and the mask are empty, demoting the feature to point-only
// (§4.4 pre_serialize).
func (ib *IndexedBuilder) PreSerialize() {
	if ib.isLine && len(ib.buffers.InnerPts) == 0 && ib.buffers.PtsMask == 0 {
		ib.isLine = false
	}
	if ib.isArea && len(ib.buffers.InnerTrg) == 0 && ib.buffers.TrgMask == 0 {
		ib.isArea = false
	}
}

// Serialize writes the Stage-2 byte layout (§4.4, §6.1 "Stage-2 only"):
// the base block relative to base, then the packed pts/trg count-or-mask
// byte, then the inline or outer-offset payload for each of geometry and
// triangles.
func (ib *IndexedBuilder) Serialize(sink *pool.ByteBuffer, base coord.PointU) error {
	ib.PreSerialize()

	if err := ib.SerializeBase(sink, base); err != nil {
		return err
	}

	ptsCount := len(ib.buffers.InnerPts)
	trgCount := 0
	if n := len(ib.buffers.InnerTrg) - 2; n > 0 {
		trgCount = n
	}

	w := bitpack.NewWriter(sink)

	if ib.isLine {
		w.Write(uint8(ptsCount), 4)
		if ptsCount == 0 {
			w.Write(ib.buffers.PtsMask, 4)
		}
	}

	if ib.isArea {
		w.Write(uint8(trgCount), 4)
		if trgCount == 0 {
			w.Write(ib.buffers.TrgMask, 4)
		}
	}

	w.Finish()

	if ib.isLine {
		if err := ib.serializeLine(sink, base, ptsCount); err != nil {
			return err
		}
	}

	if ib.isArea {
		if err := ib.serializeArea(sink, base, trgCount); err != nil {
			return err
		}
	}

	return nil
}

func (ib *IndexedBuilder) serializeLine(sink *pool.ByteBuffer, base coord.PointU, ptsCount int) error {
	if ptsCount > 0 {
		if ptsCount > 2 {
			packSimpMask(sink, ib.buffers.PtsSimpMask, ptsCount)
		}

		return geom.EncodeInnerPath(sink, ib.buffers.InnerPts, base)
	}

	reversed := reverseOffsets(ib.buffers.PtsOffsets)

	return varint.WriteUvarintArray(sink, reversed[:])
}

func (ib *IndexedBuilder) serializeArea(sink *pool.ByteBuffer, base coord.PointU, trgCount int) error {
	if trgCount > 0 {
		return geom.EncodeInnerTriangles(sink, ib.buffers.InnerTrg, base)
	}

	reversed := reverseOffsets(ib.buffers.TrgOffsets)

	return varint.WriteUvarintArray(sink, reversed[:])
}

// reverseOffsets reverses a simplifier-supplied highest-to-lowest-detail
// offset array into the ascending-scale order the reader expects (§4.4
// "Reversal is load-bearing", §8 property 4).
func reverseOffsets(offsets [section.ScalesCount]uint32) [section.ScalesCount]uint32 {
	var out [section.ScalesCount]uint32
	for i := 0; i < section.ScalesCount; i++ {
		out[i] = offsets[section.ScalesCount-1-i]
	}

	return out
}

// packSimpMask packs 2 bits per intermediate vertex (indices 1..ptsCount-2)
// into ceil((ptsCount-2)/4) little-endian bytes.
func packSimpMask(sink *pool.ByteBuffer, mask []uint8, ptsCount int) {
	n := ptsCount - 2
	if n <= 0 {
		return
	}

	var cur uint8
	var bits uint8

	for i := 0; i < n; i++ {
		var v uint8
		if i < len(mask) {
			v = mask[i] & 0x3
		}

		cur |= v << bits
		bits += 2

		if bits == 8 {
			sink.MustWriteByte(cur)
			cur = 0
			bits = 0
		}
	}

	if bits > 0 {
		sink.MustWriteByte(cur)
	}
}

// unpackSimpMask is the inverse of packSimpMask, reading exactly n 2-bit
// values from data.
func unpackSimpMask(data []byte, n int) ([]uint8, error) {
	needed := (n + 3) / 4
	if len(data) < needed {
		return nil, errs.NewMalformedError("simp_mask", "buffer shorter than expected mask size")
	}

	out := make([]uint8, n)
	for i := 0; i < n; i++ {
		b := data[i/4]
		out[i] = (b >> (uint(i%4) * 2)) & 0x3
	}

	return out, nil
}
