package feature_test

import (
	"testing"

	"github.com/mapscodec/geofeature/container"
	"github.com/mapscodec/geofeature/container/memcontainer"
	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/feature"
	"github.com/mapscodec/geofeature/geom"
	"github.com/mapscodec/geofeature/internal/pool"
	"github.com/mapscodec/geofeature/section"
	"github.com/stretchr/testify/require"
)

func newScaleHeader() *section.ScaleHeader {
	return section.NewScaleHeader([section.ScalesCount]int32{0, 5, 10, 15}, coord.PointU{})
}

// TestInlineLineSimplificationMonotonicity covers S4: 5 vertices with
// simp_mask tags [0, 2, 3] on the 3 intermediate vertices.
func TestInlineLineSimplificationMonotonicity(t *testing.T) {
	codec := coord.NewDefaultCodec()

	b := feature.NewBuilder(codec)
	b.AddType(1)
	for _, p := range []coord.PointD{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}} {
		b.AddPoint(p)
	}
	b.SetLinear()

	innerPts := make([]coord.PointU, 5)
	for i, p := range b.Geometry() {
		innerPts[i] = codec.PointToPointU(p)
	}

	ib := feature.NewIndexedBuilder(b, feature.BuildBuffers{
		InnerPts:    innerPts,
		PtsSimpMask: []uint8{0, 2, 3},
	})

	scaleHeader := newScaleHeader()

	buf := pool.NewByteBuffer(64)
	require.NoError(t, ib.Serialize(buf, scaleHeader.BasePoint()))

	readAtScale := func(scale int32) int {
		r := feature.NewReader(codec, buf.Bytes(), scaleHeader, nil)
		require.NoError(t, r.ParseTypes())
		require.NoError(t, r.ParseCommon())
		require.NoError(t, r.ParseHeader2())

		pts, err := r.ParsePoints(scale)
		require.NoError(t, err)

		return len(pts)
	}

	require.Equal(t, 3, readAtScale(0))
	require.Equal(t, 4, readAtScale(2))
	require.Equal(t, 5, readAtScale(3))
}

// TestOuterAreaOffsetResolution covers S5's shape: an area with no inline
// triangle strip, resolved entirely through the reversed offset table
// against a container stream.
func TestOuterAreaOffsetResolution(t *testing.T) {
	codec := coord.NewDefaultCodec()

	b := feature.NewBuilder(codec)
	b.AddType(1)
	b.AddPoint(coord.PointD{X: 0, Y: 0})
	b.AddPoint(coord.PointD{X: 10, Y: 0})
	b.AddPoint(coord.PointD{X: 10, Y: 10})
	b.SetArea()

	base := coord.PointU{}

	tri := []coord.PointU{
		codec.PointToPointU(coord.PointD{X: 0, Y: 0}),
		codec.PointToPointU(coord.PointD{X: 10, Y: 0}),
		codec.PointToPointU(coord.PointD{X: 10, Y: 10}),
	}

	streamBuf := pool.NewByteBuffer(32)
	require.NoError(t, geom.EncodeOuterPath(streamBuf, tri, base))

	cont := memcontainer.New()
	cont.Put(container.TriangleTag, 3, streamBuf.Bytes())

	// Given to the builder in the simplifier's highest-detail-first order;
	// the writer's reversal flips it so ascending scale index 3 lands on
	// offset 0 into the stream registered above. A non-zero mask keeps
	// pre_serialize from demoting the area to point-only.
	ib := feature.NewIndexedBuilder(b, feature.BuildBuffers{
		TrgMask:    0b1000,
		TrgOffsets: [section.ScalesCount]uint32{0, ^uint32(0), ^uint32(0), ^uint32(0)},
	})

	scaleHeader := newScaleHeader()

	buf := pool.NewByteBuffer(64)
	require.NoError(t, ib.Serialize(buf, scaleHeader.BasePoint()))

	r := feature.NewReader(codec, buf.Bytes(), scaleHeader, cont)
	require.NoError(t, r.ParseTypes())
	require.NoError(t, r.ParseCommon())
	require.NoError(t, r.ParseHeader2())

	pts, err := r.ParseTriangles(15)
	require.NoError(t, err)
	require.False(t, r.IsEmptyTriangles())
	require.Len(t, pts, 3)
}

// TestOuterGeometryMissingIsSoftError covers the MissingGeometry
// condition: no offset at all resolves, so the reader reports empty
// geometry rather than failing (§7).
func TestOuterGeometryMissingIsSoftError(t *testing.T) {
	codec := coord.NewDefaultCodec()

	b := feature.NewBuilder(codec)
	b.AddType(1)
	b.AddPoint(coord.PointD{X: 0, Y: 0})
	b.AddPoint(coord.PointD{X: 1, Y: 1})
	b.SetLinear()

	invalid := ^uint32(0)
	ib := feature.NewIndexedBuilder(b, feature.BuildBuffers{
		// A non-zero mask keeps pre_serialize from demoting the feature to
		// point-only, while every offset stays invalid so resolution still
		// fails at read time (the soft MissingGeometry path).
		PtsMask:    0b0001,
		PtsOffsets: [section.ScalesCount]uint32{invalid, invalid, invalid, invalid},
	})

	scaleHeader := newScaleHeader()

	buf := pool.NewByteBuffer(64)
	require.NoError(t, ib.Serialize(buf, scaleHeader.BasePoint()))

	r := feature.NewReader(codec, buf.Bytes(), scaleHeader, nil)
	require.NoError(t, r.ParseTypes())
	require.NoError(t, r.ParseCommon())
	require.NoError(t, r.ParseHeader2())

	pts, err := r.ParsePoints(0)
	require.NoError(t, err)
	require.Empty(t, pts)
	require.True(t, r.IsEmptyGeometry())
}

// TestTruncatedBufferFailsReadingType covers S6: a header byte claims one
// type follows but the buffer ends before its var_uint.
func TestTruncatedBufferFailsReadingType(t *testing.T) {
	codec := coord.NewDefaultCodec()

	data := []byte{0b01000001} // header only, the single var_uint type is missing entirely

	scaleHeader := newScaleHeader()

	r := feature.NewReader(codec, data, scaleHeader, nil)
	err := r.ParseTypes()
	require.Error(t, err)
}

func TestOutOfOrderParseIsRejected(t *testing.T) {
	codec := coord.NewDefaultCodec()
	scaleHeader := newScaleHeader()

	r := feature.NewReader(codec, []byte{0b00100001, 5}, scaleHeader, nil)
	err := r.ParseCommon()
	require.Error(t, err)
}
