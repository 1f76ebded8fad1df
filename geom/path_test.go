package geom_test

import (
	"testing"

	"github.com/mapscodec/geofeature/bytestream"
	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/geom"
	"github.com/mapscodec/geofeature/internal/pool"
	"github.com/stretchr/testify/require"
)

func TestOuterPathRoundTrip(t *testing.T) {
	base := coord.PointU{X: 1000, Y: 1000}
	points := []coord.PointU{
		{X: 1010, Y: 990},
		{X: 1020, Y: 1005},
		{X: 1015, Y: 1030},
	}

	buf := pool.NewByteBuffer(32)
	require.NoError(t, geom.EncodeOuterPath(buf, points, base))

	cur := bytestream.NewCursor(buf.Bytes())
	back, err := geom.DecodeOuterPath(cur, base)
	require.NoError(t, err)
	require.Equal(t, points, back)
}

func TestInnerPathRoundTripKnownCount(t *testing.T) {
	base := coord.PointU{X: 500, Y: 500}
	points := []coord.PointU{
		{X: 500, Y: 500},
		{X: 480, Y: 520},
	}

	buf := pool.NewByteBuffer(32)
	require.NoError(t, geom.EncodeInnerPath(buf, points, base))

	cur := bytestream.NewCursor(buf.Bytes())
	back, err := geom.DecodeInnerPath(cur, len(points), base)
	require.NoError(t, err)
	require.Equal(t, points, back)
}

func TestInnerPathEmpty(t *testing.T) {
	buf := pool.NewByteBuffer(8)
	require.NoError(t, geom.EncodeInnerPath(buf, nil, coord.PointU{}))
	require.Equal(t, 0, buf.Len())

	cur := bytestream.NewCursor(buf.Bytes())
	back, err := geom.DecodeInnerPath(cur, 0, coord.PointU{})
	require.NoError(t, err)
	require.Empty(t, back)
}

func TestDecodeOuterPathTruncated(t *testing.T) {
	cur := bytestream.NewCursor(nil)
	_, err := geom.DecodeOuterPath(cur, coord.PointU{})
	require.Error(t, err)
}
