package coord_test

import (
	"testing"

	"github.com/mapscodec/geofeature/coord"
	"github.com/stretchr/testify/require"
)

func TestPointURoundTrip(t *testing.T) {
	c := coord.NewDefaultCodec()

	p := coord.PointD{X: 10.0, Y: 20.0}
	u := c.PointToPointU(p)
	back := c.PointUToPoint(u)

	require.True(t, c.EqualPoint(p, back), "expected %v ~= %v within epsilon %v", p, back, c.Epsilon())
}

func TestMortonInterleaveBitExact(t *testing.T) {
	p := coord.PointU{X: 0xABCD1234, Y: 0x12345678}
	n := coord.PointUToU64(p)
	back := coord.U64ToPointU(n)

	require.Equal(t, p, back)
}

func TestMortonZero(t *testing.T) {
	require.Equal(t, uint64(0), coord.PointUToU64(coord.PointU{}))
}

func TestEncodeDecodeDelta(t *testing.T) {
	base := coord.PointU{X: 1000, Y: 2000}
	p := coord.PointU{X: 1010, Y: 1990}

	delta := coord.EncodeDelta(p, base)
	back := coord.DecodeDelta(delta, base)

	require.Equal(t, p, back)
}

func TestClampOutOfBounds(t *testing.T) {
	c := coord.NewCodec(100)

	p := coord.PointD{X: 1e9, Y: -1e9}
	u := c.PointToPointU(p)

	// Clamped to the max/min grid cell, never rejected.
	require.Equal(t, uint32(1<<coord.CellBits-1), u.X)
	require.Equal(t, uint32(0), u.Y)
}

func TestEpsilonIsOneCell(t *testing.T) {
	c := coord.NewDefaultCodec()
	expected := 2 * coord.DefaultBound / float64(uint64(1)<<coord.CellBits)
	require.InDelta(t, expected, c.Epsilon(), 1e-12)
}
