package geom_test

import (
	"testing"

	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/geom"
	"github.com/stretchr/testify/require"
)

func square(cx, cy, half float64) geom.Ring {
	return geom.Ring{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
		{X: cx - half, Y: cy - half},
	}
}

func TestRingContainsInsidePoint(t *testing.T) {
	outer := square(0, 0, 10)
	require.True(t, outer.Contains(coord.PointD{X: 1, Y: 1}))
	require.False(t, outer.Contains(coord.PointD{X: 50, Y: 50}))
}

func TestRectAccumulatesBounds(t *testing.T) {
	r := geom.NewEmptyRect()
	require.True(t, r.IsEmpty())

	r.AddRing(square(5, 5, 2))

	require.False(t, r.IsEmpty())
	require.Equal(t, coord.PointD{X: 3, Y: 3}, r.Min())
	require.Equal(t, coord.PointD{X: 7, Y: 7}, r.Max())
}

func TestRectEqual(t *testing.T) {
	c := coord.NewDefaultCodec()

	a := geom.NewEmptyRect()
	a.AddRing(square(0, 0, 1))

	b := geom.NewEmptyRect()
	b.AddRing(square(0, 0, 1))

	require.True(t, a.Equal(b, c))
}
