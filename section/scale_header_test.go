package section_test

import (
	"testing"

	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/section"
	"github.com/stretchr/testify/require"
)

func TestScaleHeaderRoundTrip(t *testing.T) {
	h := section.NewScaleHeader([section.ScalesCount]int32{1, 5, 9, 13}, coord.PointU{X: 111, Y: 222})

	back, err := section.ParseScaleHeader(h.Bytes())
	require.NoError(t, err)
	require.Equal(t, h.BasePoint(), back.BasePoint())

	for i := 0; i < section.ScalesCount; i++ {
		require.Equal(t, h.Scale(i), back.Scale(i))
	}
}

func TestScaleHeaderRejectsNonAscending(t *testing.T) {
	require.Panics(t, func() {
		section.NewScaleHeader([section.ScalesCount]int32{1, 1, 9, 13}, coord.PointU{})
	})
}

func TestResolveScaleIndexOffsetOrdering(t *testing.T) {
	h := section.NewScaleHeader([section.ScalesCount]int32{0, 5, 10, 15}, coord.PointU{})

	const invalid = ^uint32(0)
	offsets := [section.ScalesCount]uint32{invalid, 500, invalid, 1200}

	idx, ok := h.ResolveScaleIndex(5, offsets)
	require.True(t, ok)
	require.Equal(t, 1, idx)

	idx, ok = h.ResolveScaleIndex(15, offsets)
	require.True(t, ok)
	require.Equal(t, 3, idx)

	idx, ok = h.ResolveScaleIndex(-1, offsets)
	require.True(t, ok)
	require.Equal(t, 3, idx)
}

func TestResolveScaleIndexNoneValid(t *testing.T) {
	h := section.NewScaleHeader([section.ScalesCount]int32{0, 5, 10, 15}, coord.PointU{})

	const invalid = ^uint32(0)
	offsets := [section.ScalesCount]uint32{invalid, invalid, invalid, invalid}

	_, ok := h.ResolveScaleIndex(-1, offsets)
	require.False(t, ok)
}
