package bitpack_test

import (
	"testing"

	"github.com/mapscodec/geofeature/bitpack"
	"github.com/mapscodec/geofeature/bytestream"
	"github.com/mapscodec/geofeature/internal/pool"
	"github.com/stretchr/testify/require"
)

func TestWriterByteBoundaryRule(t *testing.T) {
	buf := pool.NewByteBuffer(4)
	w := bitpack.NewWriter(buf)

	w.Write(0b1001, 4) // fills low nibble of byte 0
	w.Write(0b10101, 5) // doesn't fit in remaining 4 bits -> starts byte 1
	w.Finish()

	require.Len(t, buf.Bytes(), 2)
	require.Equal(t, byte(0b1001), buf.Bytes()[0])
	require.Equal(t, byte(0b10101), buf.Bytes()[1])
}

func TestWriterPacksWithinByteWhenItFits(t *testing.T) {
	buf := pool.NewByteBuffer(4)
	w := bitpack.NewWriter(buf)

	w.Write(0b011, 3)
	w.Write(0b1, 1)
	w.Finish()

	require.Len(t, buf.Bytes(), 1)
	require.Equal(t, byte(0b1011), buf.Bytes()[0])
}

func TestRoundTrip(t *testing.T) {
	buf := pool.NewByteBuffer(8)
	w := bitpack.NewWriter(buf)

	w.Write(5, 4)
	w.Write(0, 4) // pts_mask style trailing field
	w.Write(3, 4)
	w.Finish()

	cur := bytestream.NewCursor(buf.Bytes())
	r := bitpack.NewReader(cur)

	v1, err := r.Read(4)
	require.NoError(t, err)
	require.Equal(t, uint8(5), v1)

	v2, err := r.Read(4)
	require.NoError(t, err)
	require.Equal(t, uint8(0), v2)

	v3, err := r.Read(4)
	require.NoError(t, err)
	require.Equal(t, uint8(3), v3)
}

func TestReaderTruncatedBuffer(t *testing.T) {
	cur := bytestream.NewCursor(nil)
	r := bitpack.NewReader(cur)

	_, err := r.Read(4)
	require.Error(t, err)
}
