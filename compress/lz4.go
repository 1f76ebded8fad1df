package compress

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4 compresses with the LZ4 frame format, favoring decompression speed
// over ratio — a good fit for outer-geometry streams that are read far
// more often than written.
type LZ4 struct{}

var _ Codec = LZ4{}

// NewLZ4 creates an LZ4 codec.
func NewLZ4() LZ4 { return LZ4{} }

// Compress lz4-frames data.
func (LZ4) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func (LZ4) Decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))

	return io.ReadAll(r)
}
