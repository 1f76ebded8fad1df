package compress

import "github.com/klauspost/compress/zstd"

// Zstd compresses with Zstandard, favoring ratio over speed — a good fit
// for cold outer-geometry streams in a long-lived container file.
type Zstd struct{}

var _ Codec = Zstd{}

// NewZstd creates a Zstd codec.
func NewZstd() Zstd { return Zstd{} }

// Compress zstd-compresses data using a fresh encoder per call. Callers
// compressing many streams in sequence should prefer a longer-lived
// encoder; this package optimizes for the container's low call frequency
// (once per outer-geometry stream at write time) over per-call overhead.
func (Zstd) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	return enc.EncodeAll(data, nil), nil
}

// Decompress reverses Compress.
func (Zstd) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return dec.DecodeAll(data, nil)
}
