// Package varint implements the numeric encodings used on the feature wire
// format: LEB128-style unsigned varints, zigzag signed varints, and
// length-prefixed varint arrays (§6.3 of the codec's external interfaces).
//
// The unsigned form is exactly encoding/binary's Uvarint/PutUvarint; this
// package adds the zigzag transform and array helpers on top, following the
// same zigzag formula the teacher corpus uses for delta-of-delta timestamp
// encoding (value<<1 ^ value>>63).
package varint

import (
	"encoding/binary"
	"io"

	"github.com/mapscodec/geofeature/errs"
)

// ByteSink is the minimal write surface the encoders need: a single
// io.ByteWriter plus a fast path for appending multi-byte runs.
type ByteSink interface {
	io.Writer
	io.ByteWriter
}

// WriteUvarint writes v as a LEB128-style unsigned varint to sink.
func WriteUvarint(sink ByteSink, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := sink.Write(buf[:n])
	return err
}

// WriteVarint zigzag-encodes the signed value v and writes it as an
// unsigned varint.
func WriteVarint(sink ByteSink, v int64) error {
	zigzag := uint64(v<<1) ^ uint64(v>>63)
	return WriteUvarint(sink, zigzag)
}

// ByteSource is the minimal read surface the decoders need: a stream that
// can be read one byte at a time.
type ByteSource interface {
	// ReadByte returns io.EOF when no bytes remain.
	ReadByte() (byte, error)
}

// ReadUvarint reads a LEB128-style unsigned varint from src.
//
// Returns errs.ErrMalformedFeature if the stream ends mid-varint or the
// encoded value overflows 64 bits (mirrors binary.Uvarint's own overflow
// signal, which otherwise reports a truncated negative byte count).
func ReadUvarint(src ByteSource) (uint64, error) {
	var x uint64
	var s uint

	for i := 0; ; i++ {
		b, err := src.ReadByte()
		if err != nil {
			return 0, errs.NewMalformedError("varint", "unexpected end of buffer reading uvarint")
		}

		if b < 0x80 {
			if i > 9 || (i == 9 && b > 1) {
				return 0, errs.NewMalformedError("varint", "uvarint overflows 64 bits")
			}

			return x | uint64(b)<<s, nil
		}

		x |= uint64(b&0x7f) << s
		s += 7
	}
}

// ReadVarint reads a zigzag + varint encoded signed integer from src.
func ReadVarint(src ByteSource) (int64, error) {
	zigzag, err := ReadUvarint(src)
	if err != nil {
		return 0, err
	}

	return int64(zigzag>>1) ^ -int64(zigzag&1), nil
}

// WriteUvarintArray writes len(values) as a varint count followed by each
// value as a varint.
func WriteUvarintArray(sink ByteSink, values []uint32) error {
	if err := WriteUvarint(sink, uint64(len(values))); err != nil {
		return err
	}

	for _, v := range values {
		if err := WriteUvarint(sink, uint64(v)); err != nil {
			return err
		}
	}

	return nil
}

// ReadUvarintArray reads a varint count followed by that many varint
// values, as written by WriteUvarintArray.
func ReadUvarintArray(src ByteSource) ([]uint32, error) {
	count, err := ReadUvarint(src)
	if err != nil {
		return nil, err
	}

	// Guard against a corrupt/adversarial count turning a small buffer
	// into a huge allocation; the loop below will fail fast on EOF anyway
	// once the backing buffer is exhausted, but capping the initial
	// allocation keeps that failure cheap.
	const maxPreallocate = 1 << 16

	prealloc := count
	if prealloc > maxPreallocate {
		prealloc = maxPreallocate
	}

	values := make([]uint32, 0, prealloc)
	for i := uint64(0); i < count; i++ {
		v, err := ReadUvarint(src)
		if err != nil {
			return nil, err
		}

		values = append(values, uint32(v))
	}

	return values, nil
}
