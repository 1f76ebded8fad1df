// Package bitpack implements the byte-quantized bit packing used by the
// Stage-2 feature header (the packed pts_count/pts_mask/trg_count/trg_mask
// byte, §4.2 and §6.1).
//
// Unlike a conventional bitstream, fields here never straddle a byte
// boundary: writing a field that would cross into the next byte instead
// flushes the current byte and starts the field at bit position 0 of a
// fresh byte. This looks like a bug on first read, but it is a
// compatibility requirement carried over verbatim from the original
// BitSink/BitSource classes, and every Write/Read call in this module
// relies on it.
package bitpack

import (
	"github.com/mapscodec/geofeature/bytestream"
	"github.com/mapscodec/geofeature/errs"
	"github.com/mapscodec/geofeature/internal/pool"
)

// Writer packs 1-8 bit fields into a byte buffer, byte-quantized per field.
type Writer struct {
	buf *pool.ByteBuffer
	cur uint8
	pos uint8
}

// NewWriter creates a Writer that appends its packed bytes to buf.
func NewWriter(buf *pool.ByteBuffer) *Writer {
	return &Writer{buf: buf}
}

// Write packs value into count bits (1 <= count <= 8, value < 1<<count).
// If the field would not fit in the remaining bits of the current byte,
// the current byte is flushed first and the field starts fresh.
func (w *Writer) Write(value uint8, count uint8) {
	if count == 0 || count > 8 {
		panic(errs.NewBuilderError("bitpack field width must be in [1,8]"))
	}
	if value>>count != 0 {
		panic(errs.NewBuilderError("bitpack value does not fit in requested width"))
	}

	if int(w.pos)+int(count) > 8 {
		w.Finish()
	}

	w.cur |= value << w.pos
	w.pos += count
}

// Finish flushes any partially filled byte. Safe to call repeatedly.
func (w *Writer) Finish() {
	if w.pos > 0 {
		w.buf.MustWriteByte(w.cur)
		w.cur = 0
		w.pos = 0
	}
}

// Reader unpacks fields written by Writer, mirroring its byte-boundary
// behavior: it never combines residual bits from the current byte with
// bits from the next.
type Reader struct {
	cursor *bytestream.Cursor
	cur    uint8
	pos    uint8
	loaded bool
}

// NewReader creates a Reader that unpacks fields starting at cursor's
// current position.
func NewReader(cursor *bytestream.Cursor) *Reader {
	return &Reader{cursor: cursor}
}

// Read unpacks count bits (1 <= count <= 8). If fewer than count bits
// remain in the current byte, the reader advances to the next byte first
// rather than combining residual bits across the boundary.
func (r *Reader) Read(count uint8) (uint8, error) {
	if count == 0 || count > 8 {
		panic(errs.NewBuilderError("bitpack field width must be in [1,8]"))
	}

	if !r.loaded || int(r.pos)+int(count) > 8 {
		b, err := r.cursor.ReadByte()
		if err != nil {
			return 0, errs.NewMalformedError("bitpack", "buffer truncated while reading packed fields")
		}

		r.cur = b
		r.pos = 0
		r.loaded = true
	}

	v := (r.cur >> r.pos) & ((1 << count) - 1)
	r.pos += count

	return v, nil
}

// RoundToByte advances the reader past any partially consumed byte so the
// underlying cursor resumes at the start of the next byte. Safe to call
// even if nothing has been read yet.
func (r *Reader) RoundToByte() {
	if r.loaded && r.pos > 0 {
		r.pos = 0
	}
	r.loaded = false
}
