// Package filecontainer is a reference single-file implementation of
// container.Container: one file holds every outer-geometry and
// outer-triangle stream for every scale index, addressed through a small
// fixed-size directory table in the style of the teacher's
// section.NumericIndexEntry (§6.2 "a reference single-file implementation
// with a small directory/offset table"). It is not the spec's mandated
// container — that remains an external collaborator — but lets the reader
// and its tests run end-to-end without a real tile store.
package filecontainer

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mapscodec/geofeature/compress"
	"github.com/mapscodec/geofeature/container"
	"github.com/mapscodec/geofeature/endian"
	"github.com/mapscodec/geofeature/errs"
	"github.com/mapscodec/geofeature/internal/options"
)

// magic identifies a filecontainer file, checked on open.
var magic = [4]byte{'G', 'F', 'C', '1'}

// directoryEntrySize is the fixed on-disk size of one directoryEntry:
// 1 byte tag, 1 byte scale index, 2 bytes padding, 4 bytes compressed
// length, 8 bytes offset from the start of the payload section.
const directoryEntrySize = 16

const (
	tagGeometry uint8 = iota
	tagTriangle
)

func encodeTag(t container.Tag) (uint8, error) {
	switch t {
	case container.GeometryTag:
		return tagGeometry, nil
	case container.TriangleTag:
		return tagTriangle, nil
	default:
		return 0, fmt.Errorf("filecontainer: unknown tag %q", t)
	}
}

func decodeTag(b uint8) container.Tag {
	if b == tagTriangle {
		return container.TriangleTag
	}

	return container.GeometryTag
}

type directoryEntry struct {
	tag        uint8
	scaleIndex uint8
	length     uint32
	offset     uint64
}

func (e directoryEntry) bytes(engine endian.EndianEngine) []byte {
	var b [directoryEntrySize]byte
	b[0] = e.tag
	b[1] = e.scaleIndex
	engine.PutUint32(b[4:8], e.length)
	engine.PutUint64(b[8:16], e.offset)

	return b[:]
}

func parseDirectoryEntry(data []byte, engine endian.EndianEngine) directoryEntry {
	return directoryEntry{
		tag:        data[0],
		scaleIndex: data[1],
		length:     engine.Uint32(data[4:8]),
		offset:     engine.Uint64(data[8:16]),
	}
}

// Writer accumulates named streams and writes them, compressed, to a
// single file alongside a directory table.
type Writer struct {
	codec   compress.Codec
	engine  endian.EndianEngine
	entries []directoryEntry
	payload []byte
}

// Option configures a Writer.
type Option = options.Setting[*Writer]

// WithCompression selects the Codec used to compress every added stream.
// The default, if this option is never applied, is compress.NoOp.
func WithCompression(codec compress.Codec) Option {
	return options.NoError(func(w *Writer) { w.codec = codec })
}

// NewWriter creates an empty Writer.
func NewWriter(opts ...Option) (*Writer, error) {
	w := &Writer{codec: compress.NewNoOp(), engine: endian.GetLittleEndianEngine()}

	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	return w, nil
}

// Add compresses data and appends it as the stream for (tag, scaleIndex).
// Adding the same (tag, scaleIndex) pair again replaces the earlier
// directory entry (last write wins); the earlier compressed bytes stay in
// the payload, unreferenced.
func (w *Writer) Add(tag container.Tag, scaleIndex int, data []byte) error {
	encodedTag, err := encodeTag(tag)
	if err != nil {
		return err
	}
	if scaleIndex < 0 || scaleIndex > 255 {
		return fmt.Errorf("filecontainer: scale index %d out of range", scaleIndex)
	}

	compressed, err := w.codec.Compress(data)
	if err != nil {
		return fmt.Errorf("filecontainer: compress stream: %w", err)
	}

	entry := directoryEntry{
		tag:        encodedTag,
		scaleIndex: uint8(scaleIndex),
		length:     uint32(len(compressed)),
		offset:     uint64(len(w.payload)),
	}
	w.payload = append(w.payload, compressed...)

	for i := range w.entries {
		if w.entries[i].tag == entry.tag && w.entries[i].scaleIndex == entry.scaleIndex {
			w.entries[i] = entry
			return nil
		}
	}

	w.entries = append(w.entries, entry)

	return nil
}

// WriteTo writes the magic, entry count, directory table, and payload to
// dst, in that order.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	var written int64

	n, err := dst.Write(magic[:])
	written += int64(n)
	if err != nil {
		return written, err
	}

	var countBuf [4]byte
	w.engine.PutUint32(countBuf[:], uint32(len(w.entries)))

	n, err = dst.Write(countBuf[:])
	written += int64(n)
	if err != nil {
		return written, err
	}

	for _, e := range w.entries {
		n, err = dst.Write(e.bytes(w.engine))
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	n, err = dst.Write(w.payload)
	written += int64(n)

	return written, err
}

// Save writes the container to a file at path, truncating it if it
// already exists.
func (w *Writer) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := w.WriteTo(f); err != nil {
		return err
	}

	return f.Sync()
}

// Container is a read-only filecontainer.Container backed by an *os.File.
// Open uses ReadAt, which requires no shared seek position, so Container is
// safe for concurrent Open calls from distinct Reader instances (§5
// Sharing), matching the interface's concurrency contract.
type Container struct {
	file    *os.File
	codec   compress.Codec
	engine  endian.EndianEngine
	entries []directoryEntry
	base    int64 // absolute file offset where the payload section begins
}

// Open opens the filecontainer file at path, decoding its directory table
// eagerly. codec must match the Codec used to write the file.
func Open(path string, codec compress.Codec) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	c, err := openFile(f, codec)
	if err != nil {
		f.Close()
		return nil, err
	}

	return c, nil
}

func openFile(f *os.File, codec compress.Codec) (*Container, error) {
	engine := endian.GetLittleEndianEngine()

	var header [8]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return nil, errs.NewMalformedError("filecontainer_header", "truncated header")
	}
	if [4]byte(header[:4]) != magic {
		return nil, errs.NewMalformedError("filecontainer_header", "bad magic")
	}

	count := int(engine.Uint32(header[4:8]))

	dirBytes := make([]byte, count*directoryEntrySize)
	if _, err := io.ReadFull(f, dirBytes); err != nil {
		return nil, errs.NewMalformedError("filecontainer_directory", "truncated directory table")
	}

	entries := make([]directoryEntry, count)
	for i := range entries {
		entries[i] = parseDirectoryEntry(dirBytes[i*directoryEntrySize:], engine)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].tag != entries[j].tag {
			return entries[i].tag < entries[j].tag
		}

		return entries[i].scaleIndex < entries[j].scaleIndex
	})

	return &Container{
		file:    f,
		codec:   codec,
		engine:  engine,
		entries: entries,
		base:    int64(8 + count*directoryEntrySize),
	}, nil
}

// Close releases the underlying file handle.
func (c *Container) Close() error {
	return c.file.Close()
}

// StreamInfo describes one directory entry, for introspection and tests.
type StreamInfo struct {
	Tag        container.Tag
	ScaleIndex int
	Length     int
}

// Streams returns every stream recorded in the container's directory
// table, sorted by (tag, scale index).
func (c *Container) Streams() []StreamInfo {
	out := make([]StreamInfo, len(c.entries))
	for i, e := range c.entries {
		out[i] = StreamInfo{Tag: decodeTag(e.tag), ScaleIndex: int(e.scaleIndex), Length: int(e.length)}
	}

	return out
}

func (c *Container) find(tag container.Tag, scaleIndex int) (directoryEntry, bool) {
	encodedTag, err := encodeTag(tag)
	if err != nil || scaleIndex < 0 || scaleIndex > 255 {
		return directoryEntry{}, false
	}

	for _, e := range c.entries {
		if e.tag == encodedTag && int(e.scaleIndex) == scaleIndex {
			return e, true
		}
	}

	return directoryEntry{}, false
}

// Open implements container.Container, decompressing the resolved stream
// into memory and returning a seekable reader over it.
func (c *Container) Open(tag container.Tag, scaleIndex int) (container.Stream, error) {
	entry, ok := c.find(tag, scaleIndex)
	if !ok {
		return nil, fmt.Errorf("filecontainer: no stream for tag %q scale %d", tag, scaleIndex)
	}

	raw := make([]byte, entry.length)
	if _, err := c.file.ReadAt(raw, c.base+int64(entry.offset)); err != nil {
		return nil, fmt.Errorf("filecontainer: read stream: %w", err)
	}

	data, err := c.codec.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("filecontainer: decompress stream: %w", err)
	}

	return newByteStream(data), nil
}
