// Package pool provides a sync.Pool-backed byte buffer pool used to avoid
// per-feature allocations in the builder's hot encode path.
package pool

import "sync"

// Feature blocks are small (typically tens to a few hundred bytes), unlike
// the multi-kilobyte time-series blobs this pattern was originally sized
// for, so the default and threshold are scaled down accordingly.
const (
	FeatureBufferDefaultSize  = 256
	FeatureBufferMaxThreshold = 1024 * 4 // 4KiB
)

// ByteBuffer is a growable byte slice wrapper sized for reuse via Pool.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the given starting capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data, growing the backing array if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// MustWriteByte appends a single byte.
func (bb *ByteBuffer) MustWriteByte(b byte) {
	bb.B = append(bb.B, b)
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteByte implements io.ByteWriter.
func (bb *ByteBuffer) WriteByte(b byte) error {
	bb.B = append(bb.B, b)
	return nil
}

// Grow ensures the buffer can accept at least n more bytes without a
// reallocation, reallocating ahead of time if needed.
func (bb *ByteBuffer) Grow(n int) {
	available := cap(bb.B) - len(bb.B)
	if available >= n {
		return
	}

	growBy := FeatureBufferDefaultSize
	if growBy < n {
		growBy = n
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Pool is a pool of ByteBuffers, discarding buffers that grew past
// maxThreshold instead of returning them to the pool.
type Pool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPool creates a Pool whose buffers start at defaultSize and are
// discarded (not recycled) once they exceed maxThreshold.
func NewPool(defaultSize, maxThreshold int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *Pool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse, discarding it silently if
// it has grown beyond the pool's maxThreshold.
func (p *Pool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}
	bb.Reset()
	p.pool.Put(bb)
}

var defaultPool = NewPool(FeatureBufferDefaultSize, FeatureBufferMaxThreshold)

// Get retrieves a ByteBuffer from the default feature-block pool.
func Get() *ByteBuffer { return defaultPool.Get() }

// Put returns a ByteBuffer to the default feature-block pool.
func Put(bb *ByteBuffer) { defaultPool.Put(bb) }
