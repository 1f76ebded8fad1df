// Package memcontainer is a minimal in-memory container.Container
// implementation, useful for tests and for small in-process map regions
// that never touch disk.
package memcontainer

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/mapscodec/geofeature/container"
)

type key struct {
	tag   container.Tag
	scale int
}

// Container stores one byte slice per (tag, scale index) pair.
type Container struct {
	mu      sync.RWMutex
	streams map[key][]byte
}

// New creates an empty Container.
func New() *Container {
	return &Container{streams: make(map[key][]byte)}
}

// Put registers the bytes backing a (tag, scaleIndex) stream.
func (c *Container) Put(tag container.Tag, scaleIndex int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.streams[key{tag, scaleIndex}] = data
}

// Open implements container.Container.
func (c *Container) Open(tag container.Tag, scaleIndex int) (container.Stream, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.streams[key{tag, scaleIndex}]
	if !ok {
		return nil, fmt.Errorf("memcontainer: no stream for tag %q scale %d", tag, scaleIndex)
	}

	return &stream{Reader: bytes.NewReader(data)}, nil
}

type stream struct {
	*bytes.Reader
}

func (s *stream) Close() error { return nil }

var _ io.Seeker = (*stream)(nil)
