// Package container defines the minimal interface a feature reader needs
// from the opaque container that physically stores outer-geometry streams
// (§6.2). The container itself — file layout, compression, on-disk
// directory — is an external collaborator and out of this package's scope
// beyond the two reference implementations in its subpackages.
package container

import "io"

// Tag identifies a named stream family within a container, e.g. the
// outer-geometry or outer-triangle stream.
type Tag string

const (
	// GeometryTag addresses a feature's outer polyline/polygon stream.
	GeometryTag Tag = "geom"
	// TriangleTag addresses a feature's outer triangle-strip stream.
	TriangleTag Tag = "trg"
)

// Stream is a seekable, closeable byte stream opened from a container.
type Stream interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Container looks up a byte stream by (tag, scale index). Implementations
// must be safe for concurrent Open calls from distinct reader instances
// (§5 Sharing).
type Container interface {
	Open(tag Tag, scaleIndex int) (Stream, error)
}
