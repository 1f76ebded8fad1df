// Package endian provides byte order utilities for the fixed-size binary
// records in this module (the scale header and the reference container's
// directory table). The feature block itself is varint/bit-packed and has
// no byte-order concerns; this package exists for the surrounding framing.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder so a single value can
// both decode existing buffers and append-encode new ones.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the default for
// every on-disk record in this module.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine, for interoperability
// with big-endian container implementations.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
