package filecontainer

import "bytes"

// byteStream adapts a decompressed in-memory stream to container.Stream.
type byteStream struct {
	*bytes.Reader
}

func newByteStream(data []byte) *byteStream {
	return &byteStream{Reader: bytes.NewReader(data)}
}

func (s *byteStream) Close() error { return nil }
