package geom

import (
	"github.com/mapscodec/geofeature/bytestream"
	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/errs"
	"github.com/mapscodec/geofeature/internal/pool"
	"github.com/mapscodec/geofeature/varint"
)

// EncodeOuterPath writes a self-describing point sequence: a uvarint
// point count followed by each point's varint-delta against a running
// previous point (the first point deltas against base). Used wherever the
// reader cannot already know how many points follow — holes and the
// Stage-2 "outer" geometry/triangle streams stored in the container
// (§4.5, resolved Open Question on the outer-path encoding).
func EncodeOuterPath(buf *pool.ByteBuffer, points []coord.PointU, base coord.PointU) error {
	if err := varint.WriteUvarint(buf, uint64(len(points))); err != nil {
		return err
	}

	return EncodeInnerPath(buf, points, base)
}

// DecodeOuterPath is the inverse of EncodeOuterPath: it reads the point
// count itself before decoding the deltas.
func DecodeOuterPath(cur *bytestream.Cursor, base coord.PointU) ([]coord.PointU, error) {
	count, err := varint.ReadUvarint(cur)
	if err != nil {
		return nil, err
	}

	return DecodeInnerPath(cur, int(count), base)
}

// EncodeInnerPath writes count.X-count.Y deltas without a length prefix,
// for use wherever the point count is already known from an enclosing
// header field (the Stage-2 inline pts_count/trg_count, §6.1). The first
// point deltas against base; every following point deltas against the
// point before it.
func EncodeInnerPath(buf *pool.ByteBuffer, points []coord.PointU, base coord.PointU) error {
	prev := base
	for _, p := range points {
		delta := coord.EncodeDelta(p, prev)
		if err := varint.WriteUvarint(buf, delta); err != nil {
			return err
		}

		prev = p
	}

	return nil
}

// DecodeInnerPath reads exactly count deltas, given the caller already
// knows how many points follow.
func DecodeInnerPath(cur *bytestream.Cursor, count int, base coord.PointU) ([]coord.PointU, error) {
	if count < 0 {
		return nil, errs.NewMalformedError("path", "negative point count")
	}

	points := make([]coord.PointU, 0, count)
	prev := base

	for i := 0; i < count; i++ {
		delta, err := varint.ReadUvarint(cur)
		if err != nil {
			return nil, err
		}

		p := coord.DecodeDelta(delta, prev)
		points = append(points, p)
		prev = p
	}

	return points, nil
}

// EncodeOuterTriangles and DecodeOuterTriangles reuse the outer path wire
// format verbatim: a triangle strip is just a point sequence, and the
// strip-to-triangle expansion (N points -> N-2 triangles) happens one
// layer up in the feature package, not in the coordinate codec.
var (
	EncodeOuterTriangles = EncodeOuterPath
	DecodeOuterTriangles = DecodeOuterPath
	EncodeInnerTriangles = EncodeInnerPath
	DecodeInnerTriangles = DecodeInnerPath
)
