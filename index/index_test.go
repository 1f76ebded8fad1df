package index_test

import (
	"testing"

	"github.com/mapscodec/geofeature/coord"
	"github.com/mapscodec/geofeature/feature"
	"github.com/mapscodec/geofeature/geom"
	"github.com/mapscodec/geofeature/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectAround(x, y float64) geom.Rect {
	r := geom.NewEmptyRect()
	r.Add(coord.PointD{X: x, Y: y})

	return r
}

func TestSpatialIndexQuery(t *testing.T) {
	idx := index.New(4, 8)

	idx.Insert(index.Record{
		ID:        1,
		LimitRect: rectAround(10, 10),
		Types:     []uint32{100},
		TypeHash:  feature.TypeSetHash([]uint32{100}),
	})
	idx.Insert(index.Record{
		ID:        2,
		LimitRect: rectAround(1000, 1000),
		Types:     []uint32{200},
		TypeHash:  feature.TypeSetHash([]uint32{200}),
	})

	require.Equal(t, 2, idx.Count())

	query := geom.NewEmptyRect()
	query.Add(coord.PointD{X: 0, Y: 0})
	query.Add(coord.PointD{X: 20, Y: 20})

	hits := idx.Query(query)
	require.Len(t, hits, 1)
	assert.Equal(t, uint64(1), hits[0].ID)
}

func TestSpatialIndexQueryTypes(t *testing.T) {
	idx := index.New(4, 8)

	idx.Insert(index.Record{ID: 1, LimitRect: rectAround(5, 5), Types: []uint32{1, 2}})
	idx.Insert(index.Record{ID: 2, LimitRect: rectAround(5, 5), Types: []uint32{3}})

	query := geom.NewEmptyRect()
	query.Add(coord.PointD{X: 0, Y: 0})
	query.Add(coord.PointD{X: 10, Y: 10})

	hits := idx.QueryTypes(query, []uint32{2})
	require.Len(t, hits, 1)
	assert.Equal(t, uint64(1), hits[0].ID)
}

func TestSpatialIndexInsertIdempotent(t *testing.T) {
	idx := index.New(4, 8)

	rec := index.Record{ID: 1, LimitRect: rectAround(1, 1)}
	idx.Insert(rec)
	idx.Insert(rec)

	assert.Equal(t, 1, idx.Count())
}

func TestSpatialIndexEmptyQuery(t *testing.T) {
	idx := index.New(4, 8)
	assert.Nil(t, idx.Query(geom.NewEmptyRect()))
}
