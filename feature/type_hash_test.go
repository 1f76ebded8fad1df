package feature_test

import (
	"testing"

	"github.com/mapscodec/geofeature/feature"
	"github.com/stretchr/testify/assert"
)

func TestTypeSetHashDeterministic(t *testing.T) {
	h1 := feature.TypeSetHash([]uint32{10, 20, 30})
	h2 := feature.TypeSetHash([]uint32{10, 20, 30})
	assert.Equal(t, h1, h2)
}

func TestTypeSetHashOrderSensitive(t *testing.T) {
	h1 := feature.TypeSetHash([]uint32{10, 20})
	h2 := feature.TypeSetHash([]uint32{20, 10})
	assert.NotEqual(t, h1, h2)
}

func TestTypeSetHashDistinguishesSets(t *testing.T) {
	h1 := feature.TypeSetHash([]uint32{1, 2, 3})
	h2 := feature.TypeSetHash([]uint32{1, 2, 4})
	assert.NotEqual(t, h1, h2)
}
