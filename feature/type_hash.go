package feature

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// TypeSetHash returns a fast, non-cryptographic hash of an ordered type
// list, the value carried in index.Record.TypeHash (the index stores it
// but does not deduplicate or query on it). Grounded on
// the teacher's internal/hash.ID (xxhash64 over a string); here the input
// is a uint32 slice rather than a metric name, so each type is appended to
// a small scratch buffer before hashing.
func TypeSetHash(types []uint32) uint64 {
	var scratch [4]byte

	h := xxhash.New()

	for _, t := range types {
		binary.LittleEndian.PutUint32(scratch[:], t)
		_, _ = h.Write(scratch[:])
	}

	return h.Sum64()
}
