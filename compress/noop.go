package compress

// NoOp is a Codec that passes data through unchanged, useful for small
// containers where compression overhead outweighs the savings.
type NoOp struct{}

var _ Codec = NoOp{}

// NewNoOp creates a NoOp codec.
func NewNoOp() NoOp { return NoOp{} }

// Compress returns data unchanged.
func (NoOp) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged.
func (NoOp) Decompress(data []byte) ([]byte, error) { return data, nil }
