// Package section implements the shared header scaffolding used by both
// the builder and the reader (§3, §4.5 Design Notes: "Builder-vs-reader
// shared base class" — reimplemented here as free functions plus small
// value types rather than an inheritance hierarchy).
package section

import "github.com/mapscodec/geofeature/errs"

// MaxTypes is the maximum number of type classifiers a single feature may
// carry. It is a wire-format constant: changing it breaks compatibility
// between writer and reader (§9, "Global/static MAX_TYPES").
const MaxTypes = 7

// ScalesCount is the number of pre-baked zoom detail levels a Stage-2
// feature's outer geometry can address.
const ScalesCount = 4

// Bit positions within the one-byte common header (§3).
const (
	bitHasName  = 3
	bitHasLayer = 4
	bitHasPoint = 5
	bitIsLine   = 6
	bitIsArea   = 7
)

// Flags is the decoded form of the one-byte common header.
type Flags struct {
	TypesCount uint8
	HasName    bool
	HasLayer   bool
	HasPoint   bool
	IsLine     bool
	IsArea     bool
}

// IsPoint reports whether the feature carries a center point.
func (f Flags) IsPoint() bool {
	return f.HasPoint
}

// EncodeHeader packs f into the common header byte. Returns
// InvalidBuilderState if TypesCount is outside [1, MaxTypes] or if none of
// Point/Line/Area is set, both of which are caller bugs rather than
// malformed input (§3 Invariants).
func EncodeHeader(f Flags) (byte, error) {
	if f.TypesCount < 1 || f.TypesCount > MaxTypes {
		return 0, errs.NewBuilderError("types count must be in [1, MaxTypes]")
	}
	if !f.HasPoint && !f.IsLine && !f.IsArea {
		return 0, errs.NewBuilderError("feature must be at least one of Point, Line, Area")
	}

	b := f.TypesCount
	if f.HasName {
		b |= 1 << bitHasName
	}
	if f.HasLayer {
		b |= 1 << bitHasLayer
	}
	if f.HasPoint {
		b |= 1 << bitHasPoint
	}
	if f.IsLine {
		b |= 1 << bitIsLine
	}
	if f.IsArea {
		b |= 1 << bitIsArea
	}

	return b, nil
}

// DecodeHeader unpacks the common header byte. It does not validate the
// "at least one of Point/Line/Area" invariant — that is the caller's
// responsibility during parse_common, since a zero types_count is detected
// separately (§4.5 parse_types error conditions).
func DecodeHeader(b byte) Flags {
	return Flags{
		TypesCount: b & 0x07,
		HasName:    b&(1<<bitHasName) != 0,
		HasLayer:   b&(1<<bitHasLayer) != 0,
		HasPoint:   b&(1<<bitHasPoint) != 0,
		IsLine:     b&(1<<bitIsLine) != 0,
		IsArea:     b&(1<<bitIsArea) != 0,
	}
}
