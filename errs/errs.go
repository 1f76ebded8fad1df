// Package errs defines the sentinel errors shared by the geofeature codec.
//
// Errors fall into two families, matching the CHECK-macro split described
// for the original C++ codec: invariant violations that reflect a caller
// bug (InvalidBuilderState) are reported as a BuilderError, which
// Builder.Validate and the Serialize methods return and which the bitpack
// width checks and section.NewScaleHeader raise as a panic; anything
// derived from untrusted input bytes returns one of the sentinels below,
// wrapped with context by the MalformedError and ContainerError types so
// callers can still use errors.Is/errors.As.
package errs

import "errors"

var (
	// ErrInvalidBuilderState is wrapped by BuilderError, returned by
	// Builder.Validate (and, transitively, Serialize) when an invariant of
	// §3 is violated. It reflects a caller bug, not malformed input bytes.
	ErrInvalidBuilderState = errors.New("geofeature: invalid builder state")

	// ErrMalformedFeature indicates the reader could not make sense of the
	// bytes it was given: truncated buffer, zero types count, a varint
	// that runs past the end of the buffer, or a name length that
	// overflows the remaining data.
	ErrMalformedFeature = errors.New("geofeature: malformed feature")

	// ErrMissingGeometry indicates a Stage-2 feature has outer geometry
	// but no offset is recorded for the resolved scale index. This is a
	// soft condition: FeatureReader reports empty geometry instead of
	// failing (see Reader.IsEmptyGeometry).
	ErrMissingGeometry = errors.New("geofeature: missing geometry at scale")

	// ErrContainerIO wraps an error returned by a Container implementation.
	// It is never constructed with a nil cause.
	ErrContainerIO = errors.New("geofeature: container I/O error")

	// ErrOutOfOrderParse indicates a parse stage was invoked before its
	// prerequisite stage(s) completed. This is a programmer error, not a
	// data error; Reader methods return it as a plain error rather than
	// panicking, since callers may drive parsing from external state
	// machines that occasionally race stage ordering.
	ErrOutOfOrderParse = errors.New("geofeature: parse stage invoked out of order")

	// ErrAlreadyParsed indicates a parse stage was invoked twice.
	ErrAlreadyParsed = errors.New("geofeature: parse stage already run")
)

// BuilderError wraps ErrInvalidBuilderState with the specific invariant
// that failed, returned by Builder.Validate.
type BuilderError struct {
	Reason string
}

func (e *BuilderError) Error() string {
	return "geofeature: invalid builder state: " + e.Reason
}

func (e *BuilderError) Unwrap() error {
	return ErrInvalidBuilderState
}

// NewBuilderError constructs a BuilderError for the given invariant
// violation reason.
func NewBuilderError(reason string) *BuilderError {
	return &BuilderError{Reason: reason}
}

// MalformedError wraps ErrMalformedFeature with the parse stage and detail
// that failed, so error messages are actionable without losing errors.Is
// compatibility.
type MalformedError struct {
	Stage  string
	Detail string
}

func (e *MalformedError) Error() string {
	return "geofeature: malformed feature at " + e.Stage + ": " + e.Detail
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedFeature
}

// NewMalformedError constructs a MalformedError for the given parse stage.
func NewMalformedError(stage, detail string) *MalformedError {
	return &MalformedError{Stage: stage, Detail: detail}
}

// ContainerError wraps a container-supplied error without altering it,
// per the ContainerIoError row of the error handling table: propagated to
// the caller untouched, only tagged with the tag/scale it was resolving.
type ContainerError struct {
	Tag        string
	ScaleIndex int
	Cause      error
}

func (e *ContainerError) Error() string {
	return "geofeature: container I/O error for tag " + e.Tag + ": " + e.Cause.Error()
}

func (e *ContainerError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrContainerIO, in addition to the normal
// Unwrap chain to Cause, so callers can match on the sentinel without
// knowing the concrete cause.
func (e *ContainerError) Is(target error) bool {
	return target == ErrContainerIO
}

// NewContainerError wraps cause as a ContainerError for the given stream
// tag and scale index.
func NewContainerError(tag string, scaleIndex int, cause error) *ContainerError {
	return &ContainerError{Tag: tag, ScaleIndex: scaleIndex, Cause: cause}
}
