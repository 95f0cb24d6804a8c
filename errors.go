package bytepatch

import "errors"

// Sentinel error kinds surfaced by the core, per the error handling
// design: callers discriminate failures with errors.Is against these.
// NO_MATCH and NO_CLOSE_MATCH from the design are local control signals
// handled inside Patch.Apply and never escape as errors.
var (
	// ErrInvalidArgument reports a paddingLength passed to
	// Patch.ApplyWithPadding that does not fit a bitap word. BuildDiff and
	// BuildPatch have no error result and never report it.
	ErrInvalidArgument = errors.New("bytepatch: invalid argument")
	// ErrMalformedPatch reports a textual patch that failed to parse: a
	// header mismatch, a bad percent-escape, or an unknown operation
	// glyph.
	ErrMalformedPatch = errors.New("bytepatch: malformed patch")
	// ErrInputTooShort reports that the buffer being patched cannot hold
	// a fragment's expected location.
	ErrInputTooShort = errors.New("bytepatch: input too short")
)
