// Package bgerr defines the failure taxonomy shared by the aamp, byml, and
// sarc parsers and writers. Failures those parsers and writers detect
// themselves are reported as one of these concrete types, so callers can
// recover the failure kind with errors.As. Errors from Yaz0 decompression
// (internal/yaz0's own types, or a plain error for a bad back-reference)
// and from the YAML codec are passed through unchanged.
package bgerr

import "fmt"

// InvalidMagicError is returned when a container's magic bytes don't match
// what the format requires.
type InvalidMagicError struct {
	Actual   []byte
	Expected []byte
}

func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("invalid magic: got %q, expected %q", e.Actual, e.Expected)
}

// InvalidDataError covers malformed records, disallowed flags, wrong header
// sizes, unterminated strings, and similar structural failures that don't
// fit the other kinds.
type InvalidDataError struct {
	Msg string
}

func (e *InvalidDataError) Error() string { return e.Msg }

// NewInvalidData builds an InvalidDataError with a formatted message.
func NewInvalidData(format string, args ...interface{}) error {
	return &InvalidDataError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientDataError is returned when a declared size, count, or offset
// would read or write past the end of the available buffer.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d bytes, need %d", e.Have, e.Need)
}

// InvalidVersionError is returned by the BYML parser for any version
// outside {2, 3, 4}.
type InvalidVersionError struct {
	Version uint16
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid BYML version: %d", e.Version)
}

// TypeError describes a node whose type is not the one the caller asked
// for. The aamp and byml tree types expose their values through Go type
// assertions and do not return it.
type TypeError struct {
	Found    string
	Expected string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch: found %s, expected %s", e.Found, e.Expected)
}
