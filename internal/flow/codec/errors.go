// Package codec converts between flow boards and their binary forms:
// level definitions ("CLFL" buffers), pack payloads and save words.
// All integers are little-endian.
package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when a level buffer does not start with "CLFL".
	ErrBadMagic = errors.New("bad magic tag")

	// ErrTruncated is returned when a buffer ends before its declared content.
	ErrTruncated = errors.New("buffer truncated")

	// ErrOutOfRange is returned when a cell index or dimension is impossible.
	ErrOutOfRange = errors.New("value out of range")

	// ErrShortSave is returned when a save buffer holds fewer words than the
	// boards it is applied to.
	ErrShortSave = errors.New("save data too short")
)

// FormatError describes a malformed buffer.
// It wraps one of the sentinel errors above so callers can use errors.Is.
type FormatError struct {
	Err    error
	Offset int
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("codec: %v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("codec: %v at offset %d: %s", e.Err, e.Offset, e.Detail)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErr(err error, off int, format string, args ...any) *FormatError {
	return &FormatError{Err: err, Offset: off, Detail: fmt.Sprintf(format, args...)}
}
