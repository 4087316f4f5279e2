package lzc

import "errors"

// Errors returned by the codec. Call sites wrap these with fmt.Errorf and %w
// to add offsets and code values, so errors.Is still matches the sentinel.
var (
	// ErrCodeWidthRange means a maximum code width outside the 9..16 range
	// the format supports, whether it came from options or a stream header.
	ErrCodeWidthRange = errors.New("lzc: max code width out of range")

	// ErrNotCompressed means the input does not start with the format's
	// magic bytes. It indicates wrong input, not damaged input.
	ErrNotCompressed = errors.New("lzc: not a recognized compressed stream")

	// ErrCorrupt means the stream starts like a compressed stream but
	// contains a code that cannot resolve to any dictionary entry.
	ErrCorrupt = errors.New("lzc: corrupt stream")

	// ErrClosed means a Writer was used after Close.
	ErrClosed = errors.New("lzc: writer already closed")
)
