package lzc

import (
	"fmt"
	"io"
)

const (
	magic1 = 0x1f
	magic2 = 0x9d

	// HeaderSize is the fixed length of the stream header in bytes.
	HeaderSize = 3
)

// Configuration byte layout: the low five bits hold the maximum code width,
// the top three bits are legacy flags. Only the block-mode flag is assigned;
// the other two are reserved and must be zero.
const (
	flagBlockMode = 0x80
	flagReserved  = 0x60
	widthMask     = 0x1f
)

// Code width bounds fixed by the format.
const (
	MinCodeWidth = 9
	MaxCodeWidth = 16
)

// Header is the three fixed bytes at the start of every compressed stream:
// two magic bytes and one configuration byte.
type Header struct {
	// MaxCodeWidth is the widest code the stream may use, 9 through 16.
	MaxCodeWidth uint8

	// BlockMode reports whether the stream may contain the CLEAR code.
	// Everything this package writes is in block mode; streams predating
	// block mode are still readable.
	BlockMode bool

	// Flags preserves the top three bits of the configuration byte as read,
	// so callers can report reserved bits they do not understand.
	Flags uint8
}

func (h *Header) WriteTo(w io.Writer) (int64, error) {
	if err := checkWidth(h.MaxCodeWidth); err != nil {
		return 0, err
	}
	cfg := h.MaxCodeWidth & widthMask
	if h.BlockMode {
		cfg |= flagBlockMode
	}
	n, err := w.Write([]byte{magic1, magic2, cfg})
	return int64(n), err
}

func (h *Header) ReadFrom(r io.Reader) (int64, error) {
	var b [HeaderSize]byte
	n, err := io.ReadFull(r, b[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return int64(n), fmt.Errorf("%w: header truncated", ErrNotCompressed)
		}
		return int64(n), err
	}

	if b[0] != magic1 || b[1] != magic2 {
		return int64(n), fmt.Errorf("%w: magic %#02x %#02x", ErrNotCompressed, b[0], b[1])
	}
	h.MaxCodeWidth = b[2] & widthMask
	h.BlockMode = b[2]&flagBlockMode != 0
	h.Flags = b[2] &^ widthMask
	return int64(n), checkWidth(h.MaxCodeWidth)
}

// checkWidth rejects widths the format cannot express. The check runs before
// any stream I/O on the encode side, so a bad configuration writes nothing.
func checkWidth(w uint8) error {
	if w < MinCodeWidth || w > MaxCodeWidth {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrCodeWidthRange, w, MinCodeWidth, MaxCodeWidth)
	}
	return nil
}
