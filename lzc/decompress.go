package lzc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/ledgerwatch/log/v3"
)

// Decompress decodes a whole compressed stream in one shot.
func Decompress(data []byte, o ReaderOptions) ([]byte, error) {
	r, err := NewReader(bytes.NewReader(data), o)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	out.Grow(len(data) * 3)
	if _, err := out.ReadFrom(r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

// Reader decompresses from an underlying io.Reader. It does not own the
// underlying reader; the caller closes it.
type Reader struct {
	br  bitUnpacker
	tab *codeTable
	hdr Header
	log log.Logger

	oldCode int    // previous code; -1 when no previous output exists
	pending []byte // decoded bytes not yet delivered
	err     error  // sticky; io.EOF after a clean end of stream
}

// NewReader parses and validates the header before returning, so wrong
// input fails fast with ErrNotCompressed rather than producing garbage.
func NewReader(r io.Reader, o ReaderOptions) (*Reader, error) {
	src, ok := r.(byteReader)
	if !ok {
		src = bufio.NewReader(r)
	}

	z := &Reader{
		log:     sessionLogger(o.Logger),
		oldCode: -1,
	}
	if _, err := z.hdr.ReadFrom(src); err != nil {
		return nil, err
	}
	if z.hdr.Flags&flagReserved != 0 {
		z.log.Warn("reserved header flag bits set, proceeding", "flags", fmt.Sprintf("%#02x", z.hdr.Flags))
	}
	if !z.hdr.BlockMode {
		z.log.Debug("stream predates block mode")
	}
	z.tab = newCodeTable(z.hdr.MaxCodeWidth, z.hdr.BlockMode)
	z.br = bitUnpacker{src: src, offset: HeaderSize}
	return z, nil
}

// Header reports the stream header parsed at construction.
func (z *Reader) Header() Header {
	return z.hdr
}

func (z *Reader) Read(p []byte) (int, error) {
	for {
		if len(z.pending) > 0 {
			n := copy(p, z.pending)
			z.pending = z.pending[n:]
			return n, nil
		}
		if z.err != nil {
			return 0, z.err
		}
		z.fill()
	}
}

// fill decodes the next code into pending. The sequence it produces stays
// valid until the next fill, which only runs once pending is consumed.
func (z *Reader) fill() {
	z.tab.syncWidth()
	code, err := z.br.readCode(z.tab.width)
	if err != nil {
		z.err = err
		return
	}

	if z.tab.blockMode && code == clearCode {
		z.log.Debug("dictionary reset", "offset", z.br.offset)
		z.tab.reset()
		z.oldCode = -1
		return
	}

	c := int(code)
	var seq []byte
	switch {
	case c < z.tab.next:
		seq = z.tab.expand(c)
	case c == z.tab.next && z.oldCode >= 0:
		// the entry this code names is the one being defined by it:
		// previous sequence plus its own first byte
		seq = z.tab.expand(z.oldCode)
		seq = append(seq, seq[0])
	default:
		z.err = fmt.Errorf("%w: code %d at byte %d", ErrCorrupt, c, z.br.offset)
		return
	}

	if z.oldCode >= 0 {
		z.tab.add(z.oldCode, seq[0])
	}
	z.oldCode = c
	z.pending = seq
}
