// Package lzc implements the adaptive LZW compression format of the classic
// Unix compress tool (.Z files): a three-byte header followed by
// variable-width codes, 9 bits growing to a configurable cap of at most 16,
// referencing a dictionary both sides grow under identical rules.
package lzc

import (
	"bytes"
	"io"

	"github.com/ledgerwatch/log/v3"
)

// Compressor encodes byte streams into the compressed format. It is not
// safe for concurrent use; independent sessions need independent
// Compressors.
type Compressor struct {
	outBuf bytes.Buffer
	bw     codeWriter

	dict   *trie
	node   int32 // current match; -1 when no match is open
	frozen bool
	closed bool

	opts WriterOptions
	log  log.Logger
}

// NewCompressor validates the options before anything is written, so a bad
// width produces no output at all.
func NewCompressor(o WriterOptions) (*Compressor, error) {
	return newCompressor(o, nil)
}

// newCompressor wires an alternative code sink; the size estimator injects
// a counting one. A nil sink means the real packer.
func newCompressor(o WriterOptions, sink codeWriter) (*Compressor, error) {
	if err := checkWidth(o.MaxCodeWidth); err != nil {
		return nil, err
	}
	compressor := &Compressor{
		dict: newTrie(o.MaxCodeWidth),
		opts: o,
		log:  sessionLogger(o.Logger),
	}
	compressor.bw = sink
	if sink == nil {
		compressor.outBuf.Grow(1 << 16)
		compressor.bw = &bitPacker{out: &compressor.outBuf}
	}
	compressor.Reset()
	return compressor, nil
}

// Reset returns the compressor to a fresh session: initial dictionary, the
// header already emitted. An empty session therefore yields header-only
// output, as the format requires.
func (compressor *Compressor) Reset() {
	compressor.outBuf.Reset()
	compressor.bw.reset()
	header := Header{
		MaxCodeWidth: compressor.opts.MaxCodeWidth,
		BlockMode:    true,
	}
	if _, err := header.WriteTo(&compressor.outBuf); err != nil {
		panic(err) // width was validated at construction
	}
	compressor.dict.reset()
	compressor.node = -1
	compressor.frozen = false
	compressor.closed = false
}

// Write consumes input bytes. Output trails input by one open match; Close
// emits the final code.
func (compressor *Compressor) Write(d []byte) (n int, err error) {
	if compressor.closed {
		return 0, ErrClosed
	}
	for _, b := range d {
		if compressor.node < 0 {
			compressor.node = int32(b)
			continue
		}
		if child := compressor.dict.lookup(compressor.node, b); child >= 0 {
			compressor.node = child
			continue
		}
		compressor.bw.writeCode(uint16(compressor.node), compressor.dict.width)
		if _, ok := compressor.dict.insert(compressor.node, b); !ok && !compressor.frozen {
			compressor.frozen = true
			compressor.log.Debug("dictionary frozen", "maxCodeWidth", compressor.dict.maxWidth)
		}
		compressor.node = int32(b)
	}
	return len(d), nil
}

// Close emits the pending match, if any, and drains the bit buffer down to
// its possible trailing partial byte. The compressor can be reused after a
// Reset.
func (compressor *Compressor) Close() error {
	if compressor.closed {
		return nil
	}
	compressor.closed = true
	if compressor.node >= 0 {
		compressor.bw.writeCode(uint16(compressor.node), compressor.dict.width)
		compressor.node = -1
	}
	compressor.bw.flush()
	return nil
}

// Len returns the number of compressed bytes so far, header included. It
// also works for counting sinks, which emit nothing.
func (compressor *Compressor) Len() int {
	return HeaderSize + compressor.bw.len()
}

// Bytes returns the compressed stream. The slice aliases an internal buffer
// valid until the next Reset.
func (compressor *Compressor) Bytes() []byte {
	return compressor.outBuf.Bytes()
}

// Compress encodes d in one shot, resetting any previous session.
func (compressor *Compressor) Compress(d []byte) ([]byte, error) {
	compressor.Reset()
	if _, err := compressor.Write(d); err != nil {
		return nil, err
	}
	if err := compressor.Close(); err != nil {
		return nil, err
	}
	return compressor.Bytes(), nil
}

// Compress is the one-shot package form of Compressor.Compress.
func Compress(d []byte, o WriterOptions) ([]byte, error) {
	compressor, err := NewCompressor(o)
	if err != nil {
		return nil, err
	}
	return compressor.Compress(d)
}

// Writer compresses to an underlying io.Writer. Nothing reaches the
// destination before the first Write or Close, and Close must be called to
// emit the final pending match.
type Writer struct {
	c   *Compressor
	dst io.Writer
	err error
}

func NewWriter(w io.Writer, o WriterOptions) (*Writer, error) {
	c, err := NewCompressor(o)
	if err != nil {
		return nil, err
	}
	return &Writer{c: c, dst: w}, nil
}

func (w *Writer) Write(d []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.c.Write(d)
	if err != nil {
		w.err = err
		return 0, err
	}
	return n, w.drain()
}

// Close flushes the final code and the trailing partial byte to the
// destination. It does not close the destination.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.c.closed {
		return nil
	}
	if err := w.c.Close(); err != nil {
		w.err = err
		return err
	}
	return w.drain()
}

func (w *Writer) drain() error {
	if w.c.outBuf.Len() == 0 {
		return nil
	}
	_, err := w.dst.Write(w.c.outBuf.Bytes())
	w.c.outBuf.Reset()
	if err != nil {
		w.err = err
	}
	return err
}
