package lzc

import (
	"bytes"
	"io"
)

// TracedCode is one code as it sits on the wire.
type TracedCode struct {
	Code   uint16
	Width  uint8 // bits this code was read at
	Offset int64 // byte offset of the last byte the code drew bits from
}

// CodeTrace is an inspectable view of a compressed stream: every code in
// wire order with the width schedule the decoder would apply. It mirrors
// the decoder's dictionary growth without expanding any sequences, so it
// also walks streams whose codes would not decode.
type CodeTrace struct {
	Header Header
	Codes  []TracedCode
	Resets int // CLEAR codes seen
}

// Trace unpacks a compressed stream into its code sequence. Only header
// problems are errors; body bytes are traced as far as they reach.
func Trace(data []byte) (*CodeTrace, error) {
	tr := &CodeTrace{}
	src := bytes.NewReader(data)
	if _, err := tr.Header.ReadFrom(src); err != nil {
		return nil, err
	}

	u := bitUnpacker{src: src, offset: HeaderSize}
	next := firstFree
	if !tr.Header.BlockMode {
		next = firstNonBlock
	}
	maxCode := 1<<tr.Header.MaxCodeWidth - 1
	width := uint8(MinCodeWidth)
	sawPrev := false

	for {
		if next >= 1<<width && width < tr.Header.MaxCodeWidth {
			width++
		}
		code, err := u.readCode(width)
		if err == io.EOF {
			return tr, nil
		}
		if err != nil {
			return tr, err
		}
		tr.Codes = append(tr.Codes, TracedCode{Code: code, Width: width, Offset: u.offset})

		if tr.Header.BlockMode && code == clearCode {
			tr.Resets++
			next = firstFree
			width = MinCodeWidth
			sawPrev = false
			continue
		}
		// every code after the first grows the table by one entry until
		// the freeze, whatever the code's value
		if sawPrev && next <= maxCode {
			next++
		}
		sawPrev = true
	}
}
