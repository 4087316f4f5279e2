package lzc

import (
	"bytes"
	"io"
)

// codeWriter is the sink the encoder emits codes into. The concrete packer
// produces wire bytes; the counting variant only measures them.
type codeWriter interface {
	writeCode(c uint16, width uint8)
	flush()
	len() int
	reset()
}

// bitPacker packs codes least-significant-bit-first. After each code the
// pending buffer is drained: a full little-endian word once 16 bits have
// accumulated, a single byte otherwise. Between codes the pending bit count
// stays in [0,7], so writeCode emits one or two bytes and flush drains at
// most one more.
type bitPacker struct {
	out   *bytes.Buffer
	bits  uint32
	nbits uint8
	n     int // bytes emitted
}

func (p *bitPacker) writeCode(c uint16, width uint8) {
	p.bits |= uint32(c) << p.nbits
	p.nbits += width
	if p.nbits >= 16 {
		p.out.WriteByte(byte(p.bits))
		p.out.WriteByte(byte(p.bits >> 8))
		p.bits >>= 16
		p.nbits -= 16
		p.n += 2
	} else {
		p.out.WriteByte(byte(p.bits))
		p.bits >>= 8
		p.nbits -= 8
		p.n++
	}
}

// flush drains the final partial byte, high bits zero.
func (p *bitPacker) flush() {
	if p.nbits > 0 {
		p.out.WriteByte(byte(p.bits))
		p.bits = 0
		p.nbits = 0
		p.n++
	}
}

func (p *bitPacker) len() int { return p.n }

func (p *bitPacker) reset() {
	p.bits = 0
	p.nbits = 0
	p.n = 0
}

// bitCounter measures the packed size without producing bytes. The packer
// above emits exactly ceil(totalBits/8) bytes over a whole stream, so
// rounding up here matches it byte for byte.
type bitCounter struct {
	nbBits int
}

func (b *bitCounter) writeCode(_ uint16, width uint8) { b.nbBits += int(width) }

func (b *bitCounter) flush() {}

func (b *bitCounter) len() int { return (b.nbBits + 7) / 8 }

func (b *bitCounter) reset() { b.nbBits = 0 }

// bitUnpacker is the exact inverse of bitPacker: bytes accumulate
// least-significant-bit-first and each read takes the low width bits.
type bitUnpacker struct {
	src    io.ByteReader
	bits   uint32
	nbits  uint8
	offset int64 // bytes consumed, reported in corrupt-stream errors
}

// readCode returns io.EOF once the source is drained with fewer than width
// bits pending; those bits are flush padding and are discarded.
func (u *bitUnpacker) readCode(width uint8) (uint16, error) {
	for u.nbits < width {
		b, err := u.src.ReadByte()
		if err != nil {
			return 0, err
		}
		u.bits |= uint32(b) << u.nbits
		u.nbits += 8
		u.offset++
	}
	c := uint16(u.bits & (1<<width - 1))
	u.bits >>= width
	u.nbits -= width
	return c, nil
}
