// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"io"

	"github.com/dsnet/golib/errs"
)

// bitReader supplies bits from an underlying byte source, least-significant
// bit first. Multi-bit fields are packed LSB-first across bytes; the two
// length words of a stored block are the sole exception and are read
// byte-aligned as 16-bit little-endian words.
//
// The buffer never holds more than 64 bits, and ReadBits never asks for
// more than 16, so the accumulator width is never a concern.
type bitReader struct {
	rd        io.ByteReader
	buf       uint64 // Low nbuf bits hold unconsumed, not-yet-returned bits
	nbuf      uint   // Number of valid bits in buf
	bytesRead int64  // Total bytes pulled from rd
}

func (br *bitReader) Init(r io.Reader) {
	*br = bitReader{}
	if rb, ok := r.(io.ByteReader); ok {
		br.rd = rb
	} else {
		br.rd = &byteReaderAdapter{r: r}
	}
}

// byteReaderAdapter promotes a plain io.Reader to io.ByteReader one byte at
// a time. It is only used when the caller supplies a reader that does not
// already implement ByteReader (bufio.Reader and bytes.Reader do).
type byteReaderAdapter struct {
	r   io.Reader
	buf [1]byte
}

func (b *byteReaderAdapter) ReadByte() (byte, error) {
	_, err := io.ReadFull(b.r, b.buf[:])
	return b.buf[0], err
}

// fillTolerant tries to buffer at least n bits, stopping short (without
// error) if the underlying source runs out. It never returns more bits
// than are actually available.
func (br *bitReader) fillTolerant(n uint) {
	for br.nbuf < n {
		c, err := br.rd.ReadByte()
		if err != nil {
			return
		}
		br.buf |= uint64(c) << br.nbuf
		br.nbuf += 8
		br.bytesRead++
	}
}

// fill buffers at least n bits or panics errUnexpectedEOF.
func (br *bitReader) fill(n uint) {
	br.fillTolerant(n)
	errs.Assert(br.nbuf >= n, errUnexpectedEOF)
}

// ReadBit reads a single bit. The second return is false only when the
// underlying source has been exhausted at a byte boundary.
func (br *bitReader) ReadBit() (uint, bool) {
	br.fillTolerant(1)
	if br.nbuf == 0 {
		return 0, false
	}
	v := uint(br.buf & 1)
	br.buf >>= 1
	br.nbuf--
	return v, true
}

// ReadBits reads n bits (0 <= n <= 16) LSB-first and returns them as an
// integer in [0, 2^n). It panics errUnexpectedEOF on a short read.
func (br *bitReader) ReadBits(n uint) uint {
	if n == 0 {
		return 0
	}
	br.fill(n)
	v := uint(br.buf & (1<<n - 1))
	br.buf >>= n
	br.nbuf -= n
	return v
}

// BitPosition reports the number of bits already consumed from the current
// byte of the underlying source, in [0, 7].
func (br *bitReader) BitPosition() uint {
	return (8 - br.nbuf%8) % 8
}

// AlignToByte discards bits until BitPosition returns 0.
func (br *bitReader) AlignToByte() {
	n := br.nbuf % 8
	br.buf >>= n
	br.nbuf -= n
}

// ReadAlignedU16LE reads two byte-aligned bytes and returns them as a
// little-endian integer. The caller must ensure BitPosition() == 0.
func (br *bitReader) ReadAlignedU16LE() uint16 {
	errs.Assert(br.nbuf%8 == 0, Error("read_aligned_u16_le: not byte aligned"))
	lo := br.ReadBits(8)
	hi := br.ReadBits(8)
	return uint16(lo) | uint16(hi)<<8
}

// ReadBytesAligned copies n byte-aligned bytes into buf. The caller must
// ensure BitPosition() == 0.
func (br *bitReader) ReadBytesAligned(buf []byte) {
	errs.Assert(br.nbuf%8 == 0, Error("read_bytes_aligned: not byte aligned"))
	i := 0
	for ; br.nbuf > 0 && i < len(buf); i++ {
		buf[i] = byte(br.buf)
		br.buf >>= 8
		br.nbuf -= 8
	}
	for ; i < len(buf); i++ {
		c, err := br.rd.ReadByte()
		errs.Assert(err == nil, errUnexpectedEOF)
		br.bytesRead++
		buf[i] = c
	}
}

// peekBits fills the buffer with up to n bits, tolerating end of stream,
// and returns the low n bits of the buffer (zero-extended past whatever is
// actually available) along with how many of those bits are genuine.
func (br *bitReader) peekBits(n uint) (v uint32, have uint) {
	br.fillTolerant(n)
	have = br.nbuf
	if have > n {
		have = n
	}
	return uint32(br.buf & (1<<n - 1)), have
}

// dropBits consumes n bits that were previously inspected with peekBits.
func (br *bitReader) dropBits(n uint) {
	br.buf >>= n
	br.nbuf -= n
}
