// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import "github.com/dsnet/golib/errs"

// ErrUnderFull and ErrOverFull report a code-length vector that could not
// be turned into a complete canonical Huffman code (RFC section 3.2.2).
var (
	ErrOverFull  error = Error("code lengths are over-subscribed")
	ErrUnderFull error = Error("code lengths are under-subscribed")
)

const (
	maxNumCLenSyms = 19
	maxNumLitSyms  = 288
	maxNumDistSyms = 32
)

// prefixCodeEntry packs a decoded symbol and the bit-length of its code
// into a single word: the low symLenBits bits hold the length, the rest
// hold the symbol. A zero entry (length 0) can never be produced by a
// valid code, and is used to flag an unused table slot.
type prefixCodeEntry uint32

const symLenBits = 5 // enough for lengths up to maxCodeLen (15)

func makeEntry(sym uint32, length uint32) prefixCodeEntry {
	return prefixCodeEntry(sym<<symLenBits | length)
}

func (e prefixCodeEntry) length() uint32 { return uint32(e) & (1<<symLenBits - 1) }
func (e prefixCodeEntry) symbol() uint32 { return uint32(e) >> symLenBits }

// prefixDecoder is CanonicalCode: an immutable decoder built from a vector
// of per-symbol code lengths. Decoding uses a single direct lookup table
// sized to the longest code in this particular code (as permitted by
// spec's "direct table" design note), rather than a two-level chunk/link
// table -- there is no need for the extra indirection once decode() is
// allowed to zero-extend a short peek past the end of the stream.
type prefixDecoder struct {
	table   []prefixCodeEntry // len(table) == 1<<maxLen
	maxLen  uint32
	numSyms uint32
}

// newPrefixDecoder constructs a canonical Huffman decoder from a dense
// array of code lengths indexed by symbol (0 means "this symbol has no
// code"). It implements the construction algorithm of spec section 4.2:
// codes are assigned in ascending (length, symbol) order, and the
// resulting tree must be complete.
//
// newPrefixDecoder never allows the single-symbol degenerate exception;
// use newDistPrefixDecoder for the one caller (the dynamic distance code)
// spec section 3 actually grants it to.
func newPrefixDecoder(lengths []uint8) (*prefixDecoder, error) {
	return newPrefixDecoderDegen(lengths, false)
}

// newDistPrefixDecoder is newPrefixDecoder plus the distance-code-only
// single-symbol exception of spec section 3: if exactly one length equals
// 1 and no other length is positive, the surplus code value is simply
// left unmapped in the table, which decode() already reports as
// ErrCorrupt if it is ever selected -- a conformant encoder never
// produces that code. zlib's inftrees.c grants this same exception only
// to its DISTS code type, never to CODES (the code-length alphabet) or
// LENS (the literal/length code), which is why it is not part of
// newPrefixDecoder itself.
func newDistPrefixDecoder(lengths []uint8) (*prefixDecoder, error) {
	return newPrefixDecoderDegen(lengths, true)
}

func newPrefixDecoderDegen(lengths []uint8, allowDegenerate bool) (*prefixDecoder, error) {
	var count [maxCodeLen + 1]int
	var maxLen uint32
	numPositive := 0
	for _, l := range lengths {
		errs.Assert(l <= maxCodeLen, ErrCorrupt)
		if l > 0 {
			count[l]++
			numPositive++
			if uint32(l) > maxLen {
				maxLen = uint32(l)
			}
		}
	}
	if numPositive == 0 {
		return nil, ErrUnderFull
	}

	degenerate := allowDegenerate && numPositive == 1 && count[1] == 1

	// Completeness check (RFC section 3.2.2): the number of unassigned
	// codes left at each length, doubling and shrinking by count[l] as
	// longer lengths are considered, must land on exactly zero.
	left := 1
	for l := 1; l <= int(maxLen); l++ {
		left <<= 1
		left -= count[l]
		if left < 0 {
			return nil, ErrOverFull
		}
	}
	if left != 0 && !degenerate {
		return nil, ErrUnderFull
	}

	// Starting code value for each length (RFC section 3.2.2 recurrence).
	nextCode := make([]int, maxLen+1)
	c := 0
	for l := 1; l <= int(maxLen); l++ {
		c = (c + count[l-1]) << 1
		nextCode[l] = c
	}

	pd := &prefixDecoder{
		table:   make([]prefixCodeEntry, 1<<maxLen),
		maxLen:  maxLen,
		numSyms: uint32(numPositive),
	}
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		val := nextCode[l]
		nextCode[l]++
		rev := reverseBits(uint32(val), uint(l))
		entry := makeEntry(uint32(sym), uint32(l))
		step := uint32(1) << l
		for idx := rev; idx < uint32(len(pd.table)); idx += step {
			pd.table[idx] = entry
		}
	}
	return pd, nil
}

// decode reads the next symbol using br. It peeks one more bit at a time
// and looks each prefix up in the table with the bits beyond it taken as
// zero -- safe because every table slot sharing an actual codeword's bit
// prefix was filled with that codeword's (symbol, length), regardless of
// the don't-care bits beyond it. It stops at the first prefix that holds a
// whole codeword, so no byte after the one holding the codeword's last bit
// is pulled from the underlying source.
func (pd *prefixDecoder) decode(br *bitReader) uint32 {
	for n := uint(1); ; n++ {
		v, have := br.peekBits(n)
		entry := pd.table[v]
		l := entry.length()
		errs.Assert(l != 0, ErrCorrupt)
		if uint(l) <= n {
			errs.Assert(uint(l) <= have, errUnexpectedEOF)
			br.dropBits(uint(l))
			return entry.symbol()
		}
	}
}

// rangeCode describes how a length or distance symbol expands into a base
// value plus some number of raw extra bits (RFC section 3.2.5).
type rangeCode struct {
	base uint32
	bits uint32
}

// maxNumLenSyms is the count of length symbols 257..285 that carry a run
// length (symbols 286 and 287 are reserved and never indexed here).
const maxNumLenSyms = 285 - 257 + 1

var (
	lenLUT  [maxNumLenSyms]rangeCode
	distLUT [maxNumDistSyms - 2]rangeCode

	fixedLitDecoder  *prefixDecoder
	fixedDistDecoder *prefixDecoder

	// clenOrder is the peculiar order in which the 19 code-length code
	// lengths are transmitted (RFC section 3.2.7).
	clenOrder = [maxNumCLenSyms]int{
		16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
	}
)

func init() {
	for i, base := 0, 3; i < len(lenLUT)-1; i++ {
		nb := uint32(i/4 - 1)
		if i < 4 {
			nb = 0
		}
		lenLUT[i] = rangeCode{base: uint32(base), bits: nb}
		base += 1 << nb
	}
	lenLUT[len(lenLUT)-1] = rangeCode{base: 258, bits: 0} // Symbol 285

	for i, base := 0, 1; i < len(distLUT); i++ {
		nb := uint32(i/2 - 1)
		if i < 2 {
			nb = 0
		}
		distLUT[i] = rangeCode{base: uint32(base), bits: nb}
		base += 1 << nb
	}

	fixedLitLens := make([]uint8, 288)
	for i := 0; i < 144; i++ {
		fixedLitLens[i] = 8
	}
	for i := 144; i < 256; i++ {
		fixedLitLens[i] = 9
	}
	for i := 256; i < 280; i++ {
		fixedLitLens[i] = 7
	}
	for i := 280; i < 288; i++ {
		fixedLitLens[i] = 8
	}
	var err error
	fixedLitDecoder, err = newPrefixDecoder(fixedLitLens)
	errs.Assert(err == nil, err)

	fixedDistLens := make([]uint8, 32)
	for i := range fixedDistLens {
		fixedDistLens[i] = 5
	}
	fixedDistDecoder, err = newPrefixDecoder(fixedDistLens)
	errs.Assert(err == nil, err)
}
