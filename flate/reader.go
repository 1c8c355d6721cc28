// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"io"

	"github.com/dsnet/golib/errs"
)

// Reader is the Inflater: it drives the block loop over a BitSource,
// dispatching each block to the BlockDecoder logic embedded in its step
// functions, and exposes the result as an io.Reader.
type Reader struct {
	InputOffset  int64 // Bytes consumed from the underlying io.Reader so far
	OutputOffset int64 // Bytes emitted from Read so far

	rd   bitReader
	dict dictDecoder

	toRead []byte // Decoded bytes not yet returned by Read
	last   bool   // The most recently read block header had the final bit set
	err    error  // Sticky error once decoding has failed or finished

	litTree  *prefixDecoder
	distTree *prefixDecoder // nil means "empty distance code" (spec section 4.2)
}

// NewReader returns a Reader that inflates the raw DEFLATE stream read
// from r.
func NewReader(r io.Reader) *Reader {
	fr := new(Reader)
	fr.Reset(r)
	return fr
}

// Reset discards any state and prepares fr to decode a fresh stream read
// from r.
func (fr *Reader) Reset(r io.Reader) {
	*fr = Reader{}
	fr.rd.Init(r)
	fr.dict.Init()
}

func (fr *Reader) Read(buf []byte) (int, error) {
	for {
		if len(fr.toRead) > 0 {
			n := copy(buf, fr.toRead)
			fr.toRead = fr.toRead[n:]
			fr.OutputOffset += int64(n)
			return n, nil
		}
		if fr.err != nil {
			return 0, fr.err
		}
		fr.decodeBlock()
	}
}

// decodeBlock reads and fully decodes one block, recovering any panicked
// error into fr.err.
func (fr *Reader) decodeBlock() {
	defer errs.Recover(&fr.err)
	defer func() { fr.InputOffset = fr.rd.bytesRead }()

	if fr.last {
		panic(io.EOF)
	}

	final := fr.rd.ReadBits(1) == 1
	typ := fr.rd.ReadBits(2)
	switch typ {
	case 0:
		fr.readStoredBlock()
	case 1:
		fr.litTree, fr.distTree = fixedLitDecoder, fixedDistDecoder
		fr.readBody()
	case 2:
		fr.readDynamicHeader()
		fr.readBody()
	default:
		panic(ErrCorrupt)
	}
	fr.last = final
}

// readStoredBlock implements BlockDecoder's stored block handling (spec
// section 4.4).
func (fr *Reader) readStoredBlock() {
	fr.rd.AlignToByte()
	n := fr.rd.ReadAlignedU16LE()
	nn := fr.rd.ReadAlignedU16LE()
	errs.Assert(n^nn == 0xffff, Error("stored block length mismatch"))

	buf := make([]byte, n)
	fr.rd.ReadBytesAligned(buf)
	out := make([]byte, 0, len(buf))
	for _, b := range buf {
		out = fr.dict.WriteByte(b, out)
	}
	fr.toRead = out
}

// readDynamicHeader implements the dynamic Huffman header of spec section
// 4.4, including the nested meta-Huffman code for the length alphabet.
func (fr *Reader) readDynamicHeader() {
	numLit := fr.rd.ReadBits(5) + 257
	numDist := fr.rd.ReadBits(5) + 1
	numCLen := fr.rd.ReadBits(4) + 4
	errs.Assert(numLit <= maxNumLitSyms && numDist <= maxNumDistSyms, ErrCorrupt)

	var clenLens [maxNumCLenSyms]uint8
	for i := uint(0); i < numCLen; i++ {
		clenLens[clenOrder[i]] = uint8(fr.rd.ReadBits(3))
	}
	clenTree, err := newPrefixDecoder(clenLens[:])
	errs.Panic(err)

	total := numLit + numDist
	lens := make([]uint8, total)
	var last uint
	sym := uint(0)
	for sym < total {
		v := clenTree.decode(&fr.rd)
		switch {
		case v < 16:
			lens[sym] = uint8(v)
			last = v
			sym++
		case v == 16:
			errs.Assert(sym > 0, Error("repeat of previous length with no previous length"))
			rep := 3 + fr.rd.ReadBits(2)
			errs.Assert(sym+rep <= total, Error("code length run exceeds declared total"))
			for i := uint(0); i < rep; i++ {
				lens[sym] = uint8(last)
				sym++
			}
		case v == 17:
			rep := 3 + fr.rd.ReadBits(3)
			errs.Assert(sym+rep <= total, Error("code length run exceeds declared total"))
			sym += rep
			last = 0
		case v == 18:
			rep := 11 + fr.rd.ReadBits(7)
			errs.Assert(sym+rep <= total, Error("code length run exceeds declared total"))
			sym += rep
			last = 0
		default:
			panic(ErrCorrupt)
		}
	}

	litLens := lens[:numLit]
	distLens := lens[numLit:]

	litTree, err := newPrefixDecoder(litLens)
	errs.Panic(err)
	fr.litTree = litTree

	// Distance-code fixup: a distance length vector with no positive length
	// at all -- whether declared with HDist 1 or the normal HDist 30 -- means
	// no distance code is present. This resolves the spec's open question in
	// favor of the legacy behaviour: any run of the transmitted lengths that
	// is wholly zero is an empty distance code, not an under-full one; a
	// length symbol appearing under it in the body is EmptyDistanceCode
	// instead of a construction failure.
	distPresent := false
	for _, l := range distLens {
		if l != 0 {
			distPresent = true
			break
		}
	}
	if !distPresent {
		fr.distTree = nil
		return
	}
	distTree, err := newDistPrefixDecoder(distLens)
	errs.Panic(err)
	fr.distTree = distTree
}

// readBody implements BlockDecoder's symbol loop (spec section 4.4) for
// both fixed and dynamic blocks.
func (fr *Reader) readBody() {
	out := make([]byte, 0, 256)
	// Even on a panic (a corrupt symbol partway through the block), whatever
	// was already decoded is a valid DEFLATE-order prefix of the output and
	// must still reach the caller before the error does.
	defer func() { fr.toRead = out }()
	for {
		sym := fr.litTree.decode(&fr.rd)
		switch {
		case sym < endBlockSym:
			out = fr.dict.WriteByte(byte(sym), out)
		case sym == endBlockSym:
			return
		case sym <= 285:
			rc := lenLUT[sym-257]
			length := int(rc.base) + int(fr.rd.ReadBits(uint(rc.bits)))

			errs.Assert(fr.distTree != nil, Error("length symbol encountered with empty distance code"))
			dsym := fr.distTree.decode(&fr.rd)
			errs.Assert(dsym < maxNumDistSyms-2, Error("reserved distance symbol"))
			drc := distLUT[dsym]
			dist := int(drc.base) + int(fr.rd.ReadBits(uint(drc.bits)))

			errs.Assert(dist <= fr.dict.HistSize(), Error("copy distance exceeds available history"))
			out = fr.dict.Copy(dist, length, out)
		default:
			panic(Error("reserved length symbol")) // Symbol 286 or 287
		}
	}
}
