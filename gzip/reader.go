// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"bufio"
	"io"
	"time"

	"github.com/dsnet/golib/errs"

	"github.com/dsnet/deflate/flate"
)

// Reader is the GzipFramer: it parses the fixed gzip header, delegates the
// DEFLATE body to a flate.Reader, and verifies the trailing CRC-32 and
// ISIZE once the body is exhausted. It implements io.Reader.
//
// The header's informational fields (spec section 4.6) are parsed eagerly
// and exposed as plain fields once NewReader/Reset returns; the CLI never
// prints them, but a caller inspecting a *Reader directly gets them for
// free since the header parser already decoded them.
type Reader struct {
	Name    string    // FNAME, if present
	Comment string    // FCOMMENT, if present
	Extra   []byte    // FEXTRA payload, if present
	ModTime time.Time // zero value if MTIME was 0
	OS      byte      // raw OS byte

	r    *bufio.Reader
	fr   *flate.Reader
	crc  uint32
	size uint32
	err  error
}

// NewReader parses the gzip header from r and returns a Reader ready to
// decompress the body. It returns an error if the header is malformed.
func NewReader(r io.Reader) (*Reader, error) {
	zr := new(Reader)
	if err := zr.Reset(r); err != nil {
		return nil, err
	}
	return zr, nil
}

// Reset discards any state and reparses a fresh gzip stream from r.
func (zr *Reader) Reset(r io.Reader) error {
	*zr = Reader{}
	if br, ok := r.(*bufio.Reader); ok {
		zr.r = br
	} else {
		zr.r = bufio.NewReader(r)
	}
	return zr.readHeader()
}

// readHeader implements the fixed-offset header layout of spec section 4.6.
// zr.r is shared with the flate.Reader constructed at the end: bufio.Reader
// only ever hands out each underlying byte once, so whatever it buffered
// ahead of the DEFLATE body's true end remains available for the footer
// read once the body is drained.
func (zr *Reader) readHeader() (err error) {
	defer errs.Recover(&err)

	var hdr [10]byte
	readFull(zr.r, hdr[:])
	if hdr[0] != magic1 || hdr[1] != magic2 {
		panic(ErrBadMagic)
	}
	if hdr[2] != deflateMethod {
		panic(ErrUnsupportedMethod)
	}
	flg := hdr[3]
	if flg&flagReserved != 0 {
		panic(ErrReservedFlag)
	}
	mtime := uint32(hdr[4]) | uint32(hdr[5])<<8 | uint32(hdr[6])<<16 | uint32(hdr[7])<<24
	if mtime != 0 {
		zr.ModTime = time.Unix(int64(mtime), 0)
	}
	// hdr[8] is XFL (informational extra flags); discarded per spec section 4.6.
	zr.OS = hdr[9]

	if flg&flagExtra != 0 {
		var lenBuf [2]byte
		readFull(zr.r, lenBuf[:])
		xlen := int(lenBuf[0]) | int(lenBuf[1])<<8
		extra := make([]byte, xlen)
		readFull(zr.r, extra)
		zr.Extra = extra
	}
	if flg&flagName != 0 {
		zr.Name = readCString(zr.r)
	}
	if flg&flagComment != 0 {
		zr.Comment = readCString(zr.r)
	}
	if flg&flagHCRC != 0 {
		var crcBuf [2]byte
		readFull(zr.r, crcBuf[:]) // Header CRC-16, not verified (spec section 4.6).
	}

	zr.fr = flate.NewReader(zr.r)
	return nil
}

// Read implements io.Reader. Once the underlying flate.Reader reports
// io.EOF, Read verifies the footer before surfacing io.EOF to the caller.
func (zr *Reader) Read(buf []byte) (int, error) {
	if zr.err != nil {
		return 0, zr.err
	}
	n, err := zr.fr.Read(buf)
	if n > 0 {
		zr.crc = updateCRC32(zr.crc, buf[:n])
		zr.size += uint32(n)
	}
	switch err {
	case nil:
		return n, nil
	case io.EOF:
		if ferr := zr.verifyFooter(); ferr != nil {
			zr.err = ferr
		} else {
			zr.err = io.EOF
		}
	default:
		zr.err = err
	}
	if n > 0 {
		return n, nil
	}
	return 0, zr.err
}

// verifyFooter reads the 4-byte little-endian CRC-32 and 4-byte
// little-endian ISIZE that follow the DEFLATE body (spec section 4.6) and
// checks them against what was actually decompressed.
func (zr *Reader) verifyFooter() (err error) {
	defer errs.Recover(&err)

	var ftr [8]byte
	readFull(zr.r, ftr[:])
	wantCRC := uint32(ftr[0]) | uint32(ftr[1])<<8 | uint32(ftr[2])<<16 | uint32(ftr[3])<<24
	wantSize := uint32(ftr[4]) | uint32(ftr[5])<<8 | uint32(ftr[6])<<16 | uint32(ftr[7])<<24
	if wantCRC != zr.crc || wantSize != zr.size {
		panic(ErrChecksum)
	}
	return nil
}

// readFull fills buf entirely from r, panicking errUnexpectedEOF on any
// short read (including a clean io.EOF, which mid-field is a truncation).
func readFull(r io.Reader, buf []byte) {
	_, err := io.ReadFull(r, buf)
	if err != nil {
		panic(errUnexpectedEOF)
	}
}

// readCString reads bytes up to and including a NUL terminator and returns
// the bytes before it as a string, mapping each byte directly to the code
// point of the same value per RFC 1952's ISO 8859-1 encoding for FNAME and
// FCOMMENT.
func readCString(r io.ByteReader) string {
	var b []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			panic(errUnexpectedEOF)
		}
		if c == 0 {
			break
		}
		b = append(b, c)
	}
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}
