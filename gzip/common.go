// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package gzip implements the gzip compressed file format, described in
// RFC 1952. Only decompression is provided; there is no compressor here.
// The DEFLATE body is delegated to github.com/dsnet/deflate/flate.
package gzip

const (
	magic1        = 0x1f
	magic2        = 0x8b
	deflateMethod = 8

	flagText     = 1 << 0
	flagHCRC     = 1 << 1
	flagExtra    = 1 << 2
	flagName     = 1 << 3
	flagComment  = 1 << 4
	flagReserved = 0x07 << 5
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "gzip: " + string(e) }

var (
	// ErrBadMagic reports that the first two header bytes were not 0x1f 0x8b.
	ErrBadMagic error = Error("invalid header, bad magic bytes")

	// ErrUnsupportedMethod reports a compression method byte other than 8
	// (deflate), the only method RFC 1952 currently defines.
	ErrUnsupportedMethod error = Error("unsupported compression method")

	// ErrReservedFlag reports a header flags byte with a reserved bit set
	// (bits 5-7).
	ErrReservedFlag error = Error("invalid header, reserved flag bits set")

	// ErrChecksum reports a footer CRC-32 or ISIZE that does not match the
	// bytes actually decompressed.
	ErrChecksum error = Error("checksum mismatch")
)

// errUnexpectedEOF reports the byte source running dry mid-header,
// mid-extra-field, or mid-footer -- a truncation, not a format error.
var errUnexpectedEOF error = Error("unexpected end of stream")
