// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"bytes"
	"io"
)

// Decompress parses src as a gzip stream and returns the decompressed
// bytes, having verified the trailing CRC-32 and ISIZE.
func Decompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := DecompressTo(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressTo parses src as a gzip stream, writing the decompressed bytes
// to dst.
func DecompressTo(dst io.Writer, src []byte) error {
	zr, err := NewReader(bytes.NewReader(src))
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, zr)
	return err
}
