// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"bytes"
	"io"
)

// Decompress inflates the entirety of src as a raw DEFLATE stream and
// returns the decompressed bytes.
func Decompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := DecompressTo(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressTo inflates the entirety of src as a raw DEFLATE stream,
// writing the decompressed bytes to dst.
func DecompressTo(dst io.Writer, src []byte) error {
	fr := NewReader(bytes.NewReader(src))
	_, err := io.Copy(dst, fr)
	if err != nil {
		return err
	}
	return nil
}
