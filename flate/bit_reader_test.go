// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dsnet/deflate/internal/testutil"
)

// TestBitReaderShortRead checks that fill always panics the package's own
// errUnexpectedEOF once the underlying source runs dry, regardless of what
// error that source actually reported.
func TestBitReaderShortRead(t *testing.T) {
	injected := errors.New("injected read failure")
	br := &bitReader{}
	br.Init(&testutil.BuggyReader{
		R:   bytes.NewReader(bytes.Repeat([]byte{0xff}, 10)),
		N:   2, // Only 2 of the 10 bytes are ever handed back
		Err: injected,
	})

	var got interface{}
	func() {
		defer func() { got = recover() }()
		br.fill(24) // Needs 3 bytes; only 2 are available before the error
	}()

	if got != errUnexpectedEOF {
		t.Errorf("fill panic = %v, want %v", got, errUnexpectedEOF)
	}
}
