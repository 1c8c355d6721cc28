// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"bytes"
	"compress/flate"
	"errors"
	"io/ioutil"
	"testing"

	"github.com/dsnet/deflate/internal/testutil"
)

// TestRoundTrip compresses a range of inputs with the standard library's
// own DEFLATE writer and checks that Reader reproduces them byte-for-byte,
// the same shape of test as the teacher's own flate_test.go.
func TestRoundTrip(t *testing.T) {
	prose := testutil.MustLoadFile("../testdata/text.txt")

	vectors := []struct {
		desc  string
		input []byte
	}{
		{desc: "empty", input: nil},
		{desc: "single byte", input: []byte("x")},
		{desc: "short literal run", input: []byte("the quick brown fox jumps over the lazy dog")},
		{desc: "prose", input: prose},
		{desc: "prose stretched past one window", input: testutil.ResizeData(prose, 1<<16)},
		{desc: "pseudo-random", input: testutil.NewRand(1).Bytes(1 << 15)},
		{desc: "zeros", input: make([]byte, 1<<14)},
	}

	for _, v := range vectors {
		t.Run(v.desc, func(t *testing.T) {
			var buf bytes.Buffer
			wr, err := flate.NewWriter(&buf, flate.BestCompression)
			if err != nil {
				t.Fatalf("flate.NewWriter error: %v", err)
			}
			if _, err := wr.Write(v.input); err != nil {
				t.Fatalf("Write error: %v", err)
			}
			if err := wr.Close(); err != nil {
				t.Fatalf("Close error: %v", err)
			}
			buf.WriteByte('\xff') // Canary: Reader must not consume past the stream

			rd := NewReader(&buf)
			output, err := ioutil.ReadAll(rd)
			if err != nil {
				t.Fatalf("ReadAll error: %v", err)
			}
			if !bytes.Equal(output, v.input) {
				t.Errorf("output mismatch:\ngot  %x\nwant %x", output, v.input)
			}
			if buf.Len() != 1 || buf.Bytes()[0] != '\xff' {
				t.Errorf("Reader over-consumed past the stream; canary byte lost")
			}
		})
	}
}

func TestDecompress(t *testing.T) {
	var buf bytes.Buffer
	wr, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter error: %v", err)
	}
	const want = "round trip via the package-level helper"
	if _, err := wr.Write([]byte(want)); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := wr.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	got, err := Decompress(buf.Bytes())
	if err != nil {
		t.Fatalf("Decompress error: %v", err)
	}
	if string(got) != want {
		t.Errorf("Decompress = %q, want %q", got, want)
	}
}

// TestDecompressToWriteError checks that DecompressTo surfaces whatever
// error the destination io.Writer returns, using testutil.BuggyWriter to
// inject a failure partway through the copy.
func TestDecompressToWriteError(t *testing.T) {
	var buf bytes.Buffer
	wr, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter error: %v", err)
	}
	if _, err := wr.Write(bytes.Repeat([]byte("a"), 100)); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := wr.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	wantErr := errors.New("injected write failure")
	bw := &testutil.BuggyWriter{W: ioutil.Discard, N: 10, Err: wantErr}
	if err := DecompressTo(bw, buf.Bytes()); err != wantErr {
		t.Errorf("DecompressTo error = %v, want %v", err, wantErr)
	}
}
