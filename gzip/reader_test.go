// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// encode produces a conformant gzip stream using the standard library's
// writer, since this package implements no encoder of its own.
func encode(t *testing.T, name, comment string, mtime time.Time, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		t.Fatalf("NewWriterLevel error: %v", err)
	}
	zw.Name = name
	zw.Comment = comment
	zw.ModTime = mtime
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	return buf.Bytes()
}

func TestReaderRoundTrip(t *testing.T) {
	vectors := []struct {
		desc    string
		name    string
		comment string
		mtime   time.Time
		data    []byte
	}{
		{desc: "empty", data: nil},
		{desc: "short literal", data: []byte("hello, world")},
		{desc: "repetitive", data: bytes.Repeat([]byte("abcabcabcabc"), 4096)},
		{desc: "with name and comment", name: "greeting.txt", comment: "a friendly note",
			mtime: time.Unix(1000000000, 0), data: []byte("hi there")},
	}
	for _, v := range vectors {
		t.Run(v.desc, func(t *testing.T) {
			enc := encode(t, v.name, v.comment, v.mtime, v.data)
			zr, err := NewReader(bytes.NewReader(enc))
			if err != nil {
				t.Fatalf("NewReader error: %v", err)
			}
			got, err := ioutil.ReadAll(zr)
			if err != nil {
				t.Fatalf("ReadAll error: %v", err)
			}
			if !bytes.Equal(got, v.data) && !(len(got) == 0 && len(v.data) == 0) {
				t.Errorf("output mismatch:\ngot  %x\nwant %x", got, v.data)
			}
			if zr.Name != v.name {
				t.Errorf("Name = %q, want %q", zr.Name, v.name)
			}
			if zr.Comment != v.comment {
				t.Errorf("Comment = %q, want %q", zr.Comment, v.comment)
			}
			if !v.mtime.IsZero() && !zr.ModTime.Equal(v.mtime) {
				t.Errorf("ModTime = %v, want %v", zr.ModTime, v.mtime)
			}
		})
	}
}

func TestReaderHeaderErrors(t *testing.T) {
	good := encode(t, "", "", time.Time{}, []byte("payload"))

	vectors := []struct {
		desc    string
		mangle  func([]byte) []byte
		wantErr error
	}{{
		desc: "bad magic",
		mangle: func(b []byte) []byte {
			b = append([]byte(nil), b...)
			b[0] = 0x00
			return b
		},
		wantErr: ErrBadMagic,
	}, {
		desc: "unsupported method",
		mangle: func(b []byte) []byte {
			b = append([]byte(nil), b...)
			b[2] = 0
			return b
		},
		wantErr: ErrUnsupportedMethod,
	}, {
		desc: "reserved flag bit set",
		mangle: func(b []byte) []byte {
			b = append([]byte(nil), b...)
			b[3] |= 0x20
			return b
		},
		wantErr: ErrReservedFlag,
	}, {
		desc: "truncated header",
		mangle: func(b []byte) []byte {
			return b[:5]
		},
		wantErr: errUnexpectedEOF,
	}}

	for _, v := range vectors {
		t.Run(v.desc, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(v.mangle(good)))
			if err != v.wantErr {
				t.Errorf("error = %v, want %v", err, v.wantErr)
			}
		})
	}
}

func TestReaderFooterMismatch(t *testing.T) {
	enc := encode(t, "", "", time.Time{}, []byte("some payload data"))
	corrupt := append([]byte(nil), enc...)
	corrupt[len(corrupt)-1] ^= 0xff // Flip every bit of the last ISIZE byte.

	zr, err := NewReader(bytes.NewReader(corrupt))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	if _, err := ioutil.ReadAll(zr); err != ErrChecksum {
		t.Errorf("error = %v, want %v", err, ErrChecksum)
	}
}

func TestReaderExtraField(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Extra = []byte("side channel data")
	if _, err := zw.Write([]byte("body")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	zr, err := NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	got, err := ioutil.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if diff := cmp.Diff([]byte("body"), got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte("side channel data"), zr.Extra); diff != "" {
		t.Errorf("Extra mismatch (-want +got):\n%s", diff)
	}
}
