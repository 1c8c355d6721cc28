// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

// dictDecoder is History: a sliding window of the most recently emitted
// bytes, sized exactly maxHistSize (32768). It is grounded on the
// standard library's compress/flate dictDecoder (the same lineage this
// package's own author wrote), adapted to the spec's explicit "cursor
// plus saturating count" framing rather than the stdlib's wrPos/rdPos
// pair: this one never needs to track a separate read cursor, since
// BlockDecoder drains it through a sink on every call rather than
// buffering output for a later Read.
type dictDecoder struct {
	hist  [maxHistSize]byte
	cur   int // Next write position, in [0, maxHistSize)
	count int // Bytes ever written, saturating at maxHistSize
}

func (dd *dictDecoder) Init() {
	*dd = dictDecoder{}
}

// HistSize reports how many bytes of history are currently addressable.
func (dd *dictDecoder) HistSize() int {
	return dd.count
}

// WriteByte appends a single literal byte to the window and to sink.
func (dd *dictDecoder) WriteByte(b byte, sink []byte) []byte {
	dd.hist[dd.cur] = b
	dd.cur = (dd.cur + 1) % maxHistSize
	if dd.count < maxHistSize {
		dd.count++
	}
	return append(sink, b)
}

// Copy performs a back-reference copy of length from distance dist,
// appending the copied bytes to sink, and returns the result. Each byte
// is read immediately before it is written back into the window, which is
// what makes an overlapping run (len > dist) correct: later reads observe
// earlier bytes this same call just wrote.
//
// Preconditions (spec section 4.3): length >= 0, 1 <= dist <=
// min(HistSize(), maxHistSize). A violation is a bug in the caller --
// BlockDecoder is responsible for ensuring a malformed stream's distance
// is rejected with a format error before ever reaching here -- so it panics
// invalidCopyError rather than returning a normal error.
func (dd *dictDecoder) Copy(dist, length int, sink []byte) []byte {
	if length < 0 || dist < 1 || dist > maxHistSize || dist > dd.count {
		panic(invalidCopyError{dist: dist, histSize: dd.count})
	}
	for i := 0; i < length; i++ {
		srcPos := (dd.cur - dist + maxHistSize) % maxHistSize
		b := dd.hist[srcPos]
		sink = dd.WriteByte(b, sink)
	}
	return sink
}
