// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import "hash/crc32"

// updateCRC32 extends the running checksum crc by the bytes in p, using the
// same IEEE (reflected 0xedb88320) polynomial and table the teacher's own
// bzip2 package pulls from the standard library.
func updateCRC32(crc uint32, p []byte) uint32 {
	return crc32.Update(crc, crc32.IEEETable, p)
}
