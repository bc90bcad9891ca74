// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package wad

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Inflater decompresses zlib-compressed archive entries into an
// internal scratch buffer whose allocation is reused across calls.
// The caveat of the reuse is that only the most recent result is
// valid; callers keeping data across decompressions must copy it.
type Inflater struct {
	scratch []byte
}

// Decompress inflates data, which must decompress to exactly size
// bytes; any mismatch is a corruption error. The returned slice
// aliases the scratch buffer.
func (inf *Inflater) Decompress(data []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative decompressed size %d", ErrCorrupt, size)
	}

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: opening zlib stream: %v", ErrCorrupt, err)
	}
	defer zr.Close()

	if cap(inf.scratch) < size {
		inf.scratch = make([]byte, size)
	}
	inf.scratch = inf.scratch[:size]

	if _, err := io.ReadFull(zr, inf.scratch); err != nil {
		return nil, fmt.Errorf("%w: inflating %d bytes: %v", ErrCorrupt, size, err)
	}

	// The stream must not inflate past the declared size.
	var probe [1]byte
	if n, _ := zr.Read(probe[:]); n != 0 {
		return nil, fmt.Errorf("%w: inflated size exceeds declared %d", ErrCorrupt, size)
	}
	return inf.scratch, nil
}
