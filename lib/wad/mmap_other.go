// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package wad

import "os"

// mmapFile falls back to a plain heap read on platforms without the
// Unix mmap semantics the mapped path relies on (the mapping must
// stay valid after its descriptor closes).
func mmapFile(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, nil, nil
}
