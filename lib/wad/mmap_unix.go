// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package wad

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps path read-only and returns the mapping plus its
// release function. The file descriptor is closed before returning:
// POSIX keeps an mmap region valid after the descriptor closes, so
// holding the handle open would only pin a resource nobody uses.
func mmapFile(path string) ([]byte, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat: %w", err)
	}
	size := info.Size()
	if size == 0 {
		// Zero-length mappings are invalid; an empty file cannot be
		// a well-formed archive anyway, so hand the parser an empty
		// buffer and let it reject the magic.
		return []byte{}, nil, nil
	}
	if size != int64(int(size)) {
		return nil, nil, fmt.Errorf("file of %d bytes exceeds the addressable size", size)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap: %w", err)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
