// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package wad

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/spiral-foundation/spiral/lib/op"
)

// Archive is a KIWAD archive loaded for reading. It is immutable
// after opening and safe to share between goroutines, except for
// [Archive.Deserialize], which reuses a scratch buffer and needs
// external synchronization (or one Archive handle per worker).
type Archive struct {
	entries map[string]*Entry
	paths   []string
	version uint32
	flags   uint8

	// data is the raw archive: a heap buffer or a memory mapping.
	data []byte

	// unmap releases a memory mapping; nil for heap archives.
	unmap func() error

	inflater Inflater
}

// Heap opens an archive by reading the whole file into memory. The
// file handle is closed before this returns. Preferred for small
// archives.
func Heap(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}
	return FromBytes(data)
}

// Mmap opens an archive through a read-only memory mapping. The file
// descriptor is closed immediately after mapping on platforms where
// the mapping survives the close (all Unix systems Spiral targets);
// elsewhere this falls back to a heap read. Preferred for large
// archives. Call [Archive.Close] to release the mapping.
func Mmap(path string) (*Archive, error) {
	data, unmap, err := mmapFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapping archive %s: %w", path, err)
	}

	archive, err := FromBytes(data)
	if err != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, err
	}
	archive.unmap = unmap
	return archive, nil
}

// FromBytes opens an archive over a caller-provided buffer. The
// archive borrows the buffer for its lifetime.
func FromBytes(data []byte) (*Archive, error) {
	h, entries, err := parseArchive(data)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for name := range entries {
		paths = append(paths, name)
	}
	sort.Strings(paths)

	return &Archive{
		entries: entries,
		paths:   paths,
		version: h.version,
		flags:   h.flags,
		data:    data,
	}, nil
}

// Close releases the memory mapping backing the archive, if any.
// Heap-backed archives need no cleanup and Close is a no-op.
func (a *Archive) Close() error {
	if a.unmap == nil {
		return nil
	}
	unmap := a.unmap
	a.unmap = nil
	a.data = nil
	return unmap()
}

// Version returns the archive format version.
func (a *Archive) Version() uint32 { return a.version }

// Flags returns the archive flags byte (zero for version 1 archives).
func (a *Archive) Flags() uint8 { return a.flags }

// Len returns the number of entries.
func (a *Archive) Len() int { return len(a.entries) }

// Contains reports whether the archive holds an entry at path.
func (a *Archive) Contains(path string) bool {
	_, ok := a.entries[path]
	return ok
}

// Entry returns the journal record for path.
func (a *Archive) Entry(path string) (*Entry, error) {
	e, ok := a.entries[path]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return e, nil
}

// Paths returns every entry path in sorted order. The slice is owned
// by the archive and must not be mutated.
func (a *Archive) Paths() []string { return a.paths }

// IterGlob returns the entry paths matching a UNIX glob pattern, in
// sorted order. `*` and `?` stay within a path segment, `**` crosses
// separators, and character classes are supported. An invalid pattern
// fails with ErrBadGlob.
func (a *Archive) IterGlob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadGlob, pattern)
	}

	var matches []string
	for _, path := range a.paths {
		// The pattern was validated above, so Match cannot fail.
		if ok, _ := doublestar.Match(pattern, path); ok {
			matches = append(matches, path)
		}
	}
	return matches, nil
}

// Get returns the contents of the entry at path. Stored entries
// borrow directly from the archive backing (do not mutate the
// result); compressed entries inflate into a fresh buffer. Unpatched
// placeholder entries return their raw zero bytes without an
// inflation attempt.
func (a *Archive) Get(path string) ([]byte, error) {
	e, err := a.Entry(path)
	if err != nil {
		return nil, err
	}
	return a.contents(e, nil)
}

// Deserialize decodes the entry at path directly into the caller's
// value model. Stored entries decode straight from the archive
// backing with no intermediate copy; compressed entries inflate into
// a scratch buffer that is reused across calls on this archive.
//
// Entries wrapped in a BINd container are detected and decoded under
// the game-file convention (stateful flags, non-shallow framing).
func (a *Archive) Deserialize(path string, s *op.Serializer) (op.Value, error) {
	e, err := a.Entry(path)
	if err != nil {
		return op.Value{}, err
	}

	raw, err := a.contents(e, &a.inflater)
	if err != nil {
		return op.Value{}, err
	}

	if stripped, bound := op.StripBind(raw); bound {
		return s.DeserializeBind(stripped)
	}
	return s.Deserialize(raw)
}

// contents extracts an entry's bytes. A non-nil inflater reuses its
// scratch buffer for decompression; otherwise a fresh buffer is
// allocated per call.
func (a *Archive) contents(e *Entry, inflater *Inflater) ([]byte, error) {
	span, err := entrySpan(a.data, e)
	if err != nil {
		return nil, err
	}
	if e.IsUnpatched || !e.Compressed {
		return span, nil
	}

	if inflater == nil {
		inflater = &Inflater{}
	}
	inflated, err := inflater.Decompress(span, int(e.UncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", e.Name, err)
	}
	return inflated, nil
}
