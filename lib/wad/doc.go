// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

// Package wad reads KIWAD archives: the game's magic-prefixed
// container of offset/size/CRC journal records followed by a payload
// region.
//
// An archive is backed either by a heap buffer or a read-only memory
// mapping and is immutable after opening, so it is safe to share
// between goroutines; iteration yields fresh borrows. Every entry's
// CRC-32 is verified against its on-disk bytes when the archive is
// opened, so all data handed out afterwards has passed integrity
// checking. Entries that are all zeroes on disk are placeholders left
// by an interrupted patch; they are flagged unpatched rather than
// rejected, and consumers normally filter them.
//
// Compressed entries inflate through zlib into fresh buffers (or a
// reusable scratch buffer on the direct deserialization path), while
// stored entries borrow from the archive backing without a copy.
package wad
