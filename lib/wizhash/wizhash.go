// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package wizhash

// Djb2 computes the djb2 dictionary hash of data.
//
// State starts at 5381 and each input byte b folds in as
// state = state*33 ^ b with wrapping 32-bit arithmetic. The input is
// treated as raw bytes with no normalization, so the result is
// independent of text encoding concerns.
func Djb2(data []byte) uint32 {
	state := uint32(5381)
	for _, b := range data {
		state = state*33 ^ uint32(b)
	}
	return state
}

// Djb2String is Djb2 over the UTF-8 bytes of s.
func Djb2String(s string) uint32 {
	return Djb2([]byte(s))
}

// StringID computes the game's name hash of data.
//
// The input is case-folded to lowercase ASCII, then each byte c
// accumulates as state = state*33 + (c - 32) modulo 2^32. Property
// identifiers and type hashes on the wire are produced by this exact
// algorithm, so it must not be altered.
func StringID(data []byte) uint32 {
	var state uint32
	for _, c := range data {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		state = state*33 + uint32(c) - 32
	}
	return state
}

// StringIDString is StringID over the UTF-8 bytes of s.
func StringIDString(s string) uint32 {
	return StringID([]byte(s))
}

// TypeHash returns the type hash for a class name as the game computes
// it: StringID over the fully qualified name including the "class "
// prefix. Names already carrying the prefix are hashed as-is.
func TypeHash(name string) uint32 {
	if len(name) >= 6 && name[:6] == "class " {
		return StringIDString(name)
	}
	return StringIDString("class " + name)
}
