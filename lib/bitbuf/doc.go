// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

// Package bitbuf provides bit-granular little-endian reading over an
// in-memory byte slice.
//
// Bit-packed serialization is common in the file formats Spiral works
// with: individual bits are read starting at the least significant bit
// of a byte, working towards the most significant. Multi-byte integer
// reads are little-endian and require byte alignment, which the reader
// establishes on demand.
//
// Positions are bit-granular throughout. All reads are bounds-checked
// and return [ErrUnexpectedEOF] instead of panicking; a failed read
// never advances the position.
package bitbuf
