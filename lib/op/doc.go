// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

// Package op implements the game's ObjectProperty serialization
// system: a bit-stream, type-directed decoder that reconstructs a
// dynamically typed object tree from a compact binary payload, guided
// by a type list from lib/types.
//
// The decoder supports the encoding dialects selected by serializer
// flags: stateful flag headers, compact length prefixes, integer or
// human-readable enum rendering, an optional zlib compression frame,
// and a forbid-delta mode. Shallow and non-shallow object framing are
// both implemented, along with delta-encoded defaults, arbitrary-width
// packed integers, a recursion-depth guard, and a lenient recovery
// mode that skips unknown types and properties within their declared
// frames.
//
// Decoded values use a compact tagged representation ([Value]) sized
// for high-churn batch decoding: one machine word of scalar payload
// plus one boxed reference for the wide variants.
package op
