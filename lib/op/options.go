// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import (
	"github.com/spiral-foundation/spiral/lib/types"
)

// Flags is the serializer configuration bitset. The bit positions are
// protocol constants shared with the game client.
type Flags uint32

const (
	// StatefulFlags indicates that the serializer configuration is
	// part of the stream: each top-level payload begins with a u32 of
	// flag bits that apply for that decode only.
	StatefulFlags Flags = 1 << 0

	// CompactLengthPrefixes compresses small length prefixes: one
	// marker bit selects between a 7-bit and a 31-bit count.
	CompactLengthPrefixes Flags = 1 << 1

	// HumanReadableEnums renders enum values through their option
	// tables as symbolic names instead of raw integers.
	HumanReadableEnums Flags = 1 << 2

	// WithCompression wraps the serialized state in a zlib frame
	// preceded by a u32 decompressed-length header.
	WithCompression Flags = 1 << 3

	// ForbidDeltaEncode disables delta-encoding bits: every property
	// value is present on the wire regardless of DELTA_ENCODE.
	ForbidDeltaEncode Flags = 1 << 4
)

// Has reports whether all bits of mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Options configures a [Serializer].
type Options struct {
	// Flags selects the encoding dialect.
	Flags Flags

	// PropertyMask gates which properties exist on the wire: a
	// property is considered only when all mask bits are present in
	// its flags. Independently of the mask, TRANSIENT properties are
	// excluded unless the mask itself carries the TRANSIENT bit.
	PropertyMask types.PropertyFlags

	// Shallow selects inline framing: nested objects are read as
	// typed fields of the current frame with no per-object type hash,
	// and delta-encoding bits are meaningful.
	Shallow bool

	// ManualCompression indicates the caller handles the zlib frame
	// itself; the serializer then decodes WithCompression payloads
	// as already inflated.
	ManualCompression bool

	// RecursionLimit bounds nested-object depth.
	RecursionLimit uint32

	// SkipUnknownTypes recovers from unknown object hashes and
	// property identifiers by consuming their declared lengths.
	SkipUnknownTypes bool

	// Djb2Only hashes type names with djb2 instead of the StringID
	// algorithm. Used by Pirate101 data.
	Djb2Only bool
}

// DefaultOptions returns the configuration used for typical game
// files: public properties only, shallow framing, and a generous
// recursion bound.
func DefaultOptions() Options {
	return Options{
		PropertyMask:   types.FlagPublic,
		Shallow:        true,
		RecursionLimit: 128,
	}
}

// wireEligible reports whether a property participates in the wire
// format under these options.
func (o *Options) wireEligible(p *types.Property) bool {
	if !p.Flags.Has(o.PropertyMask) {
		return false
	}
	if p.Flags.Has(types.FlagTransient) && !o.PropertyMask.Has(types.FlagTransient) {
		return false
	}
	return true
}
