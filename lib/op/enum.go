// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import (
	"github.com/spiral-foundation/spiral/lib/types"
)

// readEnum reads an enum or bitflag property.
//
// Plain enums are a 32-bit integer on the wire; under human-readable
// rendering the integer is resolved to its option name, and a value
// missing from the option table fails unless unknown-skipping is on.
//
// Bitflag properties (BITS) read their declared bit width as an
// integer, except under human-readable rendering where the wire
// carries a length-prefixed " | "-joined name list; an empty string
// decodes to mask zero.
func (ds *decodeState) readEnum(prop *types.Property) (Value, error) {
	human := ds.opts.Flags.Has(HumanReadableEnums)

	if prop.Flags.Has(types.FlagBits) {
		if human {
			raw, err := ds.readString()
			if err != nil {
				return Value{}, err
			}
			if len(raw) == 0 {
				return Enum(0), nil
			}
			if prop.Enum == nil {
				return Value{}, &InvalidEnumError{Value: 0, Type: prop.Type}
			}
			mask, err := prop.Enum.BitValue(string(raw))
			if err != nil {
				if ds.opts.SkipUnknownTypes {
					return Enum(0), nil
				}
				return Value{}, &InvalidEnumError{Value: mask, Type: prop.Type}
			}
			return EnumName(string(raw), mask), nil
		}

		width := uint(32)
		if w, _, ok := bitIntWidth(prop.Type); ok {
			width = w
		}
		v, err := ds.r.ReadBits(width)
		if err != nil {
			return Value{}, err
		}
		return Enum(int64(v)), nil
	}

	raw, err := ds.r.ReadBits(32)
	if err != nil {
		return Value{}, err
	}
	value := int64(int32(uint32(raw)))

	if !human {
		return Enum(value), nil
	}
	if prop.Enum != nil {
		if name, ok := prop.Enum.Name(value); ok {
			return EnumName(name, value), nil
		}
	}
	if ds.opts.SkipUnknownTypes {
		return Enum(value), nil
	}
	return Value{}, &InvalidEnumError{Value: value, Type: prop.Type}
}
