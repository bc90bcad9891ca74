// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import (
	"fmt"
	"strings"

	"github.com/spiral-foundation/spiral/lib/bitbuf"
	"github.com/spiral-foundation/spiral/lib/types"
	"github.com/spiral-foundation/spiral/lib/wizhash"
)

// decodeState is the mutable state of one top-level decode: the bit
// cursor, the effective options (stateful streams may override the
// configured flags), and the recursion depth.
type decodeState struct {
	opts  Options
	types *types.TypeList
	r     *bitbuf.Reader
	depth uint32
}

// enter increments the recursion depth, failing once the configured
// limit is exceeded.
func (ds *decodeState) enter() error {
	ds.depth++
	if ds.depth > ds.opts.RecursionLimit {
		return ErrRecursionLimit
	}
	return nil
}

func (ds *decodeState) leave() {
	ds.depth--
}

// readObject reads one non-shallow object frame: a u32 type hash, a
// bit-length prefix, then self-identifying property frames up to the
// declared end. nullable reports whether a zero hash is legal in this
// slot.
//
// The on-wire length value counts the 32 bits of its own u32 field,
// so the object body spans length-32 bits past the prefix. Fields
// beyond the declared layout are skipped by seeking to the recorded
// end, which is what makes forward compatibility work.
func (ds *decodeState) readObject(nullable bool) (Value, error) {
	ds.r.Align()

	hash, err := ds.r.Uint32()
	if err != nil {
		return Value{}, err
	}
	if hash == 0 {
		if !nullable {
			return Value{}, fmt.Errorf("%w: null object in non-nullable slot", ErrCorrupt)
		}
		return Null(), nil
	}

	def, lookupErr := ds.types.Lookup(hash)
	if lookupErr != nil {
		if !ds.opts.SkipUnknownTypes {
			return Value{}, &UnknownTypeError{Hash: hash}
		}
		// Recovery: consume exactly the declared span and synthesize
		// an empty object carrying the unknown hash.
		contentBits, err := ds.readObjectLength()
		if err != nil {
			return Value{}, err
		}
		if err := ds.skipBits(contentBits); err != nil {
			return Value{}, err
		}
		return ObjectOf(NewObject(hash)), nil
	}

	contentBits, err := ds.readObjectLength()
	if err != nil {
		return Value{}, err
	}
	end := ds.r.BitPos() + contentBits

	if err := ds.enter(); err != nil {
		return Value{}, err
	}
	defer ds.leave()

	obj := NewObject(hash)
	if ds.opts.Djb2Only {
		obj.TypeHash = wizhash.Djb2String(def.Name)
	}

	for ds.r.BitPos() < end {
		ds.r.Align()
		if ds.r.BitPos() >= end {
			break
		}

		propHash, err := ds.r.Uint32()
		if err != nil {
			return Value{}, err
		}
		valueBits, err := ds.r.Uint32()
		if err != nil {
			return Value{}, err
		}

		prop, ok := def.Property(propHash)
		if !ok || !ds.opts.wireEligible(prop) {
			if !ds.opts.SkipUnknownTypes {
				return Value{}, &UnknownPropertyError{Hash: propHash}
			}
			if ds.r.BitPos()+uint64(valueBits) > end {
				return Value{}, fmt.Errorf("%w: skipped property frame of %d bits overruns its object",
					ErrCorrupt, valueBits)
			}
			if err := ds.skipBits(uint64(valueBits)); err != nil {
				return Value{}, err
			}
			continue
		}

		start := ds.r.BitPos()
		value, err := ds.readProperty(prop)
		if err != nil {
			return Value{}, fmt.Errorf("property %q of %s: %w", prop.Name, def.Name, err)
		}
		if consumed := ds.r.BitPos() - start; consumed != uint64(valueBits) {
			return Value{}, fmt.Errorf("%w: property %q declared %d bits but consumed %d",
				ErrCorrupt, prop.Name, valueBits, consumed)
		}
		obj.Set(prop.Name, value)
	}

	// Delta-ignored properties consume no wire bits but are part of
	// the decoded object, carrying their schema defaults.
	for i := range def.Properties {
		prop := &def.Properties[i]
		if ds.opts.wireEligible(prop) && prop.Flags.Has(types.FlagDeltaIgnore) {
			if _, present := obj.Get(prop.Name); !present {
				obj.Set(prop.Name, defaultValue(prop))
			}
		}
	}

	if err := ds.r.SeekBit(end); err != nil {
		return Value{}, err
	}
	return ObjectOf(obj), nil
}

// readShallowObject reads an object with inline framing: no type
// hash, no length prefix, properties in schema order with delta bits.
func (ds *decodeState) readShallowObject(def *types.TypeDef) (Value, error) {
	if err := ds.enter(); err != nil {
		return Value{}, err
	}
	defer ds.leave()

	obj := NewObject(def.Hash)
	if ds.opts.Djb2Only {
		obj.TypeHash = wizhash.Djb2String(def.Name)
	}

	for i := range def.Properties {
		prop := &def.Properties[i]
		if !ds.opts.wireEligible(prop) {
			continue
		}

		// DELTA_IGNORE: zero wire bits, default in the result.
		if prop.Flags.Has(types.FlagDeltaIgnore) {
			obj.Set(prop.Name, defaultValue(prop))
			continue
		}

		// DELTA_ENCODE: one marker bit; zero means the value equals
		// the schema default and nothing further follows.
		if prop.Flags.Has(types.FlagDeltaEncode) && !ds.opts.Flags.Has(ForbidDeltaEncode) {
			present, err := ds.r.ReadBool()
			if err != nil {
				return Value{}, err
			}
			if !present {
				obj.Set(prop.Name, defaultValue(prop))
				continue
			}
		}

		value, err := ds.readProperty(prop)
		if err != nil {
			return Value{}, fmt.Errorf("property %q of %s: %w", prop.Name, def.Name, err)
		}
		obj.Set(prop.Name, value)
	}

	return ObjectOf(obj), nil
}

// readProperty reads a property's value, honoring container-ness.
func (ds *decodeState) readProperty(prop *types.Property) (Value, error) {
	if !prop.IsList() {
		return ds.readValue(prop)
	}

	count, err := ds.readLength()
	if err != nil {
		return Value{}, err
	}
	if err := ds.enter(); err != nil {
		return Value{}, err
	}
	defer ds.leave()

	elements := make([]Value, 0, int(min(count, 4096)))
	for i := uint64(0); i < count; i++ {
		element, err := ds.readValue(prop)
		if err != nil {
			return Value{}, err
		}
		elements = append(elements, element)
	}
	return ListOf(elements), nil
}

// readValue reads a single value of the property's wire type.
func (ds *decodeState) readValue(prop *types.Property) (Value, error) {
	if prop.IsEnum() {
		return ds.readEnum(prop)
	}

	if value, ok, err := ds.readSimple(prop.Type); ok {
		return value, err
	}

	// Not simple data: a nested object.
	if ds.opts.Shallow {
		name := elementTypeName(prop)
		def, err := ds.types.LookupName(name)
		if err != nil {
			return Value{}, &UnknownTypeError{Hash: wizhash.TypeHash(name)}
		}
		return ds.readShallowObject(def)
	}
	return ds.readObject(prop.Flags.Has(types.FlagNullable))
}

// readObjectLength reads an object's bit-length prefix and returns
// the number of content bits following it. The encoded value counts a
// 32-bit length field regardless of how the prefix itself was
// encoded; values below 32 are malformed.
func (ds *decodeState) readObjectLength() (uint64, error) {
	length, err := ds.readLength()
	if err != nil {
		return 0, err
	}
	if length < 32 {
		return 0, fmt.Errorf("%w: object length %d is below the 32-bit floor", ErrCorrupt, length)
	}
	return length - 32, nil
}

// readLength reads a length prefix: a plain aligned u32, or under
// compact prefixes a marker bit choosing between a 7-bit and a 31-bit
// count.
func (ds *decodeState) readLength() (uint64, error) {
	if !ds.opts.Flags.Has(CompactLengthPrefixes) {
		ds.r.Align()
		v, err := ds.r.Uint32()
		return uint64(v), err
	}

	small, err := ds.r.ReadBool()
	if err != nil {
		return 0, err
	}
	if small {
		return ds.r.ReadBits(7)
	}
	return ds.r.ReadBits(31)
}

// skipBits consumes exactly count bits. Used by the skip-unknown
// recovery paths, which must never read past the end of the
// containing frame.
func (ds *decodeState) skipBits(count uint64) error {
	target := ds.r.BitPos() + count
	if target > ds.r.Len() {
		return ErrUnexpectedEOF
	}
	return ds.r.SeekBit(target)
}

// elementTypeName derives the nested-object type name from a
// property's declared type: pointer suffixes are dropped and
// smart-pointer wrappers unwrapped.
func elementTypeName(prop *types.Property) string {
	name := strings.TrimSuffix(strings.TrimSpace(prop.Type), "*")
	for _, wrapper := range []string{"class SharedPointer<", "class WeakPointer<", "class Ptr<"} {
		if strings.HasPrefix(name, wrapper) && strings.HasSuffix(name, ">") {
			name = strings.TrimSuffix(strings.TrimPrefix(name, wrapper), ">")
			name = strings.TrimSuffix(strings.TrimSpace(name), "*")
		}
	}
	return strings.TrimSpace(name)
}
