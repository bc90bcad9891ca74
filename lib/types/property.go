// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PropertyFlags is the per-property configuration bitset from the
// schema. The numeric values are protocol constants taken from the
// game client's reflection dumps.
type PropertyFlags uint32

const (
	// FlagSave marks properties persisted in saved game state.
	FlagSave PropertyFlags = 1 << 0

	// FlagCopy marks properties duplicated on object clone.
	FlagCopy PropertyFlags = 1 << 1

	// FlagPublic marks properties visible to the serializer by
	// default.
	FlagPublic PropertyFlags = 1 << 2

	// FlagTransient marks runtime-only properties that never appear
	// on the wire unless a property mask opts them back in.
	FlagTransient PropertyFlags = 1 << 3

	// FlagPersist marks properties included in persistent object
	// state files.
	FlagPersist PropertyFlags = 1 << 5

	// FlagDeltaIgnore marks properties that consume no wire bits at
	// all; decoders emit the schema default for them.
	FlagDeltaIgnore PropertyFlags = 1 << 6

	// FlagDeltaEncode marks properties preceded by a one-bit
	// "differs from default" marker in shallow encodings.
	FlagDeltaEncode PropertyFlags = 1 << 8

	// FlagBlob marks opaque binary payload properties.
	FlagBlob PropertyFlags = 1 << 9

	// FlagNullable marks object-typed properties that may carry a
	// null reference (zero type hash) on the wire.
	FlagNullable PropertyFlags = 1 << 10

	// FlagBits marks integer properties whose wire width is the bit
	// count declared by the property type rather than the natural
	// width of the primitive.
	FlagBits PropertyFlags = 1 << 20

	// FlagEnum marks enum-valued properties with an option table.
	FlagEnum PropertyFlags = 1 << 21

	// FlagObjectID and FlagReferenceID are Pirate101-era identity
	// flags; they do not affect wire layout but appear in newer
	// schema dumps.
	FlagObjectID    PropertyFlags = 1 << 24
	FlagReferenceID PropertyFlags = 1 << 25
)

// Has reports whether all bits of mask are set.
func (f PropertyFlags) Has(mask PropertyFlags) bool {
	return f&mask == mask
}

// Property is one member of a type's property table.
type Property struct {
	// Name is the property's source name, e.g. "m_templateID".
	Name string

	// ID is the property's on-wire identifier hash.
	ID uint32

	// Type is the wire type descriptor: a primitive tag, a compound
	// leaf name, or a class reference ("class Foo").
	Type string

	// Container names the container kind for repeated properties
	// ("std::vector", "class SharedPointer", ...). Empty or "static"
	// means a single value.
	Container string

	// Flags is the property's configuration bitset.
	Flags PropertyFlags

	// Default is the schema default used for delta comparison. It is
	// the raw JSON-decoded value (string, float64, bool) or nil when
	// the schema declares none.
	Default any

	// Enum holds the option table for enum-valued properties, nil
	// otherwise.
	Enum *EnumOptions
}

// IsList reports whether the property is a container of its element
// type rather than a single value.
func (p *Property) IsList() bool {
	return p.Container != "" && p.Container != "static"
}

// IsEnum reports whether the property holds an enum or bitflag value.
func (p *Property) IsEnum() bool {
	return p.Flags&(FlagEnum|FlagBits) != 0 || strings.HasPrefix(p.Type, "enum")
}

// EnumOptions is a bidirectional mapping between enum option names
// and their integer values.
type EnumOptions struct {
	byName  map[string]int64
	byValue map[int64]string

	// names fixes the option order for deterministic bitflag
	// rendering; the loader sorts it by value, then name.
	names []string
}

// newEnumOptions builds an option table from schema entries.
func newEnumOptions(entries map[string]int64, order []string) *EnumOptions {
	options := &EnumOptions{
		byName:  make(map[string]int64, len(entries)),
		byValue: make(map[int64]string, len(entries)),
		names:   order,
	}
	for name, value := range entries {
		options.byName[name] = value
		options.byValue[value] = name
	}
	return options
}

// Value resolves an option name to its integer value.
func (e *EnumOptions) Value(name string) (int64, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// Name resolves an integer value to its option name.
func (e *EnumOptions) Name(value int64) (string, bool) {
	n, ok := e.byValue[value]
	return n, ok
}

// Names returns the option names in table order (by value, then name,
// for tables built by the loader).
func (e *EnumOptions) Names() []string {
	return e.names
}

// BitNames renders a bitmask as its " | "-joined option names, in the
// order of [EnumOptions.Names]. An empty mask renders as the empty
// string.
func (e *EnumOptions) BitNames(mask int64) string {
	var sb strings.Builder
	for _, name := range e.names {
		value := e.byName[name]
		if value != 0 && mask&value == value {
			if sb.Len() > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(name)
		}
	}
	return sb.String()
}

// BitValue parses a " | "-joined option name list back into a mask.
// An empty string yields zero.
func (e *EnumOptions) BitValue(names string) (int64, error) {
	if strings.TrimSpace(names) == "" {
		return 0, nil
	}
	var mask int64
	for _, part := range strings.Split(names, "|") {
		part = strings.TrimSpace(part)
		value, ok := e.byName[part]
		if !ok {
			return 0, fmt.Errorf("%w: unknown enum option %q", ErrSchema, part)
		}
		mask |= value
	}
	return mask, nil
}

// optionValue decodes a schema enum option value, which may be a JSON
// number or a numeric string (both occur in the wild, negatives
// included).
type optionValue int64

func (v *optionValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch value := raw.(type) {
	case float64:
		*v = optionValue(int64(value))
		return nil
	case string:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("enum option value %q is not an integer", value)
		}
		*v = optionValue(parsed)
		return nil
	default:
		return fmt.Errorf("enum option value must be a number or string, got %T", raw)
	}
}
