// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"fmt"
)

// ErrSchema indicates a malformed or contradictory type list.
var ErrSchema = errors.New("types: schema error")

// ErrNotFound indicates a lookup miss in the registry.
var ErrNotFound = errors.New("types: not found")

// TypeDef is one type definition in the registry.
type TypeDef struct {
	// Name is the canonical qualified name, e.g. "class WizardCharacter".
	Name string

	// Hash identifies the type on the wire.
	Hash uint32

	// Bases names the base-class chain, nearest first.
	Bases []string

	// Own is the property table declared directly on this type, in
	// schema order.
	Own []Property

	// Properties is the effective table after flattening the base
	// chain: base properties first (root-most base leading), then
	// Own. This is the serialization order and is materialized once
	// at load time.
	Properties []Property
}

// Property returns the effective property with the given identifier
// hash.
func (t *TypeDef) Property(id uint32) (*Property, bool) {
	for i := range t.Properties {
		if t.Properties[i].ID == id {
			return &t.Properties[i], true
		}
	}
	return nil, false
}

// PropertyNamed returns the effective property with the given name.
func (t *TypeDef) PropertyNamed(name string) (*Property, bool) {
	for i := range t.Properties {
		if t.Properties[i].Name == name {
			return &t.Properties[i], true
		}
	}
	return nil, false
}

// TypeList is the immutable registry of type definitions keyed by
// type hash. Build one with Open, OpenFile, or OpenMany.
type TypeList struct {
	byHash map[uint32]*TypeDef
	byName map[string]*TypeDef
}

// Len returns the number of registered types.
func (l *TypeList) Len() int {
	return len(l.byHash)
}

// Lookup returns the type definition for a hash.
func (l *TypeList) Lookup(hash uint32) (*TypeDef, error) {
	if def, ok := l.byHash[hash]; ok {
		return def, nil
	}
	return nil, fmt.Errorf("%w: type hash %d", ErrNotFound, hash)
}

// LookupName returns the type definition for a qualified name.
func (l *TypeList) LookupName(name string) (*TypeDef, error) {
	if def, ok := l.byName[name]; ok {
		return def, nil
	}
	return nil, fmt.Errorf("%w: type %q", ErrNotFound, name)
}

// NameFor returns the canonical name for a type hash.
func (l *TypeList) NameFor(hash uint32) (string, error) {
	def, err := l.Lookup(hash)
	if err != nil {
		return "", err
	}
	return def.Name, nil
}

// EnumOptions returns the option table of the named property on the
// given type.
func (l *TypeList) EnumOptions(typeHash uint32, property string) (*EnumOptions, error) {
	def, err := l.Lookup(typeHash)
	if err != nil {
		return nil, err
	}
	prop, ok := def.PropertyNamed(property)
	if !ok {
		return nil, fmt.Errorf("%w: property %q on type %q", ErrNotFound, property, def.Name)
	}
	if prop.Enum == nil {
		return nil, fmt.Errorf("%w: property %q on type %q has no enum options", ErrNotFound, property, def.Name)
	}
	return prop.Enum, nil
}

// flatten materializes every type's effective property table from its
// base-class chain. Called once after loading (and again after each
// merge) so that decoders never walk chains per property.
func (l *TypeList) flatten() error {
	for _, def := range l.byHash {
		flattened, err := l.flattenOne(def, make(map[string]bool))
		if err != nil {
			return err
		}

		seen := make(map[uint32]string, len(flattened))
		for i := range flattened {
			p := &flattened[i]
			if previous, dup := seen[p.ID]; dup {
				return fmt.Errorf("%w: type %q has duplicate property hash %d (%q and %q)",
					ErrSchema, def.Name, p.ID, previous, p.Name)
			}
			seen[p.ID] = p.Name
		}
		def.Properties = flattened
	}
	return nil
}

// flattenOne walks def's base chain depth-first, root-most base
// first, collecting properties. visiting guards against base cycles.
func (l *TypeList) flattenOne(def *TypeDef, visiting map[string]bool) ([]Property, error) {
	if visiting[def.Name] {
		return nil, fmt.Errorf("%w: base-class cycle through %q", ErrSchema, def.Name)
	}
	visiting[def.Name] = true
	defer delete(visiting, def.Name)

	var out []Property
	for _, base := range def.Bases {
		baseDef, ok := l.byName[base]
		if !ok {
			// Bases absent from the dump contribute no properties;
			// the game strips empty bases from some lists.
			continue
		}
		inherited, err := l.flattenOne(baseDef, visiting)
		if err != nil {
			return nil, err
		}
		out = append(out, inherited...)
	}
	return append(out, def.Own...), nil
}
