// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/spiral-foundation/spiral/lib/wizhash"
)

// jsonProperty is the schema JSON shape of one property.
type jsonProperty struct {
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	Flags       uint32                 `json:"flags"`
	Container   string                 `json:"container"`
	Hash        uint32                 `json:"hash"`
	Default     any                    `json:"default"`
	EnumOptions map[string]optionValue `json:"enum_options"`
}

// jsonTypeDef is the schema JSON shape of one type. Hash is a pointer
// so that its absence (v1 lists) is distinguishable from zero.
type jsonTypeDef struct {
	Hash       *uint32        `json:"hash"`
	Bases      []string       `json:"bases"`
	Properties []jsonProperty `json:"properties"`
}

// jsonDocument covers the enveloped v2 shape. Bare-mapping documents
// (both v1 and hash-carrying v2 dumps) are decoded directly into
// map[string]jsonTypeDef instead.
type jsonDocument struct {
	Version uint32                 `json:"version"`
	Classes map[string]jsonTypeDef `json:"classes"`
}

// Open parses a type list document from r. The v1 and v2 document
// shapes are auto-detected: types without an explicit hash get one
// computed from their name, while present hashes are always trusted
// and never recomputed.
func Open(r io.Reader) (*TypeList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading type list: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes parses a type list document from raw bytes. Comments and
// trailing commas are tolerated.
func OpenBytes(data []byte) (*TypeList, error) {
	classes, err := decodeDocument(jsonc.ToJSON(data))
	if err != nil {
		return nil, err
	}

	list := &TypeList{
		byHash: make(map[uint32]*TypeDef, len(classes)),
		byName: make(map[string]*TypeDef, len(classes)),
	}
	if err := list.insert(classes); err != nil {
		return nil, err
	}
	if err := list.flatten(); err != nil {
		return nil, err
	}
	return list, nil
}

// OpenFile parses a type list document from a file.
func OpenFile(path string) (*TypeList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening type list %s: %w", path, err)
	}
	list, err := OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing type list %s: %w", path, err)
	}
	return list, nil
}

// OpenMany parses and merges multiple type list files. A hash that
// appears in several files with differing definitions is a schema
// error; identical re-registrations are tolerated.
func OpenMany(paths ...string) (*TypeList, error) {
	merged := &TypeList{
		byHash: make(map[uint32]*TypeDef),
		byName: make(map[string]*TypeDef),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening type list %s: %w", path, err)
		}
		classes, err := decodeDocument(jsonc.ToJSON(data))
		if err != nil {
			return nil, fmt.Errorf("parsing type list %s: %w", path, err)
		}
		if err := merged.insert(classes); err != nil {
			return nil, fmt.Errorf("merging type list %s: %w", path, err)
		}
	}

	if err := merged.flatten(); err != nil {
		return nil, err
	}
	return merged, nil
}

// decodeDocument parses either document shape into a name-to-typedef
// mapping with hashes resolved.
func decodeDocument(data []byte) (map[string]jsonTypeDef, error) {
	// Try the enveloped shape first; its "version" key settles the
	// question immediately.
	var envelope jsonDocument
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Version != 0 {
		switch envelope.Version {
		case 2:
			if envelope.Classes == nil {
				return nil, fmt.Errorf("%w: v2 document missing classes", ErrSchema)
			}
			return envelope.Classes, nil
		default:
			return nil, fmt.Errorf("%w: unsupported type list version %d", ErrSchema, envelope.Version)
		}
	}

	// Bare mapping: v1 when hashes are absent, hash-carrying dump
	// otherwise. Both decode the same way; hash resolution happens
	// per type in insert.
	var classes map[string]jsonTypeDef
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return classes, nil
}

// insert converts JSON type definitions into registry entries.
func (l *TypeList) insert(classes map[string]jsonTypeDef) error {
	for name, raw := range classes {
		def := &TypeDef{
			Name:  name,
			Bases: raw.Bases,
			Own:   make([]Property, 0, len(raw.Properties)),
		}

		// v1 lists lack explicit hashes; compute from the name. An
		// explicit hash is trusted verbatim, never recomputed.
		if raw.Hash != nil {
			def.Hash = *raw.Hash
		} else {
			def.Hash = wizhash.StringIDString(name)
		}

		for _, rawProp := range raw.Properties {
			prop := Property{
				Name:      rawProp.Name,
				ID:        rawProp.Hash,
				Type:      rawProp.Type,
				Container: rawProp.Container,
				Flags:     PropertyFlags(rawProp.Flags),
				Default:   rawProp.Default,
			}
			if prop.ID == 0 {
				prop.ID = wizhash.Djb2String(prop.Name)
			}
			if len(rawProp.EnumOptions) > 0 {
				entries := make(map[string]int64, len(rawProp.EnumOptions))
				order := make([]string, 0, len(rawProp.EnumOptions))
				for optionName, optionVal := range rawProp.EnumOptions {
					entries[optionName] = int64(optionVal)
					order = append(order, optionName)
				}
				sortOptions(order, entries)
				prop.Enum = newEnumOptions(entries, order)
			}
			def.Own = append(def.Own, prop)
		}

		if existing, ok := l.byHash[def.Hash]; ok {
			if !sameDef(existing, def) {
				return fmt.Errorf("%w: conflicting definitions for hash %d (%q vs %q)",
					ErrSchema, def.Hash, existing.Name, def.Name)
			}
			continue
		}
		l.byHash[def.Hash] = def
		l.byName[def.Name] = def
	}
	return nil
}

// sortOptions orders option names by value, then name, so bitflag
// rendering is deterministic across loads.
func sortOptions(order []string, values map[string]int64) {
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := order[j-1], order[j]
			if values[a] < values[b] || (values[a] == values[b] && a <= b) {
				break
			}
			order[j-1], order[j] = b, a
		}
	}
}

// sameDef reports whether two definitions agree on everything a
// decoder cares about. Used to tolerate identical re-registration
// across merged files.
func sameDef(a, b *TypeDef) bool {
	if a.Name != b.Name || a.Hash != b.Hash || len(a.Own) != len(b.Own) || len(a.Bases) != len(b.Bases) {
		return false
	}
	for i := range a.Bases {
		if a.Bases[i] != b.Bases[i] {
			return false
		}
	}
	for i := range a.Own {
		pa, pb := &a.Own[i], &b.Own[i]
		if pa.Name != pb.Name || pa.ID != pb.ID || pa.Type != pb.Type ||
			pa.Container != pb.Container || pa.Flags != pb.Flags {
			return false
		}
	}
	return true
}
