// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/spiral-foundation/spiral/lib/bitbuf"
	"github.com/spiral-foundation/spiral/lib/types"
)

// Serializer decodes ObjectProperty payloads against a type list.
//
// A Serializer holds mutable scratch state across decodes (the
// inflate buffer is reused) and must not be shared between goroutines.
// Distinct serializers may share one immutable TypeList safely.
type Serializer struct {
	opts  Options
	types *types.TypeList

	// scratch backs inflated payloads; reused across decodes so
	// batch workloads do not reallocate per file.
	scratch []byte
}

// NewSerializer creates a serializer with the given configuration.
func NewSerializer(opts Options, list *types.TypeList) (*Serializer, error) {
	if opts.Shallow && opts.SkipUnknownTypes {
		return nil, fmt.Errorf("%w: cannot skip unknown types in shallow mode (no framing to skip by)", ErrBadConfig)
	}
	if list == nil {
		return nil, fmt.Errorf("%w: nil type list", ErrBadConfig)
	}
	return &Serializer{opts: opts, types: list}, nil
}

// Options returns the configured options.
func (s *Serializer) Options() Options { return s.opts }

// Types returns the type list the serializer decodes against.
func (s *Serializer) Types() *types.TypeList { return s.types }

// Deserialize decodes the root object of data, accepting any object
// type. Shallow payloads carry no root type hash, so shallow
// configurations must use [Serializer.DeserializeTyped] instead.
//
// Data wrapped in a BINd container must be stripped first; see
// [StripBind]. Unstripped input fails with an unknown-type error
// because the magic bytes are not a registered type hash.
func (s *Serializer) Deserialize(data []byte) (Value, error) {
	if s.opts.Shallow {
		return Value{}, fmt.Errorf("%w: shallow decode requires a root type, use DeserializeTyped", ErrBadConfig)
	}
	return s.decodeWith(s.opts, data, nil)
}

// DeserializeBind decodes a payload that was wrapped in a BINd
// container (already stripped; see [StripBind]). Game files under the
// BINd convention always use stateful flags and non-shallow framing,
// so those settings override the configured options for the decode.
func (s *Serializer) DeserializeBind(data []byte) (Value, error) {
	opts := s.opts
	opts.Flags |= StatefulFlags
	opts.Shallow = false
	return s.decodeWith(opts, data, nil)
}

// DeserializeTyped decodes the root object of data, expecting the
// given type. In shallow mode the expectation supplies the root
// layout; in non-shallow mode the wire hash must match it.
func (s *Serializer) DeserializeTyped(data []byte, typeHash uint32) (Value, error) {
	expect, err := s.types.Lookup(typeHash)
	if err != nil {
		return Value{}, &UnknownTypeError{Hash: typeHash}
	}
	return s.decodeWith(s.opts, data, expect)
}

// decodeWith runs one top-level decode. All mutable per-decode state
// (effective flags, recursion depth, the bit cursor) lives in the
// decodeState so nothing leaks between successive calls.
func (s *Serializer) decodeWith(opts Options, data []byte, expect *types.TypeDef) (Value, error) {
	// Stateful streams carry their flag configuration up front; it
	// replaces the configured flags for this decode only.
	if opts.Flags.Has(StatefulFlags) {
		if len(data) < 4 {
			return Value{}, fmt.Errorf("reading stateful flags: %w", ErrUnexpectedEOF)
		}
		opts.Flags = Flags(binary.LittleEndian.Uint32(data))
		data = data[4:]
	}

	if opts.Flags.Has(WithCompression) && !opts.ManualCompression {
		inflated, err := s.inflate(data)
		if err != nil {
			return Value{}, err
		}
		data = inflated
	}

	ds := &decodeState{
		opts:  opts,
		types: s.types,
		r:     bitbuf.NewReader(data),
	}

	var root Value
	var err error
	if opts.Shallow {
		root, err = ds.readShallowObject(expect)
	} else {
		root, err = ds.readObject(true)
	}
	if err != nil {
		return Value{}, err
	}
	if root.IsNull() {
		return Value{}, ErrNullRoot
	}
	if expect != nil && !opts.Shallow {
		if obj := root.Object(); obj != nil && obj.TypeHash != expect.Hash {
			return Value{}, fmt.Errorf("%w: decoded type hash %d, expected %d (%s)",
				ErrCorrupt, obj.TypeHash, expect.Hash, expect.Name)
		}
	}

	// Trailing bits and bytes after the root object are tolerated.
	ds.r.Align()
	return root, nil
}

// inflate unwraps the compression frame: a u32 little-endian
// decompressed length followed by a zlib stream covering the rest of
// the input. The scratch buffer is reused across calls.
func (s *Serializer) inflate(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("reading decompressed length: %w", ErrUnexpectedEOF)
	}
	size := binary.LittleEndian.Uint32(data)

	zr, err := zlib.NewReader(bytes.NewReader(data[4:]))
	if err != nil {
		return nil, fmt.Errorf("%w: opening zlib frame: %v", ErrCorrupt, err)
	}
	defer zr.Close()

	if uint64(cap(s.scratch)) < uint64(size) {
		s.scratch = make([]byte, size)
	}
	s.scratch = s.scratch[:size]

	n, err := io.ReadFull(zr, s.scratch)
	if err != nil {
		return nil, fmt.Errorf("%w: inflating payload: %v", ErrCorrupt, err)
	}
	// The frame must inflate to exactly the declared size.
	var probe [1]byte
	if extra, _ := zr.Read(probe[:]); extra != 0 {
		return nil, fmt.Errorf("%w: inflated size exceeds declared %d", ErrCorrupt, size)
	}
	return s.scratch[:n], nil
}
