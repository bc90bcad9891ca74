// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import (
	"errors"
	"fmt"

	"github.com/spiral-foundation/spiral/lib/bitbuf"
)

// ErrUnexpectedEOF mirrors the bit reader's end-of-input error so
// callers can match decode truncation without importing bitbuf.
var ErrUnexpectedEOF = bitbuf.ErrUnexpectedEOF

// ErrCorrupt indicates a malformed payload: inflate failure,
// decompressed-size mismatch, or framing that contradicts itself.
var ErrCorrupt = errors.New("op: corrupt payload")

// ErrRecursionLimit indicates that nested objects exceeded the
// configured recursion limit.
var ErrRecursionLimit = errors.New("op: recursion limit exceeded")

// ErrNullRoot indicates that the root object of a decode was a null
// reference.
var ErrNullRoot = errors.New("op: root object must not be null")

// ErrBadConfig indicates a contradictory serializer configuration.
var ErrBadConfig = errors.New("op: bad serializer configuration")

// UnknownTypeError reports an object type hash absent from the type
// list.
type UnknownTypeError struct {
	Hash uint32
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("op: unknown type hash %d", e.Hash)
}

// UnknownPropertyError reports a property identifier hash absent from
// the containing type's property table.
type UnknownPropertyError struct {
	Hash uint32
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("op: unknown property hash %d", e.Hash)
}

// InvalidEnumError reports an enum value with no entry in the
// property's option table.
type InvalidEnumError struct {
	Value int64
	Type  string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("op: value %d is not an option of %s", e.Value, e.Type)
}
