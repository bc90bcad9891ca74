// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/klauspost/compress/zlib"

	"github.com/spiral-foundation/spiral/lib/types"
)

// Schema flag values under test: PUBLIC=4, TRANSIENT=8, DELTA_IGNORE=64,
// DELTA_ENCODE=256, NULLABLE=1024, BITS=1<<20, ENUM=1<<21.

func mustTypeList(t *testing.T, document string) *types.TypeList {
	t.Helper()
	list, err := types.OpenBytes([]byte(document))
	if err != nil {
		t.Fatalf("parsing test schema: %v", err)
	}
	return list
}

func le32(values ...uint32) []byte {
	var buffer bytes.Buffer
	for _, v := range values {
		var word [4]byte
		binary.LittleEndian.PutUint32(word[:], v)
		buffer.Write(word[:])
	}
	return buffer.Bytes()
}

const minimalSchema = `{
	"version": 2,
	"classes": {
		"class A": {
			"hash": 1, "bases": [],
			"properties": [
				{"name": "x", "type": "unsigned int", "flags": 4, "hash": 2}
			]
		}
	}
}`

func newSerializer(t *testing.T, opts Options, schema string) *Serializer {
	t.Helper()
	s, err := NewSerializer(opts, mustTypeList(t, schema))
	if err != nil {
		t.Fatalf("NewSerializer failed: %v", err)
	}
	return s
}

func TestMinimalObject(t *testing.T) {
	// Type hash 1, object length 128 bits (including the 32-bit
	// length field), property frame: hash 2, 32 value bits, value 42.
	input := le32(1, 128, 2, 32, 42)

	opts := DefaultOptions()
	opts.Shallow = false
	s := newSerializer(t, opts, minimalSchema)

	value, err := s.Deserialize(input)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	obj := value.Object()
	if obj == nil {
		t.Fatal("decoded value is not an object")
	}
	if obj.TypeHash != 1 {
		t.Errorf("TypeHash = %d, want 1", obj.TypeHash)
	}
	x, ok := obj.Get("x")
	if !ok {
		t.Fatal("property x missing from decoded object")
	}
	if x.Kind() != KindUnsigned || x.Uint() != 42 {
		t.Errorf("x = kind %d value %d, want unsigned 42", x.Kind(), x.Uint())
	}
}

func TestMinimalObjectCompactLengths(t *testing.T) {
	// Same wire content with compact length prefixes. The object
	// length 128 does not fit the 7-bit form, so it takes the
	// 1+31-bit form: marker 0, then 128 shifted into bits 1..31.
	var input bytes.Buffer
	input.Write(le32(1))
	input.Write(le32(128 << 1))
	input.Write(le32(2, 32, 42))

	opts := DefaultOptions()
	opts.Shallow = false
	opts.Flags = CompactLengthPrefixes
	s := newSerializer(t, opts, minimalSchema)

	value, err := s.Deserialize(input.Bytes())
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	x, _ := value.Object().Get("x")
	if x.Uint() != 42 {
		t.Errorf("x = %d, want 42", x.Uint())
	}
}

func TestCompactStringPrefix(t *testing.T) {
	// "hi" under compact prefixes: marker bit 1 (small), 7-bit count
	// 2, realign, then the bytes. First byte = 1 | 2<<1 = 0x05.
	schema := `{
		"version": 2,
		"classes": {
			"class S": {
				"hash": 9, "bases": [],
				"properties": [{"name": "m_text", "type": "std::string", "flags": 4, "hash": 1}]
			}
		}
	}`

	opts := DefaultOptions()
	opts.Flags = CompactLengthPrefixes
	s := newSerializer(t, opts, schema)

	value, err := s.DeserializeTyped([]byte{0x05, 'h', 'i'}, 9)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	text, _ := value.Object().Get("m_text")
	if got := string(text.StringBytes()); got != "hi" {
		t.Errorf("m_text = %q, want \"hi\"", got)
	}
}

const deltaSchema = `{
	"version": 2,
	"classes": {
		"class D": {
			"hash": 3, "bases": [],
			"properties": [
				{"name": "x", "type": "unsigned int", "flags": 260, "hash": 2, "default": 7}
			]
		}
	}
}`

func TestShallowDeltaSkip(t *testing.T) {
	s := newSerializer(t, DefaultOptions(), deltaSchema)

	// A zero delta bit yields the schema default and consumes no
	// further bits for the property.
	value, err := s.DeserializeTyped([]byte{0x00}, 3)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	x, _ := value.Object().Get("x")
	if x.Kind() != KindUnsigned || x.Uint() != 7 {
		t.Errorf("x = kind %d value %d, want default 7", x.Kind(), x.Uint())
	}
}

func TestShallowDeltaPresent(t *testing.T) {
	s := newSerializer(t, DefaultOptions(), deltaSchema)

	// Delta bit 1: the value follows, byte-aligned.
	value, err := s.DeserializeTyped([]byte{0x01, 42, 0, 0, 0}, 3)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	x, _ := value.Object().Get("x")
	if x.Uint() != 42 {
		t.Errorf("x = %d, want 42", x.Uint())
	}
}

func TestForbidDeltaEncode(t *testing.T) {
	opts := DefaultOptions()
	opts.Flags = ForbidDeltaEncode
	s := newSerializer(t, opts, deltaSchema)

	// No delta bit at all: the value is always present.
	value, err := s.DeserializeTyped([]byte{42, 0, 0, 0}, 3)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	x, _ := value.Object().Get("x")
	if x.Uint() != 42 {
		t.Errorf("x = %d, want 42", x.Uint())
	}
}

const enumSchema = `{
	"version": 2,
	"classes": {
		"class H": {
			"hash": 5, "bases": [],
			"properties": [
				{
					"name": "m_school", "type": "enum SchoolType", "flags": 2097156, "hash": 4,
					"enum_options": {"RED": 0, "BLUE": 2}
				}
			]
		}
	}
}`

func TestHumanReadableEnum(t *testing.T) {
	opts := DefaultOptions()
	opts.Flags = HumanReadableEnums
	s := newSerializer(t, opts, enumSchema)

	value, err := s.DeserializeTyped(le32(2), 5)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	school, _ := value.Object().Get("m_school")
	if school.Kind() != KindEnumName || school.EnumName() != "BLUE" {
		t.Errorf("m_school = kind %d %q, want enum name BLUE", school.Kind(), school.EnumName())
	}
	if school.Int() != 2 {
		t.Errorf("m_school integer = %d, want 2", school.Int())
	}

	var invalidEnum *InvalidEnumError
	if _, err := s.DeserializeTyped(le32(3), 5); !errors.As(err, &invalidEnum) {
		t.Errorf("value 3 = %v, want InvalidEnumError", err)
	}
}

func TestIntegerEnumWithoutHumanReadable(t *testing.T) {
	s := newSerializer(t, DefaultOptions(), enumSchema)

	value, err := s.DeserializeTyped(le32(3), 5)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	school, _ := value.Object().Get("m_school")
	if school.Kind() != KindEnum || school.Int() != 3 {
		t.Errorf("m_school = kind %d value %d, want integral enum 3", school.Kind(), school.Int())
	}
}

func TestEmptyBitflagStringDecodesToZero(t *testing.T) {
	schema := `{
		"version": 2,
		"classes": {
			"class F": {
				"hash": 6, "bases": [],
				"properties": [
					{
						"name": "m_flags", "type": "unsigned int", "flags": 1048580, "hash": 4,
						"enum_options": {"A": 1, "B": 2}
					}
				]
			}
		}
	}`

	opts := DefaultOptions()
	opts.Flags = HumanReadableEnums
	s := newSerializer(t, opts, schema)

	// Length-prefixed string of length zero.
	value, err := s.DeserializeTyped(le32(0), 6)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	flags, _ := value.Object().Get("m_flags")
	if flags.Kind() != KindEnum || flags.Int() != 0 {
		t.Errorf("m_flags = kind %d value %d, want enum 0", flags.Kind(), flags.Int())
	}
}

func TestDeltaIgnoreEmitsDefaultAndConsumesNothing(t *testing.T) {
	schema := `{
		"version": 2,
		"classes": {
			"class I": {
				"hash": 7, "bases": [],
				"properties": [
					{"name": "m_cached", "type": "unsigned int", "flags": 68, "hash": 1, "default": 5},
					{"name": "m_live", "type": "unsigned int", "flags": 4, "hash": 2}
				]
			}
		}
	}`

	s := newSerializer(t, DefaultOptions(), schema)

	// Only m_live is on the wire; m_cached takes zero bits.
	value, err := s.DeserializeTyped(le32(42), 7)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	obj := value.Object()

	cached, ok := obj.Get("m_cached")
	if !ok {
		t.Fatal("delta-ignored property missing from decoded object")
	}
	if cached.Uint() != 5 {
		t.Errorf("m_cached = %d, want default 5", cached.Uint())
	}
	live, _ := obj.Get("m_live")
	if live.Uint() != 42 {
		t.Errorf("m_live = %d, want 42", live.Uint())
	}
}

func TestAllDefaultsRoundTrip(t *testing.T) {
	// Every property delta-encoded, all marker bits zero: the decode
	// must produce exactly the schema defaults.
	schema := `{
		"version": 2,
		"classes": {
			"class R": {
				"hash": 8, "bases": [],
				"properties": [
					{"name": "m_count", "type": "unsigned int", "flags": 260, "hash": 1, "default": 3},
					{"name": "m_name", "type": "std::string", "flags": 260, "hash": 2, "default": "unset"},
					{"name": "m_scale", "type": "float", "flags": 260, "hash": 3, "default": 1.5},
					{"name": "m_enabled", "type": "bool", "flags": 260, "hash": 4, "default": true}
				]
			}
		}
	}`

	s := newSerializer(t, DefaultOptions(), schema)

	value, err := s.DeserializeTyped([]byte{0x00}, 8)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	obj := value.Object()

	count, _ := obj.Get("m_count")
	if count.Uint() != 3 {
		t.Errorf("m_count = %d, want 3", count.Uint())
	}
	name, _ := obj.Get("m_name")
	if string(name.StringBytes()) != "unset" {
		t.Errorf("m_name = %q, want \"unset\"", name.StringBytes())
	}
	scale, _ := obj.Get("m_scale")
	if scale.Float64() != 1.5 {
		t.Errorf("m_scale = %v, want 1.5", scale.Float64())
	}
	enabled, _ := obj.Get("m_enabled")
	if !enabled.Bool() {
		t.Error("m_enabled = false, want true")
	}
}

func TestListDecoding(t *testing.T) {
	schema := `{
		"version": 2,
		"classes": {
			"class L": {
				"hash": 11, "bases": [],
				"properties": [
					{"name": "m_values", "type": "unsigned int", "flags": 4, "hash": 1, "container": "std::vector"}
				]
			}
		}
	}`

	s := newSerializer(t, DefaultOptions(), schema)

	value, err := s.DeserializeTyped(le32(3, 10, 20, 30), 11)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	list, _ := value.Object().Get("m_values")
	elements := list.List()
	if len(elements) != 3 {
		t.Fatalf("list length = %d, want 3", len(elements))
	}
	for i, want := range []uint64{10, 20, 30} {
		if elements[i].Uint() != want {
			t.Errorf("element %d = %d, want %d", i, elements[i].Uint(), want)
		}
	}
}

func TestTransientExcludedByDefault(t *testing.T) {
	schema := `{
		"version": 2,
		"classes": {
			"class T": {
				"hash": 12, "bases": [],
				"properties": [
					{"name": "m_scratch", "type": "unsigned int", "flags": 12, "hash": 1},
					{"name": "m_real", "type": "unsigned int", "flags": 4, "hash": 2}
				]
			}
		}
	}`

	s := newSerializer(t, DefaultOptions(), schema)

	value, err := s.DeserializeTyped(le32(9), 12)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	obj := value.Object()
	if _, ok := obj.Get("m_scratch"); ok {
		t.Error("transient property decoded despite default mask")
	}
	real, _ := obj.Get("m_real")
	if real.Uint() != 9 {
		t.Errorf("m_real = %d, want 9", real.Uint())
	}
}

func TestSkipUnknownRootType(t *testing.T) {
	opts := DefaultOptions()
	opts.Shallow = false
	opts.SkipUnknownTypes = true
	s := newSerializer(t, opts, minimalSchema)

	// Unknown hash 0xDEAD with 64 content bits of garbage; the
	// decode consumes exactly the declared span and synthesizes an
	// empty object carrying the hash.
	input := le32(0xDEAD, 32+64, 0xAAAAAAAA, 0xBBBBBBBB)
	value, err := s.Deserialize(input)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	obj := value.Object()
	if obj.TypeHash != 0xDEAD || obj.Len() != 0 {
		t.Errorf("synthetic object = hash %d len %d, want hash 0xDEAD len 0", obj.TypeHash, obj.Len())
	}
}

func TestUnknownTypeFailsWithoutSkip(t *testing.T) {
	opts := DefaultOptions()
	opts.Shallow = false
	s := newSerializer(t, opts, minimalSchema)

	var unknownType *UnknownTypeError
	_, err := s.Deserialize(le32(0xDEAD, 32))
	if !errors.As(err, &unknownType) {
		t.Fatalf("unknown hash = %v, want UnknownTypeError", err)
	}
	if unknownType.Hash != 0xDEAD {
		t.Errorf("Hash = %d, want 0xDEAD", unknownType.Hash)
	}
}

func TestSkipUnknownProperty(t *testing.T) {
	opts := DefaultOptions()
	opts.Shallow = false
	opts.SkipUnknownTypes = true
	s := newSerializer(t, opts, minimalSchema)

	// Two property frames: an unknown id 99 (32 bits skipped), then
	// the known x = 42. Object length = 32 + 2*96 bits... each frame
	// is 64 bits of header plus 32 bits of value.
	input := le32(1, 32+192, 99, 32, 0xFFFFFFFF, 2, 32, 42)
	value, err := s.Deserialize(input)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	x, ok := value.Object().Get("x")
	if !ok || x.Uint() != 42 {
		t.Errorf("x = %v (present=%v), want 42", x.Uint(), ok)
	}
}

func TestUnknownPropertyFailsWithoutSkip(t *testing.T) {
	opts := DefaultOptions()
	opts.Shallow = false
	s := newSerializer(t, opts, minimalSchema)

	var unknownProp *UnknownPropertyError
	_, err := s.Deserialize(le32(1, 128, 99, 32, 7))
	if !errors.As(err, &unknownProp) {
		t.Fatalf("unknown property = %v, want UnknownPropertyError", err)
	}
}

func TestNestedObjectsAndNullable(t *testing.T) {
	schema := `{
		"version": 2,
		"classes": {
			"class Node": {
				"hash": 20, "bases": [],
				"properties": [
					{"name": "m_value", "type": "unsigned int", "flags": 4, "hash": 1},
					{"name": "m_next", "type": "class Node*", "flags": 1028, "hash": 2}
				]
			}
		}
	}`

	opts := DefaultOptions()
	opts.Shallow = false
	s := newSerializer(t, opts, schema)

	// Inner node: m_value=2, m_next=null. Frames:
	//   value frame: 32+32 header + 32 value = 96 bits
	//   next frame:  32+32 header + 32 null hash = 96 bits
	// Inner object: 32 length + 192 content = 224 total.
	inner := le32(1, 32, 2, 2, 32, 0)
	// Outer node: m_value=1, m_next=inner (hash+length+content =
	// 32+32+192 = 256 bits as the next frame's declared value size).
	var outer bytes.Buffer
	outer.Write(le32(20, 32+96+64+256))
	outer.Write(le32(1, 32, 1))
	outer.Write(le32(2, 256))
	outer.Write(le32(20, 224))
	outer.Write(inner)

	value, err := s.Deserialize(outer.Bytes())
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	root := value.Object()
	rootValue, _ := root.Get("m_value")
	if rootValue.Uint() != 1 {
		t.Errorf("root m_value = %d, want 1", rootValue.Uint())
	}

	next, _ := root.Get("m_next")
	child := next.Object()
	if child == nil {
		t.Fatal("m_next did not decode to an object")
	}
	childValue, _ := child.Get("m_value")
	if childValue.Uint() != 2 {
		t.Errorf("child m_value = %d, want 2", childValue.Uint())
	}

	grandchild, _ := child.Get("m_next")
	if !grandchild.IsNull() {
		t.Errorf("grandchild = kind %d, want null", grandchild.Kind())
	}
}

func TestRecursionLimit(t *testing.T) {
	schema := `{
		"version": 2,
		"classes": {
			"class Loop": {
				"hash": 30, "bases": [],
				"properties": [{"name": "m_self", "type": "class Loop", "flags": 4, "hash": 1}]
			}
		}
	}`

	opts := DefaultOptions()
	opts.RecursionLimit = 8
	s := newSerializer(t, opts, schema)

	// Shallow framing: the self-referential property recurses without
	// consuming input until the limit trips.
	_, err := s.DeserializeTyped([]byte{}, 30)
	if !errors.Is(err, ErrRecursionLimit) {
		t.Errorf("self-recursive decode = %v, want ErrRecursionLimit", err)
	}
}

func TestWithCompression(t *testing.T) {
	payload := le32(1, 128, 2, 32, 42)

	var frame bytes.Buffer
	frame.Write(le32(uint32(len(payload))))
	zw := zlib.NewWriter(&frame)
	if _, err := zw.Write(payload); err != nil {
		t.Fatalf("compressing payload: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zlib writer: %v", err)
	}

	opts := DefaultOptions()
	opts.Shallow = false
	opts.Flags = WithCompression
	s := newSerializer(t, opts, minimalSchema)

	value, err := s.Deserialize(frame.Bytes())
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	x, _ := value.Object().Get("x")
	if x.Uint() != 42 {
		t.Errorf("x = %d, want 42", x.Uint())
	}

	// Manual compression: the caller already inflated the payload.
	opts.ManualCompression = true
	manual := newSerializer(t, opts, minimalSchema)
	value, err = manual.Deserialize(payload)
	if err != nil {
		t.Fatalf("manual-compression Deserialize failed: %v", err)
	}
	if x, _ := value.Object().Get("x"); x.Uint() != 42 {
		t.Errorf("manual x = %d, want 42", x.Uint())
	}
}

func TestCorruptCompressionFrame(t *testing.T) {
	opts := DefaultOptions()
	opts.Shallow = false
	opts.Flags = WithCompression
	s := newSerializer(t, opts, minimalSchema)

	_, err := s.Deserialize(append(le32(100), 0xDE, 0xAD, 0xBE, 0xEF))
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("garbage zlib frame = %v, want ErrCorrupt", err)
	}
}

func TestStatefulFlagsScopedPerDecode(t *testing.T) {
	opts := DefaultOptions()
	opts.Shallow = false
	opts.Flags = StatefulFlags
	s := newSerializer(t, opts, minimalSchema)

	// The stream header declares "no flags"; the body is the plain
	// minimal object.
	var input bytes.Buffer
	input.Write(le32(0))
	input.Write(le32(1, 128, 2, 32, 42))

	for round := 0; round < 2; round++ {
		value, err := s.Deserialize(input.Bytes())
		if err != nil {
			t.Fatalf("round %d: Deserialize failed: %v", round, err)
		}
		if x, _ := value.Object().Get("x"); x.Uint() != 42 {
			t.Errorf("round %d: x = %d, want 42", round, x.Uint())
		}
	}

	// The configured options survive both decodes untouched.
	if s.Options().Flags != StatefulFlags {
		t.Errorf("configured flags mutated to %#x", s.Options().Flags)
	}
}

func TestShallowRequiresTypedRoot(t *testing.T) {
	s := newSerializer(t, DefaultOptions(), minimalSchema)
	if _, err := s.Deserialize([]byte{0}); !errors.Is(err, ErrBadConfig) {
		t.Errorf("shallow Deserialize = %v, want ErrBadConfig", err)
	}
}

func TestShallowSkipUnknownRejectedAtConstruction(t *testing.T) {
	opts := DefaultOptions()
	opts.SkipUnknownTypes = true
	_, err := NewSerializer(opts, mustTypeList(t, minimalSchema))
	if !errors.Is(err, ErrBadConfig) {
		t.Errorf("shallow+skip construction = %v, want ErrBadConfig", err)
	}
}

func TestNullRootRejected(t *testing.T) {
	opts := DefaultOptions()
	opts.Shallow = false
	s := newSerializer(t, opts, minimalSchema)

	// A zero root hash is a null object; the root must not be null.
	if _, err := s.Deserialize(le32(0)); !errors.Is(err, ErrNullRoot) {
		t.Errorf("null root = %v, want ErrNullRoot", err)
	}
}

func TestBitPackedIntegers(t *testing.T) {
	schema := `{
		"version": 2,
		"classes": {
			"class B": {
				"hash": 40, "bases": [],
				"properties": [
					{"name": "m_three", "type": "bui3", "flags": 4, "hash": 1},
					{"name": "m_neg", "type": "bi4", "flags": 4, "hash": 2}
				]
			}
		}
	}`

	s := newSerializer(t, DefaultOptions(), schema)

	// bui3 = 0b101 (5), bi4 = 0b1111 (-1), packed LSB-first into one
	// byte: 0b_1111_101 = 0x7D.
	value, err := s.DeserializeTyped([]byte{0x7D}, 40)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	obj := value.Object()
	three, _ := obj.Get("m_three")
	if three.Uint() != 5 {
		t.Errorf("m_three = %d, want 5", three.Uint())
	}
	neg, _ := obj.Get("m_neg")
	if neg.Int() != -1 {
		t.Errorf("m_neg = %d, want -1", neg.Int())
	}
}

func TestStripBind(t *testing.T) {
	payload := []byte{1, 2, 3}
	wrapped := append([]byte("BINd"), payload...)

	stripped, ok := StripBind(wrapped)
	if !ok || !bytes.Equal(stripped, payload) {
		t.Errorf("StripBind(wrapped) = %v, %v", stripped, ok)
	}

	same, ok := StripBind(payload)
	if ok || !bytes.Equal(same, payload) {
		t.Errorf("StripBind(bare) = %v, %v", same, ok)
	}

	// Unstripped BINd bytes are not silently lossy: the magic is no
	// registered type hash.
	opts := DefaultOptions()
	opts.Shallow = false
	s := newSerializer(t, opts, minimalSchema)
	var unknownType *UnknownTypeError
	if _, err := s.Deserialize(append(wrapped, make([]byte, 8)...)); !errors.As(err, &unknownType) {
		t.Errorf("unstripped BINd decode = %v, want UnknownTypeError", err)
	}
}

func TestValueStaysCompact(t *testing.T) {
	if size := unsafe.Sizeof(Value{}); size > 32 {
		t.Errorf("Value is %d bytes, want at most 32", size)
	}
}

func TestWideStringDecoding(t *testing.T) {
	schema := `{
		"version": 2,
		"classes": {
			"class W": {
				"hash": 50, "bases": [],
				"properties": [{"name": "m_wide", "type": "std::wstring", "flags": 4, "hash": 1}]
			}
		}
	}`

	s := newSerializer(t, DefaultOptions(), schema)

	// Count 2, then u16 units 'h', 'i'.
	input := append(le32(2), 'h', 0, 'i', 0)
	value, err := s.DeserializeTyped(input, 50)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	wide, _ := value.Object().Get("m_wide")
	units := wide.WStringUnits()
	if len(units) != 2 || units[0] != 'h' || units[1] != 'i' {
		t.Errorf("m_wide = %v, want [h i]", units)
	}
}

func TestCompoundLeaves(t *testing.T) {
	schema := `{
		"version": 2,
		"classes": {
			"class G": {
				"hash": 60, "bases": [],
				"properties": [
					{"name": "m_position", "type": "class Vector3D", "flags": 4, "hash": 1},
					{"name": "m_tint", "type": "class Color", "flags": 4, "hash": 2},
					{"name": "m_cell", "type": "class Point<int>", "flags": 4, "hash": 3}
				]
			}
		}
	}`

	s := newSerializer(t, DefaultOptions(), schema)

	var input bytes.Buffer
	for _, f := range []float32{1, 2, 3} {
		var word [4]byte
		binary.LittleEndian.PutUint32(word[:], math.Float32bits(f))
		input.Write(word[:])
	}
	input.Write([]byte{10, 20, 30, 40})
	input.Write(le32(5, 0xFFFFFFFF)) // y = -1

	value, err := s.DeserializeTyped(input.Bytes(), 60)
	if err != nil {
		t.Fatalf("DeserializeTyped failed: %v", err)
	}
	obj := value.Object()

	position, _ := obj.Get("m_position")
	if v := position.Vec3(); v != (Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("m_position = %+v", v)
	}
	tint, _ := obj.Get("m_tint")
	if c := tint.Color(); c != (Color{R: 10, G: 20, B: 30, A: 40}) {
		t.Errorf("m_tint = %+v", c)
	}
	cell, _ := obj.Get("m_cell")
	if p := cell.PointInt(); p != (PointInt{X: 5, Y: -1}) {
		t.Errorf("m_cell = %+v", p)
	}
}

