// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"
)

// Kind identifies the runtime type of a [Value].
type Kind uint8

const (
	// KindNull is a null object reference.
	KindNull Kind = iota
	KindUnsigned
	KindSigned
	KindFloat
	KindBool
	KindString
	KindWString
	KindEnum
	KindEnumName
	KindList
	KindObject
	KindColor
	KindVec3
	KindQuaternion
	KindEuler
	KindMatrix
	KindPointInt
	KindPointFloat
	KindPointUint8
	KindPointUint32
	KindSizeInt
	KindRectInt
	KindRectFloat
)

// Value is a decoded runtime value from the ObjectProperty system.
//
// The representation is a kind tag, one 64-bit scalar word, and one
// boxed reference, keeping the struct at 32 bytes. Scalars, colors,
// points, and sizes pack into the scalar word; strings, lists,
// objects, and the wide geometric leaves live behind the box. Values
// are frequently constructed and discarded during batch decodes, so
// the compact layout matters more than accessor convenience.
type Value struct {
	kind   Kind
	scalar uint64
	boxed  any
}

// Kind returns the value's runtime type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is a null object reference.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Null returns the null object reference.
func Null() Value { return Value{kind: KindNull} }

// Unsigned wraps an unsigned integer.
func Unsigned(v uint64) Value { return Value{kind: KindUnsigned, scalar: v} }

// Signed wraps a signed integer.
func Signed(v int64) Value { return Value{kind: KindSigned, scalar: uint64(v)} }

// Float wraps a floating-point number.
func Float(v float64) Value { return Value{kind: KindFloat, scalar: math.Float64bits(v)} }

// Bool wraps a boolean.
func Bool(v bool) Value {
	var bit uint64
	if v {
		bit = 1
	}
	return Value{kind: KindBool, scalar: bit}
}

// String wraps raw string bytes. The bytes are kept opaque; rendering
// as UTF-8 is a presentation concern.
func String(data []byte) Value { return Value{kind: KindString, boxed: data} }

// WString wraps a wide string of 16-bit code units.
func WString(units []uint16) Value { return Value{kind: KindWString, boxed: units} }

// Enum wraps an integral enum or bitflag value.
func Enum(v int64) Value { return Value{kind: KindEnum, scalar: uint64(v)} }

// EnumName wraps a symbolic enum value resolved through an option
// table, retaining the underlying integer.
func EnumName(name string, value int64) Value {
	return Value{kind: KindEnumName, scalar: uint64(value), boxed: name}
}

// ListOf wraps an ordered sequence of homogeneous values.
func ListOf(elements []Value) Value { return Value{kind: KindList, boxed: elements} }

// ObjectOf wraps a decoded object.
func ObjectOf(obj *Object) Value { return Value{kind: KindObject, boxed: obj} }

// Uint returns the unsigned integer payload.
func (v Value) Uint() uint64 { return v.scalar }

// Int returns the signed integer payload.
func (v Value) Int() int64 { return int64(v.scalar) }

// Float64 returns the floating-point payload.
func (v Value) Float64() float64 { return math.Float64frombits(v.scalar) }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.scalar != 0 }

// StringBytes returns the raw string bytes.
func (v Value) StringBytes() []byte {
	b, _ := v.boxed.([]byte)
	return b
}

// WStringUnits returns the wide string code units.
func (v Value) WStringUnits() []uint16 {
	u, _ := v.boxed.([]uint16)
	return u
}

// EnumName returns the symbolic enum name, or "" for integral enums.
func (v Value) EnumName() string {
	s, _ := v.boxed.(string)
	return s
}

// List returns the list elements.
func (v Value) List() []Value {
	l, _ := v.boxed.([]Value)
	return l
}

// Object returns the object payload, or nil for other kinds.
func (v Value) Object() *Object {
	o, _ := v.boxed.(*Object)
	return o
}

// Compound leaf types. The fixed-size records match the game's wire
// layout exactly.

// Color is an RGBA color with 8-bit channels.
type Color struct{ R, G, B, A uint8 }

// Vec3 is a 3D vector.
type Vec3 struct{ X, Y, Z float32 }

// Quaternion is a rotation quaternion.
type Quaternion struct{ X, Y, Z, W float32 }

// Euler is a pitch/yaw/roll rotation triple.
type Euler struct{ Pitch, Yaw, Roll float32 }

// Matrix is a 3x3 row-major float matrix.
type Matrix [3][3]float32

// PointInt is a 2D point with signed integer coordinates.
type PointInt struct{ X, Y int32 }

// PointFloat is a 2D point with float coordinates.
type PointFloat struct{ X, Y float32 }

// PointUint8 is a 2D point with byte coordinates (Pirate101).
type PointUint8 struct{ X, Y uint8 }

// PointUint32 is a 2D point with unsigned coordinates (Pirate101).
type PointUint32 struct{ X, Y uint32 }

// SizeInt is a width/height pair with signed integer measures.
type SizeInt struct{ W, H int32 }

// RectInt is a rectangle described by signed integer edges.
type RectInt struct{ Left, Top, Right, Bottom int32 }

// RectFloat is a rectangle described by float edges.
type RectFloat struct{ Left, Top, Right, Bottom float32 }

// ColorValue packs a color into the scalar word.
func ColorValue(c Color) Value {
	packed := uint64(c.R) | uint64(c.G)<<8 | uint64(c.B)<<16 | uint64(c.A)<<24
	return Value{kind: KindColor, scalar: packed}
}

// Color returns the color payload.
func (v Value) Color() Color {
	return Color{
		R: uint8(v.scalar),
		G: uint8(v.scalar >> 8),
		B: uint8(v.scalar >> 16),
		A: uint8(v.scalar >> 24),
	}
}

// Vec3Value boxes a 3D vector.
func Vec3Value(vec Vec3) Value { return Value{kind: KindVec3, boxed: &vec} }

// Vec3 returns the vector payload.
func (v Value) Vec3() Vec3 {
	p, _ := v.boxed.(*Vec3)
	if p == nil {
		return Vec3{}
	}
	return *p
}

// QuaternionValue boxes a quaternion.
func QuaternionValue(q Quaternion) Value { return Value{kind: KindQuaternion, boxed: &q} }

// Quaternion returns the quaternion payload.
func (v Value) Quaternion() Quaternion {
	p, _ := v.boxed.(*Quaternion)
	if p == nil {
		return Quaternion{}
	}
	return *p
}

// EulerValue boxes an Euler rotation.
func EulerValue(e Euler) Value { return Value{kind: KindEuler, boxed: &e} }

// Euler returns the Euler payload.
func (v Value) Euler() Euler {
	p, _ := v.boxed.(*Euler)
	if p == nil {
		return Euler{}
	}
	return *p
}

// MatrixValue boxes a 3x3 matrix.
func MatrixValue(m Matrix) Value { return Value{kind: KindMatrix, boxed: &m} }

// Matrix returns the matrix payload.
func (v Value) Matrix() Matrix {
	p, _ := v.boxed.(*Matrix)
	if p == nil {
		return Matrix{}
	}
	return *p
}

// PointIntValue packs a signed point into the scalar word.
func PointIntValue(p PointInt) Value {
	return Value{kind: KindPointInt, scalar: packPair(uint32(p.X), uint32(p.Y))}
}

// PointInt returns the signed point payload.
func (v Value) PointInt() PointInt {
	x, y := unpackPair(v.scalar)
	return PointInt{X: int32(x), Y: int32(y)}
}

// PointFloatValue packs a float point into the scalar word.
func PointFloatValue(p PointFloat) Value {
	return Value{kind: KindPointFloat, scalar: packPair(math.Float32bits(p.X), math.Float32bits(p.Y))}
}

// PointFloat returns the float point payload.
func (v Value) PointFloat() PointFloat {
	x, y := unpackPair(v.scalar)
	return PointFloat{X: math.Float32frombits(x), Y: math.Float32frombits(y)}
}

// PointUint8Value packs a byte point into the scalar word.
func PointUint8Value(p PointUint8) Value {
	return Value{kind: KindPointUint8, scalar: packPair(uint32(p.X), uint32(p.Y))}
}

// PointUint8 returns the byte point payload.
func (v Value) PointUint8() PointUint8 {
	x, y := unpackPair(v.scalar)
	return PointUint8{X: uint8(x), Y: uint8(y)}
}

// PointUint32Value packs an unsigned point into the scalar word.
func PointUint32Value(p PointUint32) Value {
	return Value{kind: KindPointUint32, scalar: packPair(p.X, p.Y)}
}

// PointUint32 returns the unsigned point payload.
func (v Value) PointUint32() PointUint32 {
	x, y := unpackPair(v.scalar)
	return PointUint32{X: x, Y: y}
}

// SizeIntValue packs a size into the scalar word.
func SizeIntValue(s SizeInt) Value {
	return Value{kind: KindSizeInt, scalar: packPair(uint32(s.W), uint32(s.H))}
}

// SizeInt returns the size payload.
func (v Value) SizeInt() SizeInt {
	w, h := unpackPair(v.scalar)
	return SizeInt{W: int32(w), H: int32(h)}
}

// RectIntValue boxes a signed rectangle.
func RectIntValue(r RectInt) Value { return Value{kind: KindRectInt, boxed: &r} }

// RectInt returns the signed rectangle payload.
func (v Value) RectInt() RectInt {
	p, _ := v.boxed.(*RectInt)
	if p == nil {
		return RectInt{}
	}
	return *p
}

// RectFloatValue boxes a float rectangle.
func RectFloatValue(r RectFloat) Value { return Value{kind: KindRectFloat, boxed: &r} }

// RectFloat returns the float rectangle payload.
func (v Value) RectFloat() RectFloat {
	p, _ := v.boxed.(*RectFloat)
	if p == nil {
		return RectFloat{}
	}
	return *p
}

func packPair(low, high uint32) uint64 {
	return uint64(low) | uint64(high)<<32
}

func unpackPair(packed uint64) (low, high uint32) {
	return uint32(packed), uint32(packed >> 32)
}

// Object is a decoded object: a type hash plus an insertion-ordered
// mapping from property name to value. The tree is purely top-down
// owned; children hold no back-references.
type Object struct {
	// TypeHash identifies the object's concrete type.
	TypeHash uint32

	names  []string
	values map[string]Value
}

// NewObject creates an empty object with the given type hash.
func NewObject(typeHash uint32) *Object {
	return &Object{TypeHash: typeHash, values: make(map[string]Value)}
}

// Len returns the number of properties.
func (o *Object) Len() int { return len(o.names) }

// Set adds or replaces a property value, preserving first-insertion
// order.
func (o *Object) Set(name string, value Value) {
	if _, exists := o.values[name]; !exists {
		o.names = append(o.names, name)
	}
	o.values[name] = value
}

// Get returns the value of a named property.
func (o *Object) Get(name string) (Value, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Names returns the property names in insertion order. The returned
// slice is owned by the object and must not be mutated.
func (o *Object) Names() []string { return o.names }

// Interface converts the value tree into plain Go values for generic
// encoders: objects become map[string]any carrying a "$__type" key
// with the type hash, lists become []any, strings decode leniently to
// UTF-8, and wide strings through UTF-16.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindUnsigned:
		return v.Uint()
	case KindSigned:
		return v.Int()
	case KindFloat:
		return v.Float64()
	case KindBool:
		return v.Bool()
	case KindString:
		return strings.ToValidUTF8(string(v.StringBytes()), "�")
	case KindWString:
		return string(utf16.Decode(v.WStringUnits()))
	case KindEnum:
		return v.Int()
	case KindEnumName:
		return v.EnumName()
	case KindList:
		elements := v.List()
		out := make([]any, len(elements))
		for i, element := range elements {
			out[i] = element.Interface()
		}
		return out
	case KindObject:
		obj := v.Object()
		out := make(map[string]any, obj.Len()+1)
		out["$__type"] = obj.TypeHash
		for _, name := range obj.Names() {
			value, _ := obj.Get(name)
			out[name] = value.Interface()
		}
		return out
	case KindColor:
		c := v.Color()
		return map[string]any{"r": c.R, "g": c.G, "b": c.B, "a": c.A}
	case KindVec3:
		p := v.Vec3()
		return map[string]any{"x": p.X, "y": p.Y, "z": p.Z}
	case KindQuaternion:
		q := v.Quaternion()
		return map[string]any{"x": q.X, "y": q.Y, "z": q.Z, "w": q.W}
	case KindEuler:
		e := v.Euler()
		return map[string]any{"pitch": e.Pitch, "yaw": e.Yaw, "roll": e.Roll}
	case KindMatrix:
		m := v.Matrix()
		return [][]float32{m[0][:], m[1][:], m[2][:]}
	case KindPointInt:
		p := v.PointInt()
		return map[string]any{"x": p.X, "y": p.Y}
	case KindPointFloat:
		p := v.PointFloat()
		return map[string]any{"x": p.X, "y": p.Y}
	case KindPointUint8:
		p := v.PointUint8()
		return map[string]any{"x": p.X, "y": p.Y}
	case KindPointUint32:
		p := v.PointUint32()
		return map[string]any{"x": p.X, "y": p.Y}
	case KindSizeInt:
		s := v.SizeInt()
		return map[string]any{"w": s.W, "h": s.H}
	case KindRectInt:
		r := v.RectInt()
		return map[string]any{"left": r.Left, "top": r.Top, "right": r.Right, "bottom": r.Bottom}
	case KindRectFloat:
		r := v.RectFloat()
		return map[string]any{"left": r.Left, "top": r.Top, "right": r.Right, "bottom": r.Bottom}
	default:
		return fmt.Sprintf("unknown value kind %d", v.kind)
	}
}

// MarshalJSON renders the value tree for diagnostics and dumps.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
