// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import (
	"bytes"
	"strconv"
	"strings"
)

// readSimple reads a value whose wire type is simple data: a C++
// primitive, a bit-packed integer, a string, or one of the fixed-size
// compound leaves. Returns ok=false when the type descriptor does not
// name simple data (i.e. it is a nested object type).
func (ds *decodeState) readSimple(typeName string) (Value, bool, error) {
	r := ds.r

	switch typeName {
	case "bool":
		v, err := r.ReadBool()
		return Bool(v), true, err

	case "char":
		v, err := alignedSigned(ds, 8)
		return Signed(v), true, err
	case "unsigned char":
		v, err := alignedUnsigned(ds, 8)
		return Unsigned(v), true, err
	case "short":
		v, err := alignedSigned(ds, 16)
		return Signed(v), true, err
	case "unsigned short", "wchar_t":
		v, err := alignedUnsigned(ds, 16)
		return Unsigned(v), true, err
	case "int", "long":
		v, err := alignedSigned(ds, 32)
		return Signed(v), true, err
	case "unsigned int", "unsigned long":
		v, err := alignedUnsigned(ds, 32)
		return Unsigned(v), true, err
	case "__int64":
		v, err := alignedSigned(ds, 64)
		return Signed(v), true, err
	case "unsigned __int64", "gid", "union gid":
		v, err := alignedUnsigned(ds, 64)
		return Unsigned(v), true, err

	case "float":
		r.Align()
		v, err := r.Float32()
		return Float(float64(v)), true, err
	case "double":
		r.Align()
		v, err := r.Float64()
		return Float(v), true, err

	case "std::string":
		v, err := ds.readString()
		return String(v), true, err
	case "std::wstring":
		v, err := ds.readWString()
		return WString(v), true, err

	case "class Color":
		return ds.readColor()
	case "class Vector3D":
		return ds.readVec3()
	case "class Quaternion":
		return ds.readQuaternion()
	case "class Euler":
		return ds.readEuler()
	case "class Matrix3x3":
		return ds.readMatrix()
	case "class Point<int>":
		return ds.readPointInt()
	case "class Point<float>":
		return ds.readPointFloat()
	case "class Point<unsigned char>":
		return ds.readPointUint8()
	case "class Point<unsigned int>":
		return ds.readPointUint32()
	case "class Size<int>":
		return ds.readSizeInt()
	case "class Rect<int>":
		return ds.readRectInt()
	case "class Rect<float>":
		return ds.readRectFloat()
	}

	// Bit-packed integers: biN/buiN plus the fixed s24/u24 aliases.
	if width, signed, ok := bitIntWidth(typeName); ok {
		if signed {
			v, err := r.ReadSignedBits(width)
			return Signed(v), true, err
		}
		v, err := r.ReadBits(width)
		return Unsigned(v), true, err
	}

	return Value{}, false, nil
}

// alignedUnsigned reads a byte-aligned little-endian unsigned integer
// of the given bit width.
func alignedUnsigned(ds *decodeState, width uint) (uint64, error) {
	r := ds.r
	switch width {
	case 8:
		v, err := r.Uint8()
		return uint64(v), err
	case 16:
		v, err := r.Uint16()
		return uint64(v), err
	case 32:
		v, err := r.Uint32()
		return uint64(v), err
	default:
		return r.Uint64()
	}
}

// alignedSigned reads a byte-aligned little-endian signed integer of
// the given bit width.
func alignedSigned(ds *decodeState, width uint) (int64, error) {
	r := ds.r
	switch width {
	case 8:
		v, err := r.Int8()
		return int64(v), err
	case 16:
		v, err := r.Int16()
		return int64(v), err
	case 32:
		v, err := r.Int32()
		return int64(v), err
	default:
		return r.Int64()
	}
}

// bitIntWidth parses the bit-packed integer type names: bi2..bi7,
// bui2..bui7, and the 24-bit s24/u24.
func bitIntWidth(typeName string) (width uint, signed, ok bool) {
	switch typeName {
	case "s24":
		return 24, true, true
	case "u24":
		return 24, false, true
	}

	var digits string
	switch {
	case strings.HasPrefix(typeName, "bui"):
		digits, signed = typeName[3:], false
	case strings.HasPrefix(typeName, "bi"):
		digits, signed = typeName[2:], true
	default:
		return 0, false, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 64 {
		return 0, false, false
	}
	return uint(n), signed, true
}

// readString reads a length-prefixed byte string. The bytes are
// copied out of the decode buffer because that buffer may be a
// reusable scratch allocation.
func (ds *decodeState) readString() ([]byte, error) {
	length, err := ds.readLength()
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	ds.r.Align()
	raw, err := ds.r.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	return bytes.Clone(raw), nil
}

// readWString reads a length-prefixed wide string of u16 units.
func (ds *decodeState) readWString() ([]uint16, error) {
	length, err := ds.readLength()
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	ds.r.Align()
	units := make([]uint16, length)
	for i := range units {
		unit, err := ds.r.Uint16()
		if err != nil {
			return nil, err
		}
		units[i] = unit
	}
	return units, nil
}

func (ds *decodeState) readColor() (Value, bool, error) {
	raw, err := ds.r.ReadBytes(4)
	if err != nil {
		return Value{}, true, err
	}
	return ColorValue(Color{R: raw[0], G: raw[1], B: raw[2], A: raw[3]}), true, nil
}

func (ds *decodeState) readFloats(out []float32) error {
	ds.r.Align()
	for i := range out {
		v, err := ds.r.Float32()
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}

func (ds *decodeState) readVec3() (Value, bool, error) {
	var f [3]float32
	if err := ds.readFloats(f[:]); err != nil {
		return Value{}, true, err
	}
	return Vec3Value(Vec3{X: f[0], Y: f[1], Z: f[2]}), true, nil
}

func (ds *decodeState) readQuaternion() (Value, bool, error) {
	var f [4]float32
	if err := ds.readFloats(f[:]); err != nil {
		return Value{}, true, err
	}
	return QuaternionValue(Quaternion{X: f[0], Y: f[1], Z: f[2], W: f[3]}), true, nil
}

func (ds *decodeState) readEuler() (Value, bool, error) {
	var f [3]float32
	if err := ds.readFloats(f[:]); err != nil {
		return Value{}, true, err
	}
	return EulerValue(Euler{Pitch: f[0], Yaw: f[1], Roll: f[2]}), true, nil
}

func (ds *decodeState) readMatrix() (Value, bool, error) {
	var f [9]float32
	if err := ds.readFloats(f[:]); err != nil {
		return Value{}, true, err
	}
	return MatrixValue(Matrix{
		{f[0], f[1], f[2]},
		{f[3], f[4], f[5]},
		{f[6], f[7], f[8]},
	}), true, nil
}

func (ds *decodeState) readInts(out []int32) error {
	ds.r.Align()
	for i := range out {
		v, err := ds.r.Int32()
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}

func (ds *decodeState) readPointInt() (Value, bool, error) {
	var v [2]int32
	if err := ds.readInts(v[:]); err != nil {
		return Value{}, true, err
	}
	return PointIntValue(PointInt{X: v[0], Y: v[1]}), true, nil
}

func (ds *decodeState) readPointFloat() (Value, bool, error) {
	var f [2]float32
	if err := ds.readFloats(f[:]); err != nil {
		return Value{}, true, err
	}
	return PointFloatValue(PointFloat{X: f[0], Y: f[1]}), true, nil
}

func (ds *decodeState) readPointUint8() (Value, bool, error) {
	raw, err := ds.r.ReadBytes(2)
	if err != nil {
		return Value{}, true, err
	}
	return PointUint8Value(PointUint8{X: raw[0], Y: raw[1]}), true, nil
}

func (ds *decodeState) readPointUint32() (Value, bool, error) {
	ds.r.Align()
	x, err := ds.r.Uint32()
	if err != nil {
		return Value{}, true, err
	}
	y, err := ds.r.Uint32()
	if err != nil {
		return Value{}, true, err
	}
	return PointUint32Value(PointUint32{X: x, Y: y}), true, nil
}

func (ds *decodeState) readSizeInt() (Value, bool, error) {
	var v [2]int32
	if err := ds.readInts(v[:]); err != nil {
		return Value{}, true, err
	}
	return SizeIntValue(SizeInt{W: v[0], H: v[1]}), true, nil
}

func (ds *decodeState) readRectInt() (Value, bool, error) {
	var v [4]int32
	if err := ds.readInts(v[:]); err != nil {
		return Value{}, true, err
	}
	return RectIntValue(RectInt{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}), true, nil
}

func (ds *decodeState) readRectFloat() (Value, bool, error) {
	var f [4]float32
	if err := ds.readFloats(f[:]); err != nil {
		return Value{}, true, err
	}
	return RectFloatValue(RectFloat{Left: f[0], Top: f[1], Right: f[2], Bottom: f[3]}), true, nil
}
