// Copyright 2026 The Spiral Authors
// SPDX-License-Identifier: Apache-2.0

package op

import (
	"strings"

	"github.com/spiral-foundation/spiral/lib/types"
)

// defaultValue materializes the schema default for a property that
// was delta-skipped (or delta-ignored) on the wire. The schema stores
// defaults as JSON scalars; absent defaults produce the wire type's
// zero value.
func defaultValue(prop *types.Property) Value {
	if prop.IsList() {
		return ListOf(nil)
	}

	if prop.IsEnum() {
		switch d := prop.Default.(type) {
		case string:
			if prop.Enum != nil {
				if v, ok := prop.Enum.Value(d); ok {
					return EnumName(d, v)
				}
				if mask, err := prop.Enum.BitValue(d); err == nil {
					return EnumName(d, mask)
				}
			}
			return Enum(0)
		case float64:
			return Enum(int64(d))
		default:
			return Enum(0)
		}
	}

	switch prop.Type {
	case "bool":
		d, _ := prop.Default.(bool)
		return Bool(d)

	case "char", "short", "int", "long", "__int64", "s24":
		return Signed(defaultInt(prop.Default))

	case "unsigned char", "unsigned short", "wchar_t", "unsigned int",
		"unsigned long", "unsigned __int64", "gid", "union gid", "u24":
		return Unsigned(uint64(defaultInt(prop.Default)))

	case "float", "double":
		d, _ := prop.Default.(float64)
		return Float(d)

	case "std::string":
		if d, ok := prop.Default.(string); ok {
			return String([]byte(d))
		}
		return String(nil)

	case "std::wstring":
		if d, ok := prop.Default.(string); ok {
			units := make([]uint16, 0, len(d))
			for _, r := range d {
				units = append(units, uint16(r))
			}
			return WString(units)
		}
		return WString(nil)

	case "class Color":
		return ColorValue(Color{})
	case "class Vector3D":
		return Vec3Value(Vec3{})
	case "class Quaternion":
		return QuaternionValue(Quaternion{})
	case "class Euler":
		return EulerValue(Euler{})
	case "class Matrix3x3":
		return MatrixValue(Matrix{})
	case "class Point<int>":
		return PointIntValue(PointInt{})
	case "class Point<float>":
		return PointFloatValue(PointFloat{})
	case "class Point<unsigned char>":
		return PointUint8Value(PointUint8{})
	case "class Point<unsigned int>":
		return PointUint32Value(PointUint32{})
	case "class Size<int>":
		return SizeIntValue(SizeInt{})
	case "class Rect<int>":
		return RectIntValue(RectInt{})
	case "class Rect<float>":
		return RectFloatValue(RectFloat{})
	}

	if strings.HasPrefix(prop.Type, "bui") {
		return Unsigned(uint64(defaultInt(prop.Default)))
	}
	if strings.HasPrefix(prop.Type, "bi") {
		return Signed(defaultInt(prop.Default))
	}

	// Object-typed properties default to a null reference.
	return Null()
}

// defaultInt coerces a JSON-decoded default to an integer.
func defaultInt(d any) int64 {
	switch v := d.(type) {
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}
