package binres

import (
	"fmt"
	"math"

	"github.com/Aliucord/binary-resources/bytecursor"
	"github.com/Aliucord/binary-resources/errs"
)

// ValueType is the Res_value dataType byte.
type ValueType uint8

const (
	TypeValNull             ValueType = 0x00
	TypeValReference        ValueType = 0x01
	TypeValAttribute        ValueType = 0x02
	TypeValString           ValueType = 0x03
	TypeValFloat            ValueType = 0x04
	TypeValDimension        ValueType = 0x05
	TypeValFraction         ValueType = 0x06
	TypeValDynamicReference ValueType = 0x07
	TypeValDynamicAttribute ValueType = 0x08
	TypeValIntDec           ValueType = 0x10
	TypeValIntHex           ValueType = 0x11
	TypeValIntBoolean       ValueType = 0x12
	TypeValIntColorARGB8    ValueType = 0x1c
	TypeValIntColorRGB8     ValueType = 0x1d
	TypeValIntColorARGB4    ValueType = 0x1e
	TypeValIntColorRGB4     ValueType = 0x1f
)

func (t ValueType) String() string {
	switch t {
	case TypeValNull:
		return "Null"
	case TypeValReference:
		return "Reference"
	case TypeValAttribute:
		return "Attribute"
	case TypeValString:
		return "String"
	case TypeValFloat:
		return "Float"
	case TypeValDimension:
		return "Dimension"
	case TypeValFraction:
		return "Fraction"
	case TypeValDynamicReference:
		return "DynamicReference"
	case TypeValDynamicAttribute:
		return "DynamicAttribute"
	case TypeValIntDec:
		return "IntDec"
	case TypeValIntHex:
		return "IntHex"
	case TypeValIntBoolean:
		return "IntBoolean"
	case TypeValIntColorARGB8:
		return "IntColorARGB8"
	case TypeValIntColorRGB8:
		return "IntColorRGB8"
	case TypeValIntColorARGB4:
		return "IntColorARGB4"
	case TypeValIntColorRGB4:
		return "IntColorRGB4"
	default:
		return fmt.Sprintf("ValueType(0x%02x)", uint8(t))
	}
}

const typedValueSize = 8

// Dimension units, used by TypeValDimension's packed data word.
const (
	UnitPx uint8 = 0
	UnitDp uint8 = 1
	UnitSp uint8 = 2
	UnitPt uint8 = 3
	UnitIn uint8 = 4
	UnitMm uint8 = 5
)

var dimensionRadixes = [4]float32{
	1.0 / (1 << 8),
	1.0 / (1 << 15),
	1.0 / (1 << 23),
	1.0 / (1 << 31),
}

// TypedValue is the fixed 8-byte Res_value record: a size field (always 8),
// a reserved byte (always 0), a type byte and a 4-byte data word whose
// interpretation depends on Type.
type TypedValue struct {
	Type ValueType
	Data uint32
}

// DecodeTypedValue reads an 8-byte typed value record at the reader's
// current position.
func DecodeTypedValue(r *bytecursor.Reader) (TypedValue, error) {
	offset := r.Pos()
	size, err := r.U16()
	if err != nil {
		return TypedValue{}, err
	}
	if size != typedValueSize {
		return TypedValue{}, errs.Atf(errs.BadValueSize, 0, offset, "typed value size %d, want %d", size, typedValueSize)
	}
	if _, err := r.U8(); err != nil { // reserved
		return TypedValue{}, err
	}
	ty, err := r.U8()
	if err != nil {
		return TypedValue{}, err
	}
	data, err := r.U32()
	if err != nil {
		return TypedValue{}, err
	}
	return TypedValue{Type: ValueType(ty), Data: data}, nil
}

// Encode writes the 8-byte typed value record.
func (v TypedValue) Encode(w *bytecursor.Writer) {
	w.U16(typedValueSize)
	w.U8(0)
	w.U8(uint8(v.Type))
	w.U32(v.Data)
}

// Dimension decodes Data as a TypeValDimension packed word, returning the
// magnitude and unit.
func (v TypedValue) Dimension() (value float32, unit uint8) {
	unit = uint8(v.Data & 0xf)
	radix := (v.Data >> 4) & 0x3
	return float32(int32(v.Data&0xffffff00)) * dimensionRadixes[radix], unit
}

// EncodeDimension packs value/unit into Data for a TypeValDimension record,
// choosing the radix/shift pair that preserves the most mantissa precision
// (ported from androidfw's Res_value packing).
func EncodeDimension(value float32, unit uint8) TypedValue {
	neg := value < 0
	if neg {
		value = -value
	}
	bits := uint64(value*(1<<23) + .5)

	var radix, shift uint32
	switch {
	case bits&0x7fffff == 0:
		radix, shift = 0, 23
	case bits&0xffffffffff800000 == 0:
		radix, shift = 3, 0
	case bits&0xffffffff80000000 == 0:
		radix, shift = 2, 8
	case bits&0xffffff8000000000 == 0:
		radix, shift = 1, 16
	default:
		radix, shift = 0, 23
	}

	mantissa := int32(bits>>shift) & 0xFFFFFF
	if neg {
		mantissa = (-mantissa) & 0xFFFFFF
	}

	data := (radix << 4) | (uint32(mantissa) << 8) | uint32(unit)
	return TypedValue{Type: TypeValDimension, Data: data}
}

// Bool decodes Data as a TypeValIntBoolean record (0 vs 0xFFFFFFFF).
func (v TypedValue) Bool() bool { return v.Data != 0 }

// EncodeBool returns the canonical TypeValIntBoolean encoding.
func EncodeBool(b bool) TypedValue {
	if b {
		return TypedValue{Type: TypeValIntBoolean, Data: 0xFFFFFFFF}
	}
	return TypedValue{Type: TypeValIntBoolean, Data: 0}
}

// Float32 decodes Data as an IEEE-754 float32 for TypeValFloat records.
func (v TypedValue) Float32() float32 {
	return math.Float32frombits(v.Data)
}

// EncodeFloat32 returns a TypeValFloat record for f.
func EncodeFloat32(f float32) TypedValue {
	return TypedValue{Type: TypeValFloat, Data: math.Float32bits(f)}
}
