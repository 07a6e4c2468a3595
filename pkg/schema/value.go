package schema

import (
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/bbqsrc/cargo-pbuild/pkg/document"
)

// Type enumerates the closed set of scalar kinds a property may declare.
type Type uint8

const (
	TypeString Type = iota
	TypeBool
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeUUID
)

// ParseType resolves a type name from a schema document. Aliases mirror the
// accepted spellings of the profile format.
func ParseType(input string) (Type, bool) {
	switch input {
	case "string", "str", "String":
		return TypeString, true
	case "bool", "Bool", "boolean":
		return TypeBool, true
	case "u8":
		return TypeU8, true
	case "u16":
		return TypeU16, true
	case "u32":
		return TypeU32, true
	case "u64":
		return TypeU64, true
	case "i8":
		return TypeI8, true
	case "i16":
		return TypeI16, true
	case "i32":
		return TypeI32, true
	case "i64":
		return TypeI64, true
	case "uuid", "Uuid":
		return TypeUUID, true
	default:
		return 0, false
	}
}

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeU8:
		return "u8"
	case TypeU16:
		return "u16"
	case TypeU32:
		return "u32"
	case TypeU64:
		return "u64"
	case TypeI8:
		return "i8"
	case TypeI16:
		return "i16"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

func (t Type) unsigned() bool {
	switch t {
	case TypeU8, TypeU16, TypeU32, TypeU64:
		return true
	}
	return false
}

func (t Type) signed() bool {
	switch t {
	case TypeI8, TypeI16, TypeI32, TypeI64:
		return true
	}
	return false
}

// Value is a typed scalar. The zero Value is the empty string.
type Value struct {
	ty  Type
	str string
	b   bool
	u   uint64
	i   int64
	id  uuid.UUID
}

// NewString constructs a string value.
func NewString(s string) Value {
	return Value{ty: TypeString, str: s}
}

// NewBool constructs a boolean value.
func NewBool(b bool) Value {
	return Value{ty: TypeBool, b: b}
}

// NewUint constructs an unsigned integer value of the given width.
// The magnitude is assumed to be in range for t.
func NewUint(t Type, v uint64) Value {
	return Value{ty: t, u: v}
}

// NewInt constructs a signed integer value of the given width.
// The magnitude is assumed to be in range for t.
func NewInt(t Type, v int64) Value {
	return Value{ty: t, i: v}
}

// NewUUID constructs a UUID value.
func NewUUID(id uuid.UUID) Value {
	return Value{ty: TypeUUID, id: id}
}

// Zero returns the zero value for a type: empty string, false, 0, nil UUID.
func Zero(t Type) Value {
	return Value{ty: t}
}

// Type reports the value's kind tag.
func (v Value) Type() Type {
	return v.ty
}

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Uint returns the unsigned integer payload.
func (v Value) Uint() uint64 { return v.u }

// Int returns the signed integer payload.
func (v Value) Int() int64 { return v.i }

// UUID returns the UUID payload.
func (v Value) UUID() uuid.UUID { return v.id }

// Interface returns the payload as a plain Go value, for serialization.
func (v Value) Interface() any {
	switch {
	case v.ty == TypeString:
		return v.str
	case v.ty == TypeBool:
		return v.b
	case v.ty.unsigned():
		return v.u
	case v.ty.signed():
		return v.i
	case v.ty == TypeUUID:
		return v.id.String()
	}
	return nil
}

// String renders the payload for display.
func (v Value) String() string {
	switch {
	case v.ty == TypeString:
		return v.str
	case v.ty == TypeBool:
		return strconv.FormatBool(v.b)
	case v.ty.unsigned():
		return strconv.FormatUint(v.u, 10)
	case v.ty.signed():
		return strconv.FormatInt(v.i, 10)
	case v.ty == TypeUUID:
		return v.id.String()
	}
	return ""
}

// CoercePolicy selects what Coerce does when a raw value cannot be
// interpreted as the requested type.
type CoercePolicy uint8

const (
	// CoerceStrict reports failure to the caller.
	CoerceStrict CoercePolicy = iota
	// CoerceZero substitutes the type's zero value and reports success.
	CoerceZero
)

// Coerce interprets a generic document scalar as the requested type. Integer
// kinds narrow from a 64-bit signed integer and fail on out-of-range
// magnitudes; that range check is the only numeric safety net in the system.
func Coerce(t Type, raw any) (Value, bool) {
	switch t {
	case TypeString:
		s, ok := document.AsString(raw)
		if !ok {
			return Value{}, false
		}
		return NewString(s), true
	case TypeBool:
		b, ok := document.AsBool(raw)
		if !ok {
			return Value{}, false
		}
		return NewBool(b), true
	case TypeUUID:
		s, ok := document.AsString(raw)
		if !ok {
			return Value{}, false
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return Value{}, false
		}
		return NewUUID(id), true
	}

	n, ok := document.AsInteger(raw)
	if !ok {
		return Value{}, false
	}
	if t.unsigned() {
		if n < 0 || uint64(n) > unsignedMax(t) {
			return Value{}, false
		}
		return NewUint(t, uint64(n)), true
	}
	min, max := signedBounds(t)
	if n < min || n > max {
		return Value{}, false
	}
	return NewInt(t, n), true
}

// CoerceWith applies the caller-chosen failure policy to Coerce.
func CoerceWith(t Type, raw any, policy CoercePolicy) (Value, bool) {
	v, ok := Coerce(t, raw)
	if !ok && policy == CoerceZero {
		return Zero(t), true
	}
	return v, ok
}

func unsignedMax(t Type) uint64 {
	switch t {
	case TypeU8:
		return math.MaxUint8
	case TypeU16:
		return math.MaxUint16
	case TypeU32:
		return math.MaxUint32
	default:
		return math.MaxInt64
	}
}

func signedBounds(t Type) (int64, int64) {
	switch t {
	case TypeI8:
		return math.MinInt8, math.MaxInt8
	case TypeI16:
		return math.MinInt16, math.MaxInt16
	case TypeI32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}
