// Package bval contains the tagged value model shared by every layer of
// jotdb: a closed union over the scalar types the engine understands plus
// two ordered containers, [Document] and [Array].
//
// A [Value] carries exactly one active [Type] tag; the typed AsX accessors
// fail with [ErrTypeMismatch] when asked for a payload the tag does not
// hold. Scalars are immutable once constructed. Containers are mutated
// only through their own methods, and wrapping a container in a Value
// shares the container rather than copying it; use Clone for isolation.
package bval

import "fmt"

// Type discriminates the active payload of a [Value]. The byte values are
// the engine's wire tags.
type Type byte

const (
	TypeDouble   Type = 0x01
	TypeString   Type = 0x02
	TypeBinary   Type = 0x05
	TypeObjectID Type = 0x07
	TypeBoolean  Type = 0x08
	TypeDateTime Type = 0x09
	TypeNull     Type = 0x0A
	TypeDocument Type = 0x13
	TypeInt64    Type = 0x16
	TypeArray    Type = 0x17
)

// String returns the lowercase name of the type tag.
func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeBinary:
		return "binary"
	case TypeObjectID:
		return "objectid"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime:
		return "datetime"
	case TypeNull:
		return "null"
	case TypeDocument:
		return "document"
	case TypeInt64:
		return "int64"
	case TypeArray:
		return "array"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(t))
	}
}

// ErrTypeMismatch is returned by the typed accessors of [Value] when the
// active tag differs from the requested one.
type ErrTypeMismatch struct {
	Want Type
	Got  Type
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("bval: value is %s, not %s", e.Got, e.Want)
}

// Value is the tagged union at the center of the data model. The zero
// Value is Null.
type Value struct {
	typ Type
	num int64 // Int64 payload, Boolean as 0/1, DateTime as epoch ms
	dbl float64
	str string
	bin []byte
	oid ObjectID
	doc *Document
	arr *Array
}

// Null returns the null Value.
func Null() Value {
	return Value{typ: TypeNull}
}

// Boolean returns a boolean Value.
func Boolean(b bool) Value {
	var n int64
	if b {
		n = 1
	}
	return Value{typ: TypeBoolean, num: n}
}

// Int64 returns a 64-bit integer Value.
func Int64(i int64) Value {
	return Value{typ: TypeInt64, num: i}
}

// Double returns a floating point Value.
func Double(f float64) Value {
	return Value{typ: TypeDouble, dbl: f}
}

// String returns a UTF-8 string Value.
func String(s string) Value {
	return Value{typ: TypeString, str: s}
}

// Binary returns a byte sequence Value. The slice is shared, not copied.
func Binary(b []byte) Value {
	return Value{typ: TypeBinary, bin: b}
}

// ObjectIDValue wraps an [ObjectID].
func ObjectIDValue(id ObjectID) Value {
	return Value{typ: TypeObjectID, oid: id}
}

// DateTimeValue wraps a [DateTime].
func DateTimeValue(dt DateTime) Value {
	return Value{typ: TypeDateTime, num: int64(dt)}
}

// ObjectValue wraps a [Document]. The document is shared with the Value;
// mutations through either handle are visible through both.
func ObjectValue(d *Document) Value {
	return Value{typ: TypeDocument, doc: d}
}

// ArrayValue wraps an [Array]. The array is shared with the Value.
func ArrayValue(a *Array) Value {
	return Value{typ: TypeArray, arr: a}
}

// Type returns the active tag. The zero Value reports TypeNull.
func (v Value) Type() Type {
	if v.typ == 0 {
		return TypeNull
	}
	return v.typ
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Type() == TypeNull
}

// AsBool extracts the boolean payload.
func (v Value) AsBool() (bool, error) {
	if v.Type() != TypeBoolean {
		return false, &ErrTypeMismatch{Want: TypeBoolean, Got: v.Type()}
	}
	return v.num != 0, nil
}

// AsInt64 extracts the integer payload.
func (v Value) AsInt64() (int64, error) {
	if v.Type() != TypeInt64 {
		return 0, &ErrTypeMismatch{Want: TypeInt64, Got: v.Type()}
	}
	return v.num, nil
}

// AsDouble extracts the floating point payload.
func (v Value) AsDouble() (float64, error) {
	if v.Type() != TypeDouble {
		return 0, &ErrTypeMismatch{Want: TypeDouble, Got: v.Type()}
	}
	return v.dbl, nil
}

// AsString extracts the string payload.
func (v Value) AsString() (string, error) {
	if v.Type() != TypeString {
		return "", &ErrTypeMismatch{Want: TypeString, Got: v.Type()}
	}
	return v.str, nil
}

// AsBinary extracts the byte sequence payload. The slice is shared.
func (v Value) AsBinary() ([]byte, error) {
	if v.Type() != TypeBinary {
		return nil, &ErrTypeMismatch{Want: TypeBinary, Got: v.Type()}
	}
	return v.bin, nil
}

// AsObjectID extracts the object id payload.
func (v Value) AsObjectID() (ObjectID, error) {
	if v.Type() != TypeObjectID {
		return ObjectID{}, &ErrTypeMismatch{Want: TypeObjectID, Got: v.Type()}
	}
	return v.oid, nil
}

// AsDateTime extracts the datetime payload.
func (v Value) AsDateTime() (DateTime, error) {
	if v.Type() != TypeDateTime {
		return 0, &ErrTypeMismatch{Want: TypeDateTime, Got: v.Type()}
	}
	return DateTime(v.num), nil
}

// AsDocument extracts the document payload. The document is shared.
func (v Value) AsDocument() (*Document, error) {
	if v.Type() != TypeDocument {
		return nil, &ErrTypeMismatch{Want: TypeDocument, Got: v.Type()}
	}
	return v.doc, nil
}

// AsArray extracts the array payload. The array is shared.
func (v Value) AsArray() (*Array, error) {
	if v.Type() != TypeArray {
		return nil, &ErrTypeMismatch{Want: TypeArray, Got: v.Type()}
	}
	return v.arr, nil
}

// Clone returns a deep copy of the value. Containers and binary payloads
// are copied recursively.
func (v Value) Clone() Value {
	switch v.Type() {
	case TypeBinary:
		if v.bin == nil {
			return v
		}
		b := make([]byte, len(v.bin))
		copy(b, v.bin)
		return Binary(b)
	case TypeDocument:
		if v.doc == nil {
			return v
		}
		return ObjectValue(v.doc.Clone())
	case TypeArray:
		if v.arr == nil {
			return v
		}
		return ArrayValue(v.arr.Clone())
	default:
		return v
	}
}

// Equal reports deep structural equality: same tag, same payload, and for
// containers the same order of keys and elements.
func (v Value) Equal(o Value) bool {
	if v.Type() != o.Type() {
		return false
	}
	switch v.Type() {
	case TypeNull:
		return true
	case TypeBoolean, TypeInt64, TypeDateTime:
		return v.num == o.num
	case TypeDouble:
		return v.dbl == o.dbl
	case TypeString:
		return v.str == o.str
	case TypeBinary:
		if len(v.bin) != len(o.bin) {
			return false
		}
		for i := range v.bin {
			if v.bin[i] != o.bin[i] {
				return false
			}
		}
		return true
	case TypeObjectID:
		return v.oid == o.oid
	case TypeDocument:
		return v.doc.Equal(o.doc)
	case TypeArray:
		return v.arr.Equal(o.arr)
	default:
		return false
	}
}

// String renders a short debug form of the value.
func (v Value) String() string {
	switch v.Type() {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return fmt.Sprintf("%t", v.num != 0)
	case TypeInt64:
		return fmt.Sprintf("%d", v.num)
	case TypeDouble:
		return fmt.Sprintf("%g", v.dbl)
	case TypeString:
		return fmt.Sprintf("%q", v.str)
	case TypeBinary:
		return fmt.Sprintf("binary(%d bytes)", len(v.bin))
	case TypeObjectID:
		return "ObjectId(" + v.oid.Hex() + ")"
	case TypeDateTime:
		return "DateTime(" + DateTime(v.num).Time().String() + ")"
	case TypeDocument:
		return v.doc.String()
	case TypeArray:
		return v.arr.String()
	default:
		return v.Type().String()
	}
}
