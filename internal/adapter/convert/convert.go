// Package convert contains the default [domain.Converter] implementation:
// the recursive, bidirectional mapping between host Go values and the
// bval value model.
//
// The host→value direction dispatches over host shapes in a fixed
// priority order: nil, booleans, numbers (integral vs fractional),
// strings, byte slices, instants, ObjectID wrappers, pass-through bval
// types, lists, keyed objects, and finally an unsupported-type error.
// Reordering these cases changes observable behavior (time.Time is a
// struct, ObjectID is an array type); the order is covered by tests.
package convert

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	goreflect "github.com/goccy/go-reflect"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/pkg/bval"
)

// TagName is the struct tag controlling field names and omission, in the
// form `jotdb:"name,omitempty,omitzero"`.
const TagName = "jotdb"

var timeTyp = goreflect.TypeOf(*new(time.Time))

// Converter implements domain.Converter.
type Converter struct {
	reg domain.Registry
}

// NewConverter returns a new implementation of domain.Converter. The
// registry, when given, resolves application wrapper types around
// ObjectIDs; its lifetime is the converter's, not the process's.
func NewConverter(options ...domain.ConverterOption) domain.Converter {
	opts := domain.ConverterOptions{}
	for _, option := range options {
		option(&opts)
	}
	return &Converter{reg: opts.Registry}
}

// ToValue implements domain.Converter.
func (c *Converter) ToValue(v any) (bval.Value, error) {
	switch t := v.(type) {
	case nil:
		return bval.Null(), nil
	case bool:
		return bval.Boolean(t), nil
	case int:
		return bval.Int64(int64(t)), nil
	case int8:
		return bval.Int64(int64(t)), nil
	case int16:
		return bval.Int64(int64(t)), nil
	case int32:
		return bval.Int64(int64(t)), nil
	case int64:
		return bval.Int64(t), nil
	case uint8:
		return bval.Int64(int64(t)), nil
	case uint16:
		return bval.Int64(int64(t)), nil
	case uint32:
		return bval.Int64(int64(t)), nil
	case uint:
		return c.uintToValue(uint64(t))
	case uint64:
		return c.uintToValue(t)
	case float32:
		return floatToValue(float64(t)), nil
	case float64:
		return floatToValue(t), nil
	case string:
		return bval.String(t), nil
	case []byte:
		return bval.Binary(t), nil
	case time.Time:
		return bval.DateTimeValue(bval.NewDateTime(t)), nil
	case bval.ObjectID:
		return bval.ObjectIDValue(t), nil
	case bval.DateTime:
		return bval.DateTimeValue(t), nil
	case bval.Value:
		return t, nil
	case *bval.Document:
		if t == nil {
			return bval.Null(), nil
		}
		return bval.ObjectValue(t), nil
	case *bval.Array:
		if t == nil {
			return bval.Null(), nil
		}
		return bval.ArrayValue(t), nil
	case map[string]any:
		return c.mapToValue(t)
	case []any:
		return c.sliceToValue(t)
	}

	if c.reg != nil {
		if id, ok := c.reg.UnwrapObjectID(v); ok {
			return bval.ObjectIDValue(id), nil
		}
	}

	return c.reflectToValue(goreflect.ValueNoEscapeOf(v))
}

func (c *Converter) uintToValue(u uint64) (bval.Value, error) {
	if u > math.MaxInt64 {
		return bval.Value{}, &domain.ErrIntegerOverflow{Value: strconv.FormatUint(u, 10)}
	}
	return bval.Int64(int64(u)), nil
}

// floatToValue maps integral floats to Int64 and everything else,
// including NaN and the infinities, to Double. Integral means the round
// trip through int64 is exact.
func floatToValue(f float64) bval.Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		i := int64(f)
		if float64(i) == f {
			return bval.Int64(i)
		}
	}
	return bval.Double(f)
}

func (c *Converter) mapToValue(m map[string]any) (bval.Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := bval.NewDocument()
	for _, k := range keys {
		item, err := c.ToValue(m[k])
		if err != nil {
			return bval.Value{}, err
		}
		doc.Set(k, item)
	}
	return bval.ObjectValue(doc), nil
}

func (c *Converter) sliceToValue(s []any) (bval.Value, error) {
	arr := bval.NewArray()
	for _, e := range s {
		item, err := c.ToValue(e)
		if err != nil {
			return bval.Value{}, err
		}
		arr.Push(item)
	}
	return bval.ArrayValue(arr), nil
}

func (c *Converter) reflectToValue(r goreflect.Value) (bval.Value, error) {
	for r.Kind() == goreflect.Ptr || r.Kind() == goreflect.Interface {
		if r.IsNil() {
			return bval.Null(), nil
		}
		r = r.Elem()
	}

	switch r.Kind() {
	case goreflect.Invalid:
		return bval.Null(), nil
	case goreflect.Bool:
		return bval.Boolean(r.Bool()), nil
	case goreflect.Int, goreflect.Int8, goreflect.Int16, goreflect.Int32, goreflect.Int64:
		return bval.Int64(r.Int()), nil
	case goreflect.Uint, goreflect.Uint8, goreflect.Uint16, goreflect.Uint32, goreflect.Uint64:
		return c.uintToValue(r.Uint())
	case goreflect.Float32, goreflect.Float64:
		return floatToValue(r.Float()), nil
	case goreflect.String:
		return bval.String(r.String()), nil
	case goreflect.Slice:
		if r.IsNil() {
			return bval.Null(), nil
		}
		if r.Type().Elem().Kind() == goreflect.Uint8 {
			return bval.Binary(r.Bytes()), nil
		}
		return c.reflectListToValue(r)
	case goreflect.Array:
		return c.reflectListToValue(r)
	case goreflect.Map:
		if r.IsNil() {
			return bval.Null(), nil
		}
		return c.reflectMapToValue(r)
	case goreflect.Struct:
		if r.Type() == timeTyp {
			return c.ToValue(r.Interface())
		}
		return c.structToValue(r)
	default:
		return bval.Value{}, &domain.ErrConversion{GoType: r.Type().String()}
	}
}

func (c *Converter) reflectListToValue(r goreflect.Value) (bval.Value, error) {
	arr := bval.NewArray()
	for i := range r.Len() {
		item, err := c.ToValue(r.Index(i).Interface())
		if err != nil {
			return bval.Value{}, err
		}
		arr.Push(item)
	}
	return bval.ArrayValue(arr), nil
}

func (c *Converter) reflectMapToValue(r goreflect.Value) (bval.Value, error) {
	if r.Type().Key().Kind() != goreflect.String {
		return bval.Value{}, &domain.ErrConversion{GoType: r.Type().String()}
	}

	keys := make([]string, 0, r.Len())
	for _, k := range r.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	doc := bval.NewDocument()
	for _, k := range keys {
		item, err := c.ToValue(r.MapIndex(goreflect.ValueOf(k)).Interface())
		if err != nil {
			return bval.Value{}, err
		}
		doc.Set(k, item)
	}
	return bval.ObjectValue(doc), nil
}

func (c *Converter) structToValue(r goreflect.Value) (bval.Value, error) {
	typ := r.Type()
	doc := bval.NewDocument()

	for n := range r.NumField() {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}

		name := field.Name
		var segments []string
		if tag, ok := field.Tag.Lookup(TagName); ok {
			if tag == "-" {
				continue
			}
			segments = strings.Split(tag, ",")
			if segments[0] != "" {
				name = segments[0]
			}
			segments = segments[1:]
		}

		fv := r.Field(n)
		if contains(segments, "omitempty") && isNilable(field.Type.Kind()) && fv.IsNil() {
			continue
		}
		if contains(segments, "omitzero") && fv.IsZero() {
			continue
		}

		item, err := c.ToValue(fv.Interface())
		if err != nil {
			return bval.Value{}, err
		}
		doc.Set(name, item)
	}
	return bval.ObjectValue(doc), nil
}

func contains(segments []string, s string) bool {
	for _, seg := range segments {
		if seg == s {
			return true
		}
	}
	return false
}

func isNilable(k goreflect.Kind) bool {
	return k == goreflect.Ptr ||
		k == goreflect.Slice ||
		k == goreflect.Map ||
		k == goreflect.Interface ||
		k == goreflect.Func ||
		k == goreflect.Chan
}

// FromValue implements domain.Converter. The mapping is total: every
// value variant has exactly one host representation.
func (c *Converter) FromValue(v bval.Value) (any, error) {
	switch v.Type() {
	case bval.TypeNull:
		return nil, nil
	case bval.TypeBoolean:
		b, err := v.AsBool()
		return b, err
	case bval.TypeInt64:
		i, err := v.AsInt64()
		return i, err
	case bval.TypeDouble:
		f, err := v.AsDouble()
		return f, err
	case bval.TypeString:
		s, err := v.AsString()
		return s, err
	case bval.TypeBinary:
		b, err := v.AsBinary()
		return b, err
	case bval.TypeObjectID:
		id, err := v.AsObjectID()
		if err != nil {
			return nil, err
		}
		if c.reg != nil {
			return c.reg.WrapObjectID(id), nil
		}
		return id, nil
	case bval.TypeDateTime:
		dt, err := v.AsDateTime()
		if err != nil {
			return nil, err
		}
		return dt.Time(), nil
	case bval.TypeArray:
		arr, err := v.AsArray()
		if err != nil {
			return nil, err
		}
		res := make([]any, 0, arr.Len())
		for i := range arr.Len() {
			item, _ := arr.Get(i)
			host, err := c.FromValue(item)
			if err != nil {
				return nil, err
			}
			res = append(res, host)
		}
		return res, nil
	case bval.TypeDocument:
		doc, err := v.AsDocument()
		if err != nil {
			return nil, err
		}
		res := make(map[string]any, doc.Len())
		for k, item := range doc.Iter() {
			host, err := c.FromValue(item)
			if err != nil {
				return nil, err
			}
			res[k] = host
		}
		return res, nil
	default:
		return nil, &domain.ErrConversion{GoType: "bval." + v.Type().String()}
	}
}
