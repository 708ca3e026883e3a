// Package serializer contains the default [domain.Serializer] and
// [domain.Deserializer] implementations: a msgpack row codec for the
// engine's persistent store.
//
// Documents are stored as a {"$doc": [k1, v1, k2, v2, ...]} pair list so
// key order survives the trip through msgpack maps. ObjectIDs, instants
// and byte payloads ride as single-key tagged maps ("$oid", "$date",
// "$bin"). The "$" prefix is reserved for the codec at this level.
package serializer

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/pkg/bval"
)

const (
	tagDoc  = "$doc"
	tagOid  = "$oid"
	tagDate = "$date"
	tagBin  = "$bin"
)

// Serializer implements domain.Serializer.
type Serializer struct{}

// NewSerializer returns a new implementation of domain.Serializer.
func NewSerializer() domain.Serializer {
	return &Serializer{}
}

// Serialize implements domain.Serializer.
func (s *Serializer) Serialize(ctx context.Context, doc *bval.Document) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if doc == nil {
		return nil, domain.ErrNilDocument
	}
	return msgpack.Marshal(encodeValue(bval.ObjectValue(doc)))
}

func encodeValue(v bval.Value) any {
	switch v.Type() {
	case bval.TypeNull:
		return nil
	case bval.TypeBoolean:
		b, _ := v.AsBool()
		return b
	case bval.TypeInt64:
		i, _ := v.AsInt64()
		return i
	case bval.TypeDouble:
		f, _ := v.AsDouble()
		return f
	case bval.TypeString:
		s, _ := v.AsString()
		return s
	case bval.TypeBinary:
		b, _ := v.AsBinary()
		return map[string]any{tagBin: b}
	case bval.TypeObjectID:
		id, _ := v.AsObjectID()
		return map[string]any{tagOid: id.Hex()}
	case bval.TypeDateTime:
		dt, _ := v.AsDateTime()
		return map[string]any{tagDate: int64(dt)}
	case bval.TypeArray:
		arr, _ := v.AsArray()
		res := make([]any, 0, arr.Len())
		for i := range arr.Len() {
			item, _ := arr.Get(i)
			res = append(res, encodeValue(item))
		}
		return res
	case bval.TypeDocument:
		doc, _ := v.AsDocument()
		pairs := make([]any, 0, doc.Len()*2)
		for k, item := range doc.Iter() {
			pairs = append(pairs, k, encodeValue(item))
		}
		return map[string]any{tagDoc: pairs}
	default:
		return nil
	}
}

// Deserializer implements domain.Deserializer.
type Deserializer struct{}

// NewDeserializer returns a new implementation of domain.Deserializer.
func NewDeserializer() domain.Deserializer {
	return &Deserializer{}
}

// Deserialize implements domain.Deserializer.
func (d *Deserializer) Deserialize(ctx context.Context, data []byte) (*bval.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	v, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}
	doc, err := v.AsDocument()
	if err != nil {
		return nil, fmt.Errorf("serializer: row is not a document: %w", err)
	}
	return doc, nil
}

func decodeValue(raw any) (bval.Value, error) {
	switch t := raw.(type) {
	case nil:
		return bval.Null(), nil
	case bool:
		return bval.Boolean(t), nil
	case int64:
		return bval.Int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return bval.Value{}, fmt.Errorf("serializer: integer %d out of range", t)
		}
		return bval.Int64(int64(t)), nil
	case float64:
		return bval.Double(t), nil
	case string:
		return bval.String(t), nil
	case []byte:
		return bval.Binary(t), nil
	case []any:
		arr := bval.NewArray()
		for _, e := range t {
			item, err := decodeValue(e)
			if err != nil {
				return bval.Value{}, err
			}
			arr.Push(item)
		}
		return bval.ArrayValue(arr), nil
	case map[string]any:
		return decodeTagged(t)
	default:
		return bval.Value{}, fmt.Errorf("serializer: unexpected stored type %T", raw)
	}
}

func decodeTagged(m map[string]any) (bval.Value, error) {
	if len(m) != 1 {
		return bval.Value{}, fmt.Errorf("serializer: malformed tagged value with %d keys", len(m))
	}

	if raw, ok := m[tagDoc]; ok {
		pairs, ok := raw.([]any)
		if !ok || len(pairs)%2 != 0 {
			return bval.Value{}, fmt.Errorf("serializer: malformed document pair list")
		}
		doc := bval.NewDocument()
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return bval.Value{}, fmt.Errorf("serializer: document key is %T, not string", pairs[i])
			}
			item, err := decodeValue(pairs[i+1])
			if err != nil {
				return bval.Value{}, err
			}
			doc.Set(key, item)
		}
		return bval.ObjectValue(doc), nil
	}

	if raw, ok := m[tagOid]; ok {
		hexStr, ok := raw.(string)
		if !ok {
			return bval.Value{}, fmt.Errorf("serializer: object id is %T, not string", raw)
		}
		id, err := bval.ObjectIDFromHex(hexStr)
		if err != nil {
			return bval.Value{}, err
		}
		return bval.ObjectIDValue(id), nil
	}

	if raw, ok := m[tagDate]; ok {
		// msgpack picks the most compact integer format, so the count
		// can come back signed or unsigned.
		switch ms := raw.(type) {
		case int64:
			return bval.DateTimeValue(bval.DateTime(ms)), nil
		case uint64:
			return bval.DateTimeValue(bval.DateTime(ms)), nil
		default:
			return bval.Value{}, fmt.Errorf("serializer: datetime is %T, not int64", raw)
		}
	}

	if raw, ok := m[tagBin]; ok {
		b, ok := raw.([]byte)
		if !ok {
			return bval.Value{}, fmt.Errorf("serializer: binary is %T, not bytes", raw)
		}
		return bval.Binary(b), nil
	}

	return bval.Value{}, fmt.Errorf("serializer: unknown tag in stored value")
}
