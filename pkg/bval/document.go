package bval

import (
	"iter"
	"slices"
	"strings"
)

// Document is an insertion-ordered mapping from unique string keys to
// Values. Setting an existing key overwrites the value in place and keeps
// the key's original iteration position.
type Document struct {
	keys   []string
	values map[string]Value
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]Value)}
}

// Set inserts key with value, or overwrites the value if the key already
// exists. Overwriting does not change the key's iteration position.
func (d *Document) Set(key string, v Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value for key. The second return reports whether the
// key is present; a missing key is not an error.
func (d *Document) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	if _, ok := d.values[key]; !ok {
		return false
	}
	delete(d.values, key)
	i := slices.Index(d.keys, key)
	d.keys = slices.Delete(d.keys, i, i+1)
	return true
}

// Len returns the number of keys. A nil document has length 0.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.values)
}

// Keys returns the keys in iteration order. The slice is a copy.
func (d *Document) Keys() []string {
	return slices.Clone(d.keys)
}

// Iter returns a single-pass sequence of (key, value) pairs in insertion
// order. The key order is snapshotted when Iter is called; mutating the
// document while iterating leaves the enumeration order unspecified.
// To re-enumerate, call Iter again.
func (d *Document) Iter() iter.Seq2[string, Value] {
	keys := slices.Clone(d.keys)
	return func(yield func(string, Value) bool) {
		for _, k := range keys {
			v, ok := d.values[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	res := &Document{
		keys:   slices.Clone(d.keys),
		values: make(map[string]Value, len(d.values)),
	}
	for k, v := range d.values {
		res.values[k] = v.Clone()
	}
	return res
}

// Equal reports whether both documents hold the same keys in the same
// order with equal values. A nil document equals only another nil or
// empty document.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d.Len() == o.Len()
	}
	if len(d.keys) != len(o.keys) {
		return false
	}
	for i, k := range d.keys {
		if o.keys[i] != k {
			return false
		}
		if !d.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// String renders the document in insertion order for debugging.
func (d *Document) String() string {
	if d == nil {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(d.values[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
