package bval

import (
	"fmt"
	"strings"
)

// ErrIndexOutOfRange is returned by [Array.Get] and [Array.Set] when the
// index does not address an existing element.
type ErrIndexOutOfRange struct {
	Index int
	Len   int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("bval: index %d out of range for array of length %d", e.Index, e.Len)
}

// Array is an ordered, 0-indexed sequence of Values.
type Array struct {
	items []Value
}

// NewArray returns an empty array.
func NewArray() *Array {
	return &Array{}
}

// Push appends a value.
func (a *Array) Push(v Value) {
	a.items = append(a.items, v)
}

// Get returns the element at index i, or [ErrIndexOutOfRange].
func (a *Array) Get(i int) (Value, error) {
	if i < 0 || i >= len(a.items) {
		return Value{}, &ErrIndexOutOfRange{Index: i, Len: len(a.items)}
	}
	return a.items[i], nil
}

// Set overwrites the element at index i, or returns [ErrIndexOutOfRange].
func (a *Array) Set(i int, v Value) error {
	if i < 0 || i >= len(a.items) {
		return &ErrIndexOutOfRange{Index: i, Len: len(a.items)}
	}
	a.items[i] = v
	return nil
}

// Len returns the number of elements. A nil array has length 0.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	res := &Array{items: make([]Value, len(a.items))}
	for i, v := range a.items {
		res.items[i] = v.Clone()
	}
	return res
}

// Equal reports element-wise equality in order.
func (a *Array) Equal(o *Array) bool {
	if a == nil || o == nil {
		return a.Len() == o.Len()
	}
	if len(a.items) != len(o.items) {
		return false
	}
	for i, v := range a.items {
		if !v.Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// String renders the array for debugging.
func (a *Array) String() string {
	if a == nil {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
