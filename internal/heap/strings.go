package heap

import (
	"fmt"
	"strings"
)

// String is a mutable, fixed-length byte string cell (length + bytes).
type String struct {
	cellHeader
	Bytes []byte
}

// NewString allocates a string cell from a Go string.
func NewString(s string) *String {
	return &String{Bytes: []byte(s)}
}

func (*String) Kind() Kind { return KindString }
func (s *String) String() string {
	return fmt.Sprintf("%q", string(s.Bytes))
}

// Go returns the Go string view of the cell's bytes.
func (s *String) Go() string { return string(s.Bytes) }

// ByteVector is a length + bytes cell, distinct from String only in how
// primitives and the printer treat it.
type ByteVector struct {
	cellHeader
	Bytes []byte
}

func NewByteVector(b []byte) *ByteVector {
	return &ByteVector{Bytes: b}
}

func (*ByteVector) Kind() Kind { return KindByteVector }
func (b *ByteVector) String() string {
	parts := make([]string, len(b.Bytes))
	for i, v := range b.Bytes {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "#u8(" + strings.Join(parts, " ") + ")"
}

// Vector is a length + cell-slots array.
type Vector struct {
	cellHeader
	Slots []Value
}

func NewVector(n int, fill Value) *Vector {
	slots := make([]Value, n)
	for i := range slots {
		slots[i] = fill
	}
	return &Vector{Slots: slots}
}

func (*Vector) Kind() Kind { return KindVector }
func (v *Vector) String() string {
	parts := make([]string, len(v.Slots))
	for i, s := range v.Slots {
		parts[i] = s.String()
	}
	return "#(" + strings.Join(parts, " ") + ")"
}
