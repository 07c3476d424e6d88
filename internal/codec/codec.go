package codec

import (
	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

const (
	tagLiteral = heap.Fixnum(0)
	tagCode    = heap.Fixnum(1)
)

// ToSexpr converts code into its persisted list form: a byte-vector of the
// instruction stream paired with a flat constant-pool list headed by its
// own size, each constant preceded by a tag byte marking it as a literal
// datum or a nested code object to recurse into.
func ToSexpr(code *heap.Code) heap.Value {
	items := make([]heap.Value, 0, 1+2*len(code.Sexprs))
	items = append(items, heap.Fixnum(len(code.Sexprs)))
	for _, item := range code.Sexprs {
		if nested, ok := heap.AsCode(item); ok {
			items = append(items, tagCode, ToSexpr(nested))
		} else {
			items = append(items, tagLiteral, item)
		}
	}
	return heap.List(heap.NewByteVector(code.Bcodes), heap.List(items...))
}

// FromSexpr is ToSexpr's inverse, rebuilding a *heap.Code tree from its
// persisted list form.
func FromSexpr(v heap.Value) (*heap.Code, error) {
	top, ok := heap.ListToSlice(v)
	if !ok || len(top) != 2 {
		return nil, &FormatError{Reason: "code must be a (byte-vector sexprs) pair"}
	}

	bv, ok := heap.AsByteVector(top[0])
	if !ok {
		return nil, &FormatError{Reason: "code's first element must be a byte-vector"}
	}

	rest, ok := heap.ListToSlice(top[1])
	if !ok || len(rest) == 0 {
		return nil, &FormatError{Reason: "code's second element must be a (size tag item ...) list"}
	}

	size, ok := heap.AsFixnum(rest[0])
	if !ok || int(size) < 0 {
		return nil, &FormatError{Reason: "sexprs size must be a non-negative fixnum"}
	}
	pairs := rest[1:]
	if len(pairs) != 2*int(size) {
		return nil, &FormatError{Reason: "sexprs size does not match the number of tag/item pairs"}
	}

	sexprs := make([]heap.Value, size)
	for i := 0; i < int(size); i++ {
		tag, ok := heap.AsFixnum(pairs[2*i])
		if !ok {
			return nil, &FormatError{Reason: "tag must be a fixnum"}
		}
		item := pairs[2*i+1]
		switch tag {
		case tagLiteral:
			sexprs[i] = item
		case tagCode:
			nested, err := FromSexpr(item)
			if err != nil {
				return nil, err
			}
			sexprs[i] = nested
		default:
			return nil, &FormatError{Reason: "tag must be 0 or 1"}
		}
	}

	return heap.NewCode(bv.Bytes, sexprs), nil
}
