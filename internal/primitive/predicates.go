package primitive

import "github.com/LittleGreyCells/escheme-compiled/internal/heap"

// NullP implements `null?`: identity against the canonical empty list.
func NullP(a Args) (heap.Value, error) {
	if err := exactly("null?", a, 1); err != nil {
		return nil, err
	}
	return heap.Bool(a.Get(0) == heap.Null), nil
}

// PairP implements `pair?`.
func PairP(a Args) (heap.Value, error) {
	if err := exactly("pair?", a, 1); err != nil {
		return nil, err
	}
	_, ok := heap.AsPair(a.Get(0))
	return heap.Bool(ok), nil
}

// Not implements `not`: #t only for the #f value itself.
func Not(a Args) (heap.Value, error) {
	if err := exactly("not", a, 1); err != nil {
		return nil, err
	}
	return heap.Bool(a.Get(0) == heap.False), nil
}

// EqP implements `eq?`: identity, which for the three immediate kinds this
// implementation gives value (not pointer) semantics to — Fixnum, Flonum
// and Char — coincides with eqv? on those; every other kind is pointer
// equality, same as the Go `==` the cell types already support.
func EqP(a Args) (heap.Value, error) {
	if err := exactly("eq?", a, 2); err != nil {
		return nil, err
	}
	return heap.Bool(a.Get(0) == a.Get(1)), nil
}

// EqvP implements `eqv?`, delegating to heap.Eqv, the same equality the
// assembler's constant-pool dedup uses.
func EqvP(a Args) (heap.Value, error) {
	if err := exactly("eqv?", a, 2); err != nil {
		return nil, err
	}
	return heap.Bool(heap.Eqv(a.Get(0), a.Get(1))), nil
}
