package primitive

import "github.com/LittleGreyCells/escheme-compiled/internal/heap"

// Cons implements `cons`: allocate a fresh pair.
func Cons(a Args) (heap.Value, error) {
	if err := exactly("cons", a, 2); err != nil {
		return nil, err
	}
	return heap.Cons(a.Get(0), a.Get(1)), nil
}

// Car implements `car`.
func Car(a Args) (heap.Value, error) {
	if err := exactly("car", a, 1); err != nil {
		return nil, err
	}
	p, ok := heap.AsPair(a.Get(0))
	if !ok {
		return nil, &WrongTypeError{Name: "car", Val: a.Get(0)}
	}
	return p.Car, nil
}

// Cdr implements `cdr`.
func Cdr(a Args) (heap.Value, error) {
	if err := exactly("cdr", a, 1); err != nil {
		return nil, err
	}
	p, ok := heap.AsPair(a.Get(0))
	if !ok {
		return nil, &WrongTypeError{Name: "cdr", Val: a.Get(0)}
	}
	return p.Cdr, nil
}

// List implements `list`: a fresh proper list of the given arguments, the
// same "every call allocates" identity guarantee heap.List documents.
func List(a Args) (heap.Value, error) {
	vals := make([]heap.Value, a.Len())
	for i := range vals {
		vals[i] = a.Get(i)
	}
	return heap.List(vals...), nil
}
