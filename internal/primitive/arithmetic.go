package primitive

import (
	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

// number reads an argument as a float64 plus whether the value was exact
// (a Fixnum) rather than inexact (a Flonum), so the arithmetic primitives
// below can stay exact unless any operand forces a contagion to inexact —
// the usual numeric-tower rule, scaled down to this implementation's two
// numeric kinds.
func number(name string, v heap.Value) (f float64, exact bool, err error) {
	switch n := v.(type) {
	case heap.Fixnum:
		return float64(n), true, nil
	case heap.Flonum:
		return float64(n), false, nil
	default:
		return 0, false, &WrongTypeError{Name: name, Val: v}
	}
}

func result(f float64, exact bool) heap.Value {
	if exact {
		return heap.Fixnum(f)
	}
	return heap.Flonum(f)
}

// Add implements `+`: the sum of zero or more numbers, 0 if called with none.
func Add(a Args) (heap.Value, error) {
	acc := 0.0
	exact := true
	for i := 0; i < a.Len(); i++ {
		f, ex, err := number("+", a.Get(i))
		if err != nil {
			return nil, err
		}
		acc += f
		exact = exact && ex
	}
	return result(acc, exact), nil
}

// Sub implements `-`: negation of a single argument, or left-to-right
// subtraction of two or more.
func Sub(a Args) (heap.Value, error) {
	if err := atLeast("-", a, 1); err != nil {
		return nil, err
	}
	first, exact, err := number("-", a.Get(0))
	if err != nil {
		return nil, err
	}
	if a.Len() == 1 {
		return result(-first, exact), nil
	}
	acc := first
	for i := 1; i < a.Len(); i++ {
		f, ex, err := number("-", a.Get(i))
		if err != nil {
			return nil, err
		}
		acc -= f
		exact = exact && ex
	}
	return result(acc, exact), nil
}

// Mul implements `*`: the product of zero or more numbers, 1 if called with
// none.
func Mul(a Args) (heap.Value, error) {
	acc := 1.0
	exact := true
	for i := 0; i < a.Len(); i++ {
		f, ex, err := number("*", a.Get(i))
		if err != nil {
			return nil, err
		}
		acc *= f
		exact = exact && ex
	}
	return result(acc, exact), nil
}

// Div implements `/`: reciprocal of a single argument, or left-to-right
// division of two or more. Division always produces an inexact result,
// since this implementation carries no rational type.
func Div(a Args) (heap.Value, error) {
	if err := atLeast("/", a, 1); err != nil {
		return nil, err
	}
	first, _, err := number("/", a.Get(0))
	if err != nil {
		return nil, err
	}
	if a.Len() == 1 {
		return heap.Flonum(1 / first), nil
	}
	acc := first
	for i := 1; i < a.Len(); i++ {
		f, _, err := number("/", a.Get(i))
		if err != nil {
			return nil, err
		}
		acc /= f
	}
	return heap.Flonum(acc), nil
}

func compare(name string, a Args, ok func(prev, cur float64) bool) (heap.Value, error) {
	if err := atLeast(name, a, 1); err != nil {
		return nil, err
	}
	prev, _, err := number(name, a.Get(0))
	if err != nil {
		return nil, err
	}
	for i := 1; i < a.Len(); i++ {
		cur, _, err := number(name, a.Get(i))
		if err != nil {
			return nil, err
		}
		if !ok(prev, cur) {
			return heap.False, nil
		}
		prev = cur
	}
	return heap.True, nil
}

// NumEq implements `=`: every argument numerically equal in sequence.
func NumEq(a Args) (heap.Value, error) {
	return compare("=", a, func(p, c float64) bool { return p == c })
}

// Lt implements `<`: strictly increasing.
func Lt(a Args) (heap.Value, error) {
	return compare("<", a, func(p, c float64) bool { return p < c })
}

// Gt implements `>`: strictly decreasing.
func Gt(a Args) (heap.Value, error) {
	return compare(">", a, func(p, c float64) bool { return p > c })
}
