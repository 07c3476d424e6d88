package heap

import "strings"

// Pair is a cons cell: car and cdr. Lists are chains of pairs terminated by
// Null.
type Pair struct {
	cellHeader
	Car, Cdr Value
}

// Cons allocates a new pair. Every call produces a freshly identified cell,
// even if car/cdr are shared with other structures — this is what the
// testable property "map result list identity freshly allocated" depends on.
func Cons(car, cdr Value) *Pair {
	return &Pair{Car: car, Cdr: cdr}
}

func (*Pair) Kind() Kind { return KindPair }

func (p *Pair) String() string {
	var b strings.Builder
	b.WriteByte('(')

	var cur Value = p
	first := true

	for {
		pair, ok := cur.(*Pair)
		if !ok {
			break
		}

		if !first {
			b.WriteByte(' ')
		}

		first = false
		b.WriteString(pair.Car.String())
		cur = pair.Cdr
	}

	if cur != Null {
		b.WriteString(" . ")
		b.WriteString(cur.String())
	}

	b.WriteByte(')')

	return b.String()
}

// List builds a proper list from the given values, allocating fresh pairs.
func List(vals ...Value) Value {
	var result Value = Null
	for i := len(vals) - 1; i >= 0; i-- {
		result = Cons(vals[i], result)
	}
	return result
}

// ListToSlice walks a proper list into a Go slice. ok is false if the list is
// improper (does not terminate in Null).
func ListToSlice(v Value) (out []Value, ok bool) {
	for {
		if v == Null {
			return out, true
		}

		p, isPair := v.(*Pair)
		if !isPair {
			return out, false
		}

		out = append(out, p.Car)
		v = p.Cdr
	}
}

// Length returns the number of elements in a proper list, or -1 if v is not
// one.
func Length(v Value) int {
	n := 0
	for v != Null {
		p, ok := v.(*Pair)
		if !ok {
			return -1
		}
		n++
		v = p.Cdr
	}
	return n
}
