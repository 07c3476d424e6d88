package primitive

import (
	"testing"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

// testArgs is the minimal heap.Args a primitive test needs, standing in for
// vmcore.ArgStack.Args() without pulling in the stack machinery.
type testArgs []heap.Value

func (a testArgs) Len() int          { return len(a) }
func (a testArgs) More() bool        { return len(a) > 0 }
func (a testArgs) Get(i int) heap.Value { return a[i] }
func (a testArgs) Last() heap.Value {
	if len(a) == 0 {
		return heap.Null
	}
	return a[len(a)-1]
}

func args(vs ...heap.Value) Args { return testArgs(vs) }

func TestAdd(t *testing.T) {
	got, err := Add(args(heap.Fixnum(1), heap.Fixnum(2), heap.Fixnum(3)))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got != heap.Fixnum(6) {
		t.Errorf("got %v, want 6", got)
	}
}

func TestAddNoArgsIsZero(t *testing.T) {
	got, err := Add(args())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got != heap.Fixnum(0) {
		t.Errorf("got %v, want 0", got)
	}
}

func TestAddContagionToInexact(t *testing.T) {
	got, err := Add(args(heap.Fixnum(1), heap.Flonum(2.5)))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got != heap.Flonum(3.5) {
		t.Errorf("got %v, want 3.5", got)
	}
}

func TestSubUnaryNegates(t *testing.T) {
	got, err := Sub(args(heap.Fixnum(5)))
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if got != heap.Fixnum(-5) {
		t.Errorf("got %v, want -5", got)
	}
}

func TestSubRequiresAtLeastOneArg(t *testing.T) {
	if _, err := Sub(args()); err == nil {
		t.Fatalf("Sub() with no arguments did not error")
	}
}

func TestMulNoArgsIsOne(t *testing.T) {
	got, err := Mul(args())
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if got != heap.Fixnum(1) {
		t.Errorf("got %v, want 1", got)
	}
}

func TestDivAlwaysInexact(t *testing.T) {
	got, err := Div(args(heap.Fixnum(10), heap.Fixnum(4)))
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	if got != heap.Flonum(2.5) {
		t.Errorf("got %v, want 2.5", got)
	}
}

func TestNumEqLtGt(t *testing.T) {
	if got, _ := NumEq(args(heap.Fixnum(1), heap.Fixnum(1))); got != heap.True {
		t.Errorf("NumEq(1, 1) = %v, want #t", got)
	}
	if got, _ := Lt(args(heap.Fixnum(1), heap.Fixnum(2), heap.Fixnum(3))); got != heap.True {
		t.Errorf("Lt(1, 2, 3) = %v, want #t", got)
	}
	if got, _ := Gt(args(heap.Fixnum(1), heap.Fixnum(2))); got != heap.False {
		t.Errorf("Gt(1, 2) = %v, want #f", got)
	}
}

func TestArityError(t *testing.T) {
	_, err := NullP(args())
	if err == nil {
		t.Fatalf("null? with no arguments did not error")
	}
	if _, ok := err.(*ArityError); !ok {
		t.Errorf("got %T, want *ArityError", err)
	}
}

func TestConsCarCdr(t *testing.T) {
	got, err := Cons(args(heap.Fixnum(1), heap.Fixnum(2)))
	if err != nil {
		t.Fatalf("Cons: %v", err)
	}
	pair, ok := heap.AsPair(got)
	if !ok {
		t.Fatalf("Cons did not return a pair: %v", got)
	}

	car, err := Car(args(pair))
	if err != nil || car != heap.Fixnum(1) {
		t.Errorf("Car = %v, %v, want 1, nil", car, err)
	}
	cdr, err := Cdr(args(pair))
	if err != nil || cdr != heap.Fixnum(2) {
		t.Errorf("Cdr = %v, %v, want 2, nil", cdr, err)
	}
}

func TestListBuildsProperList(t *testing.T) {
	got, err := List(args(heap.Fixnum(1), heap.Fixnum(2)))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	slice, ok := heap.ListToSlice(got)
	if !ok || len(slice) != 2 {
		t.Fatalf("got %v, want a 2-element list", got)
	}
}

func TestNullPAndPairP(t *testing.T) {
	if got, _ := NullP(args(heap.Null)); got != heap.True {
		t.Errorf("null?(Null) = %v, want #t", got)
	}
	if got, _ := PairP(args(heap.Cons(heap.Fixnum(1), heap.Null))); got != heap.True {
		t.Errorf("pair?(pair) = %v, want #t", got)
	}
	if got, _ := PairP(args(heap.Null)); got != heap.False {
		t.Errorf("pair?(Null) = %v, want #f", got)
	}
}

func TestNot(t *testing.T) {
	if got, _ := Not(args(heap.False)); got != heap.True {
		t.Errorf("not(#f) = %v, want #t", got)
	}
	if got, _ := Not(args(heap.Fixnum(0))); got != heap.False {
		t.Errorf("not(0) = %v, want #f (only #f is false)", got)
	}
}

func TestEqPAndEqvP(t *testing.T) {
	if got, _ := EqP(args(heap.Fixnum(1), heap.Fixnum(1))); got != heap.True {
		t.Errorf("eq?(1, 1) = %v, want #t", got)
	}
	a := heap.Cons(heap.Fixnum(1), heap.Null)
	b := heap.Cons(heap.Fixnum(1), heap.Null)
	if got, _ := EqP(args(a, b)); got != heap.False {
		t.Errorf("eq?(distinct pairs) = %v, want #f", got)
	}
	if got, _ := EqvP(args(a, a)); got != heap.True {
		t.Errorf("eqv?(same pair) = %v, want #t", got)
	}
}
