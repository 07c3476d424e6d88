package heap

import "testing"

func TestConsCarCdr(t *testing.T) {
	p := Cons(Fixnum(1), Fixnum(2))
	if p.Car != Fixnum(1) || p.Cdr != Fixnum(2) {
		t.Errorf("got (%v . %v), want (1 . 2)", p.Car, p.Cdr)
	}
}

func TestConsFreshIdentity(t *testing.T) {
	a := List(Fixnum(1))
	b := List(Fixnum(1))
	if a == b {
		t.Errorf("List returned the same pair for two separate calls")
	}
}

func TestListToSliceProper(t *testing.T) {
	l := List(Fixnum(1), Fixnum(2), Fixnum(3))
	got, ok := ListToSlice(l)
	if !ok {
		t.Fatalf("ListToSlice reported improper on a proper list")
	}
	want := []Value{Fixnum(1), Fixnum(2), Fixnum(3)}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestListToSliceImproper(t *testing.T) {
	improper := Cons(Fixnum(1), Fixnum(2))
	if _, ok := ListToSlice(improper); ok {
		t.Errorf("ListToSlice reported proper on (1 . 2)")
	}
}

func TestLength(t *testing.T) {
	if n := Length(List(Fixnum(1), Fixnum(2))); n != 2 {
		t.Errorf("got %d, want 2", n)
	}
	if n := Length(Cons(Fixnum(1), Fixnum(2))); n != -1 {
		t.Errorf("got %d, want -1 for improper list", n)
	}
	if n := Length(Null); n != 0 {
		t.Errorf("got %d, want 0 for empty list", n)
	}
}

func TestEqv(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal fixnums", Fixnum(3), Fixnum(3), true},
		{"distinct fixnums", Fixnum(3), Fixnum(4), false},
		{"equal flonums", Flonum(1.5), Flonum(1.5), true},
		{"equal chars", Char('a'), Char('a'), true},
		{"distinct pairs, same contents", Cons(Fixnum(1), Null), Cons(Fixnum(1), Null), false},
		{"same pair", mustPair(), mustPair(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Eqv(c.a, c.b); got != c.want {
				t.Errorf("Eqv(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

var sharedPair = Cons(Fixnum(1), Null)

func mustPair() Value { return sharedPair }

func TestEnvironmentFreeVariableLookup(t *testing.T) {
	outer := NewEnvironment(NewFrame(1, List(NewSymbol("x"))), nil)
	outer.Frame.Slots[0] = Fixnum(100)
	inner := NewEnvironment(NewFrame(0, Null), outer)

	anc, ok := inner.Ancestor(1)
	if !ok || anc != outer {
		t.Fatalf("Ancestor(1) = %v, %v, want outer env", anc, ok)
	}
	if got := anc.Frame.Slots[0]; got != Fixnum(100) {
		t.Errorf("got %v, want 100", got)
	}
}

func TestEnvironmentAncestorOutOfRange(t *testing.T) {
	env := NewEnvironment(NewFrame(0, Null), nil)
	if _, ok := env.Ancestor(1); ok {
		t.Errorf("Ancestor(1) on a depth-0 chain reported ok")
	}
}

func TestEnvironmentLookupByName(t *testing.T) {
	x := NewSymbol("x")
	env := NewEnvironment(NewFrame(1, List(x)), nil)
	env.Frame.Slots[0] = Fixnum(7)

	got, ok := env.LookupByName(x)
	if !ok || got != Fixnum(7) {
		t.Fatalf("LookupByName(x) = %v, %v, want 7, true", got, ok)
	}

	if !env.SetByName(x, Fixnum(9)) {
		t.Fatalf("SetByName(x) reported not found")
	}
	if env.Frame.Slots[0] != Fixnum(9) {
		t.Errorf("slot after SetByName: got %v, want 9", env.Frame.Slots[0])
	}

	if _, ok := env.LookupByName(NewSymbol("y")); ok {
		t.Errorf("LookupByName(y) found a binding that doesn't exist")
	}
}

func TestPromiseForceIsIdempotentAndMemoized(t *testing.T) {
	p := NewPromise(List(Fixnum(1)))
	if p.Forced() {
		t.Fatalf("fresh promise reports Forced")
	}

	p.Force(Fixnum(42))
	if !p.Forced() {
		t.Fatalf("promise does not report Forced after Force")
	}
	if p.Value != Fixnum(42) {
		t.Errorf("got %v, want 42", p.Value)
	}
	if p.Expr != Null {
		t.Errorf("Expr not cleared after Force: %v", p.Expr)
	}
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	snap := Snapshot{RegStack: []Value{Fixnum(1)}, ArgCounts: []int{1}}
	c := NewContinuation(snap)

	snap.RegStack[0] = Fixnum(99)
	if c.State.RegStack[0] != Fixnum(1) {
		t.Errorf("mutating the original snapshot's slice affected a captured continuation")
	}

	first := c.State.Clone()
	second := c.State.Clone()
	first.RegStack[0] = Fixnum(2)
	if second.RegStack[0] != Fixnum(1) {
		t.Errorf("two clones of the same continuation share backing storage")
	}
}

func TestSymbolBound(t *testing.T) {
	s := NewSymbol("x")
	if s.Bound() {
		t.Errorf("fresh symbol reports Bound")
	}
	s.Value = Fixnum(1)
	if !s.Bound() {
		t.Errorf("symbol with a value does not report Bound")
	}
}
