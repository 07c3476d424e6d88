package vm

import (
	"context"
	"strings"
	"testing"

	"github.com/LittleGreyCells/escheme-compiled/internal/asm"
	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/image"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
	"github.com/LittleGreyCells/escheme-compiled/internal/sx"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmcore"
)

// newTestVM builds a VM wired with the primitive library and apply-dispatch
// operator sentinels, the minimum bootstrap a program's first gref needs.
func newTestVM(t *testing.T) (*VM, *symtab.Table) {
	t.Helper()
	m := vmcore.New(image.WithBootstrap())
	v := New(WithMachine(m))
	t.Cleanup(v.Close)
	return v, m.Symbols
}

// topEnv returns a frameless environment, the one Run expects a program with
// no free variables of its own to start in.
func topEnv() *heap.Environment {
	return heap.NewEnvironment(heap.NewFrame(0, heap.Null), nil)
}

// assemble parses src as a program and encodes it.
func assemble(t *testing.T, tab *symtab.Table, src string) *heap.Code {
	t.Helper()
	prog, err := sx.NewReader(strings.NewReader(src), tab).Read()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	code, err := asm.Encode(prog)
	if err != nil {
		t.Fatalf("encode %q: %v", src, err)
	}
	return code
}

func TestFixnumLiteral(t *testing.T) {
	v, tab := newTestVM(t)
	code := assemble(t, tab, `(
		(assign val (const 42))
		(rtc))`)

	got, err := v.Run(context.Background(), topEnv(), code)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != heap.Fixnum(42) {
		t.Errorf("got %v, want 42", got)
	}
}

func TestPrimitiveArithmetic(t *testing.T) {
	v, tab := newTestVM(t)
	code := assemble(t, tab, `(
		(assign val (const 1))
		(push-arg)
		(assign val (const 2))
		(push-arg)
		(gref +)
		(apply)
		(rtc))`)

	got, err := v.Run(context.Background(), topEnv(), code)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != heap.Fixnum(3) {
		t.Errorf("got %v, want 3", got)
	}
}

// TestClosureFreeVariable builds an enclosing frame holding x = 100, then a
// zero-argument closure whose body reaches it one level up the lexical
// chain via fref, exercising depth > 0 lookup rather than a global.
func TestClosureFreeVariable(t *testing.T) {
	v, tab := newTestVM(t)
	code := assemble(t, tab, `(
		(extend-env env 1 (x))
		(save env)
		(assign val (const 100))
		(eset 0)
		(restore env)
		(make-closure
			((fref 1 0)
			 (goto-cont))
			()
			0
			#f)
		(apply)
		(rtc))`)

	got, err := v.Run(context.Background(), topEnv(), code)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != heap.Fixnum(100) {
		t.Errorf("got %v, want 100", got)
	}
}

// TestTailRecursionConstantStack drives a self-recursive global closure to
// depth 10000 via apply-cont, the fused tail call that never pushes a
// return frame, and checks the register stack is exactly as deep after the
// run as Run's own priming left it — no growth proportional to the
// recursion depth.
func TestTailRecursionConstantStack(t *testing.T) {
	v, tab := newTestVM(t)
	code := assemble(t, tab, `(
		(make-closure
			((fref 0 0)
			 (push-arg)
			 (assign val (const 10000))
			 (push-arg)
			 (gref =)
			 (apply)
			 (test-true)
			 (branch (label done))
			 (fref 0 0)
			 (push-arg)
			 (assign val (const 1))
			 (push-arg)
			 (gref +)
			 (apply)
			 (push-arg)
			 (gref loop)
			 (apply-cont)
			 done
			 (fref 0 0)
			 (goto-cont))
			(n)
			1
			#f)
		(gdef loop)
		(assign val (const 0))
		(push-arg)
		(gref loop)
		(apply)
		(rtc))`)

	got, err := v.Run(context.Background(), topEnv(), code)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != heap.Fixnum(10000) {
		t.Errorf("got %v, want 10000", got)
	}
	if depth := v.m.RegStack.Depth(); depth != 2 {
		t.Errorf("reg stack depth after 10000-deep tail recursion: got %d, want 2 (Run's own priming frame)", depth)
	}
}

// TestPromiseForceMemoizes forces the same promise twice; the first force
// evaluates its expression, the second should return the memoized value
// without re-evaluating it.
func TestPromiseForceMemoizes(t *testing.T) {
	v, tab := newTestVM(t)
	code := assemble(t, tab, `(
		(delay
			((assign val (const 42))
			 (goto-cont)))
		(gdef p)
		(gref p)
		(push-arg)
		(gref force)
		(apply)
		(gref p)
		(push-arg)
		(gref force)
		(apply)
		(rtc))`)

	got, err := v.Run(context.Background(), topEnv(), code)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != heap.Fixnum(42) {
		t.Errorf("got %v, want 42", got)
	}
}

// TestCallCCEscape invokes a captured continuation as a tail call from
// inside the call/cc procedure, the escaping case applyContinuation must
// handle as distinct from an ordinary return.
func TestCallCCEscape(t *testing.T) {
	v, tab := newTestVM(t)
	code := assemble(t, tab, `(
		(make-closure
			((assign val (const 10))
			 (push-arg)
			 (fref 0 0)
			 (apply-cont))
			(k)
			1
			#f)
		(push-arg)
		(gref call/cc)
		(apply)
		(rtc))`)

	got, err := v.Run(context.Background(), topEnv(), code)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != heap.Fixnum(10) {
		t.Errorf("got %v, want 10", got)
	}
}

// TestMapTwoLists maps a two-argument closure over a pair of equal-length
// lists, summing elementwise, and checks the result is a freshly built list
// rather than either input.
func TestMapTwoLists(t *testing.T) {
	v, tab := newTestVM(t)
	code := assemble(t, tab, `(
		(make-closure
			((fref 0 0)
			 (push-arg)
			 (fref 0 1)
			 (push-arg)
			 (gref +)
			 (apply)
			 (goto-cont))
			(a b)
			2
			#f)
		(push-arg)
		(assign val (const (1 2 3)))
		(push-arg)
		(assign val (const (10 20 30)))
		(push-arg)
		(gref map)
		(apply)
		(rtc))`)

	got, err := v.Run(context.Background(), topEnv(), code)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := heap.List(heap.Fixnum(11), heap.Fixnum(22), heap.Fixnum(33))
	gotList, ok := heap.ListToSlice(got)
	if !ok {
		t.Fatalf("result is not a proper list: %v", got)
	}
	wantList, _ := heap.ListToSlice(want)
	if len(gotList) != len(wantList) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range gotList {
		if !heap.Eqv(gotList[i], wantList[i]) {
			t.Errorf("element %d: got %v, want %v", i, gotList[i], wantList[i])
		}
	}
}
