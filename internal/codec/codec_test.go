package codec

import (
	"testing"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
	"github.com/google/go-cmp/cmp"
)

func TestSexprRoundTrip(t *testing.T) {
	nested := heap.NewCode([]byte{1, 2}, []heap.Value{heap.Fixnum(9)})
	code := heap.NewCode([]byte{0, 1, 2, 3}, []heap.Value{heap.Fixnum(42), nested})

	sexpr := ToSexpr(code)
	got, err := FromSexpr(sexpr)
	if err != nil {
		t.Fatalf("FromSexpr: %v", err)
	}

	if diff := cmp.Diff(code.Bcodes, got.Bcodes); diff != "" {
		t.Errorf("Bcodes mismatch (-want +got):\n%s", diff)
	}
	if len(got.Sexprs) != 2 {
		t.Fatalf("got %d sexprs, want 2", len(got.Sexprs))
	}
	if got.Sexprs[0] != heap.Fixnum(42) {
		t.Errorf("Sexprs[0] = %v, want 42", got.Sexprs[0])
	}
	gotNested, ok := heap.AsCode(got.Sexprs[1])
	if !ok {
		t.Fatalf("Sexprs[1] is not a code object: %v", got.Sexprs[1])
	}
	if diff := cmp.Diff(nested.Bcodes, gotNested.Bcodes); diff != "" {
		t.Errorf("nested Bcodes mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSexprRejectsMalformedInput(t *testing.T) {
	if _, err := FromSexpr(heap.Fixnum(1)); err == nil {
		t.Errorf("FromSexpr accepted a non-pair datum")
	}
	if _, err := FromSexpr(heap.List(heap.NewByteVector(nil), heap.List(heap.Fixnum(5)))); err == nil {
		t.Errorf("FromSexpr accepted a sexprs size that doesn't match its tag/item pairs")
	}
}

func TestEncodingTextRoundTrip(t *testing.T) {
	code := heap.NewCode([]byte{0, 1}, []heap.Value{heap.Fixnum(7)})
	tab := symtab.New()

	text, err := NewEncoding(code, tab).MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	dec := NewEncoding(nil, tab)
	if err := dec.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if string(dec.Code.Bcodes) != string(code.Bcodes) {
		t.Errorf("Bcodes: got %v, want %v", dec.Code.Bcodes, code.Bcodes)
	}
	if dec.Code.Sexprs[0] != heap.Fixnum(7) {
		t.Errorf("Sexprs[0] = %v, want 7", dec.Code.Sexprs[0])
	}
}
