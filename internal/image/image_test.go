package image

import (
	"testing"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
)

func TestBootstrapBindsPrimitivesAndOperators(t *testing.T) {
	tab := symtab.New()
	Bootstrap(tab)

	plus, err := tab.GRef("+")
	if err != nil {
		t.Fatalf("GRef(+): %v", err)
	}
	if _, ok := plus.(*heap.Primitive); !ok {
		t.Errorf("+ is bound to %T, want *heap.Primitive", plus)
	}

	callcc, err := tab.GRef("call/cc")
	if err != nil {
		t.Fatalf("GRef(call/cc): %v", err)
	}
	if callcc != heap.CallCCOperator {
		t.Errorf("call/cc is bound to %v, want the call/cc sentinel", callcc)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	tab := symtab.New()
	Bootstrap(tab)
	Bootstrap(tab)

	got, err := tab.GRef("map")
	if err != nil {
		t.Fatalf("GRef(map): %v", err)
	}
	if got != heap.MapOperator {
		t.Errorf("map is bound to %v after a second Bootstrap, want the map sentinel", got)
	}
}
