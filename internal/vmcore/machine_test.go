package vmcore

import (
	"testing"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

func TestNewMachineDefaultsAndClose(t *testing.T) {
	m := New()
	defer m.Close()

	if m.Reg.PC != 0 {
		t.Errorf("PC after Reset = %d, want 0", m.Reg.PC)
	}
	if m.RegStack.Depth() != 0 || m.ArgStack.Depth() != 0 || m.IntStack.Depth() != 0 {
		t.Errorf("fresh machine has non-empty stacks")
	}
}

func TestWithStackDepthReplacesCapacity(t *testing.T) {
	m := New(WithStackDepth(4))
	defer m.Close()

	for i := 0; i < 4; i++ {
		if err := m.RegStack.Push(m.Reg.Val); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}
	if err := m.RegStack.Push(m.Reg.Val); err == nil {
		t.Errorf("Push past the configured depth of 4 did not error")
	}
}

func TestNewMachineGetsAUniqueID(t *testing.T) {
	a, b := New(), New()
	defer a.Close()
	defer b.Close()

	if a.ID == b.ID {
		t.Errorf("two machines share the same ID: %s", a.ID)
	}
}

func TestCloseUnregistersRootMarkers(t *testing.T) {
	m := New()
	sentinel := heap.Cons(heap.Null, heap.Null)
	if err := m.RegStack.Push(sentinel); err != nil {
		t.Fatalf("Push: %v", err)
	}
	m.Close()
	for _, v := range heap.Roots() {
		if v == sentinel {
			t.Errorf("reg-stack contents still reported as roots after Close")
		}
	}
	// A second Close must not panic re-iterating an already-cleared slice.
	m.Close()
}
