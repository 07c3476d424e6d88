package vmcore

import (
	"errors"
	"testing"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmerr"
)

func TestRegStackPushPopOverflowUnderflow(t *testing.T) {
	s := NewRegStack(2)
	if err := s.Push(heap.Fixnum(1)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := s.Push(heap.Fixnum(2)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := s.Push(heap.Fixnum(3)); !errors.Is(err, vmerr.ErrStackOverflow) {
		t.Errorf("Push past capacity: got %v, want ErrStackOverflow", err)
	}

	if v, err := s.Pop(); err != nil || v != heap.Fixnum(2) {
		t.Fatalf("Pop = %v, %v, want 2, nil", v, err)
	}
	if v, err := s.Pop(); err != nil || v != heap.Fixnum(1) {
		t.Fatalf("Pop = %v, %v, want 1, nil", v, err)
	}
	if _, err := s.Pop(); !errors.Is(err, vmerr.ErrStackUnderflow) {
		t.Errorf("Pop on empty stack: got %v, want ErrStackUnderflow", err)
	}
}

func TestRegStackSnapshotRestoreReplacesWholesale(t *testing.T) {
	s := NewRegStack(8)
	s.Push(heap.Fixnum(1))
	s.Push(heap.Fixnum(2))
	snap := s.Snapshot()

	s.Push(heap.Fixnum(3))
	s.Restore(snap)

	if s.Depth() != 2 {
		t.Fatalf("Depth after Restore = %d, want 2", s.Depth())
	}
	v, _ := s.Top()
	if v != heap.Fixnum(2) {
		t.Errorf("Top after Restore = %v, want 2", v)
	}
}

func TestArgStackPushArgIncrementsArgc(t *testing.T) {
	s := NewArgStack(8)
	s.PushArg(heap.Fixnum(1))
	s.PushArg(heap.Fixnum(2))
	if s.Argc() != 2 {
		t.Fatalf("Argc() = %d, want 2", s.Argc())
	}

	args := s.Args()
	if args.Len() != 2 || args.Get(0) != heap.Fixnum(1) || args.Get(1) != heap.Fixnum(2) {
		t.Errorf("Args() = %v, want [1 2]", args)
	}
}

func TestArgStackPopArgsDropsTopArgcAndRestoresCounter(t *testing.T) {
	s := NewArgStack(8)
	s.PushArg(heap.Fixnum(1)) // outer call's own argument, argc=1
	priorArgc := s.Argc()
	s.ZeroArgc()
	s.PushArg(heap.Fixnum(2)) // nested call's argument, argc=1 again
	s.PushArg(heap.Fixnum(3))

	if err := s.PopArgs(priorArgc); err != nil {
		t.Fatalf("PopArgs: %v", err)
	}
	if s.Depth() != 1 {
		t.Fatalf("Depth after PopArgs = %d, want 1", s.Depth())
	}
	if s.Argc() != priorArgc {
		t.Errorf("Argc after PopArgs = %d, want %d", s.Argc(), priorArgc)
	}
}

func TestIntStackPushPopTop(t *testing.T) {
	s := NewIntStack(4)
	s.Push(7)
	s.Push(9)
	if v, err := s.Top(); err != nil || v != 9 {
		t.Fatalf("Top = %v, %v, want 9, nil", v, err)
	}
	if v, err := s.Pop(); err != nil || v != 9 {
		t.Fatalf("Pop = %v, %v, want 9, nil", v, err)
	}
	if s.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", s.Depth())
	}
}
