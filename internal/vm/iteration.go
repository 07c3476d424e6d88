package vm

import (
	"fmt"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmerr"
)

// map and for-each are inlined as a fixed five-instruction library routine
// rather than hand-coded machinery per call site:
//
//	(map-init) (map-apply) (apply) (map-result) (goto-cont)
//	(for-init) (for-apply) (apply) (for-result) (goto-cont)
//
// vmcore's ArgStack only exposes a sliding window over the current call's
// arguments, not indexed access into an arbitrary frame, so the bookkeeping
// here lives on the reg-stack instead, as ordinary Scheme list values:
// applyMapOperator/applyForeachOperator leave the original call's arguments
// exactly where apply-dispatch found them, map-init reads and discards them
// immediately (matching every other apply-dispatch operator kind, which
// also removes its call's args up front), and every instruction after that
// drives the loop off reg-stack slots. The fixed pc+=2/pc-=3 jump offsets
// the routine's five instructions assume stay constant across calls.
//
// Termination follows ordinary multi-list map semantics: the loop stops as
// soon as any one of the input lists runs out, not only the first.

// applyMapOperator jumps into the map library routine, which New installs
// on the machine. It leaves the call's arguments (fn, then one or
// more lists) on the arg-stack exactly as apply-dispatch found them; map-init
// is the one that consumes them.
func (vm *VM) applyMapOperator() error {
	if vm.m.MapCode == nil {
		return fmt.Errorf("map: library routine not installed: %w", vmerr.ErrNotCallable)
	}
	vm.m.Reg.Unev = vm.m.MapCode
	vm.m.Reg.PC = 0
	return nil
}

// applyForeachOperator is applyMapOperator's for-each counterpart.
func (vm *VM) applyForeachOperator() error {
	if vm.m.ForCode == nil {
		return fmt.Errorf("for-each: library routine not installed: %w", vmerr.ErrNotCallable)
	}
	vm.m.Reg.Unev = vm.m.ForCode
	vm.m.Reg.PC = 0
	return nil
}

// iterInit is map-init/for-init's shared body: pull fn and the trailing
// list arguments off the arg-stack and onto the reg-stack. accumulate
// additionally pushes a dummy head/tail pair pair map-result appends to.
func (vm *VM) iterInit(accumulate bool) error {
	m := vm.m

	args := m.ArgStack.Args()
	if args.Len() < 2 {
		return &ArityError{Want: 2, Rest: true, Got: args.Len()}
	}
	fn := args.Get(0)
	lists := make([]heap.Value, 0, args.Len()-1)
	for i := 1; i < args.Len(); i++ {
		lists = append(lists, args.Get(i))
	}

	if err := m.ArgStack.PopArgs(0); err != nil {
		return err
	}

	if err := m.RegStack.Push(fn); err != nil {
		return err
	}
	if err := m.RegStack.Push(heap.List(lists...)); err != nil {
		return err
	}
	if accumulate {
		head := heap.Cons(heap.Null, heap.Null)
		if err := m.RegStack.Push(head); err != nil {
			return err
		}
		if err := m.RegStack.Push(head); err != nil {
			return err
		}
	}
	return nil
}

// opMapInit handles the map-init opcode.
func (vm *VM) opMapInit() error { return vm.iterInit(true) }

// opForInit handles the for-init opcode.
func (vm *VM) opForInit() error { return vm.iterInit(false) }

// iterStep is map-apply/for-apply's shared body. frameWidth is 4 for map
// (fn, lists, head, tail) and 2 for for-each (fn, lists). pc is the
// position just past the map-apply/for-apply opcode. When any input list
// is exhausted it finalizes val (the accumulated result list, or Null for
// for-each), pops the reg-stack frame, and returns pc+2 to land on
// goto-cont, skipping the apply/result pair. Otherwise it peels one element
// off each list, leaves them pushed as the next call's arguments with fn in
// val, and returns pc unchanged, which already points at the following
// apply instruction.
func (vm *VM) iterStep(pc, frameWidth int) (int, error) {
	m := vm.m
	base := m.RegStack.Depth() - frameWidth

	listsVal, err := m.RegStack.At(base + 1)
	if err != nil {
		return pc, err
	}
	sublists, ok := heap.ListToSlice(listsVal)
	if !ok {
		return pc, fmt.Errorf("map/for-each: argument list: %w", vmerr.ErrWrongType)
	}

	done := len(sublists) == 0
	for _, l := range sublists {
		if l == heap.Null {
			done = true
			break
		}
	}

	if done {
		var result heap.Value = heap.Null
		if frameWidth == 4 {
			head, err := m.RegStack.At(base + 2)
			if err != nil {
				return pc, err
			}
			headPair, ok := head.(*heap.Pair)
			if !ok {
				return pc, fmt.Errorf("map: accumulator: %w", vmerr.ErrWrongType)
			}
			result = headPair.Cdr
		}
		for i := 0; i < frameWidth; i++ {
			if _, err := m.RegStack.Pop(); err != nil {
				return pc, err
			}
		}
		m.Reg.Val = result
		return pc + 2, nil
	}

	cars := make([]heap.Value, len(sublists))
	cdrs := make([]heap.Value, len(sublists))
	for i, l := range sublists {
		p, ok := l.(*heap.Pair)
		if !ok {
			return pc, fmt.Errorf("map/for-each: argument list: %w", vmerr.ErrWrongType)
		}
		cars[i] = p.Car
		cdrs[i] = p.Cdr
	}
	if err := m.RegStack.SetAt(base+1, heap.List(cdrs...)); err != nil {
		return pc, err
	}

	fn, err := m.RegStack.At(base)
	if err != nil {
		return pc, err
	}

	m.ArgStack.ZeroArgc()
	for _, c := range cars {
		if err := m.ArgStack.PushArg(c); err != nil {
			return pc, err
		}
	}
	m.Reg.Val = fn
	return pc, nil
}

// opMapApply handles the map-apply opcode.
func (vm *VM) opMapApply(pc int) (int, error) { return vm.iterStep(pc, 4) }

// opForApply handles the for-apply opcode.
func (vm *VM) opForApply(pc int) (int, error) { return vm.iterStep(pc, 2) }

// opMapResult handles the map-result opcode: append the just-computed value
// onto the accumulator's tail and loop back to map-apply.
func (vm *VM) opMapResult(pc int) (int, error) {
	m := vm.m
	base := m.RegStack.Depth() - 4

	tail, err := m.RegStack.At(base + 3)
	if err != nil {
		return pc, err
	}
	tailPair, ok := tail.(*heap.Pair)
	if !ok {
		return pc, fmt.Errorf("map: accumulator: %w", vmerr.ErrWrongType)
	}

	next := heap.Cons(m.Reg.Val, heap.Null)
	tailPair.Cdr = next
	if err := m.RegStack.SetAt(base+3, next); err != nil {
		return pc, err
	}
	return pc - 3, nil
}

// opForResult handles the for-result opcode: the call's value is discarded
// (for-each is for effect only) and control loops back to for-apply.
func (vm *VM) opForResult(pc int) (int, error) {
	return pc - 3, nil
}
