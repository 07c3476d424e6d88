package vm

import (
	"fmt"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmcore"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmerr"
)

// opApply implements the apply opcode: a non-tail application. A primitive
// runs inline with no return frame, since control simply falls through to
// the next instruction once it's done. Anything else pushes a return frame
// first and then follows exactly the same dispatch apply-cont does.
func (vm *VM) opApply() error {
	if prim, ok := vm.m.Reg.Val.(*heap.Primitive); ok {
		return vm.callPrimitive(prim)
	}
	if err := vm.saveBCERegisters(); err != nil {
		return err
	}
	return vm.applyDispatch(true)
}

// opApplyCont implements apply-cont: a tail application, never pushing a
// return frame. Tail self-recursion stays at constant stack depth because
// of this.
func (vm *VM) opApplyCont() error {
	return vm.applyDispatch(true)
}

// applyDispatch switches on the callee's heap.Kind to find the right apply
// path. tail says whether a return frame is on the reg-stack for the
// primitive case to restore once the primitive has run. Every caller passes
// true: apply-cont runs on its caller's frame, and opApply has just pushed
// one (opApply runs a directly applied primitive itself, so from opApply the
// primitive case is reached only through the apply and call/cc operators).
func (vm *VM) applyDispatch(tail bool) error {
	m := vm.m

	switch val := m.Reg.Val.(type) {
	case *heap.Primitive:
		if err := vm.callPrimitive(val); err != nil {
			return err
		}
		if tail {
			return vm.restoreBCERegisters()
		}
		return nil
	case *heap.Closure:
		return vm.applyClosure(val)
	case *heap.Continuation:
		return vm.applyContinuation(val)
	}

	switch m.Reg.Val.Kind() {
	case heap.KindApplyOperator:
		return vm.applyApplyOperator()
	case heap.KindEvalOperator:
		return vm.applyEvalOperator()
	case heap.KindCallCCOperator:
		return vm.applyCallCCOperator()
	case heap.KindMapOperator:
		return vm.applyMapOperator()
	case heap.KindForeachOperator:
		return vm.applyForeachOperator()
	case heap.KindForceOperator:
		return vm.applyForceOperator()
	}

	return &NotCallableError{Val: m.Reg.Val}
}

// callPrimitive runs a primitive against the live arg-stack window and
// drops its arguments.
func (vm *VM) callPrimitive(prim *heap.Primitive) error {
	m := vm.m
	result, err := prim.Fn(m.ArgStack.Args())
	if err != nil {
		return err
	}
	m.Reg.Val = result
	return m.ArgStack.PopArgs(0)
}

// applyClosure extends the closure's captured environment with a fresh
// frame bound to the call's arguments and jumps to its code at pc 0.
func (vm *VM) applyClosure(closure *heap.Closure) error {
	m := vm.m

	env, err := extendEnvFun(closure, m.ArgStack.Args(), m.ArgStack.Argc())
	if err != nil {
		return err
	}
	if err := m.ArgStack.PopArgs(0); err != nil {
		return err
	}

	code, ok := heap.AsCode(closure.Code)
	if !ok {
		return fmt.Errorf("apply: closure body is not bytecode: %w", vmerr.ErrWrongType)
	}

	m.Reg.Env = env
	m.Reg.Unev = code
	m.Reg.PC = 0
	return nil
}

// extendEnvFun builds the frame a closure call binds its arguments into,
// checking arity against the closure's declared shape. A rest-taking
// closure collects every argument beyond its fixed prefix into a single
// freshly-consed list bound to the last slot.
func extendEnvFun(closure *heap.Closure, args *vmcore.ArgIterator, argc int) (*heap.Environment, error) {
	n := closure.Numv

	fixed := n
	if closure.Rargs {
		fixed = n - 1
		if fixed < 0 {
			fixed = 0
		}
		if argc < fixed {
			return nil, &ArityError{Want: fixed, Rest: true, Got: argc}
		}
	} else if argc != n {
		return nil, &ArityError{Want: n, Got: argc}
	}

	frame := heap.NewFrame(n, closure.Params)
	for i := 0; i < fixed; i++ {
		frame.Slots[i] = args.Get(i)
	}
	if closure.Rargs {
		var rest heap.Value = heap.Null
		for i := argc - 1; i >= fixed; i-- {
			rest = heap.Cons(args.Get(i), rest)
		}
		frame.Slots[fixed] = rest
	}

	return heap.NewEnvironment(frame, closure.Env), nil
}

// applyContinuation resumes a captured continuation. The call's argument,
// if any, becomes the resumed call's val; multiple invocations of the same
// continuation are independent since captureContinuation clones every
// slice it copies.
func (vm *VM) applyContinuation(cont *heap.Continuation) error {
	m := vm.m

	args := m.ArgStack.Args()
	var result heap.Value = heap.Null
	if args.Len() > 0 {
		result = args.Last()
	}
	if err := m.ArgStack.PopArgs(0); err != nil {
		return err
	}

	resumeContinuation(m, cont.State)
	m.Reg.Val = result

	if _, ok := heap.AsCode(m.Reg.Unev); !ok {
		return fmt.Errorf("continuation: resumed unev is not bytecode: %w", vmerr.ErrWrongType)
	}
	return nil
}

// applyApplyOperator implements apply-operator: the first argument becomes
// the new callee, the last argument (a list) is spliced into the arg-stack
// in place of the original arguments, and dispatch restarts in tail
// position.
func (vm *VM) applyApplyOperator() error {
	m := vm.m

	args := m.ArgStack.Args()
	if args.Len() < 2 {
		return &ArityError{Want: 2, Got: args.Len()}
	}
	fn := args.Get(0)
	spliced, ok := heap.ListToSlice(args.Last())
	if !ok {
		return fmt.Errorf("apply: last argument is not a list: %w", vmerr.ErrWrongType)
	}

	if err := m.ArgStack.PopArgs(0); err != nil {
		return err
	}
	m.ArgStack.ZeroArgc()
	for _, v := range spliced {
		if err := m.ArgStack.PushArg(v); err != nil {
			return err
		}
	}

	m.Reg.Val = fn
	return vm.applyDispatch(true)
}

// applyEvalOperator implements eval-operator: evaluate an expression,
// optionally in an explicitly supplied environment rather than the caller's
// own. Every expression reaching here is already compiled — there is no
// outer tree-walking interpreter left to fall back to for a raw
// s-expression, so a non-code argument is a wrong-type error rather than a
// yield.
func (vm *VM) applyEvalOperator() error {
	m := vm.m

	args := m.ArgStack.Args()
	if args.Len() < 1 {
		return &ArityError{Want: 1, Got: args.Len()}
	}
	expVal := args.Get(0)

	var env *heap.Environment
	if args.Len() >= 2 {
		e, ok := heap.AsEnvironment(args.Last())
		if !ok {
			return fmt.Errorf("eval: environment argument: %w", vmerr.ErrWrongType)
		}
		env = e
	}

	if err := m.ArgStack.PopArgs(0); err != nil {
		return err
	}

	code, ok := heap.AsCode(expVal)
	if !ok {
		return fmt.Errorf("eval: expression is not compiled bytecode: %w", vmerr.ErrWrongType)
	}

	m.Reg.Env = env
	m.Reg.Unev = code
	m.Reg.PC = 0
	return nil
}

// applyCallCCOperator implements call/cc-operator: capture the current
// continuation, then apply the caller's procedure to it as the sole
// argument.
func (vm *VM) applyCallCCOperator() error {
	m := vm.m

	args := m.ArgStack.Args()
	if args.Len() < 1 {
		return &ArityError{Want: 1, Got: args.Len()}
	}
	proc := args.Last()

	snap := captureContinuation(m)

	if err := m.ArgStack.PopArgs(0); err != nil {
		return err
	}
	cont := heap.NewContinuation(snap)
	m.ArgStack.ZeroArgc()
	if err := m.ArgStack.PushArg(cont); err != nil {
		return err
	}

	m.Reg.Val = proc
	return vm.applyDispatch(true)
}

// applyForceOperator implements force-operator. A promise already forced
// short-circuits to its memoized value and returns immediately; otherwise
// it schedules forceEpilogueCode to run once the promise's own expression
// finishes, then jumps into that expression as an ordinary non-tail
// application.
func (vm *VM) applyForceOperator() error {
	m := vm.m

	args := m.ArgStack.Args()
	if args.Len() < 1 {
		return &ArityError{Want: 1, Got: args.Len()}
	}
	promise, ok := heap.AsPromise(args.Last())
	if !ok {
		return fmt.Errorf("force: argument is not a promise: %w", vmerr.ErrWrongType)
	}

	if err := m.ArgStack.PopArgs(0); err != nil {
		return err
	}

	if promise.Forced() {
		m.Reg.Val = promise.Value
		return vm.restoreBCERegisters()
	}

	if err := m.RegStack.Push(promise); err != nil {
		return err
	}

	m.Reg.Unev = forceEpilogueCode
	m.Reg.PC = 0
	if err := vm.saveBCERegisters(); err != nil {
		return err
	}

	code, ok := heap.AsCode(promise.Expr)
	if !ok {
		return fmt.Errorf("force: promise expression is not bytecode: %w", vmerr.ErrWrongType)
	}
	m.Reg.Unev = code
	m.Reg.PC = 0
	return nil
}
