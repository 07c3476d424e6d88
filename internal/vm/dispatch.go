package vm

import (
	"context"
	"fmt"

	"github.com/LittleGreyCells/escheme-compiled/internal/asm"
	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmcore"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmerr"
)

// Run evaluates code in env. It primes the stacks with a sentinel base
// return frame pointing at rtcCode before entering the dispatch loop: the
// last restore of a fully unwound call chain lands on that sentinel, and
// the loop's own rtc case returns to this Go caller.
func (vm *VM) Run(ctx context.Context, env *heap.Environment, code *heap.Code) (heap.Value, error) {
	m := vm.m
	m.Reg.Reset()
	m.Reg.Env = env

	if err := m.RegStack.Push(envValue(env)); err != nil {
		return nil, err
	}
	if err := m.RegStack.Push(heap.Value(rtcCode)); err != nil {
		return nil, err
	}
	if err := m.IntStack.Push(0); err != nil {
		return nil, err
	}

	m.Reg.Unev = code
	m.Reg.PC = 0

	m.Log().Info("RUN", "machine", m.ID, "env", env, "code", code)

	val, err := vm.bceval(ctx)
	if err != nil {
		m.Log().Error("HALTED", "machine", m.ID, "ERR", err)
	} else {
		m.Log().Info("RETURNED", "machine", m.ID, "VAL", val)
	}
	return val, err
}

// bceval is the bytecode dispatch loop: an ordinary for loop that
// re-fetches Unev/PC fresh from the register file on every iteration rather
// than only at explicit jump points, so any opcode that mutates them
// (apply-cont, goto-cont, a restored continuation) is automatically picked
// up on the next turn without needing separate entry labels for each case.
func (vm *VM) bceval(ctx context.Context) (heap.Value, error) {
	m := vm.m
	var testResult bool

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		code, ok := heap.AsCode(m.Reg.Unev)
		if !ok {
			return nil, fmt.Errorf("bceval: unev is not bytecode: %w", vmerr.ErrWrongType)
		}
		bc := code.Bcodes
		pc := m.Reg.PC
		if pc < 0 || pc >= len(bc) {
			return nil, fmt.Errorf("bceval: pc %d out of range: %w", pc, vmerr.ErrBadOpcode)
		}

		op := asm.Opcode(bc[pc])
		pc++

		switch op {

		case asm.OpSaveVal:
			err := m.RegStack.Push(m.Reg.Val)
			if err != nil {
				return nil, err
			}
		case asm.OpSaveAux:
			if err := m.RegStack.Push(m.Reg.Aux); err != nil {
				return nil, err
			}
		case asm.OpSaveEnv:
			if err := m.RegStack.Push(envValue(m.Reg.Env)); err != nil {
				return nil, err
			}
		case asm.OpSaveUnev:
			if err := m.RegStack.Push(m.Reg.Unev); err != nil {
				return nil, err
			}
		case asm.OpSaveExp:
			if err := m.RegStack.Push(m.Reg.Exp); err != nil {
				return nil, err
			}
		case asm.OpSaveArgc:
			if err := m.IntStack.Push(m.ArgStack.Argc()); err != nil {
				return nil, err
			}
		case asm.OpSaveCont:
			if err := m.IntStack.Push(m.Reg.Cont); err != nil {
				return nil, err
			}

		case asm.OpRestoreVal:
			v, err := m.RegStack.Pop()
			if err != nil {
				return nil, err
			}
			m.Reg.Val = v
		case asm.OpRestoreAux:
			v, err := m.RegStack.Pop()
			if err != nil {
				return nil, err
			}
			m.Reg.Aux = v
		case asm.OpRestoreEnv:
			v, err := m.RegStack.Pop()
			if err != nil {
				return nil, err
			}
			env, err := envFromValue(v)
			if err != nil {
				return nil, err
			}
			m.Reg.Env = env
		case asm.OpRestoreUnev:
			v, err := m.RegStack.Pop()
			if err != nil {
				return nil, err
			}
			m.Reg.Unev = v
		case asm.OpRestoreExp:
			v, err := m.RegStack.Pop()
			if err != nil {
				return nil, err
			}
			m.Reg.Exp = v
		case asm.OpRestoreArgc:
			v, err := m.IntStack.Pop()
			if err != nil {
				return nil, err
			}
			m.ArgStack.SetArgc(v)
		case asm.OpRestoreCont:
			v, err := m.IntStack.Pop()
			if err != nil {
				return nil, err
			}
			m.Reg.Cont = v

		case asm.OpZeroArgc:
			m.ArgStack.ZeroArgc()
		case asm.OpPushArg:
			if err := m.ArgStack.PushArg(m.Reg.Val); err != nil {
				return nil, err
			}
		case asm.OpPopArgs:
			if err := m.ArgStack.PopArgs(0); err != nil {
				return nil, err
			}

		case asm.OpAssignReg, asm.OpAssignRegPush, asm.OpAssignRegApply, asm.OpAssignRegApplyCont:
			regIdx := bc[pc]
			pc++
			v, ok := m.Reg.Get(vmcore.RegisterIndex(regIdx))
			if !ok {
				return nil, fmt.Errorf("assign-reg: bad source register %d: %w", regIdx, vmerr.ErrBadInstruction)
			}
			m.Reg.Val = v
			m.Reg.PC = pc
			transferred, err := vm.afterValue(op)
			if err != nil {
				return nil, err
			}
			if transferred {
				continue
			}

		case asm.OpAssignObj, asm.OpAssignObjPush, asm.OpAssignObjApply, asm.OpAssignObjApplyCont:
			constIdx := bc[pc]
			pc++
			v, err := constAt(code, constIdx)
			if err != nil {
				return nil, err
			}
			m.Reg.Val = v
			m.Reg.PC = pc
			transferred, err := vm.afterValue(op)
			if err != nil {
				return nil, err
			}
			if transferred {
				continue
			}

		case asm.OpGRef, asm.OpGRefPush, asm.OpGRefApply, asm.OpGRefApplyCont:
			constIdx := bc[pc]
			pc++
			sym, err := constSymbol(code, constIdx)
			if err != nil {
				return nil, err
			}
			v, err := m.Symbols.GRef(sym.Name)
			if err != nil {
				return nil, err
			}
			m.Reg.Val = v
			m.Reg.PC = pc
			transferred, err := vm.afterValue(op)
			if err != nil {
				return nil, err
			}
			if transferred {
				continue
			}

		case asm.OpGSet:
			constIdx := bc[pc]
			pc++
			sym, err := constSymbol(code, constIdx)
			if err != nil {
				return nil, err
			}
			if err := m.Symbols.GSet(sym.Name, m.Reg.Val); err != nil {
				return nil, err
			}

		case asm.OpGDef:
			constIdx := bc[pc]
			pc++
			sym, err := constSymbol(code, constIdx)
			if err != nil {
				return nil, err
			}
			m.Symbols.GDef(sym.Name, m.Reg.Val)

		case asm.OpFRef, asm.OpFRefPush, asm.OpFRefApply, asm.OpFRefApplyCont:
			depth := int(bc[pc])
			idx := int(bc[pc+1])
			pc += 2
			v, err := fref(m.Reg.Env, depth, idx)
			if err != nil {
				return nil, err
			}
			m.Reg.Val = v
			m.Reg.PC = pc
			transferred, err := vm.afterValue(op)
			if err != nil {
				return nil, err
			}
			if transferred {
				continue
			}

		case asm.OpFSet:
			depth := int(bc[pc])
			idx := int(bc[pc+1])
			pc += 2
			if err := fset(m.Reg.Env, depth, idx, m.Reg.Val); err != nil {
				return nil, err
			}

		case asm.OpGetAccess, asm.OpGetAccessPush, asm.OpGetAccessApply, asm.OpGetAccessApplyCont:
			constIdx := bc[pc]
			pc++
			sym, err := constSymbol(code, constIdx)
			if err != nil {
				return nil, err
			}
			v, err := lookupAccess(m.Reg.Val, sym)
			if err != nil {
				return nil, err
			}
			m.Reg.Val = v
			m.Reg.PC = pc
			transferred, err := vm.afterValue(op)
			if err != nil {
				return nil, err
			}
			if transferred {
				continue
			}

		case asm.OpSetAccess:
			constIdx := bc[pc]
			pc++
			sym, err := constSymbol(code, constIdx)
			if err != nil {
				return nil, err
			}
			if err := setAccess(m.Reg.Exp, sym, m.Reg.Val); err != nil {
				return nil, err
			}

		case asm.OpExtendEnv:
			regIdx := bc[pc]
			n := int(bc[pc+1])
			varsIdx := bc[pc+2]
			pc += 3
			vars, err := constAt(code, varsIdx)
			if err != nil {
				return nil, err
			}
			frame := heap.NewFrame(n, vars)
			env := heap.NewEnvironment(frame, m.Reg.Env)
			if !m.Reg.Set(vmcore.RegisterIndex(regIdx), env) {
				return nil, fmt.Errorf("extend-env: bad destination register %d: %w", regIdx, vmerr.ErrBadInstruction)
			}

		case asm.OpESet:
			idx := int(bc[pc])
			pc++
			top, err := m.RegStack.Top()
			if err != nil {
				return nil, err
			}
			env, ok := heap.AsEnvironment(top)
			if !ok {
				return nil, fmt.Errorf("eset: top of reg-stack: %w", vmerr.ErrWrongType)
			}
			if idx < 0 || idx >= len(env.Frame.Slots) {
				return nil, fmt.Errorf("eset: index %d: %w", idx, vmerr.ErrIndexOutOfBounds)
			}
			env.Frame.Slots[idx] = m.Reg.Val

		case asm.OpMakeClosure:
			kb := bc[pc]
			kp := bc[pc+1]
			n := int(bc[pc+2])
			rest := bc[pc+3] != 0
			pc += 4
			codeVal, err := constAt(code, kb)
			if err != nil {
				return nil, err
			}
			params, err := constAt(code, kp)
			if err != nil {
				return nil, err
			}
			m.Reg.Val = heap.NewClosure(codeVal, m.Reg.Env, params, n, rest)

		case asm.OpDelay:
			kc := bc[pc]
			pc++
			exprCode, err := constAt(code, kc)
			if err != nil {
				return nil, err
			}
			m.Reg.Val = heap.NewPromise(exprCode)

		case asm.OpForceValue:
			promiseVal, err := m.RegStack.Pop()
			if err != nil {
				return nil, err
			}
			promise, ok := heap.AsPromise(promiseVal)
			if !ok {
				return nil, fmt.Errorf("force-value: reg-stack top: %w", vmerr.ErrWrongType)
			}
			promise.Force(m.Reg.Val)

		case asm.OpApply:
			m.Reg.PC = pc
			if err := vm.opApply(); err != nil {
				return nil, err
			}
			continue

		case asm.OpApplyCont:
			m.Reg.PC = pc
			if err := vm.opApplyCont(); err != nil {
				return nil, err
			}
			continue

		case asm.OpTestTrue:
			testResult = heap.Truthy(m.Reg.Val)
		case asm.OpTestFalse:
			testResult = !heap.Truthy(m.Reg.Val)

		case asm.OpBranch:
			target := int(bc[pc]) | int(bc[pc+1])<<8
			pc += 2
			if testResult {
				pc = target
			}
		case asm.OpGoto:
			target := int(bc[pc]) | int(bc[pc+1])<<8
			pc = target

		case asm.OpBranchCont:
			if testResult {
				m.Reg.PC = pc
				if err := vm.restoreBCERegisters(); err != nil {
					return nil, err
				}
				continue
			}
		case asm.OpGotoCont:
			m.Reg.PC = pc
			if err := vm.restoreBCERegisters(); err != nil {
				return nil, err
			}
			continue

		case asm.OpMapInit:
			if err := vm.opMapInit(); err != nil {
				return nil, err
			}
		case asm.OpMapApply:
			var err error
			pc, err = vm.opMapApply(pc)
			if err != nil {
				return nil, err
			}
		case asm.OpMapResult:
			var err error
			pc, err = vm.opMapResult(pc)
			if err != nil {
				return nil, err
			}

		case asm.OpForInit:
			if err := vm.opForInit(); err != nil {
				return nil, err
			}
		case asm.OpForApply:
			var err error
			pc, err = vm.opForApply(pc)
			if err != nil {
				return nil, err
			}
		case asm.OpForResult:
			var err error
			pc, err = vm.opForResult(pc)
			if err != nil {
				return nil, err
			}

		case asm.OpRte:
			m.Next = vmcore.NextEvalReturn
			return m.Reg.Val, nil

		case asm.OpRtc:
			m.Next = vmcore.NextNone
			return m.Reg.Val, nil

		default:
			return nil, fmt.Errorf("bceval: opcode %s: %w", op, vmerr.ErrBadOpcode)
		}

		m.Reg.PC = pc
	}
}

// afterValue runs the fused trailing action (push-arg, apply, or
// apply-cont) a fused opcode collapses into the value-producing opcode that
// precedes it. transferred reports whether the action already set
// Env/Unev/PC for a call in progress, in which case the caller must not
// overwrite PC with its own return address afterward.
func (vm *VM) afterValue(op asm.Opcode) (transferred bool, err error) {
	switch op {
	case asm.OpAssignRegPush, asm.OpAssignObjPush, asm.OpGRefPush, asm.OpFRefPush, asm.OpGetAccessPush:
		return false, vm.m.ArgStack.PushArg(vm.m.Reg.Val)
	case asm.OpAssignRegApply, asm.OpAssignObjApply, asm.OpGRefApply, asm.OpFRefApply, asm.OpGetAccessApply:
		return true, vm.opApply()
	case asm.OpAssignRegApplyCont, asm.OpAssignObjApplyCont, asm.OpGRefApplyCont, asm.OpFRefApplyCont, asm.OpGetAccessApplyCont:
		return true, vm.opApplyCont()
	}
	return false, nil
}

// saveBCERegisters pushes a return frame — env, unev, pc, in that order.
// Every non-tail application calls this before transferring control to the
// callee.
func (vm *VM) saveBCERegisters() error {
	m := vm.m
	if err := m.RegStack.Push(envValue(m.Reg.Env)); err != nil {
		return err
	}
	if err := m.RegStack.Push(m.Reg.Unev); err != nil {
		return err
	}
	if err := m.IntStack.Push(m.Reg.PC); err != nil {
		return err
	}
	return nil
}

// restoreBCERegisters pops a return frame in reverse order, mirroring
// RESTORE_BCE_REGISTERS. goto-cont, a taken branch-cont, and every tail
// primitive or already-forced promise result reach here.
func (vm *VM) restoreBCERegisters() error {
	m := vm.m
	pc, err := m.IntStack.Pop()
	if err != nil {
		return err
	}
	unev, err := m.RegStack.Pop()
	if err != nil {
		return err
	}
	envVal, err := m.RegStack.Pop()
	if err != nil {
		return err
	}
	env, err := envFromValue(envVal)
	if err != nil {
		return err
	}
	m.Reg.PC = pc
	m.Reg.Unev = unev
	m.Reg.Env = env
	return nil
}

// constAt reads the code object's kth constant, guarding against an
// out-of-range index baked into malformed bytecode.
func constAt(code *heap.Code, idx byte) (heap.Value, error) {
	if int(idx) >= len(code.Sexprs) {
		return nil, fmt.Errorf("bad constant index %d: %w", idx, vmerr.ErrBadConstantIndex)
	}
	return code.Sexprs[idx], nil
}

// constSymbol reads the code object's kth constant and requires it to be a
// symbol, the shape gref/gset/gdef/get-access/set-access all need.
func constSymbol(code *heap.Code, idx byte) (*heap.Symbol, error) {
	v, err := constAt(code, idx)
	if err != nil {
		return nil, err
	}
	sym, ok := heap.AsSymbol(v)
	if !ok {
		return nil, fmt.Errorf("constant %d is not a symbol: %w", idx, vmerr.ErrWrongType)
	}
	return sym, nil
}

// fref walks depth parents up env and reads index within that frame, the
// static lexical-address counterpart to get-access's dynamic by-name
// lookup.
func fref(env *heap.Environment, depth, index int) (heap.Value, error) {
	target, ok := env.Ancestor(depth)
	if !ok {
		return nil, fmt.Errorf("fref: depth %d: %w", depth, vmerr.ErrIndexOutOfBounds)
	}
	if index < 0 || index >= len(target.Frame.Slots) {
		return nil, fmt.Errorf("fref: index %d: %w", index, vmerr.ErrIndexOutOfBounds)
	}
	return target.Frame.Slots[index], nil
}

// fset is fref's write counterpart.
func fset(env *heap.Environment, depth, index int, val heap.Value) error {
	target, ok := env.Ancestor(depth)
	if !ok {
		return fmt.Errorf("fset: depth %d: %w", depth, vmerr.ErrIndexOutOfBounds)
	}
	if index < 0 || index >= len(target.Frame.Slots) {
		return fmt.Errorf("fset: index %d: %w", index, vmerr.ErrIndexOutOfBounds)
	}
	target.Frame.Slots[index] = val
	return nil
}
