// encode.go implements the two-pass assembler: a linear walk that emits
// bytes and records label positions/references in one pass, then a patch
// pass that resolves every forward (or backward) label reference. Peephole
// fusion runs inline via a one-instruction pending slot: the most recently
// emitted fusable opcode can still be rewritten in place until the next
// label or non-fusable instruction closes the window.
package asm

import (
	"fmt"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

type fixup struct {
	pos int // Index of the first of two placeholder bytes.
	key any
	lbl label
}

// pendingFusable remembers the most recently emitted instruction, if it is
// one eligible to fuse with a following push-arg/apply/apply-cont.
type pendingFusable struct {
	op  Opcode
	pos int // Index of that instruction's opcode byte.
}

type encoder struct {
	buf    []byte
	sexprs []heap.Value

	labels  map[any]int
	fixups  []fixup
	pending *pendingFusable
}

// Encode assembles a parsed program into a code cell. Nested lambda bodies
// (make-closure, delay) recurse into fresh Encode calls; the resulting
// *heap.Code becomes a constant in the enclosing sexprs vector.
func Encode(prog heap.Value) (*heap.Code, error) {
	items, err := parseProgram(prog)
	if err != nil {
		return nil, err
	}

	e := &encoder{labels: make(map[any]int)}

	// The partially-built sexprs vector must be visible to the GC while
	// nested Encode calls run, since it holds the only reference to
	// constants already interned for this code object.
	unregister := heap.RegisterMarker(func() []heap.Value {
		return append([]heap.Value(nil), e.sexprs...)
	})
	defer unregister()

	for _, it := range items {
		if it.label != nil {
			e.flush()
			e.labels[it.label.key()] = len(e.buf)
			continue
		}
		if err := e.emit(it.instr); err != nil {
			return nil, err
		}
	}
	e.flush()

	for _, fx := range e.fixups {
		target, ok := e.labels[fx.key]
		if !ok {
			return nil, &LabelError{Label: fx.lbl.String()}
		}
		if target < 0 || target > 0xffff {
			return nil, fmt.Errorf("%w: jump target out of range: %d", errBadInstruction, target)
		}
		e.buf[fx.pos] = byte(target & 0xff)
		e.buf[fx.pos+1] = byte((target >> 8) & 0xff)
	}

	return heap.NewCode(e.buf, e.sexprs), nil
}

// flush ends the peephole pipeline without fusing, as happens at a label or
// before any non-fusable instruction.
func (e *encoder) flush() { e.pending = nil }

func (e *encoder) intern(v heap.Value) (byte, error) {
	for i, existing := range e.sexprs {
		if heap.Eqv(existing, v) {
			return byte(i), nil
		}
	}
	if len(e.sexprs) >= 256 {
		return 0, fmt.Errorf("%w: pool already holds %d constants", errConstPoolOverflow, len(e.sexprs))
	}
	e.sexprs = append(e.sexprs, v)
	return byte(len(e.sexprs) - 1), nil
}

func byteOperand(v int64, op string) (byte, error) {
	if v < 0 || v > 0xff {
		return 0, fmt.Errorf("%w: %s: operand out of byte range: %d", errIndexOutOfBounds, op, v)
	}
	return byte(v), nil
}

func (e *encoder) emitOp(op Opcode, extra ...byte) int {
	pos := len(e.buf)
	e.buf = append(e.buf, byte(op))
	e.buf = append(e.buf, extra...)
	return pos
}

// emitFusable emits a base opcode that may later be overwritten in place by
// a fused variant, and arms the pending slot.
func (e *encoder) emitFusable(op Opcode, extra ...byte) {
	pos := e.emitOp(op, extra...)
	e.pending = &pendingFusable{op: op, pos: pos}
}

func (e *encoder) emit(ins *instruction) error {
	switch ins.op {
	case "push-arg", "apply", "apply-cont":
		if e.pending != nil {
			var table map[Opcode]Opcode
			switch ins.op {
			case "push-arg":
				table = fuseWithPush
			case "apply":
				table = fuseWithApply
			case "apply-cont":
				table = fuseWithApplyCont
			}
			if fused, ok := table[e.pending.op]; ok {
				e.buf[e.pending.pos] = byte(fused)
				e.pending = nil
				return nil
			}
		}
		e.flush()
		switch ins.op {
		case "push-arg":
			e.emitOp(OpPushArg)
		case "apply":
			e.emitOp(OpApply)
		case "apply-cont":
			e.emitOp(OpApplyCont)
		}
		return nil
	}

	e.flush()

	switch ins.op {
	case "save", "restore":
		if len(ins.operands) != 1 {
			return &OperandError{Op: ins.op, Operand: ins.operands}
		}
		reg, ok := bareRegister(ins.operands[0])
		if !ok {
			return &OperandError{Op: ins.op, Operand: ins.operands[0]}
		}
		base := OpSaveVal
		if ins.op == "restore" {
			base = OpRestoreVal
		}
		e.emitOp(base + Opcode(reg))

	case "zero-argc":
		e.emitOp(OpZeroArgc)
	case "pop-args":
		e.emitOp(OpPopArgs)
	case "test-true":
		e.emitOp(OpTestTrue)
	case "test-false":
		e.emitOp(OpTestFalse)
	case "map-init":
		e.emitOp(OpMapInit)
	case "map-apply":
		e.emitOp(OpMapApply)
	case "map-result":
		e.emitOp(OpMapResult)
	case "for-init":
		e.emitOp(OpForInit)
	case "for-apply":
		e.emitOp(OpForApply)
	case "for-result":
		e.emitOp(OpForResult)
	case "rte":
		// rte returns to a non-bytecode caller; this machine has no such
		// caller to yield to, so it always returns to a bytecode frame
		// and can share rtc's opcode.
		e.emitOp(OpRtc)
	case "rtc":
		e.emitOp(OpRtc)

	case "assign":
		if len(ins.operands) != 2 {
			return &OperandError{Op: ins.op, Operand: ins.operands}
		}
		dest, ok := bareRegister(ins.operands[0])
		if !ok || dest != RegVal {
			return fmt.Errorf("%w: assign: destination must be val", errBadInstruction)
		}
		head, arg, ok := asOperator(ins.operands[1])
		if !ok {
			return &OperandError{Op: ins.op, Operand: ins.operands[1]}
		}
		switch head {
		case "reg":
			src, ok := bareRegister(arg)
			if !ok {
				return &OperandError{Op: ins.op, Operand: arg}
			}
			e.emitFusable(OpAssignReg, byte(src))
		case "const":
			idx, err := e.intern(arg)
			if err != nil {
				return err
			}
			e.emitFusable(OpAssignObj, idx)
		default:
			return &OperandError{Op: ins.op, Operand: ins.operands[1]}
		}

	case "gref", "gset", "gdef":
		sym, err := symbolOperandFor(ins)
		if err != nil {
			return err
		}
		idx, err := e.intern(sym)
		if err != nil {
			return err
		}
		switch ins.op {
		case "gref":
			e.emitFusable(OpGRef, idx)
		case "gset":
			e.emitOp(OpGSet, idx)
		case "gdef":
			e.emitOp(OpGDef, idx)
		}

	case "fref":
		depth, index, err := depthIndexOperands(ins, 3)
		if err != nil {
			return err
		}
		e.emitFusable(OpFRef, depth, index)

	case "fset":
		depth, index, err := depthIndexOperands(ins, 2)
		if err != nil {
			return err
		}
		e.emitOp(OpFSet, depth, index)

	case "get-access", "set-access":
		sym, ok := findConstSymbol(ins.operands)
		if !ok {
			return &OperandError{Op: ins.op, Operand: ins.operands}
		}
		idx, err := e.intern(sym)
		if err != nil {
			return err
		}
		if ins.op == "get-access" {
			e.emitFusable(OpGetAccess, idx)
		} else {
			e.emitOp(OpSetAccess, idx)
		}

	case "make-closure":
		operands := ins.operands
		if len(operands) == 5 {
			if reg, ok := bareRegister(operands[0]); !ok || reg != RegVal {
				return fmt.Errorf("%w: make-closure: destination must be val", errBadInstruction)
			}
			operands = operands[1:]
		}
		if len(operands) != 4 {
			return &OperandError{Op: ins.op, Operand: ins.operands}
		}
		nested, err := Encode(operands[0])
		if err != nil {
			return err
		}
		kb, err := e.intern(nested)
		if err != nil {
			return err
		}
		kp, err := e.intern(operands[1])
		if err != nil {
			return err
		}
		num, ok := fixnumOperand(operands[2])
		if !ok {
			return &OperandError{Op: ins.op, Operand: operands[2]}
		}
		n, err := byteOperand(num, ins.op)
		if err != nil {
			return err
		}
		rest := byte(0)
		if heap.Truthy(operands[3]) {
			rest = 1
		}
		e.emitOp(OpMakeClosure, kb, kp, n, rest)

	case "delay":
		if len(ins.operands) != 1 {
			return &OperandError{Op: ins.op, Operand: ins.operands}
		}
		nested, err := Encode(ins.operands[0])
		if err != nil {
			return err
		}
		kc, err := e.intern(nested)
		if err != nil {
			return err
		}
		e.emitOp(OpDelay, kc)

	case "force-value":
		e.emitOp(OpForceValue)

	case "branch", "goto":
		if len(ins.operands) != 1 {
			return &OperandError{Op: ins.op, Operand: ins.operands}
		}
		head, arg, ok := asOperator(ins.operands[0])
		if !ok {
			return &OperandError{Op: ins.op, Operand: ins.operands[0]}
		}
		switch head {
		case "reg":
			sym, ok := heap.AsSymbol(arg)
			if !ok || sym.Name != "cont" {
				return &OperandError{Op: ins.op, Operand: arg}
			}
			if ins.op == "branch" {
				e.emitOp(OpBranchCont)
			} else {
				e.emitOp(OpGotoCont)
			}
		case "label":
			lbl, err := labelOperand(arg)
			if err != nil {
				return err
			}
			var op Opcode
			if ins.op == "branch" {
				op = OpBranch
			} else {
				op = OpGoto
			}
			pos := e.emitOp(op, 0, 0)
			e.fixups = append(e.fixups, fixup{pos: pos + 1, key: lbl.key(), lbl: lbl})
		default:
			return &OperandError{Op: ins.op, Operand: ins.operands[0]}
		}

	case "extend-env":
		if len(ins.operands) != 3 {
			return &OperandError{Op: ins.op, Operand: ins.operands}
		}
		reg, ok := bareRegister(ins.operands[0])
		if !ok {
			return &OperandError{Op: ins.op, Operand: ins.operands[0]}
		}
		nv, ok := fixnumOperand(ins.operands[1])
		if !ok {
			return &OperandError{Op: ins.op, Operand: ins.operands[1]}
		}
		n, err := byteOperand(nv, ins.op)
		if err != nil {
			return err
		}
		kv, err := e.intern(ins.operands[2])
		if err != nil {
			return err
		}
		e.emitOp(OpExtendEnv, byte(reg), n, kv)

	case "eset":
		if len(ins.operands) != 1 {
			return &OperandError{Op: ins.op, Operand: ins.operands}
		}
		idx, ok := fixnumOperand(ins.operands[0])
		if !ok {
			return &OperandError{Op: ins.op, Operand: ins.operands[0]}
		}
		b, err := byteOperand(idx, ins.op)
		if err != nil {
			return err
		}
		e.emitOp(OpESet, b)

	default:
		return &UnknownOpcodeError{Op: ins.op}
	}

	return nil
}

// symbolOperandFor extracts the bare-symbol operand gref/gset/gdef take,
// tolerating an optional decorative leading `val` register: `(gref [<reg>]
// <symbol>)`.
func symbolOperandFor(ins *instruction) (*heap.Symbol, error) {
	operands := ins.operands
	if len(operands) == 2 {
		if reg, ok := bareRegister(operands[0]); !ok || reg != RegVal {
			return nil, fmt.Errorf("%w: %s: leading register must be val", errBadInstruction, ins.op)
		}
		operands = operands[1:]
	}
	if len(operands) != 1 {
		return nil, &OperandError{Op: ins.op, Operand: ins.operands}
	}
	sym, ok := heap.AsSymbol(operands[0])
	if !ok {
		return nil, &OperandError{Op: ins.op, Operand: operands[0]}
	}
	return sym, nil
}

// depthIndexOperands extracts fref/fset's depth and index bytes, tolerating
// fref's optional decorative leading `val` register.
func depthIndexOperands(ins *instruction, withOptionalReg int) (byte, byte, error) {
	operands := ins.operands
	if len(operands) == withOptionalReg {
		if reg, ok := bareRegister(operands[0]); !ok || reg != RegVal {
			return 0, 0, fmt.Errorf("%w: %s: leading register must be val", errBadInstruction, ins.op)
		}
		operands = operands[1:]
	}
	if len(operands) != 2 {
		return 0, 0, &OperandError{Op: ins.op, Operand: ins.operands}
	}
	d, ok := fixnumOperand(operands[0])
	if !ok {
		return 0, 0, &OperandError{Op: ins.op, Operand: operands[0]}
	}
	i, ok := fixnumOperand(operands[1])
	if !ok {
		return 0, 0, &OperandError{Op: ins.op, Operand: operands[1]}
	}
	depth, err := byteOperand(d, ins.op)
	if err != nil {
		return 0, 0, err
	}
	index, err := byteOperand(i, ins.op)
	if err != nil {
		return 0, 0, err
	}
	return depth, index, nil
}

// findConstSymbol locates the required `(const <symbol>)` operand among
// get-access/set-access's operands, ignoring decorative `(reg val)`/`(reg
// exp)` annotations.
func findConstSymbol(operands []heap.Value) (*heap.Symbol, bool) {
	for _, op := range operands {
		if head, arg, ok := asOperator(op); ok && head == "const" {
			if sym, ok := heap.AsSymbol(arg); ok {
				return sym, true
			}
		}
	}
	return nil, false
}

func labelOperand(v heap.Value) (label, error) {
	switch t := v.(type) {
	case *heap.Symbol:
		return label{name: t.Name}, nil
	case heap.Fixnum:
		return label{isFixnum: true, fixnum: int64(t)}, nil
	default:
		return label{}, fmt.Errorf("%w: bad label reference: %s", errBadInstruction, v)
	}
}
