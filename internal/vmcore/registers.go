package vmcore

import "github.com/LittleGreyCells/escheme-compiled/internal/heap"

// Registers is the seven-register file the dispatch loop drives: val, aux,
// env, unev, exp hold cell references; argc and cont are small integers.
// pc is carried alongside as the eighth piece of dispatch-loop state.
type Registers struct {
	Val  heap.Value
	Aux  heap.Value
	Env  *heap.Environment
	Unev heap.Value // Typically *heap.Code; may be any value yielded to a caller.
	Exp  heap.Value

	Argc int
	Cont int
	PC   int
}

// Reset clears every register to its startup value: references to Null,
// counters to zero.
func (r *Registers) Reset() {
	r.Val = heap.Null
	r.Aux = heap.Null
	r.Env = nil
	r.Unev = heap.Null
	r.Exp = heap.Null
	r.Argc = 0
	r.Cont = 0
	r.PC = 0
}

// Snapshot captures the register file's current values for continuation
// capture.
func (r *Registers) Snapshot() heap.Snapshot {
	return heap.Snapshot{
		Val: r.Val, Aux: r.Aux, Env: r.Env, Unev: r.Unev, Exp: r.Exp,
		Argc: r.Argc, Cont: r.Cont, PC: r.PC,
	}
}

// Restore overwrites the register file from a captured snapshot.
func (r *Registers) Restore(snap heap.Snapshot) {
	r.Val, r.Aux, r.Env, r.Unev, r.Exp = snap.Val, snap.Aux, snap.Env, snap.Unev, snap.Exp
	r.Argc, r.Cont, r.PC = snap.Argc, snap.Cont, snap.PC
}

// Marker exposes the register file's cell references as GC roots.
func (r *Registers) Marker() heap.Marker {
	return func() []heap.Value {
		roots := make([]heap.Value, 0, 5)
		if r.Val != nil {
			roots = append(roots, r.Val)
		}
		if r.Aux != nil {
			roots = append(roots, r.Aux)
		}
		if r.Env != nil {
			roots = append(roots, r.Env)
		}
		if r.Unev != nil {
			roots = append(roots, r.Unev)
		}
		if r.Exp != nil {
			roots = append(roots, r.Exp)
		}
		return roots
	}
}

// RegisterIndex numbers the register operands: the five reference
// registers followed by argc and cont, in the order of the contiguous
// save/restore opcode blocks.
type RegisterIndex uint8

const (
	RegVal RegisterIndex = iota
	RegAux
	RegEnv
	RegUnev
	RegExp
	RegArgc
	RegCont
)

func (r RegisterIndex) String() string {
	switch r {
	case RegVal:
		return "val"
	case RegAux:
		return "aux"
	case RegEnv:
		return "env"
	case RegUnev:
		return "unev"
	case RegExp:
		return "exp"
	case RegArgc:
		return "argc"
	case RegCont:
		return "cont"
	default:
		return "reg?"
	}
}

// Get reads one of the five reference registers by index (assign-reg's
// operand). Argc/Cont aren't addressable this way; they move through
// save-argc/restore-argc and save-cont/restore-cont instead.
func (r *Registers) Get(idx RegisterIndex) (heap.Value, bool) {
	switch idx {
	case RegVal:
		return r.Val, true
	case RegAux:
		return r.Aux, true
	case RegEnv:
		if r.Env == nil {
			return heap.Null, true
		}
		return r.Env, true
	case RegUnev:
		return r.Unev, true
	case RegExp:
		return r.Exp, true
	default:
		return nil, false
	}
}

// Set writes one of the five reference registers by index.
func (r *Registers) Set(idx RegisterIndex, v heap.Value) bool {
	switch idx {
	case RegVal:
		r.Val = v
	case RegAux:
		r.Aux = v
	case RegEnv:
		env, ok := heap.AsEnvironment(v)
		if !ok {
			return false
		}
		r.Env = env
	case RegUnev:
		r.Unev = v
	case RegExp:
		r.Exp = v
	default:
		return false
	}
	return true
}
