package asm

import (
	"fmt"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

// RegisterIndex numbers the register operand encoded inline in certain
// instructions (extend-env's destination, for instance). The values
// intentionally mirror vmcore.RegisterIndex's numbering (val=0 .. cont=6)
// so the VM can cast one to the other without a translation table.
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

var regByName = map[string]RegisterIndex{
	"val": RegVal, "aux": RegAux, "env": RegEnv,
	"unev": RegUnev, "exp": RegExp, "argc": RegArgc, "cont": RegCont,
}

func lookupRegister(name string) (RegisterIndex, bool) {
	r, ok := regByName[name]
	return r, ok
}

// label records a forward- or back-referenced position in a program, keyed
// either by symbol name or by a bare fixnum.
type label struct {
	name     string
	isFixnum bool
	fixnum   int64
}

func (l label) key() any {
	if l.isFixnum {
		return l.fixnum
	}
	return l.name
}

func (l label) String() string {
	if l.isFixnum {
		return fmt.Sprintf("%d", l.fixnum)
	}
	return l.name
}

// instruction is one parsed program item: an opcode mnemonic plus its
// unevaluated operand S-expressions, ready for the encoder to interpret.
type instruction struct {
	op       string
	operands []heap.Value
}

// item is either a label or an instruction: `item ::= label | instruction`.
type item struct {
	label *label
	instr *instruction
}

// parseProgram walks a proper list of program items (`program ::= (item
// …)`) into a slice of item. Each element is either a bare symbol/fixnum (a
// label) or a list headed by an opcode mnemonic symbol (an instruction).
func parseProgram(prog heap.Value) ([]item, error) {
	elems, ok := heap.ListToSlice(prog)
	if !ok {
		return nil, fmt.Errorf("%w: program is not a proper list", errBadInstruction)
	}

	items := make([]item, 0, len(elems))
	for _, el := range elems {
		it, err := parseItem(el)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func parseItem(v heap.Value) (item, error) {
	switch t := v.(type) {
	case *heap.Symbol:
		return item{label: &label{name: t.Name}}, nil
	case heap.Fixnum:
		return item{label: &label{isFixnum: true, fixnum: int64(t)}}, nil
	case *heap.Pair:
		head, ok := heap.AsSymbol(t.Car)
		if !ok {
			return item{}, fmt.Errorf("%w: instruction head is not a symbol: %s", errBadInstruction, t.Car)
		}
		operands, ok := heap.ListToSlice(t.Cdr)
		if !ok {
			return item{}, fmt.Errorf("%w: improper operand list for %s", errBadInstruction, head.Name)
		}
		return item{instr: &instruction{op: head.Name, operands: operands}}, nil
	default:
		return item{}, fmt.Errorf("%w: unrecognized program item: %s", errBadInstruction, v)
	}
}

// asOperator reports the (reg ...) / (const ...) / (label ...) wrapper shape
// an operand S-expression uses.
func asOperator(v heap.Value) (head string, arg heap.Value, ok bool) {
	p, isPair := heap.AsPair(v)
	if !isPair {
		return "", nil, false
	}
	sym, isSym := heap.AsSymbol(p.Car)
	if !isSym {
		return "", nil, false
	}
	rest, isList := heap.AsPair(p.Cdr)
	if !isList {
		return sym.Name, heap.Null, true
	}
	return sym.Name, rest.Car, true
}

// bareRegister extracts a register name from either a bare symbol operand
// or a (reg X) wrapper, since the grammar uses both shapes in different
// instruction families.
func bareRegister(v heap.Value) (RegisterIndex, bool) {
	if sym, ok := heap.AsSymbol(v); ok {
		return lookupRegister(sym.Name)
	}
	if head, arg, ok := asOperator(v); ok && head == "reg" {
		if sym, ok := heap.AsSymbol(arg); ok {
			return lookupRegister(sym.Name)
		}
	}
	return 0, false
}

func fixnumOperand(v heap.Value) (int64, bool) {
	f, ok := heap.AsFixnum(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
