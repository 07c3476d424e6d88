// decode.go implements the disassembler: a linear walk over a code cell's
// bcodes using the same static length table (opLen in opcodes.go) the encoder uses,
// recursing into nested code cells referenced by make-closure/delay. Output
// is informational only, not a format anything re-parses.
package asm

import (
	"fmt"
	"strings"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

var regName = [...]string{"val", "aux", "env", "unev", "exp", "argc", "cont"}

func regString(idx byte) string {
	if int(idx) < len(regName) {
		return regName[idx]
	}
	return fmt.Sprintf("r%d", idx)
}

// Decode disassembles a code cell into an indented, human-readable dump.
func Decode(code *heap.Code) (string, error) {
	var b strings.Builder
	if err := decodeInto(&b, code, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func decodeInto(b *strings.Builder, code *heap.Code, depth int) error {
	indent := strings.Repeat("  ", depth)
	bc := code.Bcodes
	pc := 0

	for pc < len(bc) {
		op := Opcode(bc[pc])
		if !op.Valid() {
			return fmt.Errorf("%w: at pc=%d: %d", errBadOpcode, pc, bc[pc])
		}
		n := op.Len()
		if n == 0 || pc+n > len(bc) {
			return fmt.Errorf("%w: at pc=%d: truncated %s", errBadOpcode, pc, op)
		}

		fmt.Fprintf(b, "%s%04d  %s", indent, pc, op)

		switch op {
		case OpAssignReg, OpAssignRegPush, OpAssignRegApply, OpAssignRegApplyCont:
			fmt.Fprintf(b, " %s\n", regString(bc[pc+1]))
		case OpAssignObj, OpAssignObjPush, OpAssignObjApply, OpAssignObjApplyCont,
			OpGRef, OpGRefPush, OpGRefApply, OpGRefApplyCont,
			OpGetAccess, OpGetAccessPush, OpGetAccessApply, OpGetAccessApplyCont,
			OpGSet, OpGDef:
			idx := bc[pc+1]
			b.WriteByte(' ')
			if int(idx) < len(code.Sexprs) {
				fmt.Fprintf(b, "%s\n", code.Sexprs[idx])
			} else {
				fmt.Fprintf(b, "<bad index %d>\n", idx)
			}
		case OpFRef, OpFRefPush, OpFRefApply, OpFRefApplyCont, OpFSet:
			fmt.Fprintf(b, " depth=%d index=%d\n", bc[pc+1], bc[pc+2])
		case OpBranch, OpGoto:
			target := int(bc[pc+1]) | int(bc[pc+2])<<8
			fmt.Fprintf(b, " %04d\n", target)
		case OpExtendEnv:
			idx := bc[pc+3]
			params := heap.Value(heap.Null)
			if int(idx) < len(code.Sexprs) {
				params = code.Sexprs[idx]
			}
			fmt.Fprintf(b, " %s n=%d vars=%s\n", regString(bc[pc+1]), bc[pc+2], params)
		case OpESet:
			fmt.Fprintf(b, " index=%d\n", bc[pc+1])
		case OpMakeClosure:
			kb, kp, n2, r := bc[pc+1], bc[pc+2], bc[pc+3], bc[pc+4]
			params := heap.Value(heap.Null)
			if int(kp) < len(code.Sexprs) {
				params = code.Sexprs[kp]
			}
			fmt.Fprintf(b, " arity=%d rest=%d params=%s\n", n2, r, params)
			if int(kb) < len(code.Sexprs) {
				if nested, ok := heap.AsCode(code.Sexprs[kb]); ok {
					if err := decodeInto(b, nested, depth+1); err != nil {
						return err
					}
				}
			}
		case OpDelay:
			kc := bc[pc+1]
			b.WriteByte('\n')
			if int(kc) < len(code.Sexprs) {
				if nested, ok := heap.AsCode(code.Sexprs[kc]); ok {
					if err := decodeInto(b, nested, depth+1); err != nil {
						return err
					}
				}
			}
		default:
			b.WriteByte('\n')
		}

		pc += n
	}

	return nil
}
