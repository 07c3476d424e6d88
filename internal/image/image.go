// Package image builds the process-wide bootstrap state that must already
// be in place before the first instruction runs: the primitive function
// table and the apply-dispatch operator sentinels, bound into a fresh
// symbol table.
//
// There is no separate memory image to assemble: the fixed bytecode
// sequences map/for-each/force dispatch to live in internal/vm, next to the
// opcode switch whose jump offsets they're built to match. Bootstrap's job
// narrows to the one piece that is still data instead of code: the
// name-to-value bindings a program's first gref needs to already resolve.
package image

import (
	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/primitive"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmcore"
)

// operators binds each apply-dispatch sentinel kind to the name a program
// would gref to reach it.
var operators = map[string]heap.Value{
	"apply":    heap.ApplyOperator,
	"eval":     heap.EvalOperator,
	"call/cc":  heap.CallCCOperator,
	"map":      heap.MapOperator,
	"for-each": heap.ForeachOperator,
	"force":    heap.ForceOperator,
}

// Bootstrap binds primitive.Library and the operator sentinels into tab.
// Rerunning it against the same table is harmless; GDef always rebinds.
func Bootstrap(tab *symtab.Table) {
	for name, fn := range primitive.Library {
		tab.GDef(name, heap.NewPrimitive(name, fn))
	}
	for name, op := range operators {
		tab.GDef(name, op)
	}
}

// WithBootstrap is a vmcore.OptionFn that calls Bootstrap against the
// machine's own symbol table, the default a caller who doesn't need a
// custom global environment should reach for.
func WithBootstrap() vmcore.OptionFn {
	return func(m *vmcore.Machine, late bool) {
		if late {
			Bootstrap(m.Symbols)
		}
	}
}
