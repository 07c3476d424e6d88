// Package vmcore assembles the register file, the three explicit stacks,
// and the symbol table into the Machine the bytecode VM dispatch loop
// drives. Machine's twice-called OptionFn initialization configures
// structural state during early init (with elevated access to internals),
// lets options override defaults, then finishes wiring during late init.
package vmcore

import (
	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/log"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
	"github.com/google/uuid"
)

// NextTag names the state the outer driver resumes in when bytecode yields
// control via rte. This implementation compiles every closure body to
// bytecode and never actually yields — rte behaves as rtc — but the tag
// type and Next field are kept so a future outer tree-walking interpreter
// has somewhere to plug in without changing Machine's shape.
type NextTag int

const (
	NextNone NextTag = iota
	NextEvalSequence
	NextEvalReturn
	NextEvalDispatch
)

func (t NextTag) String() string {
	switch t {
	case NextEvalSequence:
		return "eval-sequence"
	case NextEvalReturn:
		return "eval-return"
	case NextEvalDispatch:
		return "eval-dispatch"
	default:
		return "none"
	}
}

// Machine bundles everything the dispatch loop reads and mutates.
type Machine struct {
	// ID identifies this machine instance in log output, the way a
	// container or session ID disambiguates concurrent instances in the
	// pack's own production logging.
	ID uuid.UUID

	Reg Registers

	RegStack *RegStack
	ArgStack *ArgStack
	IntStack *IntStack

	Symbols *symtab.Table

	// MapCode and ForCode are the library iteration loops
	// map-operator/foreach-operator jump to: a fixed five-instruction
	// routine of the form (map-init) (map-apply) (apply) (map-result)
	// (goto-cont) (and the for-init/for-apply/for-result equivalent for
	// for-each). internal/vm.New backfills these from its own sentinels
	// unless a caller already set them; a *Machine driven directly without
	// going through internal/vm is left with nil fields, and applying
	// map/for-each is then a configuration error rather than a silent
	// no-op.
	MapCode *heap.Code
	ForCode *heap.Code

	// Next is the process-wide evaluator state tag. It is set by rte and
	// consulted by any outer driver; this core never reads it itself since
	// rte is translated to rtc.
	Next NextTag

	unregister []func()

	log *log.Logger
}

// New builds a machine with the default stack depths, applying opts in
// two passes (early, late): early init can
// still replace the stacks or symbol table wholesale, late init is for
// options that only need to observe the finished wiring (e.g. registering
// additional primitives).
func New(opts ...OptionFn) *Machine {
	m := &Machine{
		ID:       uuid.New(),
		RegStack: NewRegStack(DefaultStackDepth),
		ArgStack: NewArgStack(DefaultStackDepth),
		IntStack: NewIntStack(DefaultStackDepth),
		Symbols:  symtab.New(),
		log:      log.DefaultLogger(),
	}
	m.Reg.Reset()

	for _, fn := range opts {
		fn(m, false)
	}

	m.registerRoots()

	for _, fn := range opts {
		fn(m, true)
	}

	return m
}

// registerRoots wires every component holding cell references external to
// the heap's own graph into heap's marker registry: the register file, the
// reg-stack, the arg-stack, and the symbol table. The int-stack holds only
// integers and registers no marker.
func (m *Machine) registerRoots() {
	m.unregister = append(m.unregister,
		heap.RegisterMarker(m.Reg.Marker()),
		heap.RegisterMarker(m.RegStack.Marker()),
		heap.RegisterMarker(m.ArgStack.Marker()),
		heap.RegisterMarker(m.Symbols.Marker()),
	)
}

// Close unregisters this machine's marker callbacks, the same scoped
// acquisition discipline open ports follow, applied to the machine itself
// so short-lived Machines (as in tests) don't accumulate dead markers in
// heap's process-wide registry.
func (m *Machine) Close() {
	for _, fn := range m.unregister {
		fn()
	}
	m.unregister = nil
}

// Log exposes the machine's logger so other packages driving the dispatch
// loop (internal/vm) can log at the same level/format as the rest of the
// stack without vmcore exporting its logging policy wholesale.
func (m *Machine) Log() *log.Logger { return m.log }

// OptionFn configures a Machine during New, called once during early init
// (late == false) and once during late init (late == true).
type OptionFn func(m *Machine, late bool)

// WithLogger overrides the machine's logger.
func WithLogger(l *log.Logger) OptionFn {
	return func(m *Machine, late bool) {
		if !late {
			m.log = l
		}
	}
}

// WithStackDepth replaces the default stack capacities. Must be supplied as
// an early-init option since late init has already registered roots against
// the default stacks.
func WithStackDepth(depth int) OptionFn {
	return func(m *Machine, late bool) {
		if late {
			return
		}
		m.RegStack = NewRegStack(depth)
		m.ArgStack = NewArgStack(depth)
		m.IntStack = NewIntStack(depth)
	}
}
