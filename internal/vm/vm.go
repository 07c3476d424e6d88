package vm

import "github.com/LittleGreyCells/escheme-compiled/internal/vmcore"

// VM drives the bytecode dispatch loop over a vmcore.Machine. It adds no
// state of its own beyond the machine: every register, stack and the
// symbol table vmcore.Machine already owns is what the loop reads and
// mutates.
type VM struct {
	m *vmcore.Machine
}

// Option configures a VM during New.
type Option func(*VM)

// WithMachine supplies a pre-built machine (e.g. one already wired with
// primitives via internal/image) instead of a bare default one. New fills
// in the map/for-each library routines if the machine has none.
func WithMachine(m *vmcore.Machine) Option {
	return func(v *VM) { v.m = m }
}

// New builds a VM, defaulting to a fresh vmcore.Machine if WithMachine is
// not supplied.
func New(opts ...Option) *VM {
	v := &VM{}
	for _, opt := range opts {
		opt(v)
	}
	if v.m == nil {
		v.m = vmcore.New()
	}
	if v.m.MapCode == nil {
		v.m.MapCode = mapCode
	}
	if v.m.ForCode == nil {
		v.m.ForCode = forCode
	}
	return v
}

// Machine exposes the underlying register file and stacks, e.g. so a
// bootstrap sequence can bind primitives into its symbol table before the
// first Run.
func (v *VM) Machine() *vmcore.Machine { return v.m }

// Close releases the machine's GC root registrations.
func (v *VM) Close() { v.m.Close() }
