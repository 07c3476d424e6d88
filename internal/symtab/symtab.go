// Package symtab interns symbol cells and carries the global environment:
// the table gref/gset/gdef opcodes operate against.
// It is a single map keyed by name, mapping each name to the one canonical
// *heap.Symbol cell, since eq?/eqv? on symbols must reduce to pointer
// identity once interned.
package symtab

import (
	"fmt"
	"sync"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmerr"
)

// Table interns symbol names to their one canonical cell and doubles as the
// global (top-level) binding environment.
type Table struct {
	mu      sync.RWMutex
	symbols map[string]*heap.Symbol
}

// New returns an empty table.
func New() *Table {
	return &Table{symbols: make(map[string]*heap.Symbol)}
}

// Intern returns the canonical *heap.Symbol for name, allocating it on first
// use. Every subsequent call with the same name returns the identical cell.
func (t *Table) Intern(name string) *heap.Symbol {
	t.mu.RLock()
	if sym, ok := t.symbols[name]; ok {
		t.mu.RUnlock()
		return sym
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	if sym, ok := t.symbols[name]; ok {
		return sym
	}

	sym := heap.NewSymbol(name)
	t.symbols[name] = sym
	return sym
}

// Lookup returns the interned symbol for name without creating one.
func (t *Table) Lookup(name string) (*heap.Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sym, ok := t.symbols[name]
	return sym, ok
}

// GRef reads a symbol's global value, the `gref` opcode's primitive
// operation. An unbound symbol is an UnboundVariable error, not a silent
// Unbound-valued read.
func (t *Table) GRef(name string) (heap.Value, error) {
	sym, ok := t.Lookup(name)
	if !ok || !sym.Bound() {
		return nil, &UnboundVariableError{Name: name}
	}
	return sym.Value, nil
}

// GSet mutates an already-bound symbol's global value (`gset`). Setting an
// unbound symbol is an error distinct from GDef, matching Scheme's
// set!-before-define restriction.
func (t *Table) GSet(name string, val heap.Value) error {
	sym, ok := t.Lookup(name)
	if !ok || !sym.Bound() {
		return &UnboundVariableError{Name: name}
	}
	sym.Value = val
	return nil
}

// GDef binds (or rebinds) a symbol's global value unconditionally (`gdef`),
// interning the name if this is its first appearance.
func (t *Table) GDef(name string, val heap.Value) *heap.Symbol {
	sym := t.Intern(name)
	sym.Value = val
	return sym
}

// Marker exposes every interned symbol as a GC root, since a symbol's
// identity and any global value it carries must survive collection as long
// as the table itself does. Register it once at VM startup via
// heap.RegisterMarker.
func (t *Table) Marker() heap.Marker {
	return func() []heap.Value {
		t.mu.RLock()
		defer t.mu.RUnlock()

		roots := make([]heap.Value, 0, len(t.symbols))
		for _, sym := range t.symbols {
			roots = append(roots, sym)
		}
		return roots
	}
}

// UnboundVariableError reports a gref/gset against a symbol with no global
// value.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable: %s", e.Name)
}

func (e *UnboundVariableError) Unwrap() error { return vmerr.ErrUnboundSymbol }
