package vm

import (
	"fmt"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmerr"
)

// envValue boxes an env register for the reg-stack, which holds heap.Value
// and has no slot for "no environment". A nil *heap.Environment (the global
// scope, which has no frame chain) is represented as heap.Null rather than
// pushed as a typed nil pointer, which would panic the moment anything
// called a method on it.
func envValue(e *heap.Environment) heap.Value {
	if e == nil {
		return heap.Null
	}
	return e
}

// envFromValue reverses envValue.
func envFromValue(v heap.Value) (*heap.Environment, error) {
	if v == heap.Null {
		return nil, nil
	}
	env, ok := heap.AsEnvironment(v)
	if !ok {
		return nil, fmt.Errorf("env register: %w", vmerr.ErrWrongType)
	}
	return env, nil
}

// lookupAccess implements get-access's `(access <sym> <env>)` dynamic
// lookup: in is typically an *heap.Environment, looked up by name rather
// than the static depth/index fref uses, since the environment here is an
// arbitrary runtime value rather than one the assembler can see lexically.
// An *heap.AssocEnvironment is also accepted for the module-style container
// no bytecode opcode currently constructs.
func lookupAccess(in heap.Value, sym *heap.Symbol) (heap.Value, error) {
	switch e := in.(type) {
	case *heap.Environment:
		if v, ok := e.LookupByName(sym); ok {
			return v, nil
		}
	case *heap.AssocEnvironment:
		if v, ok := e.Lookup(sym.Name); ok {
			return v, nil
		}
	default:
		return nil, &BadAccessError{Sym: sym, In: in}
	}
	return nil, &BadAccessError{Sym: sym, In: in}
}

// setAccess implements set-access, the write side of lookupAccess.
func setAccess(in heap.Value, sym *heap.Symbol, val heap.Value) error {
	switch e := in.(type) {
	case *heap.Environment:
		if e.SetByName(sym, val) {
			return nil
		}
	case *heap.AssocEnvironment:
		for cur := e; cur != nil; cur = cur.Parent {
			if _, ok := cur.Bindings[sym.Name]; ok {
				cur.Bindings[sym.Name] = val
				return nil
			}
		}
	default:
		return &BadAccessError{Sym: sym, In: in}
	}
	return &BadAccessError{Sym: sym, In: in}
}
