// Package vmerr collects the sentinel errors shared by the assembler and
// the bytecode VM, following the sentinel-plus-%w-wrapping style used
// throughout internal/vm: a bare errors.New at package scope, wrapped with
// call-site context via fmt.Errorf so errors.Is still matches the error
// kind.
package vmerr

import "errors"

var (
	// ErrUnboundSymbol is raised by gref on a symbol with no global value.
	ErrUnboundSymbol = errors.New("unbound symbol")

	// ErrNotCallable is raised when apply-dispatch receives a val that is
	// none of primitive/closure/operator/continuation.
	ErrNotCallable = errors.New("not callable")

	// ErrWrongType is raised when a guard predicate (expected env / list /
	// code / promise / closure) fails.
	ErrWrongType = errors.New("wrong type")

	// ErrArityMismatch is raised by closure application with too few, too
	// many, or the wrong exact count of arguments.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrBadOpcode is raised when the VM reads an opcode ≥ the op table size.
	ErrBadOpcode = errors.New("bad opcode")

	// ErrBadConstantIndex is raised when the VM reads a constant-pool index
	// ≥ len(sexprs).
	ErrBadConstantIndex = errors.New("bad constant index")

	// ErrConstPoolOverflow is raised by the assembler when encoding would
	// exceed 256 distinct constants in one code cell.
	ErrConstPoolOverflow = errors.New("constant pool overflow")

	// ErrBadInstruction is raised by the assembler on a malformed
	// instruction form.
	ErrBadInstruction = errors.New("bad instruction")

	// ErrIndexOutOfBounds is raised by eset/fref/fset with an out-of-range
	// index or depth.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrStackOverflow is raised when a push exceeds a stack's fixed
	// capacity. Overflow is always fatal; stacks never grow.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is raised by pop/top on an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)
