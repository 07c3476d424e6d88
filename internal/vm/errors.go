package vm

import (
	"fmt"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmerr"
)

// ArityError reports a closure application with the wrong argument count.
type ArityError struct {
	Want  int
	Rest  bool
	Got   int
}

func (e *ArityError) Error() string {
	if e.Rest {
		return fmt.Sprintf("arity mismatch: want at least %d arguments, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("arity mismatch: want %d arguments, got %d", e.Want, e.Got)
}

func (e *ArityError) Unwrap() error { return vmerr.ErrArityMismatch }

// NotCallableError reports apply dispatch against a value that is none of
// primitive/closure/continuation/operator.
type NotCallableError struct {
	Val heap.Value
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("not callable: %s", e.Val)
}

func (e *NotCallableError) Unwrap() error { return vmerr.ErrNotCallable }

// BadAccessError reports get-access/set-access against a container value
// that isn't an environment-like value, or a name it doesn't bind.
type BadAccessError struct {
	Sym *heap.Symbol
	In  heap.Value
}

func (e *BadAccessError) Error() string {
	return fmt.Sprintf("access: %s not found in %s", e.Sym.Name, e.In)
}

func (e *BadAccessError) Unwrap() error { return vmerr.ErrWrongType }
