package codec

import (
	"fmt"

	"github.com/LittleGreyCells/escheme-compiled/internal/vmerr"
)

// errMalformed is the local sentinel for a persisted form that doesn't
// match the <code> grammar.
var errMalformed = vmerr.ErrWrongType

// FormatError reports a persisted s-expression that doesn't match the
// <code> ::= (<byte-vector> <sexprs>) grammar.
type FormatError struct {
	Reason string
	Got    fmt.Stringer
}

func (e *FormatError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("%s: %s", errMalformed, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", errMalformed, e.Reason, e.Got)
}

func (e *FormatError) Unwrap() error { return errMalformed }
