package sx

import (
	"io"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

// Write prints v in external representation, one line per top-level call.
// Every heap cell already implements fmt.Stringer in the shape the reader's
// own grammar accepts back in, except byte-vectors/vectors/strings, whose
// String() methods already use the #u8(...)/#(...)/ "..." reader syntax
// too — so printing is just delegating to that.
func Write(w io.Writer, v heap.Value) error {
	_, err := io.WriteString(w, v.String())
	return err
}

// WriteLine is Write plus a trailing newline, the shape a code-object
// persistence file (internal/codec) writes one datum per line.
func WriteLine(w io.Writer, v heap.Value) error {
	if err := Write(w, v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
