package heap

import (
	"fmt"
	"strconv"
	"strings"
)

// Fixnum is a signed integer cell. It is a plain Go value (not a pointer)
// because it is immutable and small enough to copy; eqv? on fixnums compares
// by numeric value, not identity.
type Fixnum int64

func (Fixnum) Kind() Kind          { return KindFixnum }
func (f Fixnum) String() string    { return strconv.FormatInt(int64(f), 10) }
func (Fixnum) marked() bool        { return true } // immediate value, never collected
func (Fixnum) mark()               {}
func (Fixnum) unmark()             {}

// Flonum is a double-precision float cell.
type Flonum float64

func (Flonum) Kind() Kind       { return KindFlonum }
func (f Flonum) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
func (Flonum) marked() bool     { return true }
func (Flonum) mark()            {}
func (Flonum) unmark()          {}

// Char is a single Scheme character cell.
type Char rune

func (Char) Kind() Kind { return KindChar }
func (c Char) String() string {
	return fmt.Sprintf("#\\%c", rune(c))
}
func (Char) marked() bool { return true }
func (Char) mark()        {}
func (Char) unmark()      {}

// Eqv reports whether two values are eqv?: pointer equality for most kinds,
// numeric equality for fixnum/flonum, character equality for char. It is
// the equality the assembler's constant-pool dedup relies on.
func Eqv(a, b Value) bool {
	if a == b {
		return true
	}

	switch av := a.(type) {
	case Fixnum:
		bv, ok := b.(Fixnum)
		return ok && av == bv
	case Flonum:
		bv, ok := b.(Flonum)
		return ok && av == bv
	case Char:
		bv, ok := b.(Char)
		return ok && av == bv
	default:
		return false
	}
}
