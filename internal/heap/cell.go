// Package heap implements the uniform tagged-cell data model shared by the
// assembler and the bytecode VM: symbols, numbers, pairs, vectors, strings,
// closures, code objects, promises, continuations, ports and the sentinel
// operators the apply-dispatcher recognizes.
package heap

import "fmt"

// Kind discriminates the variant a Cell holds. Every Value implementation
// reports its own Kind so callers can type-switch without reflection.
type Kind uint8

const (
	KindNull Kind = iota
	KindUnbound
	KindBool
	KindSymbol
	KindFixnum
	KindFlonum
	KindChar
	KindString
	KindByteVector
	KindVector
	KindPair
	KindEnvironment
	KindAssocEnvironment
	KindFrame
	KindClosure
	KindCode
	KindPromise
	KindContinuation
	KindPort
	KindPrimitive

	// Sentinel operator kinds recognized by the apply dispatcher.
	KindEvalOperator
	KindApplyOperator
	KindCallCCOperator
	KindMapOperator
	KindForeachOperator
	KindForceOperator
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindSymbol:
		return "symbol"
	case KindFixnum:
		return "fixnum"
	case KindFlonum:
		return "flonum"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindByteVector:
		return "byte-vector"
	case KindVector:
		return "vector"
	case KindPair:
		return "cons"
	case KindEnvironment:
		return "environment"
	case KindAssocEnvironment:
		return "assoc-environment"
	case KindFrame:
		return "frame"
	case KindClosure:
		return "closure"
	case KindCode:
		return "code"
	case KindPromise:
		return "promise"
	case KindContinuation:
		return "continuation"
	case KindPort:
		return "port"
	case KindPrimitive:
		return "primitive"
	case KindEvalOperator:
		return "eval"
	case KindApplyOperator:
		return "apply"
	case KindCallCCOperator:
		return "call/cc"
	case KindMapOperator:
		return "map"
	case KindForeachOperator:
		return "for-each"
	case KindForceOperator:
		return "force"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is implemented by every heap cell variant. It carries a mark bit
// (DATA MODEL, Lifecycle), which nothing in this implementation sets since
// reclamation is left to the Go runtime (see marker.go), and a Kind tag so
// accessor helpers can pattern-match instead of silently reinterpreting
// memory, per DESIGN NOTES ("Tagged variant cells").
type Value interface {
	Kind() Kind

	// marked reports the cell's mark bit; mark sets it. Unexported so only
	// this package can flip the bit.
	marked() bool
	mark()
	unmark()

	fmt.Stringer
}

// cellHeader is embedded by every concrete cell type to provide the mark bit
// without repeating the bookkeeping methods everywhere.
type cellHeader struct {
	gcMark bool
}

func (h *cellHeader) marked() bool { return h.gcMark }
func (h *cellHeader) mark()        { h.gcMark = true }
func (h *cellHeader) unmark()      { h.gcMark = false }

// Null is the single canonical empty-list value. null?(x) is pointer
// identity against this value (DATA MODEL invariant).
var Null Value = &nullCell{}

type nullCell struct{ cellHeader }

func (*nullCell) Kind() Kind    { return KindNull }
func (*nullCell) String() string { return "()" }

// Unbound is the sentinel stored in a symbol's value slot until it is
// explicitly set (DATA MODEL invariant).
var Unbound Value = &unboundCell{}

type unboundCell struct{ cellHeader }

func (*unboundCell) Kind() Kind     { return KindUnbound }
func (*unboundCell) String() string { return "#[unbound]" }

// Bool cells. Scheme only has two, #t and #f; both are canonical like Null.
type boolCell struct {
	cellHeader
	val bool
}

func (b *boolCell) Kind() Kind { return KindBool }
func (b *boolCell) String() string {
	if b.val {
		return "#t"
	}
	return "#f"
}

// Value returns the underlying Go bool.
func (b *boolCell) Value() bool { return b.val }

var (
	True  Value = &boolCell{val: true}
	False Value = &boolCell{val: false}
)

// Bool returns the canonical True/False cell for a Go bool, per Scheme's
// convention that every value other than #f is truthy.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Truthy reports whether v counts as true in a conditional; only the False
// cell is falsy.
func Truthy(v Value) bool {
	return v != False
}

// AsPair, AsSymbol, etc. are the "pattern-matched extractors" DESIGN NOTES
// calls for: explicit, debug-safe type assertions instead of unchecked
// reinterpretation.

func AsPair(v Value) (*Pair, bool) {
	p, ok := v.(*Pair)
	return p, ok
}

func AsSymbol(v Value) (*Symbol, bool) {
	s, ok := v.(*Symbol)
	return s, ok
}

func AsFixnum(v Value) (Fixnum, bool) {
	f, ok := v.(Fixnum)
	return f, ok
}

func AsClosure(v Value) (*Closure, bool) {
	c, ok := v.(*Closure)
	return c, ok
}

func AsCode(v Value) (*Code, bool) {
	c, ok := v.(*Code)
	return c, ok
}

func AsEnvironment(v Value) (*Environment, bool) {
	e, ok := v.(*Environment)
	return e, ok
}

func AsPromise(v Value) (*Promise, bool) {
	p, ok := v.(*Promise)
	return p, ok
}

func AsContinuation(v Value) (*Continuation, bool) {
	c, ok := v.(*Continuation)
	return c, ok
}

func AsVector(v Value) (*Vector, bool) {
	vec, ok := v.(*Vector)
	return vec, ok
}

func AsString(v Value) (*String, bool) {
	s, ok := v.(*String)
	return s, ok
}

func AsPort(v Value) (*Port, bool) {
	p, ok := v.(*Port)
	return p, ok
}

func AsByteVector(v Value) (*ByteVector, bool) {
	b, ok := v.(*ByteVector)
	return b, ok
}
