package heap

import "fmt"

// Code pairs bytecode with its constant pool. A code cell carries exactly
// these two fields: everything else a running closure needs (environment,
// parameter list, arity) lives on the Closure that references it.
type Code struct {
	cellHeader
	Bcodes []byte  // Packed instruction stream.
	Sexprs []Value // Constant pool; an instruction references sexprs[k] by one byte.
}

func NewCode(bcodes []byte, sexprs []Value) *Code {
	return &Code{Bcodes: bcodes, Sexprs: sexprs}
}

func (*Code) Kind() Kind { return KindCode }
func (c *Code) String() string {
	return fmt.Sprintf("#[code %d bytes, %d consts]", len(c.Bcodes), len(c.Sexprs))
}

// Closure pairs a code reference with its captured environment and
// parameter metadata. Code is always a *Code cell here: every closure body
// is compiled to bytecode rather than retained as a tree to walk.
type Closure struct {
	cellHeader
	Code   Value // *Code in this implementation.
	Env    *Environment
	Params Value // Formal parameter list, for disassembly/debugging.
	Numv   int   // Declared arity (slot count).
	Rargs  bool  // True if the last parameter collects a rest-list.
}

func NewClosure(code Value, env *Environment, params Value, numv int, rargs bool) *Closure {
	return &Closure{Code: code, Env: env, Params: params, Numv: numv, Rargs: rargs}
}

func (*Closure) Kind() Kind { return KindClosure }
func (c *Closure) String() string {
	return fmt.Sprintf("#[closure arity=%d rest=%t]", c.Numv, c.Rargs)
}

// Primitive wraps a native Go function in the VM's calling convention: it
// takes no Go arguments directly, instead consuming the caller-supplied
// argument iterator (internal/primitive.Args) and returning either a
// result cell or an error.
type Primitive struct {
	cellHeader
	Name string
	Fn   func(args Args) (Value, error)
}

// Args is the iterator interface a primitive consumes arguments through:
// indexed access, a more/last check, and a count, without heap importing
// internal/primitive (which imports heap).
type Args interface {
	Len() int
	More() bool
	Get(i int) Value
	Last() Value
}

func NewPrimitive(name string, fn func(args Args) (Value, error)) *Primitive {
	return &Primitive{Name: name, Fn: fn}
}

func (*Primitive) Kind() Kind       { return KindPrimitive }
func (p *Primitive) String() string { return fmt.Sprintf("#[primitive %s]", p.Name) }

// Sentinel apply-dispatch operators. Each is a singleton value recognized
// purely by Kind().
type operatorCell struct {
	cellHeader
	kind Kind
	name string
}

func (o *operatorCell) Kind() Kind     { return o.kind }
func (o *operatorCell) String() string { return fmt.Sprintf("#[%s]", o.name) }

var (
	EvalOperator    Value = &operatorCell{kind: KindEvalOperator, name: "eval"}
	ApplyOperator   Value = &operatorCell{kind: KindApplyOperator, name: "apply"}
	CallCCOperator  Value = &operatorCell{kind: KindCallCCOperator, name: "call/cc"}
	MapOperator     Value = &operatorCell{kind: KindMapOperator, name: "map"}
	ForeachOperator Value = &operatorCell{kind: KindForeachOperator, name: "for-each"}
	ForceOperator   Value = &operatorCell{kind: KindForceOperator, name: "force"}
)
