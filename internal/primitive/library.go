package primitive

import "github.com/LittleGreyCells/escheme-compiled/internal/heap"

// Func is a primitive body's Go signature, what image.Bootstrap wraps into
// a heap.Primitive cell and binds into the global symbol table.
type Func func(a Args) (heap.Value, error)

// Library is the bootstrap primitive set: enough arithmetic, list, and
// predicate operations to run representative programs without a real
// compiler front-end standing behind them.
var Library = map[string]Func{
	"+": Add,
	"-": Sub,
	"*": Mul,
	"/": Div,
	"=": NumEq,
	"<": Lt,
	">": Gt,

	"cons": Cons,
	"car":  Car,
	"cdr":  Cdr,
	"list": List,

	"null?": NullP,
	"not":   Not,
	"eq?":   EqP,
	"eqv?":  EqvP,
	"pair?": PairP,
}
