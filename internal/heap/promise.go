package heap

import "fmt"

// Promise stores a suspended computation and, once forced, its memoized
// value. Force-value is idempotent: after the first force, Expr is Null and
// subsequent forces return Value without re-running anything.
type Promise struct {
	cellHeader
	Expr  Value // Unevaluated expression (a *Code, typically); Null once forced.
	Value Value // Cached result once forced; Unbound until then.
}

// NewPromise wraps an unevaluated expression.
func NewPromise(expr Value) *Promise {
	return &Promise{Expr: expr, Value: Unbound}
}

func (*Promise) Kind() Kind { return KindPromise }
func (p *Promise) String() string {
	if p.Forced() {
		return fmt.Sprintf("#[promise forced %s]", p.Value)
	}
	return "#[promise]"
}

// Forced reports whether the promise has already been evaluated.
func (p *Promise) Forced() bool { return p.Expr == Null }

// Force stores v as the memoized result and clears the pending expression.
func (p *Promise) Force(v Value) {
	p.Expr = Null
	p.Value = v
}
