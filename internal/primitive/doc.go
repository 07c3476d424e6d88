// Package primitive implements native functions in the VM's calling
// convention — consume arguments from the arg-stack through an iterator
// (getarg/more/getlast/argument-count checks), return a single cell or an
// error — plus a small bootstrap library sufficient to run representative
// programs without a real compiler front-end: arithmetic, comparison, and
// the handful of list/predicate operations most scenarios assume are
// already bound.
package primitive
