// Package vm implements the bytecode dispatch loop on top of
// internal/vmcore's register file and stacks.
//
// rtc is not special-cased as "pop a frame, and if the stack is empty,
// return to the caller" — it is simply a return statement. Every non-tail
// application pushes a return frame (env, unev, pc) before transferring
// control to the callee; Run primes that same mechanism with a
// one-instruction sentinel code object containing only rtc before entering
// the loop, so the last restore of a fully unwound call chain lands on that
// sentinel and the dispatch loop's own return statement fires on the next
// iteration. See DESIGN.md for the full derivation.
package vm
