// Package asm implements the two-pass bytecode assembler and matching
// disassembler for the register-based Scheme VM.
//
// The assembler generates a code cell (a byte-vector plus a constant pool)
// from a symbolic program: a list of labels and instructions, each
// instruction a list headed by an opcode mnemonic. See |Grammar| for the
// full syntax.
//
//	((assign val (const 42))
//	 (rtc))
//
// Program encoding is handled by Encode; Decode reverses it into an
// indented, human-readable dump, recursing into any nested code cells a
// make-closure or delay instruction references.
//
// # Bugs
//
// The constant pool's one-byte index limits any single code cell to 256
// distinct constants; a program that needs more must split across nested
// code cells (which already happens naturally at every lambda boundary).
package asm

// Grammar declares the syntax of the assembler's input in EBNF.
var Grammar = (`
program     = { item } ;
item        = label | instruction ;
label       = symbol | fixnum ;
instruction =
   '(' 'save' reg ')' | '(' 'restore' reg ')'
 | '(' 'zero-argc' ')' | '(' 'push-arg' ')' | '(' 'pop-args' ')'
 | '(' 'assign' reg '(' 'reg' reg ')' ')'
 | '(' 'assign' reg '(' 'const' datum ')' ')'
 | '(' 'gref' [ reg ] symbol ')' | '(' 'gset' symbol ')' | '(' 'gdef' symbol ')'
 | '(' 'fref' [ reg ] depth index ')' | '(' 'fset' depth index ')'
 | '(' 'get-access' [ reg ] '(' 'const' symbol ')' [ '(' 'reg' 'val' ')' ] ')'
 | '(' 'set-access' [ reg ] '(' 'const' symbol ')' [ '(' 'reg' 'val' ')' ] [ '(' 'reg' 'exp' ')' ] ')'
 | '(' 'make-closure' [ reg ] program params num rest ')'
 | '(' 'apply' ')' | '(' 'apply-cont' ')'
 | '(' 'test-true' ')' | '(' 'test-false' ')'
 | '(' 'branch' '(' 'label' label ')' ')' | '(' 'branch' '(' 'reg' 'cont' ')' ')'
 | '(' 'goto'   '(' 'label' label ')' ')' | '(' 'goto'   '(' 'reg' 'cont' ')' ')'
 | '(' 'map-init' ')' | '(' 'map-apply' ')' | '(' 'map-result' ')'
 | '(' 'for-init' ')' | '(' 'for-apply' ')' | '(' 'for-result' ')'
 | '(' 'extend-env' reg nvars vars ')'
 | '(' 'eset' index ')' | '(' 'delay' program ')'
 | '(' 'rte' ')' | '(' 'rtc' ')' ;
reg         = 'val' | 'aux' | 'env' | 'unev' | 'exp' | 'argc' | 'cont' ;
`)
