// Package sx reads S-expressions off a character stream into heap.Value
// trees: the program lists internal/asm.Encode consumes and the
// code-object persistence lists internal/codec reads back. Symbols are
// interned through a caller-supplied symtab.Table as they're read, so a
// symbol appearing in a source file and the same name already bound in the
// running symbol table refer to the one canonical cell.
package sx
