// Package codec persists *heap.Code cells to and from an s-expression form:
//
//	<code>   ::= (<byte-vector> <sexprs>)
//	<sexprs> ::= (<size> <tag> <item> <tag> <item> ...)
//	<tag>    ::= 0          ; item is a literal datum
//	           | 1          ; item is a nested <code>, recursive
//
// Encoding implements encoding.TextMarshaler and encoding.TextUnmarshaler
// over that grammar, using internal/sx as the textual substrate that reads
// and writes the surrounding s-expression syntax.
package codec
