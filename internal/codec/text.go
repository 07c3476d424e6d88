package codec

import (
	"bytes"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/sx"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
)

// Encoding implements encoding.TextMarshaler and encoding.TextUnmarshaler
// over a single *heap.Code cell. Symbols read back out of a
// persisted form are interned through Symbols, so a saved code object loaded
// into a process that already has bindings for its symbols shares them
// rather than creating shadow copies.
type Encoding struct {
	Code    *heap.Code
	Symbols *symtab.Table
}

func NewEncoding(code *heap.Code, tab *symtab.Table) *Encoding {
	return &Encoding{Code: code, Symbols: tab}
}

func (e *Encoding) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := sx.WriteLine(&buf, ToSexpr(e.Code)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoding) UnmarshalText(text []byte) error {
	r := sx.NewReader(bytes.NewReader(text), e.Symbols)
	v, err := r.Read()
	if err != nil {
		return err
	}
	code, err := FromSexpr(v)
	if err != nil {
		return err
	}
	e.Code = code
	return nil
}
