package sx

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
)

// SyntaxError reports a malformed datum.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return "sx: " + e.Msg }

// Reader parses a stream of S-expressions, interning symbols through tab.
type Reader struct {
	br  *bufio.Reader
	tab *symtab.Table
}

// NewReader wraps r. A nil tab is replaced with a fresh, private table —
// useful for reading data with no interning requirement, e.g. a one-off
// const literal.
func NewReader(r io.Reader, tab *symtab.Table) *Reader {
	if tab == nil {
		tab = symtab.New()
	}
	return &Reader{br: bufio.NewReader(r), tab: tab}
}

// ReadAll reads every top-level datum in the stream.
func (r *Reader) ReadAll() ([]heap.Value, error) {
	var out []heap.Value
	for {
		v, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// Read parses the next datum, or returns io.EOF if the stream is exhausted.
func (r *Reader) Read() (heap.Value, error) {
	if err := r.skipAtmosphere(); err != nil {
		return nil, err
	}
	c, _, err := r.br.ReadRune()
	if err != nil {
		return nil, err
	}

	switch {
	case c == '(' || c == '[':
		return r.readList(closer(c))
	case c == ')' || c == ']':
		return nil, &SyntaxError{Msg: "unexpected close paren"}
	case c == '"':
		return r.readString()
	case c == '#':
		return r.readHash()
	case c == '\'':
		return nil, &SyntaxError{Msg: "quote is not part of the assembler grammar"}
	default:
		return r.readAtom(c)
	}
}

func closer(open rune) rune {
	if open == '[' {
		return ']'
	}
	return ')'
}

func (r *Reader) skipAtmosphere() error {
	for {
		c, _, err := r.br.ReadRune()
		if err != nil {
			return err
		}
		switch {
		case c == ';':
			for {
				c, _, err := r.br.ReadRune()
				if err != nil {
					return err
				}
				if c == '\n' {
					break
				}
			}
		case isSpace(c):
			continue
		default:
			return r.br.UnreadRune()
		}
	}
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c rune) bool {
	return isSpace(c) || c == '(' || c == ')' || c == '[' || c == ']' || c == '"' || c == ';'
}

// readList reads elements until close, supporting the dotted-pair tail a
// handful of assembler forms use for improper lists.
func (r *Reader) readList(close rune) (heap.Value, error) {
	var items []heap.Value
	var tail heap.Value = heap.Null

	for {
		if err := r.skipAtmosphere(); err != nil {
			return nil, err
		}
		c, _, err := r.br.ReadRune()
		if err != nil {
			return nil, err
		}
		if c == close {
			break
		}
		dotTail := false
		if c == '.' {
			next, _, err := r.br.ReadRune()
			if err == nil {
				_ = r.br.UnreadRune()
				dotTail = isDelimiter(next) || next == close
			} else {
				dotTail = true
			}
		}

		if dotTail {
			v, err := r.Read()
			if err != nil {
				return nil, err
			}
			tail = v
			if err := r.skipAtmosphere(); err != nil {
				return nil, err
			}
			end, _, err := r.br.ReadRune()
			if err != nil {
				return nil, err
			}
			if end != close {
				return nil, &SyntaxError{Msg: "malformed dotted list"}
			}
			break
		}

		var v heap.Value
		if c == '('|| c == '[' {
			v, err = r.readList(closer(c))
		} else if c == '"' {
			v, err = r.readString()
		} else if c == '#' {
			v, err = r.readHash()
		} else {
			v, err = r.readAtom(c)
		}
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}

	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = heap.Cons(items[i], result)
	}
	return result, nil
}

func (r *Reader) readString() (heap.Value, error) {
	var b strings.Builder
	for {
		c, _, err := r.br.ReadRune()
		if err != nil {
			return nil, err
		}
		if c == '"' {
			return heap.NewString(b.String()), nil
		}
		if c == '\\' {
			esc, _, err := r.br.ReadRune()
			if err != nil {
				return nil, err
			}
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(c)
	}
}

func (r *Reader) readHash() (heap.Value, error) {
	c, _, err := r.br.ReadRune()
	if err != nil {
		return nil, err
	}
	switch c {
	case 't':
		return heap.True, nil
	case 'f':
		return heap.False, nil
	case '\\':
		return r.readChar()
	case '(':
		v, err := r.readList(')')
		if err != nil {
			return nil, err
		}
		elems, ok := heap.ListToSlice(v)
		if !ok {
			return nil, &SyntaxError{Msg: "improper vector literal"}
		}
		vec := heap.NewVector(len(elems), heap.Null)
		copy(vec.Slots, elems)
		return vec, nil
	case 'u':
		if _, _, err := r.br.ReadRune(); err != nil { // '8'
			return nil, err
		}
		open, _, err := r.br.ReadRune()
		if err != nil {
			return nil, err
		}
		if open != '(' {
			return nil, &SyntaxError{Msg: "malformed byte-vector literal"}
		}
		v, err := r.readList(')')
		if err != nil {
			return nil, err
		}
		elems, ok := heap.ListToSlice(v)
		if !ok {
			return nil, &SyntaxError{Msg: "improper byte-vector literal"}
		}
		bytes := make([]byte, len(elems))
		for i, el := range elems {
			f, ok := heap.AsFixnum(el)
			if !ok || f < 0 || f > 255 {
				return nil, &SyntaxError{Msg: "byte-vector element out of range"}
			}
			bytes[i] = byte(f)
		}
		return heap.NewByteVector(bytes), nil
	default:
		return nil, &SyntaxError{Msg: fmt.Sprintf("unsupported # syntax: #%c", c)}
	}
}

func (r *Reader) readChar() (heap.Value, error) {
	c, _, err := r.br.ReadRune()
	if err != nil {
		return nil, err
	}
	return heap.Char(c), nil
}

func (r *Reader) readAtom(first rune) (heap.Value, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		c, _, err := r.br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isDelimiter(c) {
			_ = r.br.UnreadRune()
			break
		}
		b.WriteRune(c)
	}

	tok := b.String()
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return heap.Fixnum(n), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil && strings.ContainsAny(tok, ".eE") {
		return heap.Flonum(f), nil
	}
	return r.tab.Intern(tok), nil
}
