package port

import (
	"bytes"
	"strings"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

// stringReader adapts a strings.Reader to heap.Reader. There is no backing
// OS resource to release, so it carries no Close method; Factory.track is
// called with a nil closer for these ports.
type stringReader struct {
	r *strings.Reader
}

func (r *stringReader) ReadByte() (byte, error) { return r.r.ReadByte() }

// OpenInputString opens an input port over a fixed, already-materialized
// string.
func (f *Factory) OpenInputString(name, contents string) *heap.Port {
	r := &stringReader{r: strings.NewReader(contents)}
	return f.track(heap.NewInputPort(name, r), nil)
}

// stringWriter adapts a bytes.Buffer to heap.Writer. Contents is read back
// out through the Buffer returned alongside the port, not through the port
// cell itself, since heap.Writer exposes no read-back method.
type stringWriter struct {
	buf *bytes.Buffer
}

func (w *stringWriter) WriteByte(b byte) error            { return w.buf.WriteByte(b) }
func (w *stringWriter) WriteString(s string) (int, error) { return w.buf.WriteString(s) }

// OpenOutputString opens an output port that accumulates into an in-memory
// buffer, returning both the port and the buffer its writes land in.
func (f *Factory) OpenOutputString(name string) (*heap.Port, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	w := &stringWriter{buf: buf}
	return f.track(heap.NewOutputPort(name, w), nil), buf
}
