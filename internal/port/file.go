package port

import (
	"bufio"
	"os"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

// fileReader adapts a buffered *os.File to heap.Reader, closing the
// underlying file when the port is closed.
type fileReader struct {
	f  *os.File
	br *bufio.Reader
}

func (r *fileReader) ReadByte() (byte, error) { return r.br.ReadByte() }
func (r *fileReader) Close() error            { return r.f.Close() }

// fileWriter adapts a buffered *os.File to heap.Writer, flushing before
// closing so nothing written through WriteByte/WriteString is lost.
type fileWriter struct {
	f  *os.File
	bw *bufio.Writer
}

func (w *fileWriter) WriteByte(b byte) error          { return w.bw.WriteByte(b) }
func (w *fileWriter) WriteString(s string) (int, error) { return w.bw.WriteString(s) }
func (w *fileWriter) Close() error {
	if err := w.bw.Flush(); err != nil {
		return err
	}
	return w.f.Close()
}

// OpenInputFile opens name for reading and returns a port tracked by f.
func (f *Factory) OpenInputFile(name string) (*heap.Port, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	r := &fileReader{f: file, br: bufio.NewReader(file)}
	return f.track(heap.NewInputPort(name, r), r), nil
}

// OpenOutputFile creates (or truncates) name for writing and returns a port
// tracked by f.
func (f *Factory) OpenOutputFile(name string) (*heap.Port, error) {
	file, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	w := &fileWriter{f: file, bw: bufio.NewWriter(file)}
	return f.track(heap.NewOutputPort(name, w), w), nil
}
