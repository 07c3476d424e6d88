package port

import (
	"bufio"
	"os"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"golang.org/x/term"
)

// consoleReader and consoleWriter adapt os.Stdin/os.Stdout to heap.Reader/
// heap.Writer. The terminal stays in its normal line-buffered mode: a
// primitive just blocks on ReadByte/WriteString the way it would block on
// any other port, with no raw-mode switch or background goroutine feeding
// keystrokes in. IsTerminal is consulted by callers that want to report
// "not a terminal" up front rather than let an unattended process hang on
// its first read.
type consoleReader struct {
	br *bufio.Reader
}

func (r *consoleReader) ReadByte() (byte, error) { return r.br.ReadByte() }

type consoleWriter struct {
	bw *bufio.Writer
}

func (w *consoleWriter) WriteByte(b byte) error { return w.bw.WriteByte(b) }
func (w *consoleWriter) WriteString(s string) (int, error) {
	n, err := w.bw.WriteString(s)
	if err == nil {
		err = w.bw.Flush()
	}
	return n, err
}

// OpenConsoleInput opens a port reading from the process's standard input.
func (f *Factory) OpenConsoleInput() *heap.Port {
	r := &consoleReader{br: bufio.NewReader(os.Stdin)}
	return f.track(heap.NewInputPort("console", r), nil)
}

// OpenConsoleOutput opens a port writing to the process's standard output.
func (f *Factory) OpenConsoleOutput() *heap.Port {
	w := &consoleWriter{bw: bufio.NewWriter(os.Stdout)}
	return f.track(heap.NewOutputPort("console", w), nil)
}

// IsTerminal reports whether standard input is attached to a terminal,
// for callers that want to decide up front whether interactive console
// ports make sense rather than discovering
// it on the first blocked read.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
