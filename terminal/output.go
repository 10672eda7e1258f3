package terminal

import (
	"bufio"
	"io"
)

// outputWriter queues immediate-mode drawing commands until flush
// Every frame is a full repaint, so no front buffer is kept for diffing
type outputWriter struct {
	writer *bufio.Writer
}

func newOutputWriter(w io.Writer) *outputWriter {
	return &outputWriter{
		writer: bufio.NewWriterSize(w, 32768),
	}
}

// raw queues a control sequence
func (o *outputWriter) raw(seq []byte) {
	o.writer.Write(seq)
}

// clear resets attributes, erases the screen and homes the cursor
func (o *outputWriter) clear() {
	o.writer.Write(csiSGR0)
	o.writer.Write(csiClear)
}

func (o *outputWriter) moveCursor(x, y int) {
	writeCursorPos(o.writer, x, y)
}

// text queues s, dropping control bytes so a cell value can never move the cursor
func (o *outputWriter) text(s string) {
	for i := 0; i < len(s); i++ {
		if b := s[i]; b < 0x20 || b == 0x7f {
			o.writer.WriteString(sanitize(s))
			return
		}
	}
	o.writer.WriteString(s)
}

func (o *outputWriter) flush() error {
	return o.writer.Flush()
}

// sanitize replaces C0 controls and DEL with spaces
func sanitize(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c < 0x20 || c == 0x7f {
			b[i] = ' '
		}
	}
	return string(b)
}
