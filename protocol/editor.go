package protocol

import "io"

// LineEditor assembles bytes into lines. Every byte is echoed back as
// received; a newline completes the line, a carriage return is ignored,
// DEL and BS erase the last stored character and characters beyond
// LineMax are dropped.
type LineEditor struct {
	buf  [LineMax]byte
	n    int
	echo io.Writer
	one  [1]byte
}

// NewLineEditor creates an editor echoing to w. A nil writer disables echo.
func NewLineEditor(w io.Writer) *LineEditor {
	return &LineEditor{echo: w}
}

// Feed processes one byte and returns the completed line when b ends it
func (e *LineEditor) Feed(b byte) (string, bool) {
	if e.echo != nil {
		e.one[0] = b
		_, _ = e.echo.Write(e.one[:])
	}

	switch b {
	case KeyNewline:
		line := string(e.buf[:e.n])
		e.n = 0
		return line, true
	case KeyReturn:
	case KeyDelete, KeyBackspace:
		if e.n > 0 {
			e.n--
		}
	default:
		if e.n < LineMax {
			e.buf[e.n] = b
			e.n++
		}
	}
	return "", false
}

// Len returns the number of characters currently stored
func (e *LineEditor) Len() int {
	return e.n
}

// Reset discards the partial line
func (e *LineEditor) Reset() {
	e.n = 0
}
