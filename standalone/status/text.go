package status

import (
	"io"
	"strconv"

	"picomill/standalone/axis"
)

// TextReporter renders events as one line of text each
type TextReporter struct {
	w   io.Writer
	buf []byte
}

// NewTextReporter creates a reporter writing to w
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w, buf: make([]byte, 0, 96)}
}

// Report writes ev to the underlying writer. Write errors are dropped;
// the serial channel has no way to report them.
func (t *TextReporter) Report(ev Event) {
	t.buf = AppendText(t.buf[:0], ev)
	t.buf = append(t.buf, '\n')
	_, _ = t.w.Write(t.buf)
}

// Format returns the text form of an event
func Format(ev Event) string {
	return string(AppendText(nil, ev))
}

// AppendText appends the text form of ev to b
func AppendText(b []byte, ev Event) []byte {
	switch ev.Kind {
	case KindReady:
		b = append(b, "Ready for commands..."...)
	case KindMoveComplete:
		b = append(b, "done "...)
		b = appendPos(b, ev.Pos)
	case KindNoOp:
		b = append(b, "already at target "...)
		b = appendPos(b, ev.Pos)
	case KindOutOfRange:
		b = append(b, "error: "...)
		b = appendRange(b, ev)
	case KindSyntax:
		b = append(b, "syntax: "...)
		b = append(b, ev.Text...)
	case KindSequenceStart:
		b = append(b, "sequence "...)
		b = append(b, ev.Name...)
		b = append(b, ": "...)
		b = strconv.AppendInt(b, int64(ev.Count), 10)
		b = append(b, " waypoints"...)
	case KindWaypoint:
		b = append(b, "waypoint "...)
		b = strconv.AppendInt(b, int64(ev.Index), 10)
		b = append(b, '/')
		b = strconv.AppendInt(b, int64(ev.Count), 10)
		b = append(b, ' ')
		b = appendPos(b, ev.Pos)
	case KindSequenceSkip, KindSequenceAbort:
		b = append(b, "sequence "...)
		b = append(b, ev.Name...)
		if ev.Kind == KindSequenceSkip {
			b = append(b, " skipped waypoint "...)
		} else {
			b = append(b, " aborted at waypoint "...)
		}
		b = strconv.AppendInt(b, int64(ev.Index), 10)
		if ev.Axis != "" {
			b = append(b, ": "...)
			b = appendRange(b, ev)
		} else if ev.Text != "" {
			b = append(b, ": "...)
			b = append(b, ev.Text...)
		}
	case KindSequenceDone:
		b = append(b, "sequence "...)
		b = append(b, ev.Name...)
		b = append(b, " done"...)
	case KindSpindle:
		b = append(b, "spindle duty="...)
		b = strconv.AppendInt(b, int64(ev.Duty), 10)
	case KindZero:
		b = append(b, "zeroed "...)
		b = appendPos(b, ev.Pos)
	case KindZReference:
		b = append(b, "z reference up="...)
		b = strconv.AppendInt(b, int64(ev.Up), 10)
		b = append(b, " down="...)
		b = strconv.AppendInt(b, int64(ev.Down), 10)
	case KindResize:
		b = append(b, "display "...)
		b = strconv.AppendInt(b, int64(ev.Width), 10)
		b = append(b, 'x')
		b = strconv.AppendInt(b, int64(ev.Height), 10)
		b = append(b, " at "...)
		b = strconv.AppendInt(b, int64(ev.X0), 10)
		b = append(b, ',')
		b = strconv.AppendInt(b, int64(ev.Y0), 10)
	case KindPosition:
		b = append(b, "pos "...)
		b = appendPos(b, ev.Pos)
	case KindError:
		b = append(b, "error: "...)
		b = append(b, ev.Text...)
	default:
		b = append(b, ev.Text...)
	}
	return b
}

func appendPos(b []byte, p axis.Position) []byte {
	b = append(b, "x="...)
	b = strconv.AppendInt(b, int64(p.X), 10)
	b = append(b, " y="...)
	b = strconv.AppendInt(b, int64(p.Y), 10)
	b = append(b, " z="...)
	b = strconv.AppendInt(b, int64(p.Z), 10)
	return b
}

func appendRange(b []byte, ev Event) []byte {
	b = append(b, ev.Axis...)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(ev.Value), 10)
	b = append(b, " out of range ("...)
	b = append(b, ev.BoundName...)
	b = append(b, '=')
	b = strconv.AppendInt(b, int64(ev.Bound), 10)
	b = append(b, ')')
	return b
}
