package protocol

import (
	"context"
	"io"
	"sync/atomic"
)

// Inbox is a single-slot handoff between the receiver and the command
// loop. A line put before the previous one was taken replaces it; there is
// no queue.
type Inbox struct {
	line  atomic.Pointer[string]
	ready chan struct{}
}

// NewInbox creates an empty inbox
func NewInbox() *Inbox {
	return &Inbox{ready: make(chan struct{}, 1)}
}

// Put stores line, overwriting any line not yet taken
func (in *Inbox) Put(line string) {
	in.line.Store(&line)
	select {
	case in.ready <- struct{}{}:
	default:
	}
}

// TryTake returns the pending line and clears the slot
func (in *Inbox) TryTake() (string, bool) {
	p := in.line.Swap(nil)
	if p == nil {
		return "", false
	}
	return *p, true
}

// Ready reports whether a line is waiting
func (in *Inbox) Ready() bool {
	return in.line.Load() != nil
}

// Wait blocks until a line is available or ctx is done
func (in *Inbox) Wait(ctx context.Context) (string, error) {
	for {
		if line, ok := in.TryTake(); ok {
			return line, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-in.ready:
		}
	}
}

// Receiver is the interrupt side of the link: it runs the line editor and
// posts completed lines to the inbox. It never touches controller state.
type Receiver struct {
	editor *LineEditor
	inbox  *Inbox
}

// NewReceiver creates a receiver echoing to w
func NewReceiver(w io.Writer, inbox *Inbox) *Receiver {
	return &Receiver{editor: NewLineEditor(w), inbox: inbox}
}

// ReceiveByte feeds one received byte
func (r *Receiver) ReceiveByte(b byte) {
	if line, ok := r.editor.Feed(b); ok {
		r.inbox.Put(line)
	}
}

// Write feeds a block of received bytes
func (r *Receiver) Write(p []byte) (int, error) {
	for _, b := range p {
		r.ReceiveByte(b)
	}
	return len(p), nil
}

// Inbox returns the inbox lines are posted to
func (r *Receiver) Inbox() *Inbox {
	return r.inbox
}
