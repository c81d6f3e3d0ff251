package serial

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Console relays command lines to the mill and its output back
type Console struct {
	port io.ReadWriter
	out  io.Writer
}

// NewConsole creates a console over an open port. Output from the mill
// is copied to out.
func NewConsole(port io.ReadWriter, out io.Writer) *Console {
	return &Console{port: port, out: out}
}

// Send writes one command line, adding the terminating newline
func (c *Console) Send(line string) error {
	line = strings.TrimRight(line, "\r\n")
	_, err := io.WriteString(c.port, line+"\n")
	return err
}

// Pump copies everything the mill sends to the output until ctx is done
// or the port fails. Read timeouts are not errors.
func (c *Console) Pump(ctx context.Context) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		n, err := c.port.Read(buf)
		if n > 0 {
			if _, werr := c.out.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		// tarm/serial reports a read timeout as EOF
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
}
