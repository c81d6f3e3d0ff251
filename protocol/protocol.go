// Package protocol implements the newline-terminated text protocol spoken
// over the serial link: a line editor fed one byte at a time and the
// single-slot inbox handing completed lines to the command loop.
package protocol

// Version is the firmware version reported at startup
const Version = "0.1.0"

// Line protocol constants
const (
	LineMax = 99 // maximum stored characters per line

	KeyNewline   = '\n'
	KeyReturn    = '\r'
	KeyDelete    = 0x7F
	KeyBackspace = 0x08
)
