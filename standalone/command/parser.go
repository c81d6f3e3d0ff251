// Package command parses the line protocol spoken over the serial link
// and dispatches it onto a Machine.
package command

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"picomill/standalone/axis"
)

// Op identifies a command
type Op uint8

const (
	OpMove Op = iota + 1
	OpHome
	OpZero
	OpLoad
	OpSetZ
	OpSpin
	OpResize
	OpJog
	OpPos
	OpList
	OpHelp
)

// ErrMalformed is matched by every SyntaxError
var ErrMalformed = errors.New("malformed command")

// SyntaxError describes a line that could not be turned into a Command
type SyntaxError struct {
	Word   string // command word as typed, empty for tokenizer failures
	Reason string
	Usage  string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.Word != "" {
		b.WriteString(e.Word)
		b.WriteString(": ")
	}
	b.WriteString(e.Reason)
	if e.Usage != "" {
		b.WriteString(" (usage: ")
		b.WriteString(e.Usage)
		b.WriteString(")")
	}
	return b.String()
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformed
}

// Command is one parsed line. Only the fields used by Op are set.
type Command struct {
	Op     Op
	Target axis.Position // OpMove
	Axis   axis.ID       // OpJog
	Value  int           // OpSetZ depth, OpSpin duty, OpJog steps
	Name   string        // OpLoad
	Width  int           // OpResize
	Height int           // OpResize
	X0     int           // OpResize
	Y0     int           // OpResize
}

type entry struct {
	op      Op
	usage   string
	minArgs int
	maxArgs int
}

var table = map[string]entry{
	"move":   {OpMove, "move <x> <y> <z>", 3, 3},
	"home":   {OpHome, "home", 0, 0},
	"zero":   {OpZero, "zero", 0, 0},
	"load":   {OpLoad, "load <name>", 1, 1},
	"setz":   {OpSetZ, "setz <depth>", 1, 1},
	"spin":   {OpSpin, "spin <duty 0-255>", 1, 1},
	"resize": {OpResize, "resize <w> <h> [x0] [y0]", 2, 4},
	"jog":    {OpJog, "jog <x|y|z> <steps>", 2, 2},
	"pos":    {OpPos, "pos", 0, 0},
	"list":   {OpList, "list", 0, 0},
	"help":   {OpHelp, "help", 0, 0},
}

// order is the order help lists commands in
var order = []string{"move", "home", "zero", "load", "setz", "spin", "resize", "jog", "pos", "list", "help"}

// Usage returns one usage line per command
func Usage() []string {
	out := make([]string, len(order))
	for i, name := range order {
		out[i] = table[name].usage
	}
	return out
}

// Parse tokenizes a line and builds a Command. A blank line yields
// (nil, nil). Every failure is a *SyntaxError.
func Parse(line string) (*Command, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, &SyntaxError{Reason: err.Error()}
	}
	if len(words) == 0 {
		return nil, nil
	}

	word := strings.ToLower(words[0])
	ent, ok := table[word]
	if !ok {
		return nil, &SyntaxError{Word: words[0], Reason: "unknown command", Usage: "help"}
	}

	args := words[1:]
	if len(args) < ent.minArgs || len(args) > ent.maxArgs {
		return nil, &SyntaxError{Word: word, Reason: "wrong number of arguments", Usage: ent.usage}
	}

	cmd := &Command{Op: ent.op}

	switch ent.op {
	case OpMove:
		v, err := ints(word, ent.usage, args)
		if err != nil {
			return nil, err
		}
		cmd.Target = axis.Position{X: v[0], Y: v[1], Z: v[2]}

	case OpLoad:
		cmd.Name = args[0]

	case OpSetZ, OpSpin:
		v, err := ints(word, ent.usage, args)
		if err != nil {
			return nil, err
		}
		cmd.Value = v[0]

	case OpResize:
		v, err := ints(word, ent.usage, args)
		if err != nil {
			return nil, err
		}
		cmd.Width, cmd.Height = v[0], v[1]
		if len(v) > 2 {
			cmd.X0 = v[2]
		}
		if len(v) > 3 {
			cmd.Y0 = v[3]
		}

	case OpJog:
		id, ok := axis.Parse(args[0])
		if !ok {
			return nil, &SyntaxError{Word: word, Reason: "unknown axis " + strconv.Quote(args[0]), Usage: ent.usage}
		}
		v, err := ints(word, ent.usage, args[1:])
		if err != nil {
			return nil, err
		}
		cmd.Axis = id
		cmd.Value = v[0]
	}

	return cmd, nil
}

// ints converts every argument to an integer
func ints(word, usage string, args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, &SyntaxError{Word: word, Reason: "bad number " + strconv.Quote(a), Usage: usage}
		}
		out[i] = v
	}
	return out, nil
}
