package axis

import (
	"errors"
	"strconv"

	"go.uber.org/multierr"
)

// ErrOutOfRange is matched by every OutOfRangeError
var ErrOutOfRange = errors.New("out of range")

// OutOfRangeError reports a value outside [Min, Max]. Name is the axis
// letter or the name of the setting being checked.
type OutOfRangeError struct {
	Name  string
	Value int
	Min   int
	Max   int
	Below bool // true when Value < Min
}

func (e *OutOfRangeError) Error() string {
	if e.Below {
		return e.Name + " " + strconv.Itoa(e.Value) + " out of range (min=" + strconv.Itoa(e.Min) + ")"
	}
	return e.Name + " " + strconv.Itoa(e.Value) + " out of range (max=" + strconv.Itoa(e.Max) + ")"
}

// Is lets errors.Is(err, ErrOutOfRange) match
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Bound returns the limit that was violated
func (e *OutOfRangeError) Bound() int {
	if e.Below {
		return e.Min
	}
	return e.Max
}

// BoundName returns "min" or "max"
func (e *OutOfRangeError) BoundName() string {
	if e.Below {
		return "min"
	}
	return "max"
}

// Violations flattens a (possibly combined) validation error into its
// individual OutOfRangeErrors
func Violations(err error) []*OutOfRangeError {
	var out []*OutOfRangeError
	for _, e := range multierr.Errors(err) {
		var oor *OutOfRangeError
		if errors.As(e, &oor) {
			out = append(out, oor)
		}
	}
	return out
}
