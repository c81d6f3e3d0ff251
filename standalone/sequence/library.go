package sequence

import (
	"errors"
	"sort"

	"picomill/standalone/axis"
)

// Stroke is one entry of a sequence definition. Z is not stored; it is
// resolved from the up/down references when the sequence is loaded.
type Stroke struct {
	X    int  `yaml:"x" json:"x"`
	Y    int  `yaml:"y" json:"y"`
	Down bool `yaml:"down" json:"down"`
}

// Resolve turns strokes into absolute waypoints using the given Z
// references
func Resolve(strokes []Stroke, up, down int) []axis.Waypoint {
	out := make([]axis.Waypoint, len(strokes))
	for i, s := range strokes {
		z := up
		if s.Down {
			z = down
		}
		out[i] = axis.Waypoint{X: s.X, Y: s.Y, Z: z}
	}
	return out
}

var (
	ErrEmptyName    = errors.New("sequence name is empty")
	ErrEmptyStrokes = errors.New("sequence has no strokes")
)

// Library holds named sequence definitions
type Library struct {
	defs map[string][]Stroke
}

// NewLibrary creates a library preloaded with the built-in sequences
func NewLibrary() *Library {
	l := &Library{defs: make(map[string][]Stroke, len(builtins))}
	for name, strokes := range builtins {
		l.defs[name] = strokes
	}
	return l
}

// Add registers or replaces a named sequence
func (l *Library) Add(name string, strokes []Stroke) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(strokes) == 0 {
		return ErrEmptyStrokes
	}
	cp := make([]Stroke, len(strokes))
	copy(cp, strokes)
	l.defs[name] = cp
	return nil
}

// Lookup returns the strokes of a named sequence
func (l *Library) Lookup(name string) ([]Stroke, bool) {
	s, ok := l.defs[name]
	return s, ok
}

// Names returns all sequence names in sorted order
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Built-in sequences, in step units, sized for the smallest default
// work area (8000 x 5450).
var builtins = map[string][]Stroke{
	"square": {
		{X: 1000, Y: 1000},
		{X: 1000, Y: 1000, Down: true},
		{X: 3000, Y: 1000, Down: true},
		{X: 3000, Y: 3000, Down: true},
		{X: 1000, Y: 3000, Down: true},
		{X: 1000, Y: 1000, Down: true},
		{X: 1000, Y: 1000},
	},
	"diamond": {
		{X: 4000, Y: 1200},
		{X: 4000, Y: 1200, Down: true},
		{X: 5500, Y: 2700, Down: true},
		{X: 4000, Y: 4200, Down: true},
		{X: 2500, Y: 2700, Down: true},
		{X: 4000, Y: 1200, Down: true},
		{X: 4000, Y: 1200},
	},
	"zigzag": {
		{X: 500, Y: 500},
		{X: 500, Y: 500, Down: true},
		{X: 1500, Y: 4500, Down: true},
		{X: 2500, Y: 500, Down: true},
		{X: 3500, Y: 4500, Down: true},
		{X: 4500, Y: 500, Down: true},
		{X: 5500, Y: 4500, Down: true},
		{X: 6500, Y: 500, Down: true},
		{X: 7500, Y: 4500, Down: true},
		{X: 7500, Y: 4500},
	},
	"star": {
		{X: 4000, Y: 4700},
		{X: 4000, Y: 4700, Down: true},
		{X: 2824, Y: 1082, Down: true},
		{X: 5902, Y: 3318, Down: true},
		{X: 2098, Y: 3318, Down: true},
		{X: 5176, Y: 1082, Down: true},
		{X: 4000, Y: 4700, Down: true},
		{X: 4000, Y: 4700},
	},
}
