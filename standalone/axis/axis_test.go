package axis

import (
	"errors"
	"testing"
)

func newTestSet() *Set {
	return &Set{
		New(X, 0, 8000, 11, 12),
		New(Y, 0, 5450, 13, 14),
		New(Z, 0, 1800, 15, 16),
	}
}

func TestValidate(t *testing.T) {
	a := New(X, 0, 8000, 11, 12)

	tests := []struct {
		target int
		ok     bool
		bound  int
	}{
		{0, true, 0},
		{8000, true, 0},
		{4000, true, 0},
		{-1, false, 0},
		{8001, false, 8000},
		{9000, false, 8000},
	}

	for _, test := range tests {
		err := a.Validate(test.target)
		if test.ok {
			if err != nil {
				t.Errorf("Validate(%d): unexpected error %v", test.target, err)
			}
			continue
		}

		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("Validate(%d): expected OutOfRangeError, got %v", test.target, err)
			continue
		}
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Validate(%d): expected errors.Is(ErrOutOfRange)", test.target)
		}
		if oor.Bound() != test.bound {
			t.Errorf("Validate(%d): expected bound %d, got %d", test.target, test.bound, oor.Bound())
		}
	}

	if a.Current != 0 || a.Target != 0 {
		t.Errorf("Validate must not mutate the axis, got current=%d target=%d", a.Current, a.Target)
	}
}

func TestValidateAllCollectsEveryAxis(t *testing.T) {
	s := newTestSet()

	err := s.ValidateAll(Position{X: 9000, Y: 100, Z: -5})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	v := Violations(err)
	if len(v) != 2 {
		t.Fatalf("Expected 2 violations, got %d (%v)", len(v), err)
	}
	if v[0].Name != "X" || v[0].BoundName() != "max" || v[0].Bound() != 8000 {
		t.Errorf("Unexpected first violation: %v", v[0])
	}
	if v[1].Name != "Z" || v[1].BoundName() != "min" || v[1].Bound() != 0 {
		t.Errorf("Unexpected second violation: %v", v[1])
	}

	// First violation is reachable through errors.As
	var oor *OutOfRangeError
	if !errors.As(err, &oor) || oor.Name != "X" {
		t.Errorf("Expected errors.As to find the X violation, got %v", oor)
	}

	if s.Position() != (Position{}) {
		t.Errorf("Rejected target changed position: %+v", s.Position())
	}
}

func TestValidateAllInBounds(t *testing.T) {
	s := newTestSet()
	if err := s.ValidateAll(Position{X: 8000, Y: 5450, Z: 1800}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestResetAndAccept(t *testing.T) {
	s := newTestSet()
	s.Accept(Position{X: 1, Y: 2, Z: 3})
	if s[Y].Target != 2 || s[Y].Current != 0 {
		t.Errorf("Accept should only set targets, got %+v", *s[Y])
	}

	s.Reset(Position{X: 5, Y: 6, Z: 7})
	if got := s.Position(); got != (Position{X: 5, Y: 6, Z: 7}) {
		t.Errorf("Unexpected position after reset: %+v", got)
	}
}

func TestParse(t *testing.T) {
	for _, s := range []string{"x", "Y", "z"} {
		if _, ok := Parse(s); !ok {
			t.Errorf("Parse(%q) failed", s)
		}
	}
	if _, ok := Parse("e"); ok {
		t.Error("Parse(\"e\") should fail")
	}
}
