package timing

import "fmt"

// Unit is the unit a TimeValue is expressed in. Units are ordered by scale,
// FS being the smallest.
type Unit int

// Recognized units.
const (
	FS Unit = iota
	PS
	NS
	US
	MS
	Sec
)

var unitNames = [...]string{"fs", "ps", "ns", "us", "ms", "sec"}

var unitScales = [...]float64{1e-15, 1e-12, 1e-9, 1e-6, 1e-3, 1}

// unitSteps[n] is the ratio between two units n steps apart.
var unitSteps = [...]float64{1, 1e3, 1e6, 1e9, 1e12, 1e15}

// ParseUnit converts a unit name such as "us" into a Unit.
func ParseUnit(name string) (Unit, error) {
	for i, n := range unitNames {
		if n == name {
			return Unit(i), nil
		}
	}

	if name == "s" {
		return Sec, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, name)
}

// Valid reports whether u is one of the recognized units.
func (u Unit) Valid() bool {
	return u >= FS && u <= Sec
}

func (u Unit) String() string {
	if !u.Valid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}

	return unitNames[u]
}

// Scale returns the number of seconds in one unit.
func (u Unit) Scale() float64 {
	u.mustBeValid()

	return unitScales[u]
}

// StepDown returns the next smaller unit. It returns false if u is already
// the smallest unit.
func (u Unit) StepDown() (Unit, bool) {
	u.mustBeValid()

	if u == FS {
		return FS, false
	}

	return u - 1, true
}

func (u Unit) mustBeValid() {
	if !u.Valid() {
		panic(fmt.Errorf("%w: %d", ErrInvalidUnit, int(u)))
	}
}

// rescale expresses magnitude m, given in unit from, in unit to.
// Integral magnitudes stay integral when moving to a finer unit.
func rescale(m float64, from, to Unit) float64 {
	if from == to {
		return m
	}

	from.mustBeValid()
	to.mustBeValid()

	if from > to {
		return m * unitSteps[from-to]
	}

	return m / unitSteps[to-from]
}
