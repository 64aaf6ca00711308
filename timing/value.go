package timing

import (
	"fmt"
	"math"
	"strconv"
)

// TimeValue is an amount of virtual time expressed in a Unit. The magnitude
// may be fractional or negative.
//
// TimeValue is a value type. Arithmetic returns new values and keeps the unit
// of the receiver.
type TimeValue struct {
	magnitude float64
	unit      Unit
}

// New creates a TimeValue.
func New(magnitude float64, unit Unit) TimeValue {
	unit.mustBeValid()

	return TimeValue{magnitude: magnitude, unit: unit}
}

// Parse creates a TimeValue from a unit name such as "us".
func Parse(magnitude float64, unit string) (TimeValue, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return TimeValue{}, err
	}

	return TimeValue{magnitude: magnitude, unit: u}, nil
}

// MustParse is like Parse but panics on an unrecognized unit.
func MustParse(magnitude float64, unit string) TimeValue {
	tv, err := Parse(magnitude, unit)
	if err != nil {
		panic(err)
	}

	return tv
}

// Zero returns 0 in the given unit.
func Zero(unit Unit) TimeValue {
	return New(0, unit)
}

// Magnitude returns the number of units.
func (t TimeValue) Magnitude() float64 {
	return t.magnitude
}

// Unit returns the unit the value is expressed in.
func (t TimeValue) Unit() Unit {
	return t.unit
}

// In returns the magnitude expressed in another unit.
func (t TimeValue) In(unit Unit) float64 {
	return rescale(t.magnitude, t.unit, unit)
}

// Convert returns the same amount of time expressed in another unit.
func (t TimeValue) Convert(unit Unit) TimeValue {
	return TimeValue{magnitude: t.In(unit), unit: unit}
}

// Seconds returns the value in seconds.
func (t TimeValue) Seconds() float64 {
	return t.magnitude * t.unit.Scale()
}

// StepDown returns the same amount expressed in the next smaller unit, i.e.
// with a magnitude 1000 times larger. It returns false for values already in
// femtoseconds.
func (t TimeValue) StepDown() (TimeValue, bool) {
	smaller, ok := t.unit.StepDown()
	if !ok {
		return TimeValue{}, false
	}

	return TimeValue{magnitude: t.magnitude * 1000, unit: smaller}, true
}

// Add returns t + other, in the unit of t.
func (t TimeValue) Add(other TimeValue) TimeValue {
	return TimeValue{
		magnitude: t.magnitude + other.In(t.unit),
		unit:      t.unit,
	}
}

// Sub returns t - other, in the unit of t.
func (t TimeValue) Sub(other TimeValue) TimeValue {
	return TimeValue{
		magnitude: t.magnitude - other.In(t.unit),
		unit:      t.unit,
	}
}

// Mul scales the value by a factor.
func (t TimeValue) Mul(factor float64) TimeValue {
	return TimeValue{magnitude: t.magnitude * factor, unit: t.unit}
}

// Div returns the ratio t / other.
func (t TimeValue) Div(other TimeValue) float64 {
	return t.magnitude / other.In(t.unit)
}

// CyclesIn returns how many whole periods fit in t, rounded to the nearest
// integer.
func (t TimeValue) CyclesIn(period TimeValue) int64 {
	return int64(math.Round(t.Div(period)))
}

// Compare returns -1, 0 or 1 depending on whether t is shorter than, equal
// to, or longer than other.
//
// Values with the same unit compare their magnitudes directly. Otherwise both
// are expressed in the finer of the two units first.
func (t TimeValue) Compare(other TimeValue) int {
	a, b := t.magnitude, other.magnitude

	switch {
	case t.unit < other.unit:
		b = other.In(t.unit)
	case t.unit > other.unit:
		a = t.In(other.unit)
	}

	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether t < other.
func (t TimeValue) Less(other TimeValue) bool { return t.Compare(other) < 0 }

// LessEq reports whether t <= other.
func (t TimeValue) LessEq(other TimeValue) bool { return t.Compare(other) <= 0 }

// Greater reports whether t > other.
func (t TimeValue) Greater(other TimeValue) bool { return t.Compare(other) > 0 }

// GreaterEq reports whether t >= other.
func (t TimeValue) GreaterEq(other TimeValue) bool { return t.Compare(other) >= 0 }

// Equal reports whether t and other represent the same amount of time.
func (t TimeValue) Equal(other TimeValue) bool { return t.Compare(other) == 0 }

func (t TimeValue) String() string {
	return strconv.FormatFloat(t.magnitude, 'f', -1, 64) + t.unit.String()
}

// GoString helps when values show up in test failure output.
func (t TimeValue) GoString() string {
	return fmt.Sprintf("timing.New(%v, timing.%s)", t.magnitude, goUnitNames[t.unit])
}

var goUnitNames = [...]string{"FS", "PS", "NS", "US", "MS", "Sec"}
