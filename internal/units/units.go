// Package units names the units of measure a health source reports in and
// converts quantities between compatible units.
package units

import (
	"errors"
	"fmt"
)

// Unit is a unit-of-measure tag as reported by a health source.
type Unit string

const (
	Count          Unit = "count"
	CountPerMinute Unit = "count/min"
	MillimeterHg   Unit = "mmHg"
	MilligramPerDL Unit = "mg/dL"
	MillimolePerL  Unit = "mmol/L"
	Percent        Unit = "%"
	DegreeCelsius  Unit = "degC"
	DegreeFahr     Unit = "degF"
	VO2            Unit = "mL/kg·min"
	Kilogram       Unit = "kg"
	Gram           Unit = "g"
	Pound          Unit = "lb"
	Meter          Unit = "m"
	Centimeter     Unit = "cm"
	Foot           Unit = "ft"
	Inch           Unit = "in"
	Kilocalorie    Unit = "kcal"
	Kilojoule      Unit = "kJ"
)

var (
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrIncompatibleUnits = errors.New("incompatible units")
)

type dimension int

const (
	dimCount dimension = iota
	dimRate
	dimPressure
	dimGlucose
	dimRatio
	dimTemperature
	dimOxygenUptake
	dimMass
	dimLength
	dimEnergy
)

// definition maps a unit onto the base unit of its dimension:
// base = value*scale + offset.
type definition struct {
	dim    dimension
	scale  float64
	offset float64
}

// glucose molar mass is 180.156 g/mol, so 1 mmol/L = 18.0156 mg/dL
var definitions = map[Unit]definition{
	Count:          {dim: dimCount, scale: 1},
	CountPerMinute: {dim: dimRate, scale: 1},
	MillimeterHg:   {dim: dimPressure, scale: 1},
	MilligramPerDL: {dim: dimGlucose, scale: 1},
	MillimolePerL:  {dim: dimGlucose, scale: 18.0156},
	Percent:        {dim: dimRatio, scale: 1},
	DegreeCelsius:  {dim: dimTemperature, scale: 1},
	DegreeFahr:     {dim: dimTemperature, scale: 5.0 / 9.0, offset: -160.0 / 9.0},
	VO2:            {dim: dimOxygenUptake, scale: 1},
	Kilogram:       {dim: dimMass, scale: 1},
	Gram:           {dim: dimMass, scale: 0.001},
	Pound:          {dim: dimMass, scale: 0.45359237},
	Meter:          {dim: dimLength, scale: 1},
	Centimeter:     {dim: dimLength, scale: 0.01},
	Foot:           {dim: dimLength, scale: 0.3048},
	Inch:           {dim: dimLength, scale: 0.0254},
	Kilocalorie:    {dim: dimEnergy, scale: 1},
	Kilojoule:      {dim: dimEnergy, scale: 1 / 4.184},
}

// Parse validates a unit tag.
func Parse(s string) (Unit, error) {
	u := Unit(s)
	if _, ok := definitions[u]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
	return u, nil
}

// Compatible reports whether a value in a can be expressed in b.
func Compatible(a, b Unit) bool {
	da, okA := definitions[a]
	db, okB := definitions[b]
	return okA && okB && da.dim == db.dim
}

// Quantity is a magnitude with its unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// In converts the quantity into the target unit.
func (q Quantity) In(target Unit) (float64, error) {
	from, ok := definitions[q.Unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, q.Unit)
	}
	to, ok := definitions[target]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, target)
	}
	if !Compatible(q.Unit, target) {
		return 0, fmt.Errorf("%w: %s to %s", ErrIncompatibleUnits, q.Unit, target)
	}
	if q.Unit == target {
		return q.Value, nil
	}

	base := q.Value*from.scale + from.offset
	return (base - to.offset) / to.scale, nil
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}
