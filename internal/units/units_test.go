package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityIn(t *testing.T) {

	var TestCases = []struct {
		description string
		quantity    Quantity
		target      Unit
		expected    float64
	}{
		{"same unit passes through", Quantity{72, CountPerMinute}, CountPerMinute, 72},
		{"pounds to kilograms", Quantity{154.3234, Pound}, Kilogram, 70.0},
		{"grams to kilograms", Quantity{70500, Gram}, Kilogram, 70.5},
		{"fahrenheit to celsius", Quantity{98.6, DegreeFahr}, DegreeCelsius, 37.0},
		{"celsius to fahrenheit", Quantity{100, DegreeCelsius}, DegreeFahr, 212.0},
		{"mmol/L to mg/dL", Quantity{5.5, MillimolePerL}, MilligramPerDL, 99.0858},
		{"centimeters to meters", Quantity{175, Centimeter}, Meter, 1.75},
		{"inches to meters", Quantity{70, Inch}, Meter, 1.778},
		{"kilojoules to kilocalories", Quantity{4184, Kilojoule}, Kilocalorie, 1000},
	}

	for _, tc := range TestCases {
		result, err := tc.quantity.In(tc.target)
		require.NoError(t, err, tc.description)
		assert.InDelta(t, tc.expected, result, 0.001, tc.description)
	}
}

func TestQuantityInIncompatible(t *testing.T) {
	_, err := Quantity{70, Kilogram}.In(Meter)
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	_, err = Quantity{70, Unit("stone")}.In(Kilogram)
	assert.ErrorIs(t, err, ErrUnknownUnit)

	_, err = Quantity{70, Kilogram}.In(Unit("stone"))
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestParse(t *testing.T) {
	u, err := Parse("mL/kg·min")
	require.NoError(t, err)
	assert.Equal(t, VO2, u)

	_, err = Parse("furlong")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible(Pound, Kilogram))
	assert.True(t, Compatible(MillimolePerL, MilligramPerDL))
	assert.False(t, Compatible(CountPerMinute, Count))
	assert.False(t, Compatible(Unit("nope"), Count))
}
