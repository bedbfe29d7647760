package catalog

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thisdougb/healthview/internal/units"
)

func TestUnitFor(t *testing.T) {

	var TestCases = []struct {
		id       MetricID
		expected units.Unit
	}{
		{HeartRate, units.CountPerMinute},
		{RestingHeartRate, units.CountPerMinute},
		{RespiratoryRate, units.CountPerMinute},
		{BloodPressureSystolic, units.MillimeterHg},
		{BloodPressureDiastolic, units.MillimeterHg},
		{BloodGlucose, units.MilligramPerDL},
		{OxygenSaturation, units.Percent},
		{BodyTemperature, units.DegreeCelsius},
		{VO2Max, units.VO2},
		{BodyMass, units.Kilogram},
		{Height, units.Meter},
		{ActiveEnergyBurned, units.Kilocalorie},
		{DietaryEnergyConsumed, units.Kilocalorie},
		{MetricID("stepCount"), units.Count},
	}

	for _, tc := range TestCases {
		assert.Equal(t, tc.expected, UnitFor(tc.id), string(tc.id))
	}
}

func TestDisplayNameFor(t *testing.T) {
	assert.Equal(t, "Heart Rate", DisplayNameFor(HeartRate))
	assert.Equal(t, "VO2 Max", DisplayNameFor(VO2Max))
	assert.Equal(t, "stepCount", DisplayNameFor(MetricID("stepCount")))
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(BloodGlucose)
	assert.True(t, ok)
	assert.Equal(t, "Blood Glucose", d.DisplayName)
	assert.Equal(t, units.MilligramPerDL, d.Unit)

	_, ok = Lookup(MetricID("stepCount"))
	assert.False(t, ok)
}

func TestQuantitiesIsACopy(t *testing.T) {
	q := Quantities()
	assert.Len(t, q, 13)

	q[0].DisplayName = "mutated"
	assert.Equal(t, "Heart Rate", Quantities()[0].DisplayName)
}

func TestReadTypes(t *testing.T) {
	types := ReadTypes()
	assert.Len(t, types, 15)
	assert.Contains(t, types, SleepAnalysis)
	assert.Contains(t, types, Electrocardiogram)
	assert.Contains(t, types, HeartRate.SampleType())
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Len(t, keys, 16)
	assert.True(t, sort.StringsAreSorted(keys))
	assert.Contains(t, keys, TotalSleepKey)
	assert.Contains(t, keys, ECGClassificationKey)
	assert.Contains(t, keys, ECGHeartRateKey)
}

func TestIconFor(t *testing.T) {
	// every snapshot key has an icon
	for _, k := range Keys() {
		assert.NotEqual(t, UnknownIcon, IconFor(k), k)
	}
	assert.Equal(t, "bed.double.fill", IconFor(TotalSleepKey))
	assert.Equal(t, UnknownIcon, IconFor("Step Count"))
}
