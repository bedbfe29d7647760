// Package catalog is the static table of supported health metrics. It maps
// each metric to its display name and unit, and holds the icon table shared
// by every view.
package catalog

import (
	"sort"

	"github.com/thisdougb/healthview/internal/units"
)

// MetricID identifies a quantity metric in the health source.
type MetricID string

const (
	HeartRate              MetricID = "heartRate"
	BloodPressureSystolic  MetricID = "bloodPressureSystolic"
	BloodPressureDiastolic MetricID = "bloodPressureDiastolic"
	BloodGlucose           MetricID = "bloodGlucose"
	OxygenSaturation       MetricID = "oxygenSaturation"
	BodyTemperature        MetricID = "bodyTemperature"
	RespiratoryRate        MetricID = "respiratoryRate"
	RestingHeartRate       MetricID = "restingHeartRate"
	VO2Max                 MetricID = "vo2Max"
	BodyMass               MetricID = "bodyMass"
	Height                 MetricID = "height"
	ActiveEnergyBurned     MetricID = "activeEnergyBurned"
	DietaryEnergyConsumed  MetricID = "dietaryEnergyConsumed"
)

// SampleType selects a kind of sample in the health source. Every MetricID
// is a SampleType; sleep analysis and ECG recordings are the two others.
type SampleType string

const (
	SleepAnalysis     SampleType = "sleepAnalysis"
	Electrocardiogram SampleType = "electrocardiogram"
)

// SampleType returns the source selector for a quantity metric.
func (id MetricID) SampleType() SampleType {
	return SampleType(id)
}

// Snapshot keys that are not quantity metrics.
const (
	ECGClassificationKey = "ECG Classification"
	ECGHeartRateKey      = "ECG Average Heart Rate"
	TotalSleepKey        = "Total Sleep Time"
)

// UnknownIcon is shown for any display name missing from the icon table.
const UnknownIcon = "questionmark.circle.fill"

// MetricDescriptor describes one quantity metric.
type MetricDescriptor struct {
	ID          MetricID
	DisplayName string
	Unit        units.Unit
}

var quantities = []MetricDescriptor{
	{HeartRate, "Heart Rate", units.CountPerMinute},
	{BloodPressureSystolic, "Systolic Blood Pressure", units.MillimeterHg},
	{BloodPressureDiastolic, "Diastolic Blood Pressure", units.MillimeterHg},
	{BloodGlucose, "Blood Glucose", units.MilligramPerDL},
	{OxygenSaturation, "Oxygen Saturation", units.Percent},
	{BodyTemperature, "Body Temperature", units.DegreeCelsius},
	{RespiratoryRate, "Respiratory Rate", units.CountPerMinute},
	{RestingHeartRate, "Resting Heart Rate", units.CountPerMinute},
	{VO2Max, "VO2 Max", units.VO2},
	{BodyMass, "Body Mass", units.Kilogram},
	{Height, "Height", units.Meter},
	{ActiveEnergyBurned, "Active Energy Burned", units.Kilocalorie},
	{DietaryEnergyConsumed, "Dietary Energy Consumed", units.Kilocalorie},
}

var icons = map[string]string{
	"Heart Rate":               "heart.fill",
	"Systolic Blood Pressure":  "waveform.path.ecg",
	"Diastolic Blood Pressure": "waveform.path.ecg",
	"Blood Glucose":            "drop.fill",
	"Oxygen Saturation":        "oxygen.level.fill",
	"Body Temperature":         "thermometer",
	"Respiratory Rate":         "lungs.fill",
	"Resting Heart Rate":       "heart.fill",
	"VO2 Max":                  "figure.walk",
	"Body Mass":                "figure.stand",
	"Height":                   "figure.arms.open",
	"Active Energy Burned":     "flame.fill",
	"Dietary Energy Consumed":  "applelogo",
	ECGClassificationKey:       "waveform.path.ecg",
	ECGHeartRateKey:            "heart.fill",
	TotalSleepKey:              "bed.double.fill",
}

var byID = func() map[MetricID]MetricDescriptor {
	m := make(map[MetricID]MetricDescriptor, len(quantities))
	for _, d := range quantities {
		m[d.ID] = d
	}
	return m
}()

// Quantities returns the quantity metrics in catalog order.
func Quantities() []MetricDescriptor {
	out := make([]MetricDescriptor, len(quantities))
	copy(out, quantities)
	return out
}

// Lookup returns the descriptor for id.
func Lookup(id MetricID) (MetricDescriptor, bool) {
	d, ok := byID[id]
	return d, ok
}

// UnitFor returns the display unit for id, or units.Count for a metric the
// catalog does not list.
func UnitFor(id MetricID) units.Unit {
	if d, ok := Lookup(id); ok {
		return d.Unit
	}
	return units.Count
}

// DisplayNameFor returns the human-readable label for id. An unlisted metric
// is labelled with its identifier.
func DisplayNameFor(id MetricID) string {
	if d, ok := Lookup(id); ok {
		return d.DisplayName
	}
	return string(id)
}

// ReadTypes lists every sample type the snapshot needs read access to.
func ReadTypes() []SampleType {
	out := make([]SampleType, 0, len(quantities)+2)
	for _, d := range quantities {
		out = append(out, d.ID.SampleType())
	}
	return append(out, SleepAnalysis, Electrocardiogram)
}

// IconFor returns the icon tag for a snapshot display name.
func IconFor(displayName string) string {
	if icon, ok := icons[displayName]; ok {
		return icon
	}
	return UnknownIcon
}

// Keys returns the full, sorted set of snapshot keys.
func Keys() []string {
	keys := make([]string, 0, len(quantities)+3)
	for _, d := range quantities {
		keys = append(keys, d.DisplayName)
	}
	keys = append(keys, ECGClassificationKey, ECGHeartRateKey, TotalSleepKey)
	sort.Strings(keys)
	return keys
}
