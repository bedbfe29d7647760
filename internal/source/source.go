// Package source defines the health-records store the snapshot is read from,
// and adapters for the stores we can read: in-memory, a SQLite export
// database and a YAML export file.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/thisdougb/healthview/internal/catalog"
	"github.com/thisdougb/healthview/internal/units"
)

var (
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrUnsupportedType     = errors.New("unsupported sample type")
)

// Source is a read-only health-records store.
type Source interface {
	// RequestAuthorization asks for read access to every listed type. It
	// returns ErrAuthorizationDenied (possibly wrapped) on denial.
	RequestAuthorization(ctx context.Context, read []catalog.SampleType) error
	QueryQuantity(ctx context.Context, q Query) ([]QuantitySample, error)
	QueryCategory(ctx context.Context, q Query) ([]CategorySample, error)
	QueryElectrocardiograms(ctx context.Context, q Query) ([]Electrocardiogram, error)
	Close() error
}

// NoLimit asks for every matching sample.
const NoLimit = 0

// SortOrder orders query results by sample start time.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortStartDescending
	SortStartAscending
)

// Query selects samples of one type. Since and Until are an optional
// half-open time range on the sample start; zero values leave a side open.
type Query struct {
	Type  catalog.SampleType
	Since time.Time
	Until time.Time
	Limit int
	Sort  SortOrder
}

func (q Query) matches(start time.Time) bool {
	if !q.Since.IsZero() && start.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !start.Before(q.Until) {
		return false
	}
	return true
}

// QuantitySample is a single numeric measurement.
type QuantitySample struct {
	Type     catalog.SampleType
	Start    time.Time
	End      time.Time
	Quantity units.Quantity
}

// SleepValue is the categorical state of a sleep-analysis sample.
type SleepValue int

const (
	SleepInBed SleepValue = iota
	SleepAsleep
	SleepAwake
	SleepAsleepCore
	SleepAsleepDeep
	SleepAsleepREM
)

var sleepValueNames = map[SleepValue]string{
	SleepInBed:      "inBed",
	SleepAsleep:     "asleep",
	SleepAwake:      "awake",
	SleepAsleepCore: "asleepCore",
	SleepAsleepDeep: "asleepDeep",
	SleepAsleepREM:  "asleepREM",
}

func (v SleepValue) String() string {
	if s, ok := sleepValueNames[v]; ok {
		return s
	}
	return fmt.Sprintf("SleepValue(%d)", int(v))
}

// ParseSleepValue parses the names used by String.
func ParseSleepValue(s string) (SleepValue, error) {
	for v, name := range sleepValueNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown sleep value %q", s)
}

// CategorySample is a single categorical measurement.
type CategorySample struct {
	Type  catalog.SampleType
	Start time.Time
	End   time.Time
	Value SleepValue
}

// Duration is End minus Start.
func (s CategorySample) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Classification is the rhythm classification of an ECG recording.
type Classification int

const (
	ClassificationNotSet Classification = iota
	SinusRhythm
	AtrialFibrillation
	InconclusiveLowHeartRate
	InconclusiveHighHeartRate
	InconclusivePoorReading
	InconclusiveOther
	Unrecognized
)

var classifications = []struct {
	id    string
	label string
}{
	ClassificationNotSet:      {"notSet", "Not Set"},
	SinusRhythm:               {"sinusRhythm", "Sinus Rhythm"},
	AtrialFibrillation:        {"atrialFibrillation", "Atrial Fibrillation"},
	InconclusiveLowHeartRate:  {"inconclusiveLowHeartRate", "Inconclusive Low Heart Rate"},
	InconclusiveHighHeartRate: {"inconclusiveHighHeartRate", "Inconclusive High Heart Rate"},
	InconclusivePoorReading:   {"inconclusivePoorReading", "Inconclusive Poor Reading"},
	InconclusiveOther:         {"inconclusiveOther", "Inconclusive Other"},
	Unrecognized:              {"unrecognized", "Unrecognized"},
}

// String returns the human-readable label.
func (c Classification) String() string {
	if c < 0 || int(c) >= len(classifications) {
		return classifications[Unrecognized].label
	}
	return classifications[c].label
}

// ID returns the stable identifier stored in exports.
func (c Classification) ID() string {
	if c < 0 || int(c) >= len(classifications) {
		return classifications[Unrecognized].id
	}
	return classifications[c].id
}

// ParseClassification parses an export identifier such as "sinusRhythm".
// Unknown identifiers parse as Unrecognized.
func ParseClassification(id string) Classification {
	for i, c := range classifications {
		if c.id == id {
			return Classification(i)
		}
	}
	return Unrecognized
}

// Electrocardiogram is a single ECG recording.
type Electrocardiogram struct {
	Start            time.Time
	End              time.Time
	Classification   Classification
	AverageHeartRate *units.Quantity
}

// applyQuery filters, sorts and limits samples in memory.
func applyQuery[T any](q Query, samples []T, start func(T) time.Time) []T {
	out := make([]T, 0, len(samples))
	for _, s := range samples {
		if q.matches(start(s)) {
			out = append(out, s)
		}
	}

	switch q.Sort {
	case SortStartDescending:
		sort.SliceStable(out, func(i, j int) bool {
			return start(out[i]).After(start(out[j]))
		})
	case SortStartAscending:
		sort.SliceStable(out, func(i, j int) bool {
			return start(out[i]).Before(start(out[j]))
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func isQuantityType(t catalog.SampleType) bool {
	return t != "" && t != catalog.SleepAnalysis && t != catalog.Electrocardiogram
}
