package source

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thisdougb/healthview/internal/catalog"
	"github.com/thisdougb/healthview/internal/units"
)

// exportDocument is the YAML layout of a health export file.
type exportDocument struct {
	Authorization      string           `yaml:"authorization"`
	Quantities         []exportQuantity `yaml:"quantities"`
	Categories         []exportCategory `yaml:"categories"`
	Electrocardiograms []exportECG      `yaml:"electrocardiograms"`
}

type exportQuantity struct {
	Type  string    `yaml:"type"`
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
	Value float64   `yaml:"value"`
	Unit  string    `yaml:"unit"`
}

type exportCategory struct {
	Type  string    `yaml:"type"`
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
	Value string    `yaml:"value"`
}

type exportECG struct {
	Start                time.Time `yaml:"start"`
	End                  time.Time `yaml:"end"`
	Classification       string    `yaml:"classification"`
	AverageHeartRate     *float64  `yaml:"average_heart_rate"`
	AverageHeartRateUnit string    `yaml:"average_heart_rate_unit"`
}

// FileSource serves a YAML health export from memory.
type FileSource struct {
	*MemorySource
	path string
}

// LoadFile reads a YAML health export.
func LoadFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	mem, err := ParseExport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &FileSource{MemorySource: mem, path: path}, nil
}

// Path returns the file the export was loaded from.
func (f *FileSource) Path() string {
	return f.path
}

// ParseExport decodes a YAML export into a MemorySource.
func ParseExport(r io.Reader) (*MemorySource, error) {
	var doc exportDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}

	mem := NewMemorySource()

	switch doc.Authorization {
	case "", "granted":
	case "denied":
		mem.Deny()
	default:
		return nil, fmt.Errorf("unknown authorization %q", doc.Authorization)
	}

	for i, q := range doc.Quantities {
		unit, err := units.Parse(q.Unit)
		if err != nil {
			return nil, fmt.Errorf("quantities[%d]: %w", i, err)
		}
		if q.Type == "" {
			return nil, fmt.Errorf("quantities[%d]: type is required", i)
		}
		mem.AddQuantity(QuantitySample{
			Type:     catalog.SampleType(q.Type),
			Start:    q.Start,
			End:      endOrStart(q.Start, q.End),
			Quantity: units.Quantity{Value: q.Value, Unit: unit},
		})
	}

	for i, c := range doc.Categories {
		value, err := ParseSleepValue(c.Value)
		if err != nil {
			return nil, fmt.Errorf("categories[%d]: %w", i, err)
		}
		sampleType := catalog.SampleType(c.Type)
		if sampleType == "" {
			sampleType = catalog.SleepAnalysis
		}
		mem.AddCategory(CategorySample{
			Type:  sampleType,
			Start: c.Start,
			End:   endOrStart(c.Start, c.End),
			Value: value,
		})
	}

	for i, e := range doc.Electrocardiograms {
		ecg := Electrocardiogram{
			Start:          e.Start,
			End:            endOrStart(e.Start, e.End),
			Classification: ParseClassification(e.Classification),
		}
		if e.AverageHeartRate != nil {
			unit := units.CountPerMinute
			if e.AverageHeartRateUnit != "" {
				parsed, err := units.Parse(e.AverageHeartRateUnit)
				if err != nil {
					return nil, fmt.Errorf("electrocardiograms[%d]: %w", i, err)
				}
				unit = parsed
			}
			ecg.AverageHeartRate = &units.Quantity{Value: *e.AverageHeartRate, Unit: unit}
		}
		mem.AddElectrocardiogram(ecg)
	}

	return mem, nil
}

func endOrStart(start, end time.Time) time.Time {
	if end.IsZero() {
		return start
	}
	return end
}
