package source

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thisdougb/healthview/internal/catalog"
)

// MemorySource implements Source over samples held in memory.
// Authorization outcome and per-type query failures are configurable, which
// makes it the source for tests and for YAML exports.
type MemorySource struct {
	mu         sync.RWMutex
	authErr    error
	failures   map[catalog.SampleType]error
	quantities []QuantitySample
	categories []CategorySample
	ecgs       []Electrocardiogram
	requested  []catalog.SampleType

	queries      atomic.Int64
	authRequests atomic.Int64
}

// NewMemorySource creates an empty source that grants authorization.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		failures: make(map[catalog.SampleType]error),
	}
}

// Deny makes every later authorization request fail with ErrAuthorizationDenied.
func (m *MemorySource) Deny() {
	m.SetAuthorizationError(ErrAuthorizationDenied)
}

// SetAuthorizationError sets the error returned by RequestAuthorization;
// nil grants access.
func (m *MemorySource) SetAuthorizationError(err error) {
	m.mu.Lock()
	m.authErr = err
	m.mu.Unlock()
}

// FailType makes every query for t fail with err.
func (m *MemorySource) FailType(t catalog.SampleType, err error) {
	m.mu.Lock()
	m.failures[t] = err
	m.mu.Unlock()
}

func (m *MemorySource) AddQuantity(samples ...QuantitySample) {
	m.mu.Lock()
	m.quantities = append(m.quantities, samples...)
	m.mu.Unlock()
}

func (m *MemorySource) AddCategory(samples ...CategorySample) {
	m.mu.Lock()
	m.categories = append(m.categories, samples...)
	m.mu.Unlock()
}

func (m *MemorySource) AddElectrocardiogram(recordings ...Electrocardiogram) {
	m.mu.Lock()
	m.ecgs = append(m.ecgs, recordings...)
	m.mu.Unlock()
}

// QueryCount returns the number of queries issued so far.
func (m *MemorySource) QueryCount() int {
	return int(m.queries.Load())
}

// AuthorizationRequests returns the number of authorization requests.
func (m *MemorySource) AuthorizationRequests() int {
	return int(m.authRequests.Load())
}

// Requested returns the sample types named by the last authorization request.
func (m *MemorySource) Requested() []catalog.SampleType {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]catalog.SampleType(nil), m.requested...)
}

func (m *MemorySource) RequestAuthorization(ctx context.Context, read []catalog.SampleType) error {
	m.authRequests.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append([]catalog.SampleType(nil), read...)
	return m.authErr
}

func (m *MemorySource) QueryQuantity(ctx context.Context, q Query) ([]QuantitySample, error) {
	m.queries.Add(1)
	if !isQuantityType(q.Type) {
		return nil, fmt.Errorf("%w: %q is not a quantity", ErrUnsupportedType, q.Type)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[q.Type]; err != nil {
		return nil, err
	}

	matching := make([]QuantitySample, 0)
	for _, s := range m.quantities {
		if s.Type == q.Type {
			matching = append(matching, s)
		}
	}
	return applyQuery(q, matching, func(s QuantitySample) time.Time { return s.Start }), nil
}

func (m *MemorySource) QueryCategory(ctx context.Context, q Query) ([]CategorySample, error) {
	m.queries.Add(1)
	if q.Type != catalog.SleepAnalysis {
		return nil, fmt.Errorf("%w: %q is not a category", ErrUnsupportedType, q.Type)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[q.Type]; err != nil {
		return nil, err
	}

	matching := make([]CategorySample, 0)
	for _, s := range m.categories {
		if s.Type == q.Type {
			matching = append(matching, s)
		}
	}
	return applyQuery(q, matching, func(s CategorySample) time.Time { return s.Start }), nil
}

func (m *MemorySource) QueryElectrocardiograms(ctx context.Context, q Query) ([]Electrocardiogram, error) {
	m.queries.Add(1)
	if q.Type != "" && q.Type != catalog.Electrocardiogram {
		return nil, fmt.Errorf("%w: %q is not an electrocardiogram", ErrUnsupportedType, q.Type)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[catalog.Electrocardiogram]; err != nil {
		return nil, err
	}

	return applyQuery(q, m.ecgs, func(e Electrocardiogram) time.Time { return e.Start }), nil
}

// Close is a no-op.
func (m *MemorySource) Close() error {
	return nil
}
